// Package selector renders KPScript entry selection arguments.
//
// The rules come from https://keepass.info/help/v2_dev/scr_sc_index.html#editentry
package selector

import "strings"

// Field is an entry field name and its value. A slice of fields keeps the
// order in which clauses are rendered.
type Field struct {
	Name  string
	Value string
}

type Select struct {
	clauses []string
}

func New() *Select {
	return &Select{clauses: []string{}}
}

// Fields selects entries whose fields match every given value.
func (s *Select) Fields(fields ...Field) *Select {
	for _, f := range fields {
		s.clauses = append(s.clauses, "-ref-"+Token(f.Name)+":"+Quote(f.Value))
	}
	return s
}

func (s *Select) Field(name, value string) *Select {
	return s.Fields(Field{Name: name, Value: value})
}

func (s *Select) UUID(id string) *Select {
	s.clauses = append(s.clauses, "-refx-UUID:"+Token(id))
	return s
}

func (s *Select) Tags(tags ...string) *Select {
	s.clauses = append(s.clauses, "-refx-Tags:"+Quote(strings.Join(tags, ",")))
	return s
}

// Expires selects entries that expire, or that don't when called with false.
func (s *Select) Expires(flag ...bool) *Select {
	s.clauses = append(s.clauses, "-refx-Expires:"+boolArg(flag))
	return s
}

// Expired selects entries that have expired, or that haven't when called with false.
func (s *Select) Expired(flag ...bool) *Select {
	s.clauses = append(s.clauses, "-refx-Expired:"+boolArg(flag))
	return s
}

func (s *Select) Group(name string) *Select {
	s.clauses = append(s.clauses, "-refx-Group:"+Quote(name))
	return s
}

func (s *Select) GroupPath(segments ...string) *Select {
	s.clauses = append(s.clauses, "-refx-GroupPath:"+Quote(strings.Join(segments, "/")))
	return s
}

func (s *Select) All() *Select {
	s.clauses = append(s.clauses, "-refx-All")
	return s
}

// Len returns the number of clauses added so far.
func (s *Select) Len() int {
	return len(s.clauses)
}

func (s *Select) String() string {
	return strings.Join(s.clauses, " ")
}

func boolArg(flag []bool) string {
	if len(flag) > 0 && !flag[0] {
		return "false"
	}
	return "true"
}
