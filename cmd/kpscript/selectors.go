package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carved4/go-kpscript/internal/selector"
	"github.com/spf13/cobra"
)

// selectorFlags are the entry selection flags shared by entries and edit.
type selectorFlags struct {
	all       bool
	title     string
	uuid      string
	tags      []string
	group     string
	groupPath string
	expires   bool
	expired   bool
	where     []string
}

func (s *selectorFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&s.all, "all", false, "select every entry")
	f.StringVar(&s.title, "title", "", "select entries by title")
	f.StringVar(&s.uuid, "uuid", "", "select the entry with this UUID")
	f.StringSliceVar(&s.tags, "tag", nil, "select entries with these tags")
	f.StringVar(&s.group, "group", "", "select entries of a group")
	f.StringVar(&s.groupPath, "group-path", "", "select entries under a group path, e.g. Internet/Mail")
	f.BoolVar(&s.expires, "expires", false, "select entries that expire (--expires=false for those that don't)")
	f.BoolVar(&s.expired, "expired", false, "select expired entries (--expired=false for the others)")
	f.StringArrayVar(&s.where, "where", nil, "select entries by field, as Name=Value (repeatable)")
}

// build turns the flags into a selector. The flags are applied in a fixed
// order so that the same flags always produce the same command line.
func (s *selectorFlags) build(cmd *cobra.Command) (*selector.Select, error) {
	sel := selector.New()
	if s.title != "" {
		sel.Field("Title", s.title)
	}
	fields, err := parseAssignments(s.where)
	if err != nil {
		return nil, err
	}
	sel.Fields(fields...)
	if s.uuid != "" {
		sel.UUID(s.uuid)
	}
	if len(s.tags) > 0 {
		sel.Tags(s.tags...)
	}
	if cmd.Flags().Changed("expires") {
		sel.Expires(s.expires)
	}
	if cmd.Flags().Changed("expired") {
		sel.Expired(s.expired)
	}
	if s.group != "" {
		sel.Group(s.group)
	}
	if s.groupPath != "" {
		sel.GroupPath(strings.Split(s.groupPath, "/")...)
	}
	if s.all {
		sel.All()
	}
	if sel.Len() == 0 {
		return nil, errors.New("no entry selected, use --all to select every entry")
	}
	return sel, nil
}

func parseAssignments(values []string) ([]selector.Field, error) {
	fields := make([]selector.Field, 0, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field '%s', expected Name=Value", v)
		}
		fields = append(fields, selector.Field{Name: name, Value: value})
	}
	return fields, nil
}
