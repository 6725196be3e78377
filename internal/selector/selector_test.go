package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		build    func(s *Select) *Select
		expected string
	}{
		{"empty", func(s *Select) *Select { return s }, ""},
		{"field", func(s *Select) *Select { return s.Field("Field", "Value") }, `-ref-Field:"Value"`},
		{
			"fields",
			func(s *Select) *Select {
				return s.Fields(Field{"Field1", "Value1"}, Field{"Field2", "Value2"})
			},
			`-ref-Field1:"Value1" -ref-Field2:"Value2"`,
		},
		{
			"chained fields",
			func(s *Select) *Select { return s.Field("Field1", "Value1").Field("Field2", "Value2") },
			`-ref-Field1:"Value1" -ref-Field2:"Value2"`,
		},
		{"uuid", func(s *Select) *Select { return s.UUID("MyUUID") }, "-refx-UUID:MyUUID"},
		{"tags", func(s *Select) *Select { return s.Tags("tag1", "tag2") }, `-refx-Tags:"tag1,tag2"`},
		{"tags from slice", func(s *Select) *Select { return s.Tags([]string{"tag1", "tag2"}...) }, `-refx-Tags:"tag1,tag2"`},
		{"expires", func(s *Select) *Select { return s.Expires() }, "-refx-Expires:true"},
		{"expires false", func(s *Select) *Select { return s.Expires(false) }, "-refx-Expires:false"},
		{"expired", func(s *Select) *Select { return s.Expired() }, "-refx-Expired:true"},
		{"expired false", func(s *Select) *Select { return s.Expired(false) }, "-refx-Expired:false"},
		{"group", func(s *Select) *Select { return s.Group("MyGroup") }, `-refx-Group:"MyGroup"`},
		{
			"group path",
			func(s *Select) *Select { return s.GroupPath("Group1", "Group2", "Group3") },
			`-refx-GroupPath:"Group1/Group2/Group3"`,
		},
		{"all", func(s *Select) *Select { return s.All() }, "-refx-All"},
		{
			"everything chained",
			func(s *Select) *Select {
				return s.
					Group("MyGroup").
					Expires().
					Expired(false).
					Tags("MyTag").
					Field("Field", "Value").
					UUID("MyUUID").
					GroupPath("Group1", "Group2").
					All().
					Fields(Field{"Field1", "Value1"}, Field{"Field2", "Value2"})
			},
			`-refx-Group:"MyGroup" -refx-Expires:true -refx-Expired:false -refx-Tags:"MyTag" -ref-Field:"Value" -refx-UUID:MyUUID -refx-GroupPath:"Group1/Group2" -refx-All -ref-Field1:"Value1" -ref-Field2:"Value2"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.build(New()).String())
		})
	}
}

func TestSelectReturnsReceiver(t *testing.T) {
	s := New()
	assert.Same(t, s, s.All())
	assert.Same(t, s, s.Field("Title", "x").UUID("y").Tags().Group("g").GroupPath().Expires().Expired())
}

func TestSelectRendersRepeatedly(t *testing.T) {
	s := New().Field("Title", "MyEntryTitle")
	assert.Equal(t, s.String(), s.String())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, `-ref-Title:"MyEntryTitle"`, s.String())
}
