package vt

import (
	"sort"
	"strings"
)

// Tag is a non-structural annotation recording where a type came from or
// what role it plays. Tags never participate in overload matching; they
// exist for diagnostics and downstream consumers.
type Tag int

const (
	TagConstructed Tag = iota
	TagComputed
	TagVariant
	TagElement
	TagCompanion
)

var tagNames = map[Tag]string{
	TagConstructed: "constructed",
	TagComputed:    "computed",
	TagVariant:     "variant",
	TagElement:     "element",
	TagCompanion:   "companion",
}

func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return "unknown"
}

// TagSet is a small ordered set of tags. The zero value is the empty set.
type TagSet []Tag

func (s TagSet) Has(t Tag) bool {
	for _, x := range s {
		if x == t {
			return true
		}
	}
	return false
}

func (s TagSet) Equal(other TagSet) bool {
	if len(s) != len(other) {
		return false
	}
	for _, t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// with returns a copy of s extended with the given tags, deduplicated and
// kept sorted so that String output is stable.
func (s TagSet) with(tags ...Tag) TagSet {
	out := make(TagSet, len(s), len(s)+len(tags))
	copy(out, s)
	for _, t := range tags {
		if !out.Has(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// decorate renders a type name with its tag annotations, if any.
func (s TagSet) decorate(name string) string {
	if len(s) == 0 {
		return name
	}
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return name + " @" + strings.Join(parts, ",")
}
