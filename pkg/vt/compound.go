package vt

import (
	"fmt"
	"strings"
)

// List is the ranked container type. Rank constrains how deeply nested the
// list is; see Rank for the constraint kinds.
type List struct {
	Elem Type
	Rank Rank
	tags TagSet
}

var _ Type = List{}

// NewList builds an unconstrained ("rugged") list of elem.
func NewList(elem Type) List { return List{Elem: elem, Rank: Rugged()} }

func NewRankedList(elem Type, rank Rank) List { return List{Elem: elem, Rank: rank} }

func (t List) Name() string { return "List" }

func (t List) String() string {
	return t.tags.decorate(fmt.Sprintf("[%s; %s]", t.Elem, t.Rank))
}

func (t List) Tags() TagSet { return t.tags }

func (t List) WithTags(tags ...Tag) Type {
	return List{Elem: t.Elem, Rank: t.Rank, tags: t.tags.with(tags...)}
}

func (t List) WithoutTags() Type { return List{Elem: t.Elem, Rank: t.Rank} }

func (t List) StructuralEq(other Type) (bool, error) {
	ot, ok := other.(List)
	if !ok {
		return false, nil
	}
	rankEq, err := t.Rank.eq(ot.Rank)
	if err != nil {
		return false, err
	}
	if !rankEq {
		return false, nil
	}
	return t.Elem.StructuralEq(ot.Elem)
}

func (t List) Eq(other Type) bool {
	ot, ok := other.(List)
	if !ok || !t.tags.Equal(ot.tags) {
		return false
	}
	eq, err := t.StructuralEq(ot.WithoutTags())
	return err == nil && eq
}

// Tuple is a fixed-shape heterogeneous sequence.
type Tuple struct {
	Elems []Type
	tags  TagSet
}

var _ Type = Tuple{}

func NewTuple(elems ...Type) Tuple { return Tuple{Elems: elems} }

func (t Tuple) Name() string { return "Tuple" }

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return t.tags.decorate("(" + strings.Join(parts, ", ") + ")")
}

func (t Tuple) Tags() TagSet { return t.tags }

func (t Tuple) WithTags(tags ...Tag) Type {
	return Tuple{Elems: t.Elems, tags: t.tags.with(tags...)}
}

func (t Tuple) WithoutTags() Type { return Tuple{Elems: t.Elems} }

func (t Tuple) StructuralEq(other Type) (bool, error) {
	ot, ok := other.(Tuple)
	if !ok || len(t.Elems) != len(ot.Elems) {
		return false, nil
	}
	for i, e := range t.Elems {
		eq, err := e.StructuralEq(ot.Elems[i])
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (t Tuple) Eq(other Type) bool {
	ot, ok := other.(Tuple)
	if !ok || !t.tags.Equal(ot.tags) {
		return false
	}
	eq, err := t.StructuralEq(ot.WithoutTags())
	return err == nil && eq
}

// Dictionary maps keys to values.
type Dictionary struct {
	Key   Type
	Value Type
	tags  TagSet
}

var _ Type = Dictionary{}

func NewDictionary(key, value Type) Dictionary { return Dictionary{Key: key, Value: value} }

func (t Dictionary) Name() string { return "Dictionary" }

func (t Dictionary) String() string {
	return t.tags.decorate(fmt.Sprintf("{%s: %s}", t.Key, t.Value))
}

func (t Dictionary) Tags() TagSet { return t.tags }

func (t Dictionary) WithTags(tags ...Tag) Type {
	return Dictionary{Key: t.Key, Value: t.Value, tags: t.tags.with(tags...)}
}

func (t Dictionary) WithoutTags() Type { return Dictionary{Key: t.Key, Value: t.Value} }

func (t Dictionary) StructuralEq(other Type) (bool, error) {
	ot, ok := other.(Dictionary)
	if !ok {
		return false, nil
	}
	eq, err := t.Key.StructuralEq(ot.Key)
	if err != nil || !eq {
		return false, err
	}
	return t.Value.StructuralEq(ot.Value)
}

func (t Dictionary) Eq(other Type) bool {
	ot, ok := other.(Dictionary)
	if !ok || !t.tags.Equal(ot.tags) {
		return false
	}
	eq, err := t.StructuralEq(ot.WithoutTags())
	return err == nil && eq
}

// Optional wraps a type that may be absent.
type Optional struct {
	Elem Type
	tags TagSet
}

var _ Type = Optional{}

func NewOptional(elem Type) Optional { return Optional{Elem: elem} }

func (t Optional) Name() string { return "Optional" }

func (t Optional) String() string {
	return t.tags.decorate(t.Elem.String() + "?")
}

func (t Optional) Tags() TagSet { return t.tags }

func (t Optional) WithTags(tags ...Tag) Type {
	return Optional{Elem: t.Elem, tags: t.tags.with(tags...)}
}

func (t Optional) WithoutTags() Type { return Optional{Elem: t.Elem} }

func (t Optional) StructuralEq(other Type) (bool, error) {
	ot, ok := other.(Optional)
	if !ok {
		return false, nil
	}
	return t.Elem.StructuralEq(ot.Elem)
}

func (t Optional) Eq(other Type) bool {
	ot, ok := other.(Optional)
	if !ok || !t.tags.Equal(ot.tags) {
		return false
	}
	eq, err := t.StructuralEq(ot.WithoutTags())
	return err == nil && eq
}
