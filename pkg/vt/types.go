package vt

import (
	"fmt"
	"strconv"
)

// Type is a value in the vex type algebra. Types are immutable; every
// "mutating" operation returns a copy. Two equality relations exist:
//
//   - StructuralEq ignores tags and decides overload compatibility. It can
//     fail: comparing two dependent list ranks has no defined answer.
//   - Eq is StructuralEq plus tag-set equality, and never errors (an
//     undecidable rank comparison is simply not equal under Eq).
type Type interface {
	Name() string
	Tags() TagSet
	WithTags(tags ...Tag) Type
	WithoutTags() Type
	StructuralEq(Type) (bool, error)
	Eq(Type) bool
	fmt.Stringer
}

// Number is the numeric scalar type.
type Number struct {
	tags TagSet
}

var _ Type = Number{}

func (t Number) Name() string   { return "Number" }
func (t Number) String() string { return t.tags.decorate("Number") }
func (t Number) Tags() TagSet   { return t.tags }

func (t Number) WithTags(tags ...Tag) Type {
	return Number{tags: t.tags.with(tags...)}
}

func (t Number) WithoutTags() Type { return Number{} }

func (t Number) StructuralEq(other Type) (bool, error) {
	_, ok := other.(Number)
	return ok, nil
}

func (t Number) Eq(other Type) bool {
	ot, ok := other.(Number)
	return ok && t.tags.Equal(ot.tags)
}

// String is the textual scalar type.
type String struct {
	tags TagSet
}

var _ Type = String{}

func (t String) Name() string   { return "String" }
func (t String) String() string { return t.tags.decorate("String") }
func (t String) Tags() TagSet   { return t.tags }

func (t String) WithTags(tags ...Tag) Type {
	return String{tags: t.tags.with(tags...)}
}

func (t String) WithoutTags() Type { return String{} }

func (t String) StructuralEq(other Type) (bool, error) {
	_, ok := other.(String)
	return ok, nil
}

func (t String) Eq(other Type) bool {
	ot, ok := other.(String)
	return ok && t.tags.Equal(ot.tags)
}

// InferenceVar is a placeholder awaiting a concrete binding. Each one is
// identified by the serial number handed out by its Fresher.
type InferenceVar struct {
	ID   int
	tags TagSet
}

var _ Type = InferenceVar{}

func (t InferenceVar) Name() string   { return "?" + strconv.Itoa(t.ID) }
func (t InferenceVar) String() string { return t.tags.decorate(t.Name()) }
func (t InferenceVar) Tags() TagSet   { return t.tags }

func (t InferenceVar) WithTags(tags ...Tag) Type {
	return InferenceVar{ID: t.ID, tags: t.tags.with(tags...)}
}

func (t InferenceVar) WithoutTags() Type { return InferenceVar{ID: t.ID} }

func (t InferenceVar) StructuralEq(other Type) (bool, error) {
	ot, ok := other.(InferenceVar)
	return ok && t.ID == ot.ID, nil
}

func (t InferenceVar) Eq(other Type) bool {
	ot, ok := other.(InferenceVar)
	return ok && t.ID == ot.ID && t.tags.Equal(ot.tags)
}

// Fresher hands out inference variables with unique serial numbers.
type Fresher struct {
	next int
}

func (f *Fresher) Fresh() InferenceVar {
	v := InferenceVar{ID: f.next}
	f.next++
	return v
}

// BadType is the poison value produced when type derivation fails. It never
// matches anything, including itself, so a poisoned stack cannot satisfy an
// overload by accident.
type BadType struct {
	Reason string
	tags   TagSet
}

var _ Type = BadType{}

func (t BadType) Name() string   { return "Error" }
func (t BadType) String() string { return t.tags.decorate("Error") }
func (t BadType) Tags() TagSet   { return t.tags }

func (t BadType) WithTags(tags ...Tag) Type {
	return BadType{Reason: t.Reason, tags: t.tags.with(tags...)}
}

func (t BadType) WithoutTags() Type { return BadType{Reason: t.Reason} }

func (t BadType) StructuralEq(other Type) (bool, error) { return false, nil }

func (t BadType) Eq(other Type) bool { return false }

// Custom is a named user-defined type, possibly with generic arguments.
type Custom struct {
	Named    string
	Generics []Type
	tags     TagSet
}

var _ Type = Custom{}

func NewCustom(name string, generics ...Type) Custom {
	return Custom{Named: name, Generics: generics}
}

func (t Custom) Name() string { return t.Named }

func (t Custom) String() string {
	s := t.Named
	if len(t.Generics) > 0 {
		s += "<"
		for i, g := range t.Generics {
			if i > 0 {
				s += ", "
			}
			s += g.String()
		}
		s += ">"
	}
	return t.tags.decorate(s)
}

func (t Custom) Tags() TagSet { return t.tags }

func (t Custom) WithTags(tags ...Tag) Type {
	return Custom{Named: t.Named, Generics: t.Generics, tags: t.tags.with(tags...)}
}

func (t Custom) WithoutTags() Type {
	return Custom{Named: t.Named, Generics: t.Generics}
}

func (t Custom) StructuralEq(other Type) (bool, error) {
	ot, ok := other.(Custom)
	if !ok || t.Named != ot.Named || len(t.Generics) != len(ot.Generics) {
		return false, nil
	}
	for i, g := range t.Generics {
		eq, err := g.StructuralEq(ot.Generics[i])
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (t Custom) Eq(other Type) bool {
	ot, ok := other.(Custom)
	if !ok || !t.tags.Equal(ot.tags) {
		return false
	}
	eq, err := t.StructuralEq(ot.WithoutTags())
	return err == nil && eq
}
