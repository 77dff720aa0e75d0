package vt

import "fmt"

// Union is a value that may be either of two types.
type Union struct {
	Left  Type
	Right Type
	tags  TagSet
}

var _ Type = Union{}

func NewUnion(left, right Type) Union { return Union{Left: left, Right: right} }

func (t Union) Name() string { return "Union" }

func (t Union) String() string {
	return t.tags.decorate(fmt.Sprintf("%s | %s", t.Left, t.Right))
}

func (t Union) Tags() TagSet { return t.tags }

func (t Union) WithTags(tags ...Tag) Type {
	return Union{Left: t.Left, Right: t.Right, tags: t.tags.with(tags...)}
}

func (t Union) WithoutTags() Type { return Union{Left: t.Left, Right: t.Right} }

// Members flattens nested unions into their leaf alternatives.
func (t Union) Members() []Type {
	var out []Type
	for _, side := range []Type{t.Left, t.Right} {
		if u, ok := side.(Union); ok {
			out = append(out, u.Members()...)
		} else {
			out = append(out, side)
		}
	}
	return out
}

func (t Union) StructuralEq(other Type) (bool, error) {
	ot, ok := other.(Union)
	if !ok {
		return false, nil
	}
	eq, err := t.Left.StructuralEq(ot.Left)
	if err != nil || !eq {
		return false, err
	}
	return t.Right.StructuralEq(ot.Right)
}

func (t Union) Eq(other Type) bool {
	ot, ok := other.(Union)
	if !ok || !t.tags.Equal(ot.tags) {
		return false
	}
	eq, err := t.StructuralEq(ot.WithoutTags())
	return err == nil && eq
}

// Intersection is a value that satisfies both of two types at once.
type Intersection struct {
	Left  Type
	Right Type
	tags  TagSet
}

var _ Type = Intersection{}

func NewIntersection(left, right Type) Intersection {
	return Intersection{Left: left, Right: right}
}

func (t Intersection) Name() string { return "Intersection" }

func (t Intersection) String() string {
	return t.tags.decorate(fmt.Sprintf("%s & %s", t.Left, t.Right))
}

func (t Intersection) Tags() TagSet { return t.tags }

func (t Intersection) WithTags(tags ...Tag) Type {
	return Intersection{Left: t.Left, Right: t.Right, tags: t.tags.with(tags...)}
}

func (t Intersection) WithoutTags() Type {
	return Intersection{Left: t.Left, Right: t.Right}
}

func (t Intersection) StructuralEq(other Type) (bool, error) {
	ot, ok := other.(Intersection)
	if !ok {
		return false, nil
	}
	eq, err := t.Left.StructuralEq(ot.Left)
	if err != nil || !eq {
		return false, err
	}
	return t.Right.StructuralEq(ot.Right)
}

func (t Intersection) Eq(other Type) bool {
	ot, ok := other.(Intersection)
	if !ok || !t.tags.Equal(ot.tags) {
		return false
	}
	eq, err := t.StructuralEq(ot.WithoutTags())
	return err == nil && eq
}
