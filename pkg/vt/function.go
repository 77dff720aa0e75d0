package vt

import (
	"fmt"
	"strings"
)

// WhereClause constrains a generic parameter of a function type.
type WhereClause struct {
	Var   string
	Bound Type
}

func (w WhereClause) String() string {
	return fmt.Sprintf("%s: %s", w.Var, w.Bound)
}

// Function is a first-class function type: the stack values it consumes and
// the values it produces, plus any generic parameters and their bounds.
type Function struct {
	HigherOrder bool
	Generics    []string
	Params      []Type
	Returns     []Type
	Where       []WhereClause
	tags        TagSet
}

var _ Type = Function{}

func NewFunction(params, returns []Type) Function {
	return Function{Params: params, Returns: returns}
}

func (t Function) Name() string { return "Function" }

func (t Function) String() string {
	var sb strings.Builder
	if t.HigherOrder {
		sb.WriteString("^")
	}
	sb.WriteString("(")
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(" -> ")
	for i, r := range t.Returns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.String())
	}
	sb.WriteString(")")
	if len(t.Where) > 0 {
		sb.WriteString(" where ")
		for i, w := range t.Where {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(w.String())
		}
	}
	return t.tags.decorate(sb.String())
}

func (t Function) Tags() TagSet { return t.tags }

func (t Function) WithTags(tags ...Tag) Type {
	cp := t
	cp.tags = t.tags.with(tags...)
	return cp
}

func (t Function) WithoutTags() Type {
	cp := t
	cp.tags = nil
	return cp
}

func (t Function) StructuralEq(other Type) (bool, error) {
	ot, ok := other.(Function)
	if !ok {
		return false, nil
	}
	if t.HigherOrder != ot.HigherOrder ||
		len(t.Params) != len(ot.Params) ||
		len(t.Returns) != len(ot.Returns) {
		return false, nil
	}
	for i, p := range t.Params {
		eq, err := p.StructuralEq(ot.Params[i])
		if err != nil || !eq {
			return false, err
		}
	}
	for i, r := range t.Returns {
		eq, err := r.StructuralEq(ot.Returns[i])
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (t Function) Eq(other Type) bool {
	ot, ok := other.(Function)
	if !ok || !t.tags.Equal(ot.tags) {
		return false
	}
	eq, err := t.StructuralEq(ot.WithoutTags())
	return err == nil && eq
}
