package vex

import (
	"strings"

	"github.com/vexlang/vex/pkg/vt"
)

// Overload is one callable signature among several sharing a name. It is an
// immutable record; Arity and Multiplicity are derived, never stored, so
// they cannot drift from the parameter and return lists.
type Overload struct {
	Params  []vt.Type
	Returns []vt.Type
}

func NewOverload(params, returns []vt.Type) *Overload {
	return &Overload{Params: params, Returns: returns}
}

// Arity is the number of stack values the overload consumes.
func (o *Overload) Arity() int { return len(o.Params) }

// Multiplicity is the number of values the overload produces.
func (o *Overload) Multiplicity() int { return len(o.Returns) }

func (o *Overload) String() string {
	params := make([]string, len(o.Params))
	for i, p := range o.Params {
		params[i] = p.String()
	}
	returns := make([]string, len(o.Returns))
	for i, r := range o.Returns {
		returns[i] = r.String()
	}
	return "(" + strings.Join(params, ", ") + " -> " + strings.Join(returns, ", ") + ")"
}

// AsFunction converts the signature into a first-class function type.
func (o *Overload) AsFunction() vt.Function {
	return vt.NewFunction(o.Params, o.Returns)
}

// Fits reports whether the top Arity entries of stack are pairwise
// compatible with the parameter list. The convention throughout the engine
// is that the top of the stack corresponds to the LAST parameter: operands
// are pushed left to right, so the first parameter sits deepest.
func (o *Overload) Fits(stack []vt.Type) (bool, error) {
	arity := o.Arity()
	if len(stack) < arity {
		return false, nil
	}
	base := len(stack) - arity
	for i, param := range o.Params {
		ok, err := vt.Compatible(param, stack[base+i])
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// ChooseOverload selects the most specific fitting candidate.
//
// Specificity is positionwise: candidate A dominates B when every parameter
// position of A scores at least as high as B's (vt.Specificity) and at
// least one scores strictly higher. A unique non-dominated candidate wins.
// Several survivors with nothing to separate them is AmbiguousOverloadError;
// no fitting candidate at all is NoMatchingOverloadError. The two must stay
// distinct: callers prune branches on the latter but abort on the former.
func ChooseOverload(name Identifier, candidates []*Overload, stack []vt.Type) (*Overload, error) {
	var fitting []*Overload
	for _, cand := range candidates {
		ok, err := cand.Fits(stack)
		if err != nil {
			return nil, err
		}
		if ok {
			fitting = append(fitting, cand)
		}
	}
	if len(fitting) == 0 {
		return nil, NoMatchingOverloadError{Name: name, Stack: stack}
	}
	if len(fitting) == 1 {
		return fitting[0], nil
	}

	var survivors []*Overload
	for _, cand := range fitting {
		dominated := false
		for _, other := range fitting {
			if other != cand && dominates(other, cand) {
				dominated = true
				break
			}
		}
		if !dominated {
			survivors = append(survivors, cand)
		}
	}
	if len(survivors) == 1 {
		return survivors[0], nil
	}
	return nil, AmbiguousOverloadError{Name: name, Candidates: survivors}
}

// dominates reports whether a is strictly more specific than b. Only
// candidates of equal arity are comparable; higher arity never trumps a
// better type match.
func dominates(a, b *Overload) bool {
	if a.Arity() != b.Arity() {
		return false
	}
	strict := false
	for i := range a.Params {
		sa, sb := vt.Specificity(a.Params[i]), vt.Specificity(b.Params[i])
		if sa < sb {
			return false
		}
		if sa > sb {
			strict = true
		}
	}
	return strict
}
