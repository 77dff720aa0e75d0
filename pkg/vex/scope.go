package vex

import (
	"github.com/benbjohnson/immutable"

	"github.com/vexlang/vex/pkg/vt"
)

// Scope is one branch of stack-effect simulation: a concrete type stack, a
// variable environment, and the inference-variable solutions accumulated so
// far. Forking a branch shares the variable and typemap structures (they
// are persistent maps), copies the stack, and shares the parent links
// read-only, so a fork is cheap no matter how much the branch has bound.
type Scope struct {
	// parents are the enclosing scopes this branch may resolve variables
	// against. A fresh level links to every branch of the level below it,
	// since which of those branches survives is not yet known.
	parents []*Scope

	// stack is the visible type stack; the top is the last entry.
	stack []vt.Type

	// inputs are types presumed to exist below the visible stack: the
	// parameters this block has retroactively discovered it needs.
	inputs []vt.Type

	// variables maps Identifier.String() to vt.Type.
	variables *immutable.SortedMap

	// typemap maps inference-variable IDs to their resolved vt.Type, or to
	// nil while unresolved.
	typemap *immutable.SortedMap

	allowInference bool

	fresh *vt.Fresher
}

// NewScope begins a fresh branch. fresh must be shared across every branch
// of one analysis so inference-variable IDs stay unique program-wide.
func NewScope(parents []*Scope, fresh *vt.Fresher) *Scope {
	return &Scope{
		parents:        parents,
		variables:      immutable.NewSortedMap(nil),
		typemap:        immutable.NewSortedMap(nil),
		allowInference: true,
		fresh:          fresh,
	}
}

// DisableInference makes Apply always resolve eagerly in this branch.
func (s *Scope) DisableInference() { s.allowInference = false }

// fork clones the branch. Parent links and the persistent maps are shared;
// the stack and inputs are copied since each fork mutates them separately.
func (s *Scope) fork() *Scope {
	cp := *s
	cp.stack = make([]vt.Type, len(s.stack))
	copy(cp.stack, s.stack)
	cp.inputs = make([]vt.Type, len(s.inputs))
	copy(cp.inputs, s.inputs)
	return &cp
}

func (s *Scope) Stack() []vt.Type  { return s.stack }
func (s *Scope) Inputs() []vt.Type { return s.inputs }

// Push appends a type to the stack. It cannot fail.
func (s *Scope) Push(t vt.Type) {
	s.stack = append(s.stack, t)
}

// Pop removes up to n trailing entries. Popping more than the stack holds
// clears it entirely; underflow is deliberately not an error, because a
// block may legally consume values its caller has not pushed yet.
func (s *Scope) Pop(n int) {
	if n >= len(s.stack) {
		s.stack = s.stack[:0]
		return
	}
	s.stack = s.stack[:len(s.stack)-n]
}

// SetVariable pops the top of the stack and binds name to it. On an empty
// stack it instead binds name to a fresh inference variable and records it
// unresolved: this is how a block infers its own parameter types from first
// use, before any caller has committed to a signature.
func (s *Scope) SetVariable(name Identifier) {
	var t vt.Type
	if len(s.stack) > 0 {
		t = s.stack[len(s.stack)-1]
		s.Pop(1)
	} else {
		v := s.fresh.Fresh()
		s.typemap = s.typemap.Set(v.ID, nil)
		t = v
	}
	s.variables = s.variables.Set(name.String(), t)
}

// VariableType looks name up in this branch, then in the parent chain.
// Stack contents never leak across scopes; only variable bindings do.
func (s *Scope) VariableType(name Identifier) (vt.Type, error) {
	if v, ok := s.variables.Get(name.String()); ok {
		return v.(vt.Type), nil
	}
	for _, p := range s.parents {
		if t, err := p.VariableType(name); err == nil {
			return t, nil
		}
	}
	return nil, VariableNotFoundError{Name: name}
}

// PushVariable pushes the type bound to name onto the stack.
func (s *Scope) PushVariable(name Identifier) error {
	t, err := s.VariableType(name)
	if err != nil {
		return err
	}
	s.Push(t)
	return nil
}

// Resolve records a solution for an inference variable.
func (s *Scope) Resolve(v vt.InferenceVar, t vt.Type) {
	s.typemap = s.typemap.Set(v.ID, t)
}

// Resolution returns the solution for an inference variable: the resolved
// type, whether the variable is known at all, and whether it is resolved.
func (s *Scope) Resolution(v vt.InferenceVar) (vt.Type, bool, bool) {
	raw, known := s.typemap.Get(v.ID)
	if !known {
		return nil, false, false
	}
	if raw == nil {
		return nil, true, false
	}
	return raw.(vt.Type), true, true
}

// Apply dispatches an overload set against this branch. When the stack
// already holds enough entries for the narrowest candidate, or inference is
// disabled, resolution is eager (execute); otherwise every candidate that
// could fit forks its own hypothetical continuation (infer).
//
// The successor list is the branch's future: empty means the branch is
// contradicted and should be pruned. A non-nil error is fatal for the whole
// analysis, not just this branch.
func (s *Scope) Apply(name Identifier, overloads []*Overload) ([]*Scope, error) {
	narrowest := overloads[0].Arity()
	for _, o := range overloads[1:] {
		if o.Arity() < narrowest {
			narrowest = o.Arity()
		}
	}
	if len(s.stack) >= narrowest || !s.allowInference {
		return s.execute(name, overloads)
	}
	return s.infer(name, overloads)
}

// execute resolves eagerly: exactly one candidate is chosen and applied in
// place. Zero fitting candidates prunes the branch; an ambiguous tie is
// fatal, since silently picking one would commit the program to a guess.
func (s *Scope) execute(name Identifier, overloads []*Overload) ([]*Scope, error) {
	var fitting []*Overload
	for _, o := range overloads {
		ok, err := o.Fits(s.stack)
		if err != nil {
			return nil, err
		}
		if ok {
			fitting = append(fitting, o)
		}
	}
	if len(fitting) == 0 {
		return nil, nil
	}
	chosen, err := ChooseOverload(name, fitting, s.stack)
	if err != nil {
		return nil, err
	}
	s.Pop(chosen.Arity())
	s.stack = append(s.stack, chosen.Returns...)
	return []*Scope{s}, nil
}

// infer forks one successor per candidate that could fit. A candidate
// deeper than the visible stack materializes its leading parameters as new
// inputs: the block is discovering, retroactively, that it needs them.
func (s *Scope) infer(name Identifier, overloads []*Overload) ([]*Scope, error) {
	var successors []*Scope
	for _, o := range overloads {
		visible := len(s.stack)
		deficit := o.Arity() - visible
		if deficit <= 0 {
			ok, err := o.Fits(s.stack)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			next := s.fork()
			next.Pop(o.Arity())
			next.stack = append(next.stack, o.Returns...)
			successors = append(successors, next)
			continue
		}

		// The visible stack must match the trailing parameters; the top of
		// the stack is the last parameter.
		ok := true
		for i := 0; i < visible; i++ {
			compat, err := vt.Compatible(o.Params[deficit+i], s.stack[i])
			if err != nil {
				return nil, err
			}
			if !compat {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		next := s.fork()
		next.inputs = append(next.inputs, o.Params[:deficit]...)
		next.stack = next.stack[:0]
		next.stack = append(next.stack, o.Returns...)
		successors = append(successors, next)
	}
	return successors, nil
}

// AsOverload converts a finished branch into a reusable signature: the
// inputs it discovered it needed become the parameters, and whatever
// remains on the stack becomes the returns.
func (s *Scope) AsOverload() *Overload {
	params := make([]vt.Type, len(s.inputs))
	copy(params, s.inputs)
	returns := make([]vt.Type, len(s.stack))
	copy(returns, s.stack)
	return NewOverload(params, returns)
}
