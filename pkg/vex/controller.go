package vex

import (
	"github.com/vexlang/vex/pkg/vt"
)

// DefaultMaxBranches caps how many parallel branches one level may hold.
// Every ambiguous apply can multiply the branch count, so an unlucky chain
// of polymorphic calls grows geometrically without a cap.
const DefaultMaxBranches = 64

// ScopeController orchestrates the multiverse: a stack of levels, each a
// non-empty set of parallel Scope branches. Stack operations broadcast to
// every branch of the top level; Apply replaces the top level wholesale,
// since one step can both fork new branches and prune contradicted ones.
type ScopeController struct {
	levels      [][]*Scope
	fresh       vt.Fresher
	maxBranches int
}

func NewScopeController(maxBranches int) *ScopeController {
	if maxBranches <= 0 {
		maxBranches = DefaultMaxBranches
	}
	return &ScopeController{maxBranches: maxBranches}
}

// Fresher exposes the controller's inference-variable allocator.
func (c *ScopeController) Fresher() *vt.Fresher { return &c.fresh }

// Depth is the number of open levels.
func (c *ScopeController) Depth() int { return len(c.levels) }

// Branches returns the live branches of the top level.
func (c *ScopeController) Branches() []*Scope {
	if len(c.levels) == 0 {
		return nil
	}
	return c.levels[len(c.levels)-1]
}

// CreateScope opens a new level with a single branch. The branch's parent
// set is every branch of the level below: which of those survives is not
// decided yet, so variable lookup must be answerable against any of them.
func (c *ScopeController) CreateScope(inputs []vt.Type) *Scope {
	var parents []*Scope
	if len(c.levels) > 0 {
		parents = c.levels[len(c.levels)-1]
	}
	s := NewScope(parents, &c.fresh)
	s.inputs = append(s.inputs, inputs...)
	s.stack = append(s.stack, inputs...)
	c.levels = append(c.levels, []*Scope{s})
	return s
}

// PopScope closes the top level and returns its surviving branches.
func (c *ScopeController) PopScope() []*Scope {
	if len(c.levels) == 0 {
		return nil
	}
	top := c.levels[len(c.levels)-1]
	c.levels = c.levels[:len(c.levels)-1]
	return top
}

// Push broadcasts a push to every branch of the top level.
func (c *ScopeController) Push(t vt.Type) {
	for _, s := range c.Branches() {
		s.Push(t)
	}
}

// Pop broadcasts a pop to every branch of the top level.
func (c *ScopeController) Pop(n int) {
	for _, s := range c.Branches() {
		s.Pop(n)
	}
}

// SetVariable broadcasts a variable binding to every branch.
func (c *ScopeController) SetVariable(name Identifier) {
	for _, s := range c.Branches() {
		s.SetVariable(name)
	}
}

// PushVariable pushes a variable's type in every branch. Branches that
// cannot resolve the name are pruned; if none can, the error surfaces.
func (c *ScopeController) PushVariable(name Identifier) error {
	branches := c.Branches()
	var survivors []*Scope
	var lastErr error
	for _, s := range branches {
		if err := s.PushVariable(name); err != nil {
			lastErr = err
			continue
		}
		survivors = append(survivors, s)
	}
	if len(survivors) == 0 {
		if lastErr == nil {
			lastErr = VariableNotFoundError{Name: name}
		}
		return lastErr
	}
	c.levels[len(c.levels)-1] = survivors
	return nil
}

// Apply invokes Scope.Apply on every branch of the top level and replaces
// the level with the concatenated successors. An empty result set means no
// overload fits in any branch, which is fatal: analysis must not continue
// with an empty level or a partially-typed program.
func (c *ScopeController) Apply(name Identifier, overloads []*Overload) error {
	if len(overloads) == 0 {
		return NoMatchingOverloadError{Name: name}
	}
	branches := c.Branches()
	next := make([]*Scope, 0, len(branches))
	for _, s := range branches {
		successors, err := s.Apply(name, overloads)
		if err != nil {
			return err
		}
		next = append(next, successors...)
	}
	if len(next) == 0 {
		var stack []vt.Type
		if len(branches) > 0 {
			stack = branches[0].Stack()
		}
		return NoMatchingOverloadError{Name: name, Stack: stack}
	}
	if len(next) > c.maxBranches {
		return BranchExplosionError{Name: name, Branches: len(next), Limit: c.maxBranches}
	}
	c.levels[len(c.levels)-1] = next
	return nil
}
