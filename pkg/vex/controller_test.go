package vex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vex/pkg/vt"
)

func TestControllerBroadcast(t *testing.T) {
	c := NewScopeController(0)
	c.CreateScope(nil)

	c.Push(num)
	c.Push(num)
	for _, b := range c.Branches() {
		assert.Len(t, b.Stack(), 2)
	}

	c.Pop(1)
	for _, b := range c.Branches() {
		assert.Len(t, b.Stack(), 1)
	}
}

func TestControllerApplyForksAndPrunes(t *testing.T) {
	addNums := NewOverload([]vt.Type{num, num}, []vt.Type{num})
	addStrs := NewOverload([]vt.Type{str, str}, []vt.Type{str})
	overloads := []*Overload{addNums, addStrs}

	c := NewScopeController(0)
	c.CreateScope(nil)

	// Empty stack: both hypotheses fork.
	require.NoError(t, c.Apply(Ident("+"), overloads))
	require.Len(t, c.Branches(), 2)

	// Pushing a Number then applying again contradicts the String branch's
	// continuation but keeps the multiverse alive.
	c.Push(num)
	require.NoError(t, c.Apply(Ident("+"), []*Overload{addNums}))
	branches := c.Branches()
	require.NotEmpty(t, branches, "a level must never be left empty while analysis continues")

	for _, b := range branches {
		require.NotEmpty(t, b.Stack())
		assert.True(t, b.Stack()[len(b.Stack())-1].Eq(num))
	}
}

func TestControllerApplyFatalWhenNoBranchSurvives(t *testing.T) {
	addNums := NewOverload([]vt.Type{num, num}, []vt.Type{num})

	c := NewScopeController(0)
	c.CreateScope(nil)
	c.Push(num)
	c.Push(str)

	err := c.Apply(Ident("+"), []*Overload{addNums})
	require.Error(t, err)
	assert.ErrorAs(t, err, &NoMatchingOverloadError{})

	// The failed apply must not have produced an empty level.
	assert.NotEmpty(t, c.Branches())
}

func TestControllerEmptyOverloadSet(t *testing.T) {
	c := NewScopeController(0)
	c.CreateScope(nil)

	err := c.Apply(Ident("ghost"), nil)
	require.Error(t, err)
	assert.ErrorAs(t, err, &NoMatchingOverloadError{})
}

func TestControllerBranchCap(t *testing.T) {
	addNums := NewOverload([]vt.Type{num, num}, []vt.Type{num})
	addStrs := NewOverload([]vt.Type{str, str}, []vt.Type{str})
	overloads := []*Overload{addNums, addStrs}

	c := NewScopeController(2)
	c.CreateScope(nil)

	require.NoError(t, c.Apply(Ident("+"), overloads))
	require.Len(t, c.Branches(), 2)

	// Empty both branch stacks so the next apply forks two hypotheses in
	// each branch: four successors against a cap of two.
	c.Pop(1)
	err := c.Apply(Ident("+"), overloads)
	require.Error(t, err)
	assert.ErrorAs(t, err, &BranchExplosionError{})
}

func TestControllerLevels(t *testing.T) {
	c := NewScopeController(0)
	c.CreateScope(nil)
	c.Push(num)
	c.SetVariable(Ident("x"))

	inner := c.CreateScope([]vt.Type{str})
	require.Len(t, inner.Stack(), 1)
	require.Len(t, inner.Inputs(), 1)

	t.Run("inner level resolves outer variables", func(t *testing.T) {
		require.NoError(t, c.PushVariable(Ident("x")))
		top := c.Branches()[0]
		assert.True(t, top.Stack()[len(top.Stack())-1].Eq(num))
	})

	t.Run("popping a level exposes the outer one", func(t *testing.T) {
		popped := c.PopScope()
		require.Len(t, popped, 1)
		assert.Equal(t, 1, c.Depth())

		// The outer level's stack was never touched by the inner level.
		outer := c.Branches()[0]
		assert.Empty(t, outer.Stack())
	})
}

func TestControllerPushVariablePrunes(t *testing.T) {
	addNums := NewOverload([]vt.Type{num, num}, []vt.Type{num})
	addStrs := NewOverload([]vt.Type{str, str}, []vt.Type{str})

	c := NewScopeController(0)
	c.CreateScope(nil)

	// Fork two hypotheses, then bind a variable in each branch; both
	// branches hold a binding afterwards, so lookup keeps both alive.
	require.NoError(t, c.Apply(Ident("+"), []*Overload{addNums, addStrs}))
	c.SetVariable(Ident("v"))
	require.NoError(t, c.PushVariable(Ident("v")))
	assert.Len(t, c.Branches(), 2)

	err := c.PushVariable(Ident("missing"))
	require.Error(t, err)
	assert.ErrorAs(t, err, &VariableNotFoundError{})
}
