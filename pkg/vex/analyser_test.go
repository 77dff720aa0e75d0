package vex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vex/pkg/vt"
)

func analyse(t *testing.T, src string) *Result {
	t.Helper()
	prog := parse(t, src)
	result, err := NewAnalyser(Builtins(), 0).Analyse(prog)
	require.NoError(t, err)
	return result
}

func analyseErr(t *testing.T, src string) error {
	t.Helper()
	prog := parse(t, src)
	_, err := NewAnalyser(Builtins(), 0).Analyse(prog)
	require.Error(t, err)
	return err
}

func finalStack(t *testing.T, result *Result) []vt.Type {
	t.Helper()
	require.NotEmpty(t, result.Branches)
	return result.Branches[0].Stack()
}

func TestAnalyseArithmetic(t *testing.T) {
	result := analyse(t, `3 4 +`)
	stack := finalStack(t, result)
	require.Len(t, stack, 1)
	assert.True(t, stack[0].Eq(vt.Number{}))
}

func TestAnalyseOverloadSelection(t *testing.T) {
	t.Run("numbers pick the numeric overload", func(t *testing.T) {
		result := analyse(t, `1 2 +`)
		assert.True(t, finalStack(t, result)[0].Eq(vt.Number{}))
	})

	t.Run("strings pick the string overload", func(t *testing.T) {
		result := analyse(t, `"a" "b" +`)
		assert.True(t, finalStack(t, result)[0].Eq(vt.String{}))
	})

	t.Run("mixed operands fail with NoMatchingOverload", func(t *testing.T) {
		err := analyseErr(t, `1 "b" +`)
		var noMatch NoMatchingOverloadError
		require.ErrorAs(t, err, &noMatch)
		assert.Equal(t, Ident("+"), noMatch.Name)
	})
}

func TestAnalyseInfersProgramInputs(t *testing.T) {
	// Applying + to an empty stack forks the numeric and string
	// hypotheses; the later `1 +` contradicts the string branch.
	result := analyse(t, `+ 1 +`)

	require.Len(t, result.Branches, 1)
	branch := result.Branches[0]
	require.Len(t, branch.Inputs(), 2)
	assert.True(t, branch.Inputs()[0].Eq(vt.Number{}))
	assert.True(t, branch.Inputs()[1].Eq(vt.Number{}))

	stack := branch.Stack()
	require.Len(t, stack, 1)
	assert.True(t, stack[0].Eq(vt.Number{}))
}

func TestAnalyseBindAndReference(t *testing.T) {
	result := analyse(t, `3 4 + := total total total *`)
	stack := finalStack(t, result)
	require.Len(t, stack, 1)
	assert.True(t, stack[0].Eq(vt.Number{}))
}

func TestAnalyseBindOnEmptyStack(t *testing.T) {
	// Binding from an empty stack allocates an inference variable; using
	// the variable with + still type-checks against both hypotheses.
	result := analyse(t, `:= x x 1 +`)
	stack := finalStack(t, result)
	require.Len(t, stack, 1)
	assert.True(t, stack[0].Eq(vt.Number{}))
}

func TestAnalyseUnknownNameFails(t *testing.T) {
	err := analyseErr(t, `frobnicate`)
	var notFound VariableNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, Ident("frobnicate"), notFound.Name)
}

func TestAnalyseDefinitions(t *testing.T) {
	t.Run("declared signature", func(t *testing.T) {
		result := analyse(t, `
def double (Number -> Number)
  2 *
end
3 double`)
		stack := finalStack(t, result)
		require.Len(t, stack, 1)
		assert.True(t, stack[0].Eq(vt.Number{}))

		sym, ok := result.Symbols.Element(Ident("double"))
		require.True(t, ok)
		require.Len(t, sym.Overloads, 1)
		assert.Equal(t, 1, sym.Overloads[0].Arity())
	})

	t.Run("inferred signature", func(t *testing.T) {
		result := analyse(t, `
def double
  2 *
end
3 double`)
		stack := finalStack(t, result)
		require.Len(t, stack, 1)
		assert.True(t, stack[0].Eq(vt.Number{}))

		sym, ok := result.Symbols.Element(Ident("double"))
		require.True(t, ok)
		require.Len(t, sym.Overloads, 1)
		assert.True(t, sym.Overloads[0].Params[0].Eq(vt.Number{}))
	})

	t.Run("use before definition promotes on first use", func(t *testing.T) {
		result := analyse(t, `
3 double
def double (Number -> Number) 2 * end`)
		stack := finalStack(t, result)
		require.Len(t, stack, 1)
		assert.True(t, stack[0].Eq(vt.Number{}))
	})

	t.Run("body contradicting its signature fails", func(t *testing.T) {
		err := analyseErr(t, `
def bogus (Number -> String)
  2 *
end
3 bogus`)
		require.Error(t, err)
		var analysisErr *AnalysisError
		if errors.As(err, &analysisErr) {
			assert.Equal(t, Ident("bogus"), analysisErr.Definition)
		}
	})

	t.Run("recursion with signature", func(t *testing.T) {
		result := analyse(t, `
def countdown (Number -> Number)
  countdown
end
5 countdown`)
		stack := finalStack(t, result)
		require.Len(t, stack, 1)
	})

	t.Run("recursion without signature fails", func(t *testing.T) {
		err := analyseErr(t, `
def forever forever end
forever`)
		assert.Contains(t, err.Error(), "explicit signature")
	})
}

func TestAnalyseObjects(t *testing.T) {
	result := analyse(t, `
object Point
  x: Number
  y: Number
end
1 2 Point`)
	stack := finalStack(t, result)
	require.Len(t, stack, 1)

	custom, ok := stack[0].(vt.Custom)
	require.True(t, ok)
	assert.Equal(t, "Point", custom.Named)
	assert.True(t, custom.Tags().Has(vt.TagConstructed))

	sym, ok := result.Symbols.Object(Ident("Point"))
	require.True(t, ok)
	assert.Len(t, sym.Fields, 2)
}

func TestAnalyseTraits(t *testing.T) {
	result := analyse(t, `
trait Greet
  hello (String -> String)
end`)
	sym, ok := result.Symbols.Trait(Ident("Greet"))
	require.True(t, ok)
	require.Len(t, sym.Methods, 1)
	assert.Equal(t, "hello", sym.Methods[0].Name)
	assert.Equal(t, 1, sym.Methods[0].Signature.Arity())
}

func TestAnalyseQuotes(t *testing.T) {
	result := analyse(t, `(dup *) := square`)

	branch := result.Branches[0]
	got, err := branch.VariableType(Ident("square"))
	require.NoError(t, err)

	fn, ok := got.(vt.Function)
	require.True(t, ok)
	assert.True(t, fn.Tags().Has(vt.TagComputed))
	require.Len(t, fn.Params, 1)
	require.Len(t, fn.Returns, 1)
}

func TestAnalyseListLiterals(t *testing.T) {
	t.Run("flat list of numbers", func(t *testing.T) {
		result := analyse(t, `[1 2 3]`)
		list, ok := finalStack(t, result)[0].(vt.List)
		require.True(t, ok)
		assert.True(t, list.Elem.Eq(vt.Number{}))
		assert.Equal(t, vt.RankExact, list.Rank.Kind)
		assert.Equal(t, 1, list.Rank.N)
	})

	t.Run("nested lists deepen the rank", func(t *testing.T) {
		result := analyse(t, `[[1 2] [3 4]]`)
		list, ok := finalStack(t, result)[0].(vt.List)
		require.True(t, ok)
		assert.Equal(t, vt.RankExact, list.Rank.Kind)
		assert.Equal(t, 2, list.Rank.N)
	})

	t.Run("mixed members widen to a rugged union list", func(t *testing.T) {
		result := analyse(t, `[1 "two"]`)
		list, ok := finalStack(t, result)[0].(vt.List)
		require.True(t, ok)
		_, isUnion := list.Elem.(vt.Union)
		assert.True(t, isUnion)
		assert.Equal(t, vt.RankRugged, list.Rank.Kind)
	})

	t.Run("list feeding a list builtin", func(t *testing.T) {
		result := analyse(t, `[1 2 3] sum`)
		stack := finalStack(t, result)
		require.Len(t, stack, 1)
		assert.True(t, stack[0].Eq(vt.Number{}))
	})
}

func TestAnalyseStatementsSnapshots(t *testing.T) {
	result := analyse(t, `1 2 +`)
	require.Len(t, result.Statements, 3)
	assert.Len(t, result.Statements[0][0].Stack(), 1)
	assert.Len(t, result.Statements[1][0].Stack(), 2)
	assert.Len(t, result.Statements[2][0].Stack(), 1)
}

func TestAnalyserSingleUse(t *testing.T) {
	prog := parse(t, `1`)
	a := NewAnalyser(Builtins(), 0)
	_, err := a.Analyse(prog)
	require.NoError(t, err)

	_, err = a.Analyse(prog)
	require.Error(t, err)
}

func TestAnalyseErrorsNameTheDefinition(t *testing.T) {
	err := analyseErr(t, `
def broken
  1 "x" +
end
broken`)
	var analysisErr *AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, Ident("broken"), analysisErr.Definition)
}
