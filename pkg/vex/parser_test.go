package vex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vex/pkg/vt"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse("test.vx", src)
	require.NoError(t, err)
	return prog
}

func TestParseLiterals(t *testing.T) {
	prog := parse(t, `3 "hi" [1 2 3]`)
	require.Len(t, prog.Nodes, 3)

	numNode, ok := prog.Nodes[0].(*NumberNode)
	require.True(t, ok)
	assert.Equal(t, 3.0, numNode.Value)

	strNode, ok := prog.Nodes[1].(*StringNode)
	require.True(t, ok)
	assert.Equal(t, "hi", strNode.Value)

	listNode, ok := prog.Nodes[2].(*ListNode)
	require.True(t, ok)
	assert.Len(t, listNode.Elems, 3)
}

func TestParseQuoteAndBind(t *testing.T) {
	prog := parse(t, `(dup *) := square`)
	require.Len(t, prog.Nodes, 2)

	quote, ok := prog.Nodes[0].(*QuoteNode)
	require.True(t, ok)
	assert.Len(t, quote.Body, 2)

	bind, ok := prog.Nodes[1].(*BindNode)
	require.True(t, ok)
	assert.Equal(t, Ident("square"), bind.Name)
}

func TestParseDefine(t *testing.T) {
	t.Run("with signature", func(t *testing.T) {
		prog := parse(t, `
def double (Number -> Number)
  2 *
end`)
		require.Len(t, prog.Nodes, 1)
		def, ok := prog.Nodes[0].(*DefineNode)
		require.True(t, ok)
		assert.Equal(t, Ident("double"), def.Name)
		require.True(t, def.HasSignature)
		require.Len(t, def.Params, 1)
		assert.True(t, def.Params[0].Eq(vt.Number{}))
		require.Len(t, def.Returns, 1)
		assert.Len(t, def.Body, 2)
	})

	t.Run("without signature", func(t *testing.T) {
		prog := parse(t, `def inc 1 + end`)
		def := prog.Nodes[0].(*DefineNode)
		assert.False(t, def.HasSignature)
		assert.Len(t, def.Body, 2)
	})

	t.Run("body starting with a quote is not a signature", func(t *testing.T) {
		prog := parse(t, `def weird (dup *) drop end`)
		def := prog.Nodes[0].(*DefineNode)
		assert.False(t, def.HasSignature)
		require.Len(t, def.Body, 2)
		_, isQuote := def.Body[0].(*QuoteNode)
		assert.True(t, isQuote)
	})

	t.Run("generics and tags", func(t *testing.T) {
		prog := parse(t, `def first<T> @element ([T] -> T) drop end`)
		def := prog.Nodes[0].(*DefineNode)
		assert.Equal(t, []string{"T"}, def.Generics)
		assert.True(t, def.ElementTags.Has(vt.TagElement))
		assert.True(t, def.HasSignature)
	})
}

func TestParseObject(t *testing.T) {
	prog := parse(t, `
object Point
  x: Number
  y: Number
end`)
	obj, ok := prog.Nodes[0].(*ObjectNode)
	require.True(t, ok)
	assert.Equal(t, Ident("Point"), obj.Name)
	require.Len(t, obj.Fields, 2)
	assert.Equal(t, "x", obj.Fields[0].Name)
	assert.True(t, obj.Fields[0].Type.Eq(vt.Number{}))
}

func TestParseTrait(t *testing.T) {
	prog := parse(t, `
trait Show
  show (Point -> String)
end`)
	tr, ok := prog.Nodes[0].(*TraitNode)
	require.True(t, ok)
	require.Len(t, tr.Methods, 1)
	assert.Equal(t, "show", tr.Methods[0].Name)
	require.Len(t, tr.Methods[0].Params, 1)
	require.Len(t, tr.Methods[0].Returns, 1)
}

func TestParseTypes(t *testing.T) {
	parseOneType := func(t *testing.T, src string) vt.Type {
		t.Helper()
		prog := parse(t, "object O f: "+src+" end")
		return prog.Nodes[0].(*ObjectNode).Fields[0].Type
	}

	t.Run("ranked lists", func(t *testing.T) {
		rugged := parseOneType(t, "[Number]").(vt.List)
		assert.Equal(t, vt.RankRugged, rugged.Rank.Kind)

		exact := parseOneType(t, "[Number; 2]").(vt.List)
		assert.Equal(t, vt.RankExact, exact.Rank.Kind)
		assert.Equal(t, 2, exact.Rank.N)

		minimum := parseOneType(t, "[Number; 2+]").(vt.List)
		assert.Equal(t, vt.RankMin, minimum.Rank.Kind)

		dependent := parseOneType(t, "[Number; $n]").(vt.List)
		assert.Equal(t, vt.RankDependent, dependent.Rank.Kind)
		assert.Equal(t, "n", dependent.Rank.Sym)
	})

	t.Run("optional union dictionary", func(t *testing.T) {
		opt := parseOneType(t, "Number?")
		_, ok := opt.(vt.Optional)
		assert.True(t, ok)

		union := parseOneType(t, "Number | String")
		_, ok = union.(vt.Union)
		assert.True(t, ok)

		inter := parseOneType(t, "Number & String")
		_, ok = inter.(vt.Intersection)
		assert.True(t, ok)

		dict := parseOneType(t, "{String: Number}")
		d, ok := dict.(vt.Dictionary)
		require.True(t, ok)
		assert.True(t, d.Key.Eq(vt.String{}))
	})

	t.Run("function types", func(t *testing.T) {
		fn := parseOneType(t, "(Number Number -> Number)")
		f, ok := fn.(vt.Function)
		require.True(t, ok)
		assert.Len(t, f.Params, 2)
		assert.Len(t, f.Returns, 1)
	})

	t.Run("custom with generics", func(t *testing.T) {
		custom := parseOneType(t, "Box<Number>")
		c, ok := custom.(vt.Custom)
		require.True(t, ok)
		assert.Equal(t, "Box", c.Named)
		require.Len(t, c.Generics, 1)
	})
}

func TestParseIdentifierQualifications(t *testing.T) {
	id := parseIdentifier("point.x")
	assert.Equal(t, "point", id.Named)
	assert.Equal(t, []string{"x"}, id.Properties())

	id = parseIdentifier("rows.3")
	idx, ok := id.Index()
	require.True(t, ok)
	assert.Equal(t, 3, idx)

	plain := parseIdentifier("sum")
	assert.Equal(t, "sum", plain.Named)
	assert.Empty(t, plain.Properties())
	_, hasIdx := plain.Index()
	assert.False(t, hasIdx)
}

func TestParseErrorsCarryLocations(t *testing.T) {
	_, err := Parse("test.vx", "[1 2")
	require.Error(t, err)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "test.vx", srcErr.Location.Filename)
}
