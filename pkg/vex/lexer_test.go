package vex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := NewLexer("test.vx", src).Tokenize()
	require.NoError(t, err)
	return tokens
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerBasics(t *testing.T) {
	tokens := tokenize(t, `3 4 + := sum`)
	assert.Equal(t, []TokenKind{
		TokenNumber, TokenNumber, TokenWord, TokenBind, TokenWord, TokenEOF,
	}, kinds(tokens))
	assert.Equal(t, 3.0, tokens[0].Num)
	assert.Equal(t, "+", tokens[2].Text)
	assert.Equal(t, "sum", tokens[4].Text)
}

func TestLexerStrings(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		tokens := tokenize(t, `"hello world"`)
		require.Equal(t, TokenString, tokens[0].Kind)
		assert.Equal(t, "hello world", tokens[0].Text)
	})

	t.Run("escapes", func(t *testing.T) {
		tokens := tokenize(t, `"a\nb\"c"`)
		assert.Equal(t, "a\nb\"c", tokens[0].Text)
	})

	t.Run("unterminated", func(t *testing.T) {
		_, err := NewLexer("test.vx", `"oops`).Tokenize()
		require.Error(t, err)
	})
}

func TestLexerNumbers(t *testing.T) {
	tokens := tokenize(t, `1 2.5 100`)
	assert.Equal(t, 1.0, tokens[0].Num)
	assert.Equal(t, 2.5, tokens[1].Num)
	assert.Equal(t, 100.0, tokens[2].Num)
}

func TestLexerComments(t *testing.T) {
	tokens := tokenize(t, "1 # everything after is ignored\n2")
	assert.Equal(t, []TokenKind{TokenNumber, TokenNumber, TokenEOF}, kinds(tokens))
}

func TestLexerKeywordsAndPunctuation(t *testing.T) {
	tokens := tokenize(t, `def f (Number -> Number) end object O trait T`)
	assert.Equal(t, []TokenKind{
		TokenDef, TokenWord,
		TokenLParen, TokenWord, TokenArrow, TokenWord, TokenRParen,
		TokenEnd, TokenObject, TokenWord, TokenTrait, TokenWord,
		TokenEOF,
	}, kinds(tokens))
}

func TestLexerLocations(t *testing.T) {
	tokens := tokenize(t, "1\n  two")
	assert.Equal(t, 1, tokens[0].Loc.Line)
	assert.Equal(t, 1, tokens[0].Loc.Column)
	assert.Equal(t, 2, tokens[1].Loc.Line)
	assert.Equal(t, 3, tokens[1].Loc.Column)
}

func TestLexerBindVersusColon(t *testing.T) {
	tokens := tokenize(t, `x: Number := y`)
	assert.Equal(t, []TokenKind{
		TokenWord, TokenColon, TokenWord, TokenBind, TokenWord, TokenEOF,
	}, kinds(tokens))
}

func TestLexerQualifiedWords(t *testing.T) {
	tokens := tokenize(t, `point.x rows.3`)
	assert.Equal(t, "point.x", tokens[0].Text)
	assert.Equal(t, "rows.3", tokens[1].Text)
}
