package vex

import "fmt"

// TokenKind enumerates the lexical token classes.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenString
	TokenWord
	TokenBind     // :=
	TokenArrow    // ->
	TokenLBracket // [
	TokenRBracket // ]
	TokenLParen   // (
	TokenRParen   // )
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLAngle   // <
	TokenRAngle   // >
	TokenSemi     // ;
	TokenColon    // :
	TokenComma    // ,
	TokenQuestion // ?
	TokenPipe     // |
	TokenAmp      // &
	TokenDollar   // $
	TokenDef
	TokenEnd
	TokenObject
	TokenTrait
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:      "end of file",
	TokenNumber:   "number",
	TokenString:   "string",
	TokenWord:     "word",
	TokenBind:     "':='",
	TokenArrow:    "'->'",
	TokenLBracket: "'['",
	TokenRBracket: "']'",
	TokenLParen:   "'('",
	TokenRParen:   "')'",
	TokenLBrace:   "'{'",
	TokenRBrace:   "'}'",
	TokenLAngle:   "'<'",
	TokenRAngle:   "'>'",
	TokenSemi:     "';'",
	TokenColon:    "':'",
	TokenComma:    "','",
	TokenQuestion: "'?'",
	TokenPipe:     "'|'",
	TokenAmp:      "'&'",
	TokenDollar:   "'$'",
	TokenDef:      "'def'",
	TokenEnd:      "'end'",
	TokenObject:   "'object'",
	TokenTrait:    "'trait'",
}

func (k TokenKind) String() string {
	if n, ok := tokenKindNames[k]; ok {
		return n
	}
	return "unknown token"
}

// Token is one lexical unit with its source location.
type Token struct {
	Kind TokenKind
	Text string
	Num  float64 // value for TokenNumber
	Loc  SourceLocation
}

func (t Token) GetSourceLocation() *SourceLocation {
	loc := t.Loc
	return &loc
}

func (t Token) String() string {
	switch t.Kind {
	case TokenNumber, TokenString, TokenWord:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}

var keywords = map[string]TokenKind{
	"def":    TokenDef,
	"end":    TokenEnd,
	"object": TokenObject,
	"trait":  TokenTrait,
}
