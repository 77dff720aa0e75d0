package vex

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer scans vex source text into tokens, tracking line and column for
// diagnostics.
type Lexer struct {
	filename string
	src      string
	pos      int
	line     int
	col      int
}

func NewLexer(filename, src string) *Lexer {
	return &Lexer{filename: filename, src: src, line: 1, col: 1}
}

// Tokenize scans the whole input, ending with a TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

var punctuation = map[rune]TokenKind{
	'[': TokenLBracket,
	']': TokenRBracket,
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'<': TokenLAngle,
	'>': TokenRAngle,
	';': TokenSemi,
	',': TokenComma,
	'?': TokenQuestion,
	'|': TokenPipe,
	'&': TokenAmp,
	'$': TokenDollar,
}

// Next scans one token.
func (l *Lexer) Next() (Token, error) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Loc: l.here(0)}, nil
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	start := l.here(1)

	if kind, ok := punctuation[r]; ok {
		l.advance(size)
		return Token{Kind: kind, Text: string(r), Loc: start}, nil
	}

	switch {
	case r == ':':
		l.advance(size)
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.advance(1)
			start.Length = 2
			return Token{Kind: TokenBind, Text: ":=", Loc: start}, nil
		}
		return Token{Kind: TokenColon, Text: ":", Loc: start}, nil

	case r == '"':
		return l.scanString(start)

	case unicode.IsDigit(r):
		return l.scanNumber(start)

	default:
		return l.scanWord(start)
	}
}

func (l *Lexer) scanString(start SourceLocation) (Token, error) {
	l.advance(1) // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case '"':
			l.advance(1)
			start.Length = sb.Len() + 2
			return Token{Kind: TokenString, Text: sb.String(), Loc: start}, nil
		case '\\':
			l.advance(1)
			if l.pos >= len(l.src) {
				break
			}
			esc := l.src[l.pos]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"', '\\':
				sb.WriteByte(esc)
			default:
				return Token{}, l.errorAt(start, "unknown escape \\%c", esc)
			}
			l.advance(1)
		case '\n':
			return Token{}, l.errorAt(start, "unterminated string")
		default:
			sb.WriteByte(c)
			l.advance(1)
		}
	}
	return Token{}, l.errorAt(start, "unterminated string")
}

func (l *Lexer) scanNumber(start SourceLocation) (Token, error) {
	begin := l.pos
	seenDot := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '.' && !seenDot && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
			seenDot = true
			l.advance(1)
			continue
		}
		if !isDigit(c) {
			break
		}
		l.advance(1)
	}
	text := l.src[begin:l.pos]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, l.errorAt(start, "bad number literal %q", text)
	}
	start.Length = len(text)
	return Token{Kind: TokenNumber, Text: text, Num: n, Loc: start}, nil
}

// scanWord consumes everything up to whitespace or punctuation. Element
// names like `+`, `neg`, and qualified names like `point.x` all lex as one
// word; the parser splits qualifications. The arrow `->` is special-cased
// since `-` is otherwise an ordinary word character.
func (l *Lexer) scanWord(start SourceLocation) (Token, error) {
	begin := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if unicode.IsSpace(r) || r == '"' || r == ':' {
			break
		}
		if _, isPunct := punctuation[r]; isPunct {
			break
		}
		l.advance(size)
	}
	text := l.src[begin:l.pos]
	if text == "" {
		return Token{}, l.errorAt(start, "unexpected character %q", l.src[l.pos:l.pos+1])
	}
	// '>' is otherwise punctuation, so the arrow needs one extra byte here.
	if text == "-" && l.pos < len(l.src) && l.src[l.pos] == '>' {
		l.advance(1)
		text = "->"
	}
	start.Length = len(text)
	if text == "->" {
		return Token{Kind: TokenArrow, Text: text, Loc: start}, nil
	}
	if kind, ok := keywords[text]; ok {
		return Token{Kind: kind, Text: text, Loc: start}, nil
	}
	return Token{Kind: TokenWord, Text: text, Loc: start}, nil
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance(1)
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance(1)
		default:
			return
		}
	}
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.src); i++ {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) here(length int) SourceLocation {
	return SourceLocation{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.col,
		Length:   length,
	}
}

func (l *Lexer) errorAt(loc SourceLocation, format string, args ...any) error {
	return NewSourceError(fmt.Errorf(format, args...), &loc, l.src)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
