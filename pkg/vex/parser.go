package vex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vexlang/vex/pkg/vt"
)

// Parser turns a token stream into a Program by recursive descent.
type Parser struct {
	filename string
	source   string
	tokens   []Token
	pos      int
}

// Parse lexes and parses one source file.
func Parse(filename, source string) (*Program, error) {
	tokens, err := NewLexer(filename, source).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{filename: filename, source: source, tokens: tokens}
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*Program, error) {
	prog := &Program{Filename: p.filename, Source: p.source}
	for p.peek().Kind != TokenEOF {
		node, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		prog.Nodes = append(prog.Nodes, node)
	}
	return prog, nil
}

func (p *Parser) parseNode() (Node, error) {
	tok := p.next()
	switch tok.Kind {
	case TokenNumber:
		return &NumberNode{Value: tok.Num, Loc: tok.Loc}, nil

	case TokenString:
		return &StringNode{Value: tok.Text, Loc: tok.Loc}, nil

	case TokenLBracket:
		var elems []Node
		for p.peek().Kind != TokenRBracket {
			if p.peek().Kind == TokenEOF {
				return nil, p.errorAt(tok, "unterminated list literal")
			}
			elem, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		p.next() // ]
		return &ListNode{Elems: elems, Loc: tok.Loc}, nil

	case TokenLParen:
		var body []Node
		for p.peek().Kind != TokenRParen {
			if p.peek().Kind == TokenEOF {
				return nil, p.errorAt(tok, "unterminated quote")
			}
			n, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			body = append(body, n)
		}
		p.next() // )
		return &QuoteNode{Body: body, Loc: tok.Loc}, nil

	case TokenBind:
		name, err := p.expect(TokenWord)
		if err != nil {
			return nil, err
		}
		return &BindNode{Name: parseIdentifier(name.Text), Loc: tok.Loc}, nil

	case TokenDef:
		return p.parseDefine(tok)

	case TokenObject:
		return p.parseObject(tok)

	case TokenTrait:
		return p.parseTrait(tok)

	case TokenWord:
		return &ElementNode{Name: parseIdentifier(tok.Text), Loc: tok.Loc}, nil

	case TokenLAngle, TokenRAngle:
		// In term position the angle brackets are the comparison elements;
		// they only mean generics inside declaration headers and types.
		return &ElementNode{Name: Ident(tok.Text), Loc: tok.Loc}, nil

	default:
		return nil, p.errorAt(tok, "unexpected %s", tok.Kind)
	}
}

func (p *Parser) parseDefine(start Token) (*DefineNode, error) {
	nameTok, err := p.expect(TokenWord)
	if err != nil {
		return nil, err
	}
	node := &DefineNode{Name: parseIdentifier(nameTok.Text), Loc: start.Loc}

	if p.peek().Kind == TokenLAngle {
		node.Generics, err = p.parseGenericNames()
		if err != nil {
			return nil, err
		}
	}

	// Element tags: `@constructed`, `@element`, and friends.
	for p.peek().Kind == TokenWord && strings.HasPrefix(p.peek().Text, "@") {
		tagTok := p.next()
		tag, ok := parseTagName(strings.TrimPrefix(tagTok.Text, "@"))
		if !ok {
			return nil, p.errorAt(tagTok, "unknown element tag %s", tagTok.Text)
		}
		node.ElementTags = append(node.ElementTags, tag)
	}

	// A parenthesized group directly after the header is a stack-effect
	// signature only if it contains an arrow; otherwise it is the first
	// quote of the body. Backtrack if the signature parse disproves itself.
	if p.peek().Kind == TokenLParen {
		save := p.pos
		params, returns, sigErr := p.parseSignature()
		if sigErr == nil {
			node.HasSignature = true
			node.Params = params
			node.Returns = returns
		} else {
			p.pos = save
		}
	}

	for p.peek().Kind != TokenEnd {
		if p.peek().Kind == TokenEOF {
			return nil, p.errorAt(start, "unterminated definition of %s", node.Name)
		}
		body, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		node.Body = append(node.Body, body)
	}
	p.next() // end
	return node, nil
}

func (p *Parser) parseObject(start Token) (*ObjectNode, error) {
	nameTok, err := p.expect(TokenWord)
	if err != nil {
		return nil, err
	}
	node := &ObjectNode{Name: parseIdentifier(nameTok.Text), Loc: start.Loc}

	if p.peek().Kind == TokenLAngle {
		node.Generics, err = p.parseGenericNames()
		if err != nil {
			return nil, err
		}
	}

	for p.peek().Kind != TokenEnd {
		fieldTok, err := p.expect(TokenWord)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenColon); err != nil {
			return nil, err
		}
		fieldType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		node.Fields = append(node.Fields, FieldDecl{
			Name: fieldTok.Text,
			Type: fieldType,
			Loc:  fieldTok.Loc,
		})
	}
	p.next() // end
	return node, nil
}

func (p *Parser) parseTrait(start Token) (*TraitNode, error) {
	nameTok, err := p.expect(TokenWord)
	if err != nil {
		return nil, err
	}
	node := &TraitNode{Name: parseIdentifier(nameTok.Text), Loc: start.Loc}

	for p.peek().Kind != TokenEnd {
		methodTok, err := p.expect(TokenWord)
		if err != nil {
			return nil, err
		}
		params, returns, err := p.parseSignature()
		if err != nil {
			return nil, err
		}
		node.Methods = append(node.Methods, MethodDecl{
			Name:    methodTok.Text,
			Params:  params,
			Returns: returns,
			Loc:     methodTok.Loc,
		})
	}
	p.next() // end
	return node, nil
}

func (p *Parser) parseGenericNames() ([]string, error) {
	p.next() // <
	var names []string
	for {
		tok, err := p.expect(TokenWord)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Text)
		if p.peek().Kind == TokenComma {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(TokenRAngle); err != nil {
		return nil, err
	}
	return names, nil
}

// parseSignature parses `( type* -> type* )`.
func (p *Parser) parseSignature() (params, returns []vt.Type, err error) {
	if _, err = p.expect(TokenLParen); err != nil {
		return nil, nil, err
	}
	for p.peek().Kind != TokenArrow {
		if p.peek().Kind == TokenEOF || p.peek().Kind == TokenRParen {
			return nil, nil, p.errorAt(p.peek(), "expected '->' in signature")
		}
		t, terr := p.parseType()
		if terr != nil {
			return nil, nil, terr
		}
		params = append(params, t)
	}
	p.next() // ->
	for p.peek().Kind != TokenRParen {
		if p.peek().Kind == TokenEOF {
			return nil, nil, p.errorAt(p.peek(), "unterminated signature")
		}
		t, terr := p.parseType()
		if terr != nil {
			return nil, nil, terr
		}
		returns = append(returns, t)
	}
	p.next() // )
	return params, returns, nil
}

// parseType parses a type expression: unions and intersections bind
// loosest, then the optional marker, then the primaries.
func (p *Parser) parseType() (vt.Type, error) {
	left, err := p.parseTypePostfix()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case TokenPipe:
			p.next()
			right, err := p.parseTypePostfix()
			if err != nil {
				return nil, err
			}
			left = vt.NewUnion(left, right)
		case TokenAmp:
			p.next()
			right, err := p.parseTypePostfix()
			if err != nil {
				return nil, err
			}
			left = vt.NewIntersection(left, right)
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseTypePostfix() (vt.Type, error) {
	t, err := p.parseTypePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokenQuestion {
		p.next()
		t = vt.NewOptional(t)
	}
	return t, nil
}

func (p *Parser) parseTypePrimary() (vt.Type, error) {
	tok := p.next()
	switch tok.Kind {
	case TokenLBracket:
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		rank := vt.Rugged()
		if p.peek().Kind == TokenSemi {
			p.next()
			rank, err = p.parseRank()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}
		return vt.NewRankedList(elem, rank), nil

	case TokenLBrace:
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenColon); err != nil {
			return nil, err
		}
		value, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRBrace); err != nil {
			return nil, err
		}
		return vt.NewDictionary(key, value), nil

	case TokenLParen:
		p.pos--
		params, returns, err := p.parseSignature()
		if err != nil {
			return nil, err
		}
		return vt.NewFunction(params, returns), nil

	case TokenWord:
		switch tok.Text {
		case "Number":
			return vt.Number{}, nil
		case "String":
			return vt.String{}, nil
		}
		if len(tok.Text) == 1 && tok.Text[0] >= 'A' && tok.Text[0] <= 'Z' && p.peek().Kind != TokenLAngle {
			// Single uppercase letters are generic parameters; the engine
			// treats them as wildcard placeholders.
			return vt.InferenceVar{ID: -int(tok.Text[0])}, nil
		}
		var generics []vt.Type
		if p.peek().Kind == TokenLAngle {
			p.next()
			for {
				g, err := p.parseType()
				if err != nil {
					return nil, err
				}
				generics = append(generics, g)
				if p.peek().Kind == TokenComma {
					p.next()
					continue
				}
				break
			}
			if _, err := p.expect(TokenRAngle); err != nil {
				return nil, err
			}
		}
		return vt.NewCustom(tok.Text, generics...), nil

	default:
		return nil, p.errorAt(tok, "expected a type, got %s", tok.Kind)
	}
}

func (p *Parser) parseRank() (vt.Rank, error) {
	tok := p.next()
	switch tok.Kind {
	case TokenNumber:
		n := int(tok.Num)
		if p.peek().Kind == TokenWord && p.peek().Text == "+" {
			p.next()
			return vt.MinRank(n), nil
		}
		return vt.ExactRank(n), nil
	case TokenDollar:
		sym, err := p.expect(TokenWord)
		if err != nil {
			return vt.Rank{}, err
		}
		return vt.DependentRank(sym.Text), nil
	default:
		return vt.Rank{}, p.errorAt(tok, "expected a rank, got %s", tok.Kind)
	}
}

// parseIdentifier splits a dotted word into an Identifier: the leading
// segment names the base, later segments are properties, and a trailing
// numeric segment is a static index.
func parseIdentifier(text string) Identifier {
	segments := strings.Split(text, ".")
	id := Ident(segments[0])
	for i, seg := range segments[1:] {
		if i == len(segments)-2 {
			if n, err := strconv.Atoi(seg); err == nil {
				id = id.WithIndex(n)
				continue
			}
		}
		id = id.WithProperty(seg)
	}
	if id.Named == "" {
		id.Invalid = true
	}
	return id
}

func parseTagName(name string) (vt.Tag, bool) {
	switch name {
	case "constructed":
		return vt.TagConstructed, true
	case "computed":
		return vt.TagComputed, true
	case "variant":
		return vt.TagVariant, true
	case "element":
		return vt.TagElement, true
	case "companion":
		return vt.TagCompanion, true
	default:
		return 0, false
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	tok := p.next()
	if tok.Kind != kind {
		return tok, p.errorAt(tok, "expected %s, got %s", kind, tok.Kind)
	}
	return tok, nil
}

func (p *Parser) errorAt(tok Token, format string, args ...any) error {
	loc := tok.Loc
	if loc.Line == 0 {
		loc = SourceLocation{Filename: p.filename, Line: 1, Column: 1}
	}
	return NewSourceError(fmt.Errorf(format, args...), &loc, p.source)
}
