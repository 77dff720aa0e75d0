package vex

import (
	"github.com/vexlang/vex/pkg/vt"
)

// Node is the closed sum of AST node kinds. The sealed marker method keeps
// the set of variants fixed to this package, so the analyser's dispatch can
// enumerate every case; a node kind falling through to the default case is
// an engine bug, never silently skipped.
type Node interface {
	SourceLocatable
	isNode()
}

// Program is an ordered sequence of top-level nodes.
type Program struct {
	Filename string
	Source   string
	Nodes    []Node
}

// NumberNode is a numeric literal.
type NumberNode struct {
	Value float64
	Loc   SourceLocation
}

func (n *NumberNode) isNode() {}
func (n *NumberNode) GetSourceLocation() *SourceLocation {
	loc := n.Loc
	return &loc
}

// StringNode is a string literal.
type StringNode struct {
	Value string
	Loc   SourceLocation
}

func (n *StringNode) isNode() {}
func (n *StringNode) GetSourceLocation() *SourceLocation {
	loc := n.Loc
	return &loc
}

// ListNode is a list literal: `[1 2 3]`.
type ListNode struct {
	Elems []Node
	Loc   SourceLocation
}

func (n *ListNode) isNode() {}
func (n *ListNode) GetSourceLocation() *SourceLocation {
	loc := n.Loc
	return &loc
}

// QuoteNode is a first-class function body: `(dup *)`.
type QuoteNode struct {
	Body []Node
	Loc  SourceLocation
}

func (n *QuoteNode) isNode() {}
func (n *QuoteNode) GetSourceLocation() *SourceLocation {
	loc := n.Loc
	return &loc
}

// ElementNode applies the overload set bound to an identifier, or pushes
// the variable it names.
type ElementNode struct {
	Name Identifier
	Loc  SourceLocation
}

func (n *ElementNode) isNode() {}
func (n *ElementNode) GetSourceLocation() *SourceLocation {
	loc := n.Loc
	return &loc
}

// BindNode pops the top of the stack into a variable: `:= total`.
type BindNode struct {
	Name Identifier
	Loc  SourceLocation
}

func (n *BindNode) isNode() {}
func (n *BindNode) GetSourceLocation() *SourceLocation {
	loc := n.Loc
	return &loc
}

// DefineNode declares a named element, optionally with generics, element
// tags, and an explicit stack-effect signature:
//
//	def double (Number -> Number) 2 * end
type DefineNode struct {
	Name         Identifier
	Generics     []string
	ElementTags  vt.TagSet
	HasSignature bool
	Params       []vt.Type
	Returns      []vt.Type
	Body         []Node
	Loc          SourceLocation
}

func (n *DefineNode) isNode() {}
func (n *DefineNode) GetSourceLocation() *SourceLocation {
	loc := n.Loc
	return &loc
}

// ObjectNode declares a named record type with typed fields.
type ObjectNode struct {
	Name     Identifier
	Generics []string
	Fields   []FieldDecl
	Loc      SourceLocation
}

type FieldDecl struct {
	Name string
	Type vt.Type
	Loc  SourceLocation
}

func (n *ObjectNode) isNode() {}
func (n *ObjectNode) GetSourceLocation() *SourceLocation {
	loc := n.Loc
	return &loc
}

// TraitNode declares a named set of required method signatures.
type TraitNode struct {
	Name    Identifier
	Methods []MethodDecl
	Loc     SourceLocation
}

type MethodDecl struct {
	Name    string
	Params  []vt.Type
	Returns []vt.Type
	Loc     SourceLocation
}

func (n *TraitNode) isNode() {}
func (n *TraitNode) GetSourceLocation() *SourceLocation {
	loc := n.Loc
	return &loc
}
