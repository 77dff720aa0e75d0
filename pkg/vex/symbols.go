package vex

import (
	"github.com/vexlang/vex/pkg/vt"
)

// DefineSymbol is a checked user element definition: its overload set plus
// the declaration metadata the code generator needs.
type DefineSymbol struct {
	Name        Identifier
	Generics    []string
	ElementTags vt.TagSet
	Overloads   []*Overload
}

// ObjectSymbol is a checked object definition.
type ObjectSymbol struct {
	Name     Identifier
	Generics []string
	Fields   []ObjectField
}

type ObjectField struct {
	Name string
	Type vt.Type
}

// Type returns the custom type an object definition introduces.
func (o *ObjectSymbol) Type() vt.Custom {
	return vt.NewCustom(o.Name.Named).WithTags(vt.TagConstructed).(vt.Custom)
}

// Constructor returns the overload that builds the object from its fields.
func (o *ObjectSymbol) Constructor() *Overload {
	params := make([]vt.Type, len(o.Fields))
	for i, f := range o.Fields {
		params[i] = f.Type
	}
	return NewOverload(params, []vt.Type{o.Type()})
}

// TraitSymbol is a checked trait definition.
type TraitSymbol struct {
	Name    Identifier
	Methods []TraitMethod
}

type TraitMethod struct {
	Name      string
	Signature *Overload
}

// VariableSymbol is a named value whose type is either resolved or still
// awaiting inference.
type VariableSymbol struct {
	Name    Identifier
	Type    vt.Type
	ToInfer bool
}

// SymbolTable maps identifiers to definitions. Builtins are injected at
// construction and immutable afterwards. User definitions land in the
// unchecked registries first and are promoted to checked symbols by the
// analyser on first reference.
type SymbolTable struct {
	builtins map[Identifier][]*Overload

	defines map[Identifier]*DefineSymbol
	objects map[Identifier]*ObjectSymbol
	traits  map[Identifier]*TraitSymbol

	uncheckedDefines map[Identifier]*DefineNode
	uncheckedObjects map[Identifier]*ObjectNode
	uncheckedTraits  map[Identifier]*TraitNode
}

func NewSymbolTable(builtins map[Identifier][]*Overload) *SymbolTable {
	if builtins == nil {
		builtins = map[Identifier][]*Overload{}
	}
	return &SymbolTable{
		builtins:         builtins,
		defines:          map[Identifier]*DefineSymbol{},
		objects:          map[Identifier]*ObjectSymbol{},
		traits:           map[Identifier]*TraitSymbol{},
		uncheckedDefines: map[Identifier]*DefineNode{},
		uncheckedObjects: map[Identifier]*ObjectNode{},
		uncheckedTraits:  map[Identifier]*TraitNode{},
	}
}

// Builtin returns the builtin overload set for name, if any.
func (t *SymbolTable) Builtin(name Identifier) ([]*Overload, bool) {
	os, ok := t.builtins[name]
	return os, ok
}

// RegisterElement stores a raw, not-yet-checked element definition.
func (t *SymbolTable) RegisterElement(node *DefineNode) {
	t.uncheckedDefines[node.Name] = node
}

// RegisterObject stores a raw, not-yet-checked object definition.
func (t *SymbolTable) RegisterObject(node *ObjectNode) {
	t.uncheckedObjects[node.Name] = node
}

// RegisterTrait stores a raw, not-yet-checked trait definition.
func (t *SymbolTable) RegisterTrait(node *TraitNode) {
	t.uncheckedTraits[node.Name] = node
}

// UncheckedElement returns the raw definition for name if it has not been
// promoted yet.
func (t *SymbolTable) UncheckedElement(name Identifier) (*DefineNode, bool) {
	n, ok := t.uncheckedDefines[name]
	return n, ok
}

func (t *SymbolTable) UncheckedObject(name Identifier) (*ObjectNode, bool) {
	n, ok := t.uncheckedObjects[name]
	return n, ok
}

func (t *SymbolTable) UncheckedTrait(name Identifier) (*TraitNode, bool) {
	n, ok := t.uncheckedTraits[name]
	return n, ok
}

// PromoteElement moves a definition from the unchecked registry to the
// checked map. The two maps are disjoint: a name is either unchecked or
// checked, never both.
func (t *SymbolTable) PromoteElement(sym *DefineSymbol) {
	delete(t.uncheckedDefines, sym.Name)
	t.defines[sym.Name] = sym
}

func (t *SymbolTable) PromoteObject(sym *ObjectSymbol) {
	delete(t.uncheckedObjects, sym.Name)
	t.objects[sym.Name] = sym
}

func (t *SymbolTable) PromoteTrait(sym *TraitSymbol) {
	delete(t.uncheckedTraits, sym.Name)
	t.traits[sym.Name] = sym
}

// Element returns the checked symbol for name, if promoted.
func (t *SymbolTable) Element(name Identifier) (*DefineSymbol, bool) {
	s, ok := t.defines[name]
	return s, ok
}

func (t *SymbolTable) Object(name Identifier) (*ObjectSymbol, bool) {
	s, ok := t.objects[name]
	return s, ok
}

func (t *SymbolTable) Trait(name Identifier) (*TraitSymbol, bool) {
	s, ok := t.traits[name]
	return s, ok
}

// Overloads resolves the full overload set visible for name: the builtin
// table first, then checked user definitions.
func (t *SymbolTable) Overloads(name Identifier) ([]*Overload, bool) {
	if os, ok := t.builtins[name]; ok {
		return os, true
	}
	if sym, ok := t.defines[name]; ok {
		return sym.Overloads, true
	}
	if sym, ok := t.objects[name]; ok {
		return []*Overload{sym.Constructor()}, true
	}
	return nil, false
}
