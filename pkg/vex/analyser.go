package vex

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/vexlang/vex/pkg/vt"
)

// Phase tracks the analyser's progress through its two passes.
type Phase int

const (
	// PhaseNameCollection classifies top-level nodes: definitions, objects,
	// and traits are registered unchecked; everything else is ignored until
	// the next phase.
	PhaseNameCollection Phase = iota
	// PhaseTypeChecking walks the AST, pushing literal types and applying
	// element overloads through the scope controller.
	PhaseTypeChecking
	// PhaseDone means the per-statement scope lists are ready for
	// downstream consumers.
	PhaseDone
)

// Result is what analysis hands downstream: the surviving branches after
// each top-level statement, the final multiverse, and the symbol table with
// both resolved and still-unchecked entries. Consumers that need a single
// deterministic typing must collapse multiple surviving branches themselves.
type Result struct {
	Statements [][]*Scope
	Branches   []*Scope
	Symbols    *SymbolTable
}

// Analyser drives type checking of one program. The builtin table is
// injected at construction and never mutated.
type Analyser struct {
	symbols *SymbolTable
	ctrl    *ScopeController
	phase   Phase

	filename string
	source   string

	// checking guards against definitions that recurse into themselves
	// while their own body is still being typed.
	checking map[Identifier]bool
}

func NewAnalyser(builtins map[Identifier][]*Overload, maxBranches int) *Analyser {
	return &Analyser{
		symbols:  NewSymbolTable(builtins),
		ctrl:     NewScopeController(maxBranches),
		checking: map[Identifier]bool{},
	}
}

// Analyse runs both phases over one program. It may be called once per
// Analyser.
func (a *Analyser) Analyse(prog *Program) (*Result, error) {
	if a.phase != PhaseNameCollection {
		return nil, fmt.Errorf("analyser already used (phase %d)", a.phase)
	}
	a.filename = prog.Filename
	a.source = prog.Source

	for _, node := range prog.Nodes {
		switch n := node.(type) {
		case *DefineNode:
			a.symbols.RegisterElement(n)
		case *ObjectNode:
			a.symbols.RegisterObject(n)
		case *TraitNode:
			a.symbols.RegisterTrait(n)
		}
	}
	a.phase = PhaseTypeChecking

	result := &Result{Symbols: a.symbols}
	a.ctrl.CreateScope(nil)
	for _, node := range prog.Nodes {
		if err := a.checkNode(node); err != nil {
			return nil, WrapSourceError(err, node, a.source)
		}
		result.Statements = append(result.Statements, snapshotBranches(a.ctrl.Branches()))
	}
	result.Branches = a.ctrl.Branches()

	a.phase = PhaseDone
	return result, nil
}

// checkNode dispatches on the closed node sum. The default case is the
// UnimplementedNodeError guard: reaching it means the AST grammar grew a
// variant this switch does not cover, which is an engine bug.
func (a *Analyser) checkNode(node Node) error {
	switch n := node.(type) {
	case *NumberNode:
		a.ctrl.Push(vt.Number{})
		return nil

	case *StringNode:
		a.ctrl.Push(vt.String{})
		return nil

	case *ListNode:
		t, err := a.literalType(n)
		if err != nil {
			return err
		}
		a.ctrl.Push(t)
		return nil

	case *QuoteNode:
		fn, err := a.checkQuote(n)
		if err != nil {
			return err
		}
		a.ctrl.Push(fn)
		return nil

	case *BindNode:
		a.ctrl.SetVariable(n.Name)
		return nil

	case *ElementNode:
		return a.applyElement(n)

	case *DefineNode:
		if _, done := a.symbols.Element(n.Name); done {
			return nil
		}
		_, err := a.checkDefine(n)
		return err

	case *ObjectNode:
		if _, done := a.symbols.Object(n.Name); done {
			return nil
		}
		_, err := a.checkObject(n)
		return err

	case *TraitNode:
		if _, done := a.symbols.Trait(n.Name); done {
			return nil
		}
		_, err := a.checkTrait(n)
		return err

	default:
		return UnimplementedNodeError{Node: node}
	}
}

// applyElement resolves an identifier and applies its overload set: the
// builtin table first, then checked user symbols, then unchecked ones
// (promoted on this first use), and finally variables.
func (a *Analyser) applyElement(n *ElementNode) error {
	if overloads, ok := a.symbols.Overloads(n.Name); ok {
		return a.ctrl.Apply(n.Name, overloads)
	}

	if raw, ok := a.symbols.UncheckedElement(n.Name); ok {
		sym, err := a.checkDefine(raw)
		if err != nil {
			return err
		}
		return a.ctrl.Apply(n.Name, sym.Overloads)
	}

	if raw, ok := a.symbols.UncheckedObject(n.Name); ok {
		sym, err := a.checkObject(raw)
		if err != nil {
			return err
		}
		return a.ctrl.Apply(n.Name, []*Overload{sym.Constructor()})
	}

	return a.ctrl.PushVariable(n.Name)
}

// checkDefine promotes an unchecked element definition to a checked
// symbol, typing its body in a fresh level of the multiverse.
func (a *Analyser) checkDefine(n *DefineNode) (*DefineSymbol, error) {
	if sym, ok := a.symbols.Element(n.Name); ok {
		return sym, nil
	}
	if a.checking[n.Name] {
		if !n.HasSignature {
			return nil, errors.Errorf("recursive definition %s needs an explicit signature", n.Name)
		}
		// Recursion is typed against the declared signature; the body is
		// verified by the outer call already in flight.
		sym := &DefineSymbol{
			Name:        n.Name,
			Generics:    n.Generics,
			ElementTags: n.ElementTags,
			Overloads:   []*Overload{NewOverload(n.Params, n.Returns)},
		}
		return sym, nil
	}
	a.checking[n.Name] = true
	defer delete(a.checking, n.Name)

	slog.Debug("checking definition", "name", n.Name.String())

	var inputs []vt.Type
	if n.HasSignature {
		inputs = n.Params
	}
	a.ctrl.CreateScope(inputs)
	for _, body := range n.Body {
		if err := a.checkNode(body); err != nil {
			a.ctrl.PopScope()
			return nil, a.definitionError(n, err)
		}
	}
	branches := a.ctrl.PopScope()

	var overloads []*Overload
	if n.HasSignature {
		declared := NewOverload(n.Params, n.Returns)
		if err := verifyDeclared(n, branches, declared); err != nil {
			return nil, a.definitionError(n, err)
		}
		overloads = []*Overload{declared}
	} else {
		overloads = dedupeOverloads(branches)
	}

	sym := &DefineSymbol{
		Name:        n.Name,
		Generics:    n.Generics,
		ElementTags: n.ElementTags,
		Overloads:   overloads,
	}
	a.symbols.PromoteElement(sym)
	return sym, nil
}

// definitionError attaches the failing definition's identifier to an
// error, once.
func (a *Analyser) definitionError(n *DefineNode, err error) error {
	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return err
	}
	return &AnalysisError{Definition: n.Name, Inner: WrapSourceError(err, n, a.source)}
}

// snapshotBranches forks every branch so the per-statement record stays
// frozen while analysis keeps mutating the live scopes.
func snapshotBranches(branches []*Scope) []*Scope {
	out := make([]*Scope, len(branches))
	for i, b := range branches {
		out[i] = b.fork()
	}
	return out
}

// verifyDeclared checks that at least one surviving branch produces the
// declared return stack.
func verifyDeclared(n *DefineNode, branches []*Scope, declared *Overload) error {
	for _, b := range branches {
		got := b.AsOverload()
		if len(got.Returns) != len(declared.Returns) {
			continue
		}
		ok := true
		for i, r := range declared.Returns {
			compat, err := vt.Compatible(r, got.Returns[i])
			if err != nil {
				return WrapSourceError(err, n, "")
			}
			if !compat {
				ok = false
				break
			}
		}
		if ok {
			return nil
		}
	}
	return errors.Errorf("body of %s does not produce its declared returns %s", n.Name, declared)
}

// dedupeOverloads converts surviving branches into an overload set,
// collapsing branches that settled on the same signature.
func dedupeOverloads(branches []*Scope) []*Overload {
	var out []*Overload
	seen := map[string]bool{}
	for _, b := range branches {
		o := b.AsOverload()
		key := o.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, o)
	}
	return out
}

func (a *Analyser) checkObject(n *ObjectNode) (*ObjectSymbol, error) {
	sym := &ObjectSymbol{Name: n.Name, Generics: n.Generics}
	for _, f := range n.Fields {
		sym.Fields = append(sym.Fields, ObjectField{Name: f.Name, Type: f.Type})
	}
	a.symbols.PromoteObject(sym)
	return sym, nil
}

func (a *Analyser) checkTrait(n *TraitNode) (*TraitSymbol, error) {
	sym := &TraitSymbol{Name: n.Name}
	for _, m := range n.Methods {
		sym.Methods = append(sym.Methods, TraitMethod{
			Name:      m.Name,
			Signature: NewOverload(m.Params, m.Returns),
		})
	}
	a.symbols.PromoteTrait(sym)
	return sym, nil
}

// checkQuote types a quote body in its own level and converts the first
// surviving branch into a function type. When several branches survive, the
// quote's eventual call site is what disambiguates them; until then the
// first branch stands in, tagged as computed.
func (a *Analyser) checkQuote(n *QuoteNode) (vt.Type, error) {
	a.ctrl.CreateScope(nil)
	for _, body := range n.Body {
		if err := a.checkNode(body); err != nil {
			a.ctrl.PopScope()
			return nil, err
		}
	}
	branches := a.ctrl.PopScope()
	if len(branches) == 0 {
		return nil, errors.New("quote body has no valid typing")
	}
	fn := branches[0].AsOverload().AsFunction()
	return fn.WithTags(vt.TagComputed), nil
}

// literalType derives the type a list literal pushes. Scalar members give
// an exact-rank-1 list; uniformly exact-rank members nest one deeper;
// mismatched member types widen into a union; members whose type is only
// known by running the analysis get a fresh inference variable.
func (a *Analyser) literalType(n *ListNode) (vt.Type, error) {
	if len(n.Elems) == 0 {
		return vt.NewList(a.ctrl.Fresher().Fresh()), nil
	}

	var elem vt.Type
	for _, member := range n.Elems {
		var mt vt.Type
		switch m := member.(type) {
		case *NumberNode:
			mt = vt.Number{}
		case *StringNode:
			mt = vt.String{}
		case *ListNode:
			inner, err := a.literalType(m)
			if err != nil {
				return nil, err
			}
			mt = inner
		default:
			mt = a.ctrl.Fresher().Fresh()
		}

		if elem == nil {
			elem = mt
			continue
		}
		eq, err := elem.StructuralEq(mt)
		if err != nil {
			return nil, err
		}
		if !eq {
			elem = vt.NewUnion(elem, mt)
		}
	}

	// A literal of exact-rank-k lists of T is itself an exact-rank-(k+1)
	// list of T; mixed member types fall back to an unconstrained rank.
	if inner, ok := elem.(vt.List); ok && inner.Rank.Kind == vt.RankExact {
		return vt.NewRankedList(inner.Elem, vt.ExactRank(inner.Rank.N+1)), nil
	}
	if _, mixed := elem.(vt.Union); mixed {
		return vt.NewRankedList(elem, vt.Rugged()), nil
	}
	return vt.NewRankedList(elem, vt.ExactRank(1)), nil
}
