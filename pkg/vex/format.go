package vex

import (
	"fmt"
	"strings"
)

// FormatNode renders an AST node back to readable source-like text.
func FormatNode(node Node) string {
	var sb strings.Builder
	writeNode(&sb, node, 0)
	return sb.String()
}

// FormatProgram renders a whole program, one top-level node per line.
func FormatProgram(prog *Program) string {
	var sb strings.Builder
	for _, node := range prog.Nodes {
		writeNode(&sb, node, 0)
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, node Node, depth int) {
	switch n := node.(type) {
	case *NumberNode:
		fmt.Fprintf(sb, "%g", n.Value)

	case *StringNode:
		fmt.Fprintf(sb, "%q", n.Value)

	case *ListNode:
		sb.WriteString("[")
		writeSequence(sb, n.Elems, depth)
		sb.WriteString("]")

	case *QuoteNode:
		sb.WriteString("(")
		writeSequence(sb, n.Body, depth)
		sb.WriteString(")")

	case *ElementNode:
		sb.WriteString(n.Name.String())

	case *BindNode:
		sb.WriteString(":= " + n.Name.String())

	case *DefineNode:
		sb.WriteString("def " + n.Name.String())
		if len(n.Generics) > 0 {
			sb.WriteString("<" + strings.Join(n.Generics, ", ") + ">")
		}
		for _, tag := range n.ElementTags {
			sb.WriteString(" @" + tag.String())
		}
		if n.HasSignature {
			sb.WriteString(" " + NewOverload(n.Params, n.Returns).String())
		}
		sb.WriteString("\n" + indent(depth+1))
		writeSequence(sb, n.Body, depth+1)
		sb.WriteString("\n" + indent(depth) + "end")

	case *ObjectNode:
		sb.WriteString("object " + n.Name.String())
		if len(n.Generics) > 0 {
			sb.WriteString("<" + strings.Join(n.Generics, ", ") + ">")
		}
		for _, f := range n.Fields {
			fmt.Fprintf(sb, "\n%s%s: %s", indent(depth+1), f.Name, f.Type)
		}
		sb.WriteString("\n" + indent(depth) + "end")

	case *TraitNode:
		sb.WriteString("trait " + n.Name.String())
		for _, m := range n.Methods {
			fmt.Fprintf(sb, "\n%s%s %s", indent(depth+1), m.Name,
				NewOverload(m.Params, m.Returns))
		}
		sb.WriteString("\n" + indent(depth) + "end")
	}
}

func writeSequence(sb *strings.Builder, nodes []Node, depth int) {
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString(" ")
		}
		writeNode(sb, n, depth)
	}
}

func indent(depth int) string { return strings.Repeat("  ", depth) }

// FormatBranches summarizes the surviving multiverse branches: each
// branch's discovered inputs and resulting stack, one per line.
func FormatBranches(branches []*Scope) string {
	var sb strings.Builder
	for i, b := range branches {
		fmt.Fprintf(&sb, "branch %d: inputs %s stack %s\n",
			i, formatStack(b.Inputs()), formatStack(b.Stack()))
	}
	return sb.String()
}

// FormatTokens renders a token stream for the --dump-tokens CLI mode.
func FormatTokens(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		if tok.Kind == TokenEOF {
			break
		}
		fmt.Fprintf(&sb, "%d:%d\t%s\n", tok.Loc.Line, tok.Loc.Column, tok)
	}
	return sb.String()
}
