package vex

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vexlang/vex/pkg/vt"
)

// SourceLocation represents a location in source code.
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
	Length   int // length of the syntax node that caused the error
}

func (loc *SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", loc.Filename, loc.Line, loc.Column)
}

// SourceLocatable is implemented by AST nodes and tokens that know where
// they came from.
type SourceLocatable interface {
	GetSourceLocation() *SourceLocation
}

// VariableNotFoundError reports a lookup that exhausted the scope chain.
type VariableNotFoundError struct {
	Name Identifier
}

func (e VariableNotFoundError) Error() string {
	return fmt.Sprintf("variable not found: %s", e.Name)
}

// NoMatchingOverloadError reports that no candidate signature fits the
// current stack in any surviving branch.
type NoMatchingOverloadError struct {
	Name  Identifier
	Stack []vt.Type
}

func (e NoMatchingOverloadError) Error() string {
	return fmt.Sprintf("no overload of %s matches stack %s", e.Name, formatStack(e.Stack))
}

// AmbiguousOverloadError reports that several candidates tie under the
// specificity order. Deliberately distinct from NoMatchingOverloadError:
// picking one silently would commit the whole program to a guess.
type AmbiguousOverloadError struct {
	Name       Identifier
	Candidates []*Overload
}

func (e AmbiguousOverloadError) Error() string {
	sigs := make([]string, len(e.Candidates))
	for i, o := range e.Candidates {
		sigs[i] = o.String()
	}
	return fmt.Sprintf("ambiguous overloads for %s: %s", e.Name, strings.Join(sigs, " vs "))
}

// UnimplementedNodeError is an engine bug: the type-checking dispatch met an
// AST node kind it has no case for. It is internal, not a user type error.
type UnimplementedNodeError struct {
	Node Node
}

func (e UnimplementedNodeError) Error() string {
	return fmt.Sprintf("internal: no type-checking case for node %T", e.Node)
}

// BranchExplosionError reports that an apply would grow the multiverse past
// the configured branch cap.
type BranchExplosionError struct {
	Name     Identifier
	Branches int
	Limit    int
}

func (e BranchExplosionError) Error() string {
	return fmt.Sprintf("applying %s would grow to %d branches (limit %d)", e.Name, e.Branches, e.Limit)
}

// AnalysisError wraps any engine failure with the top-level definition it
// happened inside, so diagnostics can name the offending definition.
type AnalysisError struct {
	Definition Identifier
	Inner      error
}

func (e *AnalysisError) Error() string {
	if e.Definition.Named == "" {
		return e.Inner.Error()
	}
	return fmt.Sprintf("in %s: %s", e.Definition, e.Inner)
}

func (e *AnalysisError) Unwrap() error { return e.Inner }

// SourceError attaches a source location and file contents to an error and
// renders a caret-underlined excerpt.
type SourceError struct {
	Inner    error
	Location *SourceLocation
	Source   string
}

func NewSourceError(inner error, location *SourceLocation, source string) *SourceError {
	return &SourceError{Inner: inner, Location: location, Source: source}
}

func (e *SourceError) Unwrap() error { return e.Inner }

func (e *SourceError) Error() string {
	if e.Location == nil {
		return e.Inner.Error()
	}
	return e.formatWithContext()
}

func (e *SourceError) formatWithContext() string {
	if e.Location == nil && e.Source == "" {
		return e.Inner.Error()
	}

	if e.Source == "" && e.Location.Filename != "" {
		contents, err := os.ReadFile(e.Location.Filename)
		if err == nil {
			e.Source = string(contents)
		}
	}

	lines := strings.Split(e.Source, "\n")
	if e.Location.Line < 1 || e.Location.Line > len(lines) {
		return e.Inner.Error()
	}

	const (
		red   = "\033[31m"
		blue  = "\033[34m"
		bold  = "\033[1m"
		reset = "\033[0m"
		dim   = "\033[2m"
	)

	var result strings.Builder

	result.WriteString(fmt.Sprintf("%s%sError:%s %s\n", bold, red, reset, e.Inner))
	result.WriteString(fmt.Sprintf("  %s%s--> %s%s\n", dim, blue, e.Location, reset))
	result.WriteString(fmt.Sprintf(" %s%s |%s\n", dim, padLeft("", 3), reset))

	startLine := max(1, e.Location.Line-2)
	endLine := min(len(lines), e.Location.Line+2)

	for i := startLine; i <= endLine; i++ {
		paddedLineStr := padLeft(fmt.Sprintf("%d", i), 3)
		if i == e.Location.Line {
			result.WriteString(fmt.Sprintf(" %s%s%s%s | %s%s\n",
				dim, blue, bold, paddedLineStr, reset, lines[i-1]))

			padding := strings.Repeat(" ", 1+3+3+e.Location.Column-1)
			underline := strings.Repeat("^", max(1, e.Location.Length))
			result.WriteString(fmt.Sprintf("%s%s%s%s%s\n",
				dim, padding, red, underline, reset))
		} else {
			result.WriteString(fmt.Sprintf(" %s%s | %s%s\n",
				dim, paddedLineStr, lines[i-1], reset))
		}
	}

	result.WriteString(fmt.Sprintf(" %s%s |%s\n", dim, padLeft("", 3), reset))

	return result.String()
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// WrapSourceError attaches a location to err unless it already carries one.
func WrapSourceError(err error, node SourceLocatable, source string) error {
	var sourceErr *SourceError
	if errors.As(err, &sourceErr) {
		return err
	}
	if node == nil {
		return err
	}
	loc := node.GetSourceLocation()
	if loc == nil {
		return err
	}
	return NewSourceError(err, loc, source)
}

func formatStack(stack []vt.Type) string {
	parts := make([]string, len(stack))
	for i, t := range stack {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
