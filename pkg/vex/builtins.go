package vex

import (
	"github.com/vexlang/vex/pkg/vt"
)

// Builtin generic placeholders. Negative IDs keep them disjoint from the
// inference variables a Fresher hands out during analysis.
var (
	genericA = vt.InferenceVar{ID: -1}
	genericB = vt.InferenceVar{ID: -2}
)

// Builtins constructs the builtin overload table. The analyser receives
// this table at construction and treats it as immutable input; nothing
// mutates it after seeding.
func Builtins() map[Identifier][]*Overload {
	num := vt.Number{}
	str := vt.String{}
	numList := vt.NewList(num)

	table := map[Identifier][]*Overload{}
	add := func(name string, overloads ...*Overload) {
		table[Ident(name)] = overloads
	}

	binaryNum := NewOverload([]vt.Type{num, num}, []vt.Type{num})
	binaryStr := NewOverload([]vt.Type{str, str}, []vt.Type{str})

	add("+", binaryNum, binaryStr)
	add("-", binaryNum)
	add("*", binaryNum)
	add("/", binaryNum)
	add("%", binaryNum)
	add("neg", NewOverload([]vt.Type{num}, []vt.Type{num}))

	add("=",
		NewOverload([]vt.Type{num, num}, []vt.Type{num}),
		NewOverload([]vt.Type{str, str}, []vt.Type{num}),
	)
	add("<", binaryNum)
	add(">", binaryNum)
	add("not", NewOverload([]vt.Type{num}, []vt.Type{num}))

	add("dup", NewOverload([]vt.Type{genericA}, []vt.Type{genericA, genericA}))
	add("swap", NewOverload([]vt.Type{genericA, genericB}, []vt.Type{genericB, genericA}))
	add("drop", NewOverload([]vt.Type{genericA}, nil))
	add("over", NewOverload([]vt.Type{genericA, genericB}, []vt.Type{genericA, genericB, genericA}))

	add("len",
		NewOverload([]vt.Type{str}, []vt.Type{num}),
		NewOverload([]vt.Type{vt.NewList(genericA)}, []vt.Type{num}),
	)
	add("concat",
		NewOverload([]vt.Type{str, str}, []vt.Type{str}),
		NewOverload([]vt.Type{vt.NewList(genericA), vt.NewList(genericA)}, []vt.Type{vt.NewList(genericA)}),
	)
	add("sum", NewOverload([]vt.Type{numList}, []vt.Type{num}))
	add("reverse", NewOverload([]vt.Type{vt.NewList(genericA)}, []vt.Type{vt.NewList(genericA)}))

	add("to-string", NewOverload([]vt.Type{num}, []vt.Type{str}))
	add("to-number", NewOverload([]vt.Type{str}, []vt.Type{vt.NewOptional(num)}))

	add("print",
		NewOverload([]vt.Type{str}, nil),
		NewOverload([]vt.Type{num}, nil),
	)

	return table
}
