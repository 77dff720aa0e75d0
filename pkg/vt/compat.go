package vt

// Compatible decides whether a stack value of type arg can be consumed by a
// parameter of type param. It is structural (tags are ignored) but looser
// than StructuralEq in the directions overload matching needs:
//
//   - an unresolved inference variable on either side matches anything,
//     since the binding is settled later when more of the stack is known;
//   - a Union parameter accepts any of its member alternatives;
//   - an Intersection parameter requires the argument to satisfy both sides;
//   - an Optional parameter accepts its inner type directly.
//
// Rank comparison errors from StructuralEq propagate unchanged.
func Compatible(param, arg Type) (bool, error) {
	if _, ok := param.(InferenceVar); ok {
		return true, nil
	}
	if _, ok := arg.(InferenceVar); ok {
		return true, nil
	}
	switch p := param.(type) {
	case List:
		al, ok := arg.(List)
		if !ok {
			return false, nil
		}
		rankOK, err := rankAccepts(p.Rank, al.Rank)
		if err != nil || !rankOK {
			return false, err
		}
		return Compatible(p.Elem, al.Elem)
	case Union:
		for _, m := range p.Members() {
			ok, err := Compatible(m, arg)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		// A union argument also matches a structurally equal union param.
		return param.StructuralEq(arg)
	case Intersection:
		ok, err := Compatible(p.Left, arg)
		if err != nil || !ok {
			return false, err
		}
		return Compatible(p.Right, arg)
	case Optional:
		if ok, err := param.StructuralEq(arg); err != nil || ok {
			return ok, err
		}
		return Compatible(p.Elem, arg)
	default:
		return param.StructuralEq(arg)
	}
}

// rankAccepts decides whether a parameter's rank constraint admits an
// argument's rank. A rugged parameter admits anything; an exact parameter
// demands the same literal rank; a minimum parameter admits any rank
// provably at or above its bound. Two dependent ranks cannot be ordered.
func rankAccepts(param, arg Rank) (bool, error) {
	if param.Kind == RankDependent && arg.Kind == RankDependent {
		return false, RankComparisonError{Left: param, Right: arg}
	}
	switch param.Kind {
	case RankRugged:
		return true, nil
	case RankExact:
		return arg.Kind == RankExact && arg.N == param.N, nil
	case RankMin:
		return (arg.Kind == RankExact || arg.Kind == RankMin) && arg.N >= param.N, nil
	default:
		return false, nil
	}
}

// Specificity scores how discriminating a parameter type is for overload
// ranking. Concrete structural types outrank containers of alternatives,
// which outrank bare inference variables.
func Specificity(param Type) int {
	switch param.(type) {
	case InferenceVar:
		return 0
	case Union, Intersection:
		return 1
	case Optional:
		return 2
	default:
		return 3
	}
}
