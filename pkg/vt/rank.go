package vt

import (
	"fmt"
	"strconv"
)

// RankKind distinguishes the ways a list type constrains its rank.
type RankKind int

const (
	// RankRugged places no constraint on the list's rank.
	RankRugged RankKind = iota
	// RankExact fixes the rank to a literal integer.
	RankExact
	// RankMin bounds the rank from below.
	RankMin
	// RankDependent expresses the rank symbolically, in terms of a value
	// only known at run time. Two dependent ranks cannot be ordered.
	RankDependent
)

// Rank is a list type's rank constraint.
type Rank struct {
	Kind RankKind
	N    int    // literal rank for RankExact / RankMin
	Sym  string // symbolic expression for RankDependent
}

func Rugged() Rank                { return Rank{Kind: RankRugged} }
func ExactRank(n int) Rank        { return Rank{Kind: RankExact, N: n} }
func MinRank(n int) Rank          { return Rank{Kind: RankMin, N: n} }
func DependentRank(s string) Rank { return Rank{Kind: RankDependent, Sym: s} }

func (r Rank) String() string {
	switch r.Kind {
	case RankExact:
		return strconv.Itoa(r.N)
	case RankMin:
		return strconv.Itoa(r.N) + "+"
	case RankDependent:
		return "$" + r.Sym
	default:
		return "*"
	}
}

// RankComparisonError reports an attempt to compare two dependent ranks,
// which has no defined answer.
type RankComparisonError struct {
	Left, Right Rank
}

func (e RankComparisonError) Error() string {
	return fmt.Sprintf("cannot compare dependent ranks $%s and $%s", e.Left.Sym, e.Right.Sym)
}

// eq decides rank equality. Comparing two dependent ranks is an error, not
// a silent false; a dependent rank against anything else is simply unequal.
func (r Rank) eq(other Rank) (bool, error) {
	if r.Kind == RankDependent && other.Kind == RankDependent {
		return false, RankComparisonError{Left: r, Right: other}
	}
	if r.Kind != other.Kind {
		return false, nil
	}
	switch r.Kind {
	case RankExact, RankMin:
		return r.N == other.N, nil
	default:
		return true, nil
	}
}
