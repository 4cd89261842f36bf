// Package typeterm implements the TypeTerm algebra: TypeID/Num/Char/App/
// Ladder terms, curry/decurry normalization, Ladder-Normal-Form, subtype
// matching and the TypeDict name<->TypeID bijection with its surface
// syntax parser and unparser.
package typeterm

import (
	"fmt"
	"strings"
)

// IDKind distinguishes the three namespaces a TypeID can live in.
type IDKind int

const (
	IDName IDKind = iota
	IDFunction
	IDVariable
)

// TypeID is a dictionary-assigned identifier, unique within its namespace.
type TypeID struct {
	Kind IDKind
	id   int64
}

// Kind discriminates the five TypeTerm variants.
type Kind int

const (
	KindTypeID Kind = iota
	KindNum
	KindChar
	KindApp
	KindLadder
)

// Term is the algebraic TypeTerm: TypeID(id) | Num(i64) | Char(c) |
// App([Term]) | Ladder([Term]). Only the fields relevant to Kind are
// meaningful; this mirrors the tagged-union shape of the Rust source
// without needing a Go sum-type library.
type Term struct {
	Kind Kind
	ID   TypeID
	Num  int64
	Char rune
	Args []Term
}

// Of constructs a TypeID term.
func Of(id TypeID) Term { return Term{Kind: KindTypeID, ID: id} }

// NumTerm constructs a Num literal term.
func NumTerm(n int64) Term { return Term{Kind: KindNum, Num: n} }

// CharTerm constructs a Char literal term.
func CharTerm(c rune) Term { return Term{Kind: KindChar, Char: c} }

// App constructs an App term, arity >= 1.
func App(args ...Term) Term { return Term{Kind: KindApp, Args: args} }

// Ladder constructs a Ladder term (outermost first, innermost last).
func Ladder(rungs ...Term) Term { return Term{Kind: KindLadder, Args: rungs} }

// Unit is the empty ladder, used as the neutral element of LNF.
func Unit() Term { return Term{Kind: KindLadder, Args: nil} }

// Equal reports structural equality.
func (t Term) Equal(o Term) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindTypeID:
		return t.ID == o.ID
	case KindNum:
		return t.Num == o.Num
	case KindChar:
		return t.Char == o.Char
	case KindApp, KindLadder:
		if len(t.Args) != len(o.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Arg appends an argument, turning an atom into a 2-ary App the way the
// source's builder-style Arg/NumArg/CharArg do.
func (t Term) Arg(arg Term) Term {
	if t.Kind == KindApp {
		args := append(append([]Term{}, t.Args...), arg)
		return Term{Kind: KindApp, Args: args}
	}
	return App(t, arg)
}

// IsFlat reports whether the term contains no Ladder anywhere within it.
func (t Term) IsFlat() bool {
	switch t.Kind {
	case KindLadder:
		return false
	case KindApp:
		for _, a := range t.Args {
			if !a.IsFlat() {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Key returns a canonical string encoding of t suitable for use as a map
// key (e.g. ReprTree's branches map): structurally equal terms always
// produce the same Key, independent of any Dict.
func (t Term) Key() string {
	var b strings.Builder
	t.writeKey(&b)
	return b.String()
}

func (t Term) writeKey(b *strings.Builder) {
	switch t.Kind {
	case KindTypeID:
		fmt.Fprintf(b, "I%d.%d", t.ID.Kind, t.ID.id)
	case KindNum:
		fmt.Fprintf(b, "N%d", t.Num)
	case KindChar:
		fmt.Fprintf(b, "C%d", t.Char)
	case KindApp, KindLadder:
		if t.Kind == KindApp {
			b.WriteByte('A')
		} else {
			b.WriteByte('L')
		}
		fmt.Fprintf(b, "%d(", len(t.Args))
		for _, a := range t.Args {
			a.writeKey(b)
			b.WriteByte(',')
		}
		b.WriteByte(')')
	}
}

// HeadTypeID returns the TypeID at the head of an App/Ladder chain: the
// first concrete TypeID found by descending through leading App/Ladder
// wrappers. Used to derive a MorphismTypePattern from a concrete type.
func (t Term) HeadTypeID() (TypeID, bool) {
	cur := t
	for {
		switch cur.Kind {
		case KindTypeID:
			return cur.ID, true
		case KindApp, KindLadder:
			if len(cur.Args) == 0 {
				return TypeID{}, false
			}
			cur = cur.Args[0]
		default:
			return TypeID{}, false
		}
	}
}
