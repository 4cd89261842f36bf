package typeterm

// Curry rewrites an App so it has at most two entries, left-nesting the
// overflow: <H A1 A2 A3> becomes <<<H A1> A2> A3>. Recurses into Ladder
// rungs; atoms pass through unchanged.
func (t Term) Curry() Term {
	switch t.Kind {
	case KindApp:
		args := append([]Term{}, t.Args...)
		if n := len(args); n > 2 {
			return App(App(args[:n-1]...).Curry(), args[n-1])
		}
		return App(args...)

	case KindLadder:
		rungs := make([]Term, len(t.Args))
		for i, r := range t.Args {
			rungs[i] = r.Curry()
		}
		return Ladder(rungs...)

	default:
		return t
	}
}

// Decurry is the inverse of Curry: it flattens nested App chains back into
// one argument list, so a type has a canonical arity representation.
func (t Term) Decurry() Term {
	switch t.Kind {
	case KindApp:
		if len(t.Args) == 0 {
			return t
		}
		head := t.Args[0].Decurry()
		rest := t.Args[1:]
		var flatArgs []Term
		if head.Kind == KindApp {
			flatArgs = append(flatArgs, head.Args...)
		} else {
			flatArgs = append(flatArgs, head)
		}
		for _, a := range rest {
			flatArgs = append(flatArgs, a.Decurry())
		}
		return App(flatArgs...)

	case KindLadder:
		rungs := make([]Term, len(t.Args))
		for i, r := range t.Args {
			rungs[i] = r.Decurry()
		}
		return Ladder(rungs...)

	default:
		return t
	}
}
