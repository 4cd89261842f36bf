package typeterm

// Normalize rewrites t into Ladder-Normal-Form: every App argument becomes
// ladder-free, with the ladder structure hoisted to distribute over the
// App. Implemented as an explicit post-order stack walk rather than plain
// recursion, per the design note that LNF must not blow the call stack on
// deep ladders.
//
// Atoms normalize to a single-rung ladder holding themselves. A Ladder
// normalizes to the flat concatenation of its rungs' own normal forms
// (so nested ladders collapse into one flat rung list). An App normalizes
// by computing the LNF of each of its parameters (Args[1:]; the head,
// Args[0], is the type constructor and is never laddered), then building
// one App-per-level across the parallel position of every parameter's
// rung list: level i takes rung i from each parameter, clamping to a
// parameter's last (most concrete) rung once its own ladder runs out, so
// ragged ladders still align depth-for-depth.
func Normalize(root Term) Term {
	type frame struct {
		term     Term
		children []Term
		idx      int
		results  []Term
	}

	newFrame := func(t Term) *frame {
		switch t.Kind {
		case KindLadder:
			return &frame{term: t, children: append([]Term{}, t.Args...)}
		case KindApp:
			if len(t.Args) <= 1 {
				return &frame{term: t}
			}
			return &frame{term: t, children: append([]Term{}, t.Args[1:]...)}
		default:
			return &frame{term: t}
		}
	}

	stack := []*frame{newFrame(root)}
	var pending Term
	havePending := false

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if havePending {
			top.results = append(top.results, pending)
			havePending = false
			top.idx++
		}

		if top.idx < len(top.children) {
			stack = append(stack, newFrame(top.children[top.idx]))
			continue
		}

		res := combineLNF(top.term, top.results)
		stack = stack[:len(stack)-1]
		pending = res
		havePending = true
	}

	return pending
}

// combineLNF applies the per-node LNF rewrite once every child (as defined
// by newFrame) has already been normalized.
func combineLNF(term Term, normalizedParams []Term) Term {
	switch term.Kind {
	case KindLadder:
		var flat []Term
		for _, n := range normalizedParams {
			flat = append(flat, n.Args...)
		}
		return Ladder(flat...)

	case KindApp:
		if len(term.Args) <= 1 {
			return Ladder(term)
		}
		head := term.Args[0]

		maxRungs := 1
		for _, n := range normalizedParams {
			if len(n.Args) > maxRungs {
				maxRungs = len(n.Args)
			}
		}

		levels := make([]Term, maxRungs)
		for level := 0; level < maxRungs; level++ {
			params := make([]Term, 0, len(normalizedParams)+1)
			params = append(params, head)
			for _, n := range normalizedParams {
				params = append(params, rungAt(n, level))
			}
			levels[level] = App(params...)
		}
		return Ladder(levels...)

	default:
		return Ladder(term)
	}
}

// rungAt returns ladder.Args[level], clamping to the last rung once level
// exceeds the ladder's own depth, so a non-laddered (single-rung)
// parameter simply repeats at every level the distributing App produces.
func rungAt(ladder Term, level int) Term {
	if level >= len(ladder.Args) {
		return ladder.Args[len(ladder.Args)-1]
	}
	return ladder.Args[level]
}

// LNFVec returns the rungs of t's Ladder-Normal-Form.
func LNFVec(t Term) []Term {
	n := Normalize(t)
	if n.Kind != KindLadder {
		panic("typeterm: normalize did not return a Ladder")
	}
	return n.Args
}
