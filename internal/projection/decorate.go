package projection

import "nested/internal/port"

// separateView interleaves a delimiter between every pair of upstream
// items: output length is 2n-1 for n>0, 0 for n=0.
type separateView[T any] struct {
	upstream port.SequenceView[T]
	delim    T
}

func (v *separateView[T]) Len() int {
	if v.upstream == nil || v.upstream.Len() == 0 {
		return 0
	}
	return 2*v.upstream.Len() - 1
}

func (v *separateView[T]) Get(idx int) T {
	if idx%2 == 0 {
		return v.upstream.Get(idx / 2)
	}
	return v.delim
}

// Separate inserts delim between every consecutive pair of upstream items.
// Pure sequence transform: no colour, glyph, or rendering concern lives
// here, only index arithmetic.
func Separate[T any](upstream port.Outer[port.SequenceMsg], delim T) *port.Port[port.SequenceMsg] {
	out := port.New[port.SequenceMsg]()
	var lastLen int

	sweep := func(n int) {
		for i := 0; i < n; i++ {
			out.Notify(i)
		}
	}

	wireSequence[T](upstream,
		func(v port.SequenceView[T]) {
			sv := &separateView[T]{upstream: v, delim: delim}
			out.SetView(sv)
			lastLen = sv.Len()
			sweep(lastLen)
		},
		func(int) {
			sv, _ := out.GetView().(*separateView[T])
			if sv == nil {
				return
			}
			n := sv.Len()
			if n > lastLen {
				lastLen = n
			}
			sweep(lastLen)
			lastLen = n
		},
	)

	return out
}

// wrapView prepends open and appends close around upstream.
type wrapView[T any] struct {
	upstream    port.SequenceView[T]
	open, close T
}

func (v *wrapView[T]) Len() int {
	n := 0
	if v.upstream != nil {
		n = v.upstream.Len()
	}
	return n + 2
}

func (v *wrapView[T]) Get(idx int) T {
	n := 0
	if v.upstream != nil {
		n = v.upstream.Len()
	}
	switch {
	case idx == 0:
		return v.open
	case idx == n+1:
		return v.close
	default:
		return v.upstream.Get(idx - 1)
	}
}

// Wrap brackets upstream with an open and close item. Pure sequence
// decoration: no font metrics or colour palette involved, only two extra
// items and an index shift of one.
func Wrap[T any](upstream port.Outer[port.SequenceMsg], open, close T) *port.Port[port.SequenceMsg] {
	out := port.New[port.SequenceMsg]()
	var lastLen int

	sweep := func(n int) {
		for i := 0; i < n; i++ {
			out.Notify(i)
		}
	}

	wireSequence[T](upstream,
		func(v port.SequenceView[T]) {
			wv := &wrapView[T]{upstream: v, open: open, close: close}
			out.SetView(wv)
			lastLen = wv.Len()
			sweep(lastLen)
		},
		func(idx int) {
			wv, _ := out.GetView().(*wrapView[T])
			if wv == nil {
				return
			}
			n := wv.Len()
			max := n
			if lastLen > max {
				max = lastLen
			}
			sweep(max)
			lastLen = n
		},
	)

	return out
}
