package projection

import "nested/internal/port"

type enumerateView[T any] struct {
	upstream port.SequenceView[T]
}

func (v *enumerateView[T]) Get(k int) (T, bool) {
	var zero T
	if v.upstream == nil || k < 0 || k >= v.upstream.Len() {
		return zero, false
	}
	return v.upstream.Get(k), true
}

func (v *enumerateView[T]) Keys() []int {
	if v.upstream == nil {
		return nil
	}
	keys := make([]int, v.upstream.Len())
	for i := range keys {
		keys[i] = i
	}
	return keys
}

// Enumerate adapts a Sequence view into an Index<int,T> view, keyed by
// position.
func Enumerate[T any](upstream port.Outer[port.SequenceMsg]) *port.Port[port.IndexMsg[int]] {
	out := port.New[port.IndexMsg[int]]()

	wireSequence[T](upstream,
		func(v port.SequenceView[T]) {
			out.SetView(&enumerateView[T]{upstream: v})
		},
		func(idx int) { out.Notify(port.KeyChanged(idx)) },
	)

	return out
}
