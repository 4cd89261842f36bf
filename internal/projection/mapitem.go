package projection

import "nested/internal/port"

type mapItemView[In, Out any] struct {
	upstream port.SequenceView[In]
	f        func(In) Out
}

func (v *mapItemView[In, Out]) Len() int {
	if v.upstream == nil {
		return 0
	}
	return v.upstream.Len()
}

func (v *mapItemView[In, Out]) Get(idx int) Out {
	return v.f(v.upstream.Get(idx))
}

// MapItem returns a Sequence port whose i-th item is f(upstream[i]). Index
// space is unchanged, so upstream notifications pass through unchanged.
func MapItem[In, Out any](upstream port.Outer[port.SequenceMsg], f func(In) Out) *port.Port[port.SequenceMsg] {
	out := port.New[port.SequenceMsg]()

	wireSequence[In](upstream,
		func(v port.SequenceView[In]) {
			out.SetView(&mapItemView[In, Out]{upstream: v, f: f})
		},
		func(idx int) { out.Notify(idx) },
	)

	return out
}
