package projection

import "nested/internal/port"

// toSequenceView presents an Index<int,T> view as a Sequence<T>, treating
// missing keys as absent trailing elements: Len is the smallest n such
// that every key in [0,n) is present and key n is not.
type toSequenceView[T any] struct {
	upstream port.IndexView[int, T]
}

func (v *toSequenceView[T]) Len() int {
	if v.upstream == nil {
		return 0
	}
	n := 0
	for {
		if _, ok := v.upstream.Get(n); !ok {
			return n
		}
		n++
	}
}

func (v *toSequenceView[T]) Get(idx int) T {
	val, _ := v.upstream.Get(idx)
	return val
}

// ToSequence adapts an Index<int,T> port into a Sequence<T> port.
func ToSequence[T any](upstream port.Outer[port.IndexMsg[int]]) *port.Port[port.SequenceMsg] {
	out := port.New[port.SequenceMsg]()

	wireIndex[int, T](upstream,
		func(v port.IndexView[int, T]) {
			out.SetView(&toSequenceView[T]{upstream: v})
		},
		func(msg port.IndexMsg[int]) {
			switch msg.Kind {
			case port.IndexMsgKey:
				out.Notify(msg.Key)
			case port.IndexMsgArea:
				// a full/range/set area on the index side conservatively
				// invalidates the whole sequence, since length itself may
				// have shifted.
				if uv, ok := out.GetView().(*toSequenceView[T]); ok {
					n := uv.Len()
					for i := 0; i < n; i++ {
						out.Notify(i)
					}
				}
			}
		},
	)

	return out
}

// toIndexView presents a Sequence<T> view as an Index<int,T>.
type toIndexView[T any] struct {
	upstream port.SequenceView[T]
}

func (v *toIndexView[T]) Get(k int) (T, bool) {
	var zero T
	if v.upstream == nil || k < 0 || k >= v.upstream.Len() {
		return zero, false
	}
	return v.upstream.Get(k), true
}

func (v *toIndexView[T]) Keys() []int {
	if v.upstream == nil {
		return nil
	}
	keys := make([]int, v.upstream.Len())
	for i := range keys {
		keys[i] = i
	}
	return keys
}

// ToIndex adapts a Sequence<T> port into an Index<int,T> port.
func ToIndex[T any](upstream port.Outer[port.SequenceMsg]) *port.Port[port.IndexMsg[int]] {
	out := port.New[port.IndexMsg[int]]()

	wireSequence[T](upstream,
		func(v port.SequenceView[T]) {
			out.SetView(&toIndexView[T]{upstream: v})
		},
		func(idx int) { out.Notify(port.KeyChanged(idx)) },
	)

	return out
}
