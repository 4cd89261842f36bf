package projection

import (
	"sync"

	"nested/internal/port"
)

// flattenView caches the concatenation of every inner sequence, in outer
// order. Like filter_map, a change anywhere upstream can shift every index
// after it, so Flatten recomputes eagerly rather than translating indices.
type flattenView[T any] struct {
	mu   sync.RWMutex
	data []T
}

func (v *flattenView[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.data)
}

func (v *flattenView[T]) Get(idx int) T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.data[idx]
}

// Flatten turns a Sequence of inner Sequence ports into one flat Sequence,
// in outer-then-inner order. Changes to either the outer structure or any
// inner sequence trigger a full recompute and a full resubscription to the
// current set of inner ports, since outer mutation can change which inner
// ports exist at all.
func Flatten[T any](upstream port.Outer[port.SequenceMsg]) *port.Port[port.SequenceMsg] {
	out := port.New[port.SequenceMsg]()
	view := &flattenView[T]{}

	var mu sync.Mutex
	var outerView port.SequenceView[*port.Port[port.SequenceMsg]]
	var innerSubs []port.Subscription

	rebuild := func() int {
		mu.Lock()
		ov := outerView
		for _, s := range innerSubs {
			s.Cancel()
		}
		innerSubs = innerSubs[:0]
		mu.Unlock()

		var data []T
		if ov != nil {
			for i := 0; i < ov.Len(); i++ {
				inner := ov.Get(i)
				if inner == nil {
					continue
				}
				innerOuter := inner.Outer()
				if v, ok := innerOuter.GetView().(port.SequenceView[T]); ok {
					for j := 0; j < v.Len(); j++ {
						data = append(data, v.Get(j))
					}
				}
			}
		}

		view.mu.Lock()
		oldLen := len(view.data)
		view.data = data
		newLen := len(view.data)
		view.mu.Unlock()

		if newLen > oldLen {
			return newLen
		}
		return oldLen
	}

	notifyAll := func(n int) {
		for i := 0; i < n; i++ {
			out.Notify(i)
		}
	}

	resubscribe := func() {
		mu.Lock()
		ov := outerView
		mu.Unlock()
		if ov == nil {
			return
		}
		ch := make(chan int, chanBuffer)
		var subs []port.Subscription
		for i := 0; i < ov.Len(); i++ {
			inner := ov.Get(i)
			if inner == nil {
				continue
			}
			subs = append(subs, inner.Outer().AddNotifyFn(func(int) { ch <- 0 }))
		}
		mu.Lock()
		innerSubs = append(innerSubs, subs...)
		mu.Unlock()
		drain(ch, func(int) { notifyAll(rebuild()) })
	}

	wireSequence[*port.Port[port.SequenceMsg]](upstream,
		func(v port.SequenceView[*port.Port[port.SequenceMsg]]) {
			mu.Lock()
			outerView = v
			mu.Unlock()
			out.SetView(view)
			notifyAll(rebuild())
			resubscribe()
		},
		func(int) {
			notifyAll(rebuild())
			resubscribe()
		},
	)

	return out
}
