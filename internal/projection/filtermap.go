package projection

import (
	"sync"

	"nested/internal/port"
)

// filterMapView caches the filtered/transformed sequence: filter_map
// changes the index space (dropped items compact the indices of everything
// after them), so unlike map_item it cannot translate an upstream index
// into an output index without recomputing the membership of everything
// at or after that point.
type filterMapView[In, Out any] struct {
	mu   sync.RWMutex
	data []Out
}

func (v *filterMapView[In, Out]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.data)
}

func (v *filterMapView[In, Out]) Get(idx int) Out {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.data[idx]
}

// FilterMap returns a Sequence port holding f(upstream[i]) for every i
// where f returns ok. Any upstream change triggers a full recompute; this
// is the same "notify every index in 0..max(old_len,new_len)" sweep the
// port layer already uses on a Sequence view reset (see Reset handling in
// internal/projection/helper.go's wireSequence caller contract), applied
// here on every mutation rather than only on reset, since a filter's index
// compaction can move every item after the change point.
func FilterMap[In, Out any](upstream port.Outer[port.SequenceMsg], f func(In) (Out, bool)) *port.Port[port.SequenceMsg] {
	out := port.New[port.SequenceMsg]()
	view := &filterMapView[In, Out]{}
	var upstreamView port.SequenceView[In]
	var mu sync.Mutex

	recompute := func() int {
		mu.Lock()
		uv := upstreamView
		mu.Unlock()

		var data []Out
		if uv != nil {
			for i := 0; i < uv.Len(); i++ {
				if o, ok := f(uv.Get(i)); ok {
					data = append(data, o)
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

	wireSequence[In](upstream,
		func(v port.SequenceView[In]) {
			mu.Lock()
			upstreamView = v
			mu.Unlock()
			sweep := recompute()
			out.SetView(view)
			for i := 0; i < sweep; i++ {
				out.Notify(i)
			}
		},
		func(int) {
			sweep := recompute()
			for i := 0; i < sweep; i++ {
				out.Notify(i)
			}
		},
	)

	return out
}
