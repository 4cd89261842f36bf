// Package projection implements the lazy derived views of the port layer:
// map_item, map_key, filter_map, enumerate, to_sequence, to_index, flatten,
// separate and wrap. Each holds a (conceptually weak, see internal/port)
// reference to its upstream view plus a channel drained by one background
// goroutine, decoupling the upstream writer from the projection's transform
// and matching the "single-threaded cooperative per port graph, one
// background task per projection" scheduling model.
package projection

import "nested/internal/port"

// drain starts the one background goroutine a projection owns, applying
// handle to every message until ch is closed by its producer going away.
// Grounded on projection.rs's per-ProjectionArg async task that reads off a
// channel and invokes the projection's notify callback.
func drain[M any](ch <-chan M, handle func(M)) {
	go func() {
		for msg := range ch {
			handle(msg)
		}
	}()
}

const chanBuffer = 64

// wireSequence subscribes to an upstream Sequence port: onReset fires with
// the freshly type-asserted upstream view whenever the upstream view is
// replaced, and onMsg fires (off the single drain goroutine, so never
// concurrently) for every upstream SequenceMsg.
func wireSequence[In any](upstream port.Outer[port.SequenceMsg], onReset func(port.SequenceView[In]), onMsg func(int)) {
	upstream.AddResetFn(func(view any) {
		v, _ := view.(port.SequenceView[In])
		onReset(v)
	})
	ch := make(chan int, chanBuffer)
	upstream.AddNotifyFn(func(msg int) { ch <- msg })
	drain(ch, onMsg)
}

// wireIndex subscribes to an upstream Index port analogously to wireSequence.
func wireIndex[K comparable, In any](upstream port.Outer[port.IndexMsg[K]], onReset func(port.IndexView[K, In]), onMsg func(port.IndexMsg[K])) {
	upstream.AddResetFn(func(view any) {
		v, _ := view.(port.IndexView[K, In])
		onReset(v)
	})
	ch := make(chan port.IndexMsg[K], chanBuffer)
	upstream.AddNotifyFn(func(msg port.IndexMsg[K]) { ch <- msg })
	drain(ch, onMsg)
}

// wireSingleton subscribes to an upstream Singleton port.
func wireSingleton[In any](upstream port.Outer[port.Unit], onReset func(port.SingletonView[In]), onMsg func()) {
	upstream.AddResetFn(func(view any) {
		v, _ := view.(port.SingletonView[In])
		onReset(v)
	})
	ch := make(chan port.Unit, chanBuffer)
	upstream.AddNotifyFn(func(msg port.Unit) { ch <- msg })
	drain(ch, func(port.Unit) { onMsg() })
}
