package port

import "sync"

// Observer receives view resets and change notifications for a port whose
// view emits messages of type M.
type Observer[M any] interface {
	Reset(view any)
	Notify(msg M)
}

// ResetFunc/NotifyFunc adapt plain functions into partial Observers. Most
// consumers only care about one of the two calls; embedding a noop default
// lets them implement just the method they need.
type ResetFunc[M any] func(view any)

func (f ResetFunc[M]) Reset(view any) { f(view) }
func (ResetFunc[M]) Notify(M)         {}

type NotifyFunc[M any] func(msg M)

func (NotifyFunc[M]) Reset(any)       {}
func (f NotifyFunc[M]) Notify(msg M) { f(msg) }

// UpdateHook is an upstream dependency a port drains before a read, so that
// a consistent state is observed even through intermediate projections.
type UpdateHook interface {
	Update()
}

// subscription is an observer registration. Ports hold observers by this
// handle rather than a true GC weak pointer (Go's weak.Pointer resolves on
// GC timing, which is wrong for a broadcast that must be synchronous and
// deterministic); "weakly held" here means the owner of an observer can
// Cancel its subscription explicitly, and a cancelled subscription is
// skipped and pruned lazily on the next broadcast, matching the spec's
// "dead observers are dropped lazily" without coupling to GC.
type subscription[M any] struct {
	observer Observer[M]
	alive    bool
}

// Subscription lets the caller detach an observer from a port.
type Subscription struct {
	cancel func()
}

// Cancel detaches the associated observer. Safe to call more than once.
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Port owns an optional current view and a broadcast list of observers,
// plus a queue of upstream hooks it must drain before a read.
type Port[M any] struct {
	mu        sync.RWMutex
	view      any
	observers []*subscription[M]
	hooks     []UpdateHook
}

// New returns an empty port with no view.
func New[M any]() *Port[M] {
	return &Port[M]{}
}

// WithView returns a port already holding view.
func WithView[M any](view any) *Port[M] {
	p := New[M]()
	p.SetView(view)
	return p
}

// SetView atomically replaces the stored view and resets every observer
// with the new view.
func (p *Port[M]) SetView(view any) {
	p.mu.Lock()
	p.view = view
	observers := p.liveObserversLocked()
	p.mu.Unlock()

	for _, o := range observers {
		o.observer.Reset(view)
	}
}

// GetView returns the currently stored view, or nil if none is set.
func (p *Port[M]) GetView() any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}

// AddObserver registers o against the port and immediately calls
// o.Reset(currentView). The returned Subscription can be used to detach it.
func (p *Port[M]) AddObserver(o Observer[M]) Subscription {
	p.mu.Lock()
	sub := &subscription[M]{observer: o, alive: true}
	p.observers = append(p.observers, sub)
	view := p.view
	p.mu.Unlock()

	o.Reset(view)

	return Subscription{cancel: func() {
		p.mu.Lock()
		sub.alive = false
		p.mu.Unlock()
	}}
}

// AddResetFn registers a observer built only from a reset callback.
func (p *Port[M]) AddResetFn(fn func(view any)) Subscription {
	return p.AddObserver(ResetFunc[M](fn))
}

// AddNotifyFn registers an observer built only from a notify callback.
func (p *Port[M]) AddNotifyFn(fn func(msg M)) Subscription {
	return p.AddObserver(NotifyFunc[M](fn))
}

// Notify broadcasts msg to every live observer. The observer list is
// snapshotted before iterating, so a notified observer may re-enter
// AddObserver (e.g. to attach a new buffer) without corrupting iteration.
func (p *Port[M]) Notify(msg M) {
	p.mu.RLock()
	observers := p.liveObserversLocked()
	p.mu.RUnlock()

	for _, o := range observers {
		o.observer.Notify(msg)
	}

	p.pruneDead()
}

// liveObserversLocked must be called with p.mu held (read or write).
func (p *Port[M]) liveObserversLocked() []*subscription[M] {
	live := make([]*subscription[M], 0, len(p.observers))
	for _, o := range p.observers {
		if o.alive {
			live = append(live, o)
		}
	}
	return live
}

// pruneDead drops cancelled subscriptions from the backing slice.
func (p *Port[M]) pruneDead() {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.observers[:0]
	for _, o := range p.observers {
		if o.alive {
			kept = append(kept, o)
		}
	}
	p.observers = kept
}

// AddHook registers an upstream dependency to be drained by Update.
func (p *Port[M]) AddHook(h UpdateHook) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = append(p.hooks, h)
}

// Update drains every upstream hook in registration order, guaranteeing
// that a subsequent read observes a consistent state.
func (p *Port[M]) Update() {
	p.mu.RLock()
	hooks := make([]UpdateHook, len(p.hooks))
	copy(hooks, p.hooks)
	p.mu.RUnlock()

	for _, h := range hooks {
		h.Update()
	}
}

// ObserverCount reports the number of live observers, for tests.
func (p *Port[M]) ObserverCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, o := range p.observers {
		if o.alive {
			n++
		}
	}
	return n
}

// Inner is the construction-site handle to a port: it may set the view and
// notify observers. Buffers and projection writers hold an Inner.
type Inner[M any] struct {
	port *Port[M]
}

func (p *Port[M]) Inner() Inner[M] { return Inner[M]{port: p} }

func (i Inner[M]) SetView(view any) { i.port.SetView(view) }
func (i Inner[M]) Notify(msg M)     { i.port.Notify(msg) }
func (i Inner[M]) GetView() any     { return i.port.GetView() }
func (i Inner[M]) AddHook(h UpdateHook) { i.port.AddHook(h) }

// Outer is the consumer-side handle to a port: it may read the view and
// attach observers, but never mutates the view directly.
type Outer[M any] struct {
	port *Port[M]
}

func (p *Port[M]) Outer() Outer[M] { return Outer[M]{port: p} }

func (o Outer[M]) GetView() any                         { return o.port.GetView() }
func (o Outer[M]) AddObserver(obs Observer[M]) Subscription { return o.port.AddObserver(obs) }
func (o Outer[M]) AddResetFn(fn func(view any)) Subscription { return o.port.AddResetFn(fn) }
func (o Outer[M]) AddNotifyFn(fn func(msg M)) Subscription   { return o.port.AddNotifyFn(fn) }
func (o Outer[M]) Update()                               { o.port.Update() }
