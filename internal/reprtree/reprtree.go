// Package reprtree implements ReprTree: a content-addressed-by-type graph
// of alternative representations of one semantic value, with automatic
// morphism application between representations handled one layer up by
// internal/editctx.
package reprtree

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"nested/internal/port"
	"nested/internal/typeterm"
)

// ErrNotFound is returned by Descend/DescendLadder when a step is missing.
var ErrNotFound = fmt.Errorf("reprtree: not found")

// ErrWrongView is returned by GetPort/GetView when the stored leaf's
// element type does not match the requested view type.
var ErrWrongView = fmt.Errorf("reprtree: wrong view type")

// ReprTree is a node in the representation graph: a type tag, an optional
// leaf port (type-erased; a singleton, sequence or index view), and a set
// of branches keyed by their own type tag. A UUID identity, distinct from
// the type tag, lets diagnostics and tracing correlate events about "the
// same node" across a morph that replaces its type tag.
type ReprTree struct {
	mu       sync.RWMutex
	id       uuid.UUID
	typeTag  typeterm.Term
	leaf     any
	branches map[string]*ReprTree
}

// New constructs an empty ReprTree tagged with typeTag.
func New(typeTag typeterm.Term) *ReprTree {
	return &ReprTree{
		id:       uuid.New(),
		typeTag:  typeTag,
		branches: make(map[string]*ReprTree),
	}
}

// NewLeaf constructs a ReprTree tagged with typeTag holding p directly as
// its leaf (equivalent to New(typeTag) followed by InsertLeaf(nil, p)).
func NewLeaf(typeTag typeterm.Term, p any) *ReprTree {
	rt := New(typeTag)
	rt.InsertLeaf(nil, p)
	return rt
}

// ID returns the node's identity, stable across morphs that change Type.
func (rt *ReprTree) ID() uuid.UUID {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.id
}

// Type returns the node's current type tag.
func (rt *ReprTree) Type() typeterm.Term {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.typeTag
}

// InsertBranch attaches child under its own type tag as the key; an
// existing branch with the same key is replaced.
func (rt *ReprTree) InsertBranch(child *ReprTree) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.branches[child.Type().Key()] = child
}

// InsertLeaf walks ladder, creating intermediate branch nodes as needed,
// and stores p at the terminal node reached. An empty ladder stores p
// directly on rt.
func (rt *ReprTree) InsertLeaf(ladder []typeterm.Term, p any) {
	if len(ladder) == 0 {
		rt.mu.Lock()
		rt.leaf = p
		rt.mu.Unlock()
		return
	}

	head, rest := ladder[0], ladder[1:]
	rt.mu.Lock()
	next, ok := rt.branches[head.Key()]
	if !ok {
		next = New(head)
		rt.branches[head.Key()] = next
	}
	rt.mu.Unlock()

	next.InsertLeaf(rest, p)
}

// Descend returns the branch tagged t, or ErrNotFound.
func (rt *ReprTree) Descend(t typeterm.Term) (*ReprTree, error) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	next, ok := rt.branches[t.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, t.Key())
	}
	return next, nil
}

// DescendLadder walks Descend across every type in ts in turn.
func (rt *ReprTree) DescendLadder(ts []typeterm.Term) (*ReprTree, error) {
	cur := rt
	for _, t := range ts {
		next, err := cur.Descend(t)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Ascend wraps rt inside a new parent tagged t, with rt as its only
// branch.
func Ascend(rt *ReprTree, t typeterm.Term) *ReprTree {
	parent := New(t)
	parent.InsertBranch(rt)
	return parent
}

// GetPort type-asserts the node's leaf as an Outer port carrying messages
// of type M (port.Unit for a singleton leaf, port.SequenceMsg for a
// sequence leaf, port.IndexMsg[K] for an index leaf), returning
// ErrWrongView on mismatch or if no leaf is set.
func GetPort[M any](rt *ReprTree) (port.Outer[M], error) {
	rt.mu.RLock()
	leaf := rt.leaf
	rt.mu.RUnlock()

	if leaf == nil {
		return port.Outer[M]{}, fmt.Errorf("%w: no leaf set", ErrWrongView)
	}
	p, ok := leaf.(port.Outer[M])
	if !ok {
		return port.Outer[M]{}, fmt.Errorf("%w: leaf is not Outer[%T]", ErrWrongView, *new(M))
	}
	return p, nil
}

// GetSingletonView reads the current value of a node whose leaf is a
// Singleton port (message type port.Unit) holding a T.
func GetSingletonView[T any](rt *ReprTree) (T, error) {
	var zero T
	p, err := GetPort[port.Unit](rt)
	if err != nil {
		return zero, err
	}
	view, ok := p.GetView().(port.SingletonView[T])
	if !ok {
		return zero, fmt.Errorf("%w: view is not SingletonView[%T]", ErrWrongView, zero)
	}
	return view.Get(), nil
}

// GetSequenceView returns the node's Sequence view (message type
// port.SequenceMsg), or ErrWrongView.
func GetSequenceView[T any](rt *ReprTree) (port.SequenceView[T], error) {
	p, err := GetPort[port.SequenceMsg](rt)
	if err != nil {
		return nil, err
	}
	view, ok := p.GetView().(port.SequenceView[T])
	if !ok {
		return nil, fmt.Errorf("%w: view is not SequenceView", ErrWrongView)
	}
	return view, nil
}

// GetIndexView returns the node's Index view (message type
// port.IndexMsg[K]), or ErrWrongView.
func GetIndexView[K comparable, T any](rt *ReprTree) (port.IndexView[K, T], error) {
	p, err := GetPort[port.IndexMsg[K]](rt)
	if err != nil {
		return nil, err
	}
	view, ok := p.GetView().(port.IndexView[K, T])
	if !ok {
		return nil, fmt.Errorf("%w: view is not IndexView", ErrWrongView)
	}
	return view, nil
}
