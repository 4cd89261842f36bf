package listeditor

import (
	"sync"

	"nested/internal/buffer"
	"nested/internal/editctx"
	"nested/internal/edittree"
	"nested/internal/port"
	"nested/internal/typeterm"
)

// ListEditor is a flat, navigable sequence of child NestedNodes: spec.md
// §4.7's "hard core". typ names the item type; the editor is a "listlist"
// iff ctx.IsListType(typ), which governs whether insert/split keep the
// cursor inside the newly touched item (nested lists) or hop past it
// (flat leaves).
type ListEditor struct {
	mu sync.RWMutex

	cursor *buffer.SingletonBuffer[ListCursor]
	data   *buffer.VecBuffer[*edittree.NestedNode]

	spillMu  sync.Mutex
	spillbuf []*edittree.NestedNode

	ctx   *editctx.Context
	typ   typeterm.Term
	depth port.Outer[port.Unit]
}

// New creates an empty ListEditor over items of type typ.
func New(ctx *editctx.Context, typ typeterm.Term) *ListEditor {
	cursorPort := port.New[port.Unit]()
	dataPort := port.New[port.SequenceMsg]()

	depthPort := port.New[port.Unit]()
	buffer.NewSingletonBuffer(depthPort, 0)

	e := &ListEditor{
		cursor: buffer.NewSingletonBuffer(cursorPort, NoCursor()),
		data:   buffer.NewVecBuffer[*edittree.NestedNode](dataPort),
		ctx:    ctx,
		typ:    typ,
		depth:  depthPort.Outer(),
	}
	return e
}

// IntoNode wraps e in a NestedNode, wiring e as the node's editor,
// navigator and commander, and its display's depth to the given port.
// Mirrors editor.rs's into_node.
func (e *ListEditor) IntoNode(depth port.Outer[port.Unit]) *edittree.NestedNode {
	e.mu.Lock()
	e.depth = depth
	e.mu.Unlock()

	n := edittree.NewNestedNode(e.ctx, depth).
		WithEditor(e).
		WithNav(e).
		WithCmd(e)
	return n
}

// ItemType returns the item type this editor was constructed with.
func (e *ListEditor) ItemType() typeterm.Term {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.typ
}

// IsListlist reports whether the item type is itself list-like.
func (e *ListEditor) IsListlist() bool {
	return e.ctx.IsListType(e.ItemType())
}

// childDepth builds a fresh depth port one level deeper than e's own,
// for wiring onto an item e is about to own. Mirrors editor.rs's
// `self.depth.map(|d| d+1)`.
func (e *ListEditor) childDepth() port.Outer[port.Unit] {
	e.mu.RLock()
	d := e.depth
	e.mu.RUnlock()

	cur := 0
	if view, ok := d.GetView().(port.SingletonView[int]); ok {
		cur = view.Get()
	}
	p := port.New[port.Unit]()
	buffer.NewSingletonBuffer(p, cur+1)
	return p.Outer()
}

// Len returns the number of items.
func (e *ListEditor) Len() int { return e.data.Len() }

// Item returns the item at idx, or nil if out of range.
func (e *ListEditor) Item(idx int) *edittree.NestedNode {
	if idx < 0 || idx >= e.data.Len() {
		return nil
	}
	return e.data.Get(idx)
}

// ListCursor returns the editor's own ListCursor (not the TreeNav cursor --
// see GetCursor in nav.go for that).
func (e *ListEditor) ListCursor() ListCursor {
	return e.cursor.Get()
}

// GetItem returns the currently selected/focused item, modulo-wrapping a
// negative index, or nil if no item is focused. Mirrors editor.rs's
// get_item.
func (e *ListEditor) GetItem() *edittree.NestedNode {
	cur := e.cursor.Get()
	if !cur.HasIdx {
		return nil
	}
	n := e.data.Len()
	if n == 0 {
		return nil
	}
	idx := int(modulo(cur.Idx, int64(n)))
	return e.data.Get(idx)
}

// DrainSpill drains and returns every item currently in the spill buffer.
func (e *ListEditor) DrainSpill() []*edittree.NestedNode {
	e.spillMu.Lock()
	defer e.spillMu.Unlock()
	drained := e.spillbuf
	e.spillbuf = nil
	return drained
}

// Spill appends n to e's spill buffer. Exported so a NestedNode wrapping
// e (via IntoNode) can bridge its own Spill/DrainSpill straight through to
// this same buffer instead of keeping a second, always-empty copy -- see
// edittree.spillEditor.
func (e *ListEditor) Spill(n *edittree.NestedNode) {
	e.spillMu.Lock()
	e.spillbuf = append(e.spillbuf, n)
	e.spillMu.Unlock()
}

// Clear moves every item into the spill buffer, empties data, and homes
// the cursor.
func (e *ListEditor) Clear() {
	for i := 0; i < e.data.Len(); i++ {
		e.Spill(e.data.Get(i))
	}
	e.data.Clear()
	e.cursor.Set(HomeCursor())
}

// DeletePxev removes the item before the cursor when in Insert mode with
// idx > 0, decrementing idx.
func (e *ListEditor) DeletePxev() {
	cur := e.cursor.Get()
	if !cur.HasIdx || cur.Idx <= 0 || cur.Idx > int64(e.data.Len()) {
		return
	}
	e.data.Remove(int(cur.Idx) - 1)
	cur.Idx--
	e.cursor.Set(cur)
}

// DeleteNexd removes the item at the cursor when in Insert mode with
// idx < len.
func (e *ListEditor) DeleteNexd() {
	cur := e.cursor.Get()
	if !cur.HasIdx || cur.Idx >= int64(e.data.Len()) {
		return
	}
	e.data.Remove(int(cur.Idx))
}

// Insert places item at the cursor per spec.md §4.7's insert table:
// Insert mode places it at idx (advancing past it unless this is a
// listlist, which instead flips to Select so the new item stays focused);
// Select mode places it just after idx, advancing idx for a listlist.
func (e *ListEditor) Insert(item *edittree.NestedNode) {
	cur := e.cursor.Get()
	if !cur.HasIdx {
		return
	}

	item.WithDepth(e.childDepth())

	switch cur.Mode {
	case edittree.ModeInsert:
		e.data.Insert(int(cur.Idx), item)
		if e.IsListlist() {
			cur.Mode = edittree.ModeSelect
		} else {
			item.Goto(edittree.NoneCursor())
			cur.Idx++
		}
	case edittree.ModeSelect:
		e.data.Insert(int(cur.Idx)+1, item)
		if e.IsListlist() {
			cur.Idx++
		}
	}
	e.cursor.Set(cur)
}

// Split moves every item from the cursor index to the end into the spill
// buffer, leaving the cursor unchanged. This is the raw primitive;
// ListlistSplit builds the new tail node and reinserts it.
func (e *ListEditor) Split() {
	cur := e.cursor.Get()
	if !cur.HasIdx {
		return
	}
	idx := int(cur.Idx)
	for idx < e.data.Len() {
		e.Spill(e.data.Get(idx))
		e.data.Remove(idx)
	}
}

// ListlistSplit is Split's recursive, listlist-aware counterpart: spec.md
// §4.7. It sends a Split command to the selected item, builds a fresh
// tail node of this editor's own item type out of whatever spilled, and
// inserts that tail node right after the current position. Per the
// editors/list/editor.rs precision fix, it recurses one level up when
// the cursor's tree address has 3 or more components; with fewer it
// splits at this level and stops here.
func (e *ListEditor) ListlistSplit() {
	cur := e.GetCursor()
	item := e.GetItem()
	if item == nil {
		return
	}

	item.SendCmdObj(splitCmdRT(e.ctx))

	if len(cur.TreeAddr) < 3 {
		item.Goto(edittree.NoneCursor())
		e.setLeafMode(edittree.ModeInsert)
		edittree.Nexd(e)

		spilled := item.DrainSpill()
		tailAny, err := e.ctx.MakeNode(e.typ)
		if err != nil {
			return
		}
		tailNode, ok := tailAny.(*edittree.NestedNode)
		if !ok {
			return
		}
		tailNode.WithDepth(e.childDepth())
		tailNode.Goto(edittree.Home())

		for _, child := range spilled {
			tailNode.SendCmdObj(nestedNodeCmdRT(e.ctx, child))
		}

		tailNode.Goto(edittree.Home())
		if len(cur.TreeAddr) > 1 {
			edittree.Dn(tailNode)
		}

		e.Insert(tailNode)
	} else {
		edittree.Up(e)
		e.ListlistSplit()
		edittree.Dn(e)
	}
}

// ListlistJoinPxev merges the item at idx into its predecessor: the
// current item clears into its spill buffer, every spilled child is
// replayed into the predecessor (positioned at its own end), and the
// current item is removed. Mirrors editor.rs's listlist_join_pxev.
func (e *ListEditor) ListlistJoinPxev(idx int) {
	curItem := e.data.Get(idx)
	pxvItem := e.data.Get(idx - 1)

	oc0 := curItem.GetCursor()

	curItem.Goto(edittree.NoneCursor())
	curItem.SendCmdObj(listCmdRT(e.ctx, CmdClear))

	pxvItem.Goto(edittree.TreeCursor{LeafMode: edittree.ModeInsert, TreeAddr: []int64{-1}})
	oldCur := pxvItem.GetCursor()

	for _, child := range curItem.DrainSpill() {
		pxvItem.SendCmdObj(nestedNodeCmdRT(e.ctx, child))
	}

	switch {
	case len(oc0.TreeAddr) > 1:
		pxvItem.Goto(edittree.TreeCursor{
			LeafMode: edittree.ModeInsert,
			TreeAddr: []int64{oldCur.TreeAddr[0], 0},
		})
		pxvItem.SendCmdObj(listCmdRT(e.ctx, CmdDeletePxev))
	case len(oc0.TreeAddr) > 0:
		pxvItem.Goto(edittree.TreeCursor{
			LeafMode: edittree.ModeInsert,
			TreeAddr: []int64{oldCur.TreeAddr[0]},
		})
	}

	e.cursor.Set(ListCursor{Mode: edittree.ModeSelect, HasIdx: true, Idx: int64(idx - 1)})
	e.data.Remove(idx)
}

// ListlistJoinNexd merges the item after idx into idx: the mirror of
// ListlistJoinPxev.
func (e *ListEditor) ListlistJoinNexd(idx int) {
	curItem := e.data.Get(idx)
	nxdItem := e.data.Get(idx + 1)

	oc0 := curItem.GetCursor()

	nxdItem.Goto(edittree.NoneCursor())
	nxdItem.SendCmdObj(listCmdRT(e.ctx, CmdClear))

	oldCur := curItem.GetCursor()
	curItem.Goto(edittree.TreeCursor{LeafMode: edittree.ModeInsert, TreeAddr: []int64{-1}})

	for _, child := range nxdItem.DrainSpill() {
		curItem.SendCmdObj(nestedNodeCmdRT(e.ctx, child))
	}

	switch {
	case len(oc0.TreeAddr) > 1:
		curItem.Goto(edittree.TreeCursor{
			LeafMode: edittree.ModeInsert,
			TreeAddr: []int64{oldCur.TreeAddr[0], -1},
		})
		curItem.SendCmdObj(listCmdRT(e.ctx, CmdDeleteNexd))
	case len(oc0.TreeAddr) > 0:
		curItem.Goto(edittree.TreeCursor{
			LeafMode: edittree.ModeInsert,
			TreeAddr: []int64{oldCur.TreeAddr[0]},
		})
	default:
		curItem.Goto(edittree.NoneCursor())
	}

	e.data.Remove(idx + 1)
}

func (e *ListEditor) setLeafMode(m edittree.ListCursorMode) {
	cur := e.GetCursor()
	cur.LeafMode = m
	e.Goto(cur)
}
