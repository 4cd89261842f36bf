package listeditor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nested/internal/buffer"
	"nested/internal/editctx"
	"nested/internal/edittree"
	"nested/internal/port"
	"nested/internal/reprtree"
	"nested/internal/typeterm"
)

func newDepthPort() port.Outer[port.Unit] {
	p := port.New[port.Unit]()
	buffer.NewSingletonBuffer(p, 0)
	return p.Outer()
}

func newLeafType(ctx *editctx.Context, name string) typeterm.Term {
	id, err := ctx.AddTypeName(name)
	if err != nil {
		id, _ = ctx.GetTypeID(name)
	}
	return typeterm.Of(id)
}

func newLeafNode(ctx *editctx.Context) *edittree.NestedNode {
	return edittree.NewNestedNode(ctx, newDepthPort())
}

// newListType registers name as a list type and wires a constructor so
// ctx.MakeNode(typ) builds a fresh ListEditor wrapped as a NestedNode,
// mirroring how ListlistSplit obtains its tail node.
func newListType(ctx *editctx.Context, name string, itemType typeterm.Term) typeterm.Term {
	id, err := ctx.AddListTypeName(name)
	if err != nil {
		id, _ = ctx.GetTypeID(name)
	}
	typ := typeterm.Of(id)

	pattern, ok := editctx.MorphismPatternOf(nil, typ)
	if !ok {
		panic("could not derive morphism pattern for list type")
	}
	ctx.AddMorphism(pattern, func(c *editctx.Context, rt *reprtree.ReprTree, dstType typeterm.Term, extra ...any) (any, bool) {
		le := New(c, itemType)
		return le.IntoNode(newDepthPort()), true
	})
	return typ
}

func TestHomeAndNoCursor(t *testing.T) {
	require.Equal(t, ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 0}, HomeCursor())
	require.Equal(t, ListCursor{Mode: edittree.ModeInsert, HasIdx: false}, NoCursor())
}

func TestModuloWraps(t *testing.T) {
	require.Equal(t, int64(0), modulo(0, 5))
	require.Equal(t, int64(4), modulo(-1, 5))
	require.Equal(t, int64(2), modulo(7, 5))
	require.Equal(t, int64(0), modulo(5, 5))
}

func TestAllEqual(t *testing.T) {
	require.True(t, allEqual([]int64{0, 0, 0}, 0))
	require.True(t, allEqual(nil, 0))
	require.False(t, allEqual([]int64{0, 1}, 0))
}

func TestNewEditorStartsEmptyAndUnfocused(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)

	require.Equal(t, 0, e.Len())
	require.Equal(t, NoCursor(), e.ListCursor())
	require.Nil(t, e.GetItem())
	require.False(t, e.IsListlist())
}

func TestInsertInsertModeFlatAdvancesCursor(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.cursor.Set(HomeCursor())

	e.Insert(newLeafNode(ctx))

	require.Equal(t, 1, e.Len())
	cur := e.ListCursor()
	require.Equal(t, edittree.ModeInsert, cur.Mode)
	require.Equal(t, int64(1), cur.Idx)
}

func TestInsertSelectModeFlatKeepsIdx(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))
	e.cursor.Set(ListCursor{Mode: edittree.ModeSelect, HasIdx: true, Idx: 0})

	e.Insert(newLeafNode(ctx))

	require.Equal(t, 2, e.Len())
	cur := e.ListCursor()
	require.Equal(t, int64(0), cur.Idx)
}

func TestInsertNoopWhenUnfocused(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)

	e.Insert(newLeafNode(ctx))

	require.Equal(t, 0, e.Len())
}

func TestDeletePxevAndNexd(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))
	e.data.Insert(1, newLeafNode(ctx))
	e.cursor.Set(ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 1})

	e.DeletePxev()
	require.Equal(t, 1, e.Len())
	require.Equal(t, int64(0), e.ListCursor().Idx)

	e.cursor.Set(ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 0})
	e.DeleteNexd()
	require.Equal(t, 0, e.Len())
}

func TestDeletePxevNoopAtStart(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))
	e.cursor.Set(ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 0})

	e.DeletePxev()

	require.Equal(t, 1, e.Len())
}

func TestClearSpillsEverything(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))
	e.data.Insert(1, newLeafNode(ctx))

	e.Clear()

	require.Equal(t, 0, e.Len())
	require.Equal(t, HomeCursor(), e.ListCursor())
	require.Len(t, e.DrainSpill(), 2)
	require.Empty(t, e.DrainSpill())
}

func TestSplitMovesTailToSpillbuf(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))
	e.data.Insert(1, newLeafNode(ctx))
	e.data.Insert(2, newLeafNode(ctx))
	e.cursor.Set(ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 1})

	e.Split()

	require.Equal(t, 1, e.Len())
	require.Len(t, e.DrainSpill(), 2)
}

func TestListlistSplitNonRecursiveRebuildsTail(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	listType := newListType(ctx, "Line", itemType)

	e := New(ctx, listType)
	first := New(ctx, itemType).IntoNode(newDepthPort())
	second := New(ctx, itemType).IntoNode(newDepthPort())
	e.data.Insert(0, first)
	e.data.Insert(1, second)
	e.cursor.Set(ListCursor{Mode: edittree.ModeSelect, HasIdx: true, Idx: 0})

	e.ListlistSplit()

	require.Equal(t, 3, e.Len(), "split inserts a fresh tail node after the selected item")
	cur := e.ListCursor()
	require.Equal(t, edittree.ModeSelect, cur.Mode)
	require.Equal(t, int64(1), cur.Idx, "listlist insert in Insert mode selects the new tail without advancing")
}

func newCharLeaf(ctx *editctx.Context, r rune) *edittree.NestedNode {
	n := edittree.NewNestedNode(ctx, newDepthPort())
	p := port.New[port.Unit]()
	buffer.NewSingletonBuffer(p, r)
	n.ReprTree().InsertLeaf(nil, p.Outer())
	return n
}

func charsOf(t *testing.T, node *edittree.NestedNode) []rune {
	t.Helper()
	inner, ok := edittree.GetEdit[*ListEditor](node)
	require.True(t, ok, "node must wrap a *ListEditor")
	out := make([]rune, inner.Len())
	for i := range out {
		r, err := reprtree.GetSingletonView[rune](inner.Item(i).ReprTree())
		require.NoError(t, err)
		out[i] = r
	}
	return out
}

// TestListlistSplitPreservesSpilledContent is spec.md §8 scenario S3: a
// <List <List Char>> with inner lists ['a','b'] and ['c','d']; focusing
// (0,1) Insert (between 'a' and 'b' in the first inner list) and sending
// Split through the outer editor must yield three inner lists
// ['a'], ['b'], ['c','d'] -- the spilled 'b' must survive the split, not
// vanish into a buffer nothing drains.
func TestListlistSplitPreservesSpilledContent(t *testing.T) {
	ctx := editctx.NewContext(nil)
	charType := newLeafType(ctx, "Char")
	lineType := newListType(ctx, "Line", charType)

	outer := New(ctx, lineType)

	line1 := New(ctx, charType)
	line1.data.Insert(0, newCharLeaf(ctx, 'a'))
	line1.data.Insert(1, newCharLeaf(ctx, 'b'))
	line1Node := line1.IntoNode(newDepthPort())

	line2 := New(ctx, charType)
	line2.data.Insert(0, newCharLeaf(ctx, 'c'))
	line2.data.Insert(1, newCharLeaf(ctx, 'd'))
	line2Node := line2.IntoNode(newDepthPort())

	outer.data.Insert(0, line1Node)
	outer.data.Insert(1, line2Node)

	outer.Goto(edittree.TreeCursor{LeafMode: edittree.ModeInsert, TreeAddr: []int64{0, 1}})

	outer.ListlistSplit()

	require.Equal(t, 3, outer.Len(), "split must insert a new inner list between the two originals")
	require.Equal(t, []rune{'a'}, charsOf(t, outer.Item(0)))
	require.Equal(t, []rune{'b'}, charsOf(t, outer.Item(1)), "the spilled 'b' must reappear in the new tail list")
	require.Equal(t, []rune{'c', 'd'}, charsOf(t, outer.Item(2)))
}

func TestListlistJoinPxevMergesAndRemoves(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	listType := newListType(ctx, "Line", itemType)

	outer := New(ctx, listType)
	a := New(ctx, itemType)
	a.data.Insert(0, newLeafNode(ctx))
	aNode := a.IntoNode(newDepthPort())

	b := New(ctx, itemType)
	bNode := b.IntoNode(newDepthPort())

	outer.data.Insert(0, aNode)
	outer.data.Insert(1, bNode)

	outer.ListlistJoinPxev(1)

	require.Equal(t, 1, outer.Len())
	cur := outer.ListCursor()
	require.Equal(t, edittree.ModeSelect, cur.Mode)
	require.Equal(t, int64(0), cur.Idx)
}

func TestListlistJoinNexdMergesAndRemoves(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	listType := newListType(ctx, "Line", itemType)

	outer := New(ctx, listType)
	aNode := New(ctx, itemType).IntoNode(newDepthPort())
	b := New(ctx, itemType)
	b.data.Insert(0, newLeafNode(ctx))
	bNode := b.IntoNode(newDepthPort())

	outer.data.Insert(0, aNode)
	outer.data.Insert(1, bNode)

	outer.ListlistJoinNexd(0)

	require.Equal(t, 1, outer.Len())
}

func TestSendCmdObjClearHandledLocally(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))

	result := e.SendCmdObj(listCmdRT(ctx, CmdClear))

	require.Equal(t, edittree.Continue, result)
	require.Equal(t, 0, e.Len())
}

func TestSendCmdObjInsertModeSplitExits(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))
	e.cursor.Set(ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 0})

	result := e.SendCmdObj(listCmdRT(ctx, CmdSplit))

	require.Equal(t, edittree.Exit, result, "Insert-mode Split must return Exit, not Continue")
}

func TestSendCmdObjInsertModeDeletePxevNexd(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))
	e.data.Insert(1, newLeafNode(ctx))
	e.cursor.Set(ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 1})

	result := e.SendCmdObj(listCmdRT(ctx, CmdDeletePxev))

	require.Equal(t, edittree.Continue, result)
	require.Equal(t, 1, e.Len())
}

func TestSendCmdObjInsertModeClose(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.cursor.Set(HomeCursor())

	result := e.SendCmdObj(listCmdRT(ctx, CmdClose))

	require.Equal(t, edittree.Exit, result)
	require.Equal(t, NoCursor(), e.ListCursor())
}

func TestSendCmdObjNestedNodeInsertsInInsertMode(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.cursor.Set(HomeCursor())

	result := e.SendCmdObj(nestedNodeCmdRT(ctx, newLeafNode(ctx)))

	require.Equal(t, edittree.Continue, result)
	require.Equal(t, 1, e.Len())
}

func TestSendCmdObjNestedNodeReplacesInSelectMode(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))
	e.cursor.Set(ListCursor{Mode: edittree.ModeSelect, HasIdx: true, Idx: 0})

	replacement := newLeafNode(ctx)
	result := e.SendCmdObj(nestedNodeCmdRT(ctx, replacement))

	require.Equal(t, edittree.Exit, result)
	require.Equal(t, 1, e.Len())
	require.Same(t, replacement, e.Item(0))
}

func TestSendCmdObjNoSelectionExits(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)

	result := e.SendCmdObj(listCmdRT(ctx, CmdDeleteNexd))

	require.Equal(t, edittree.Exit, result)
}

func TestGetHeightLeafLevel(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)

	require.Equal(t, 1, e.GetHeight(edittree.HeightP))
	require.Equal(t, 1, e.GetHeight(edittree.HeightQ))
	require.Equal(t, 1, e.GetHeight(edittree.HeightMax))

	e.data.Insert(0, newLeafNode(ctx))
	e.data.Insert(1, newLeafNode(ctx))

	require.Equal(t, 1, e.GetHeight(edittree.HeightP))
	require.Equal(t, 1, e.GetHeight(edittree.HeightQ))
	require.Equal(t, 1, e.GetHeight(edittree.HeightMax))
}

func TestGobyUnfocusedDownHomes(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))

	result := e.Goby(0, 1)

	require.Equal(t, edittree.Continue, result)
	require.True(t, e.ListCursor().HasIdx)
}

func TestGobyOwnLevelHorizontalAdvances(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))
	e.data.Insert(1, newLeafNode(ctx))
	e.cursor.Set(ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 0})

	result := e.Goby(1, 0)

	require.Equal(t, edittree.Continue, result)
}

func TestGobyOwnLevelOutOfBoundsExits(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.cursor.Set(ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 0})

	result := e.Goby(-1, 0)

	require.Equal(t, edittree.Exit, result)
	require.Equal(t, NoCursor(), e.ListCursor())
}

func TestGotoLength0Unfocuses(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.cursor.Set(HomeCursor())

	result := e.Goto(edittree.TreeCursor{LeafMode: edittree.ModeInsert})

	require.Equal(t, edittree.Continue, result)
	require.False(t, e.ListCursor().HasIdx)
}

func TestGotoLength1SelectsWithinBounds(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.data.Insert(0, newLeafNode(ctx))
	e.data.Insert(1, newLeafNode(ctx))

	result := e.Goto(edittree.TreeCursor{LeafMode: edittree.ModeSelect, TreeAddr: []int64{3}})

	require.Equal(t, edittree.Continue, result)
	require.Equal(t, int64(1), e.ListCursor().Idx, "3 mod 2 == 1")
}

func TestGetAddrViewReflectsOwnIndex(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.cursor.Set(ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 2})

	view, ok := e.GetAddrView().GetView().(port.SequenceView[int64])
	require.True(t, ok)
	require.Equal(t, 1, view.Len())
	require.Equal(t, int64(2), view.Get(0))
}

func TestGetModeViewDefaultsToOwnMode(t *testing.T) {
	ctx := editctx.NewContext(nil)
	itemType := newLeafType(ctx, "Leaf")
	e := New(ctx, itemType)
	e.cursor.Set(ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 0})

	view, ok := e.GetModeView().GetView().(port.SingletonView[edittree.ListCursorMode])
	require.True(t, ok)
	require.Equal(t, edittree.ModeInsert, view.Get())
}
