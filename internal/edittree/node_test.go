package edittree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nested/internal/buffer"
	"nested/internal/diagnostics"
	"nested/internal/editctx"
	"nested/internal/port"
	"nested/internal/reprtree"
	"nested/internal/typeterm"
)

func newDepthPort() port.Outer[port.Unit] {
	p := port.New[port.Unit]()
	buffer.NewSingletonBuffer(p, 0)
	return p.Outer()
}

func TestNewNestedNodeHasNoNavigatorByDefault(t *testing.T) {
	ctx := editctx.NewContext(nil)
	n := NewNestedNode(ctx, newDepthPort())

	require.Equal(t, NoneCursor(), n.GetCursor())
	require.Equal(t, 0, n.GetHeight(HeightMax))
	require.Equal(t, Exit, n.Goby(1, 0))
	require.Equal(t, Exit, n.Goto(Home()))
}

// fakeNav is a minimal TreeNav used to prove NestedNode delegates rather
// than implementing navigation itself.
type fakeNav struct {
	cursor  TreeCursor
	gobyLog []int64
}

func (f *fakeNav) GetCursor() TreeCursor     { return f.cursor }
func (f *fakeNav) GetCursorWarp() TreeCursor { return f.cursor }
func (f *fakeNav) GetAddrView() port.Outer[port.SequenceMsg] {
	return port.New[port.SequenceMsg]().Outer()
}
func (f *fakeNav) GetModeView() port.Outer[port.Unit] { return port.New[port.Unit]().Outer() }
func (f *fakeNav) GetHeight(op TreeHeightOp) int      { return 3 }
func (f *fakeNav) Goby(dx, dy int64) TreeNavResult {
	f.gobyLog = append(f.gobyLog, dx, dy)
	return Continue
}
func (f *fakeNav) Goto(c TreeCursor) TreeNavResult {
	f.cursor = c
	return Continue
}

func TestNestedNodeDelegatesToAttachedNavigator(t *testing.T) {
	ctx := editctx.NewContext(nil)
	nav := &fakeNav{cursor: Home()}
	n := NewNestedNode(ctx, newDepthPort()).WithNav(nav)

	require.Equal(t, Home(), n.GetCursor())
	require.Equal(t, 3, n.GetHeight(HeightP))
	require.Equal(t, Continue, n.Goby(1, 0))
	require.Equal(t, []int64{1, 0}, nav.gobyLog)
}

func TestQpxevAtRootGoesHome(t *testing.T) {
	nav := &fakeNav{cursor: NoneCursor()}
	require.Equal(t, Continue, Qpxev(nav))
	require.Equal(t, Home(), nav.cursor)
}

func TestQnexdAtRootExits(t *testing.T) {
	nav := &fakeNav{cursor: NoneCursor()}
	require.Equal(t, Exit, Qnexd(nav))
}

func TestSendCmdObjDispatchesTreeNavCmdToSelf(t *testing.T) {
	ctx := editctx.NewContext(nil)
	_, err := ctx.AddTypeName("TreeNavCmd")
	require.NoError(t, err)

	nav := &fakeNav{cursor: Home()}
	n := NewNestedNode(ctx, newDepthPort()).WithNav(nav)

	tagID, ok := ctx.GetTypeID("TreeNavCmd")
	require.True(t, ok)

	p := port.New[port.Unit]()
	buffer.NewSingletonBuffer(p, CmdDn)
	cmdRT := reprtree.NewLeaf(typeterm.Of(tagID), p.Outer())

	result := n.SendCmdObj(cmdRT)
	require.Equal(t, Continue, result)
	require.Equal(t, []int64{0, 1}, nav.gobyLog)
}

// fakeCommander records whatever ReprTree it was sent, proving SendCmdObj
// falls through to an attached commander once the TreeNavCmd type-tag
// sniff misses.
type fakeCommander struct {
	received *reprtree.ReprTree
}

func (f *fakeCommander) SendCmdObj(cmd *reprtree.ReprTree) TreeNavResult {
	f.received = cmd
	return Continue
}

func TestSendCmdObjFallsThroughToAttachedCommander(t *testing.T) {
	ctx := editctx.NewContext(nil)
	charID, err := ctx.AddTypeName("Char")
	require.NoError(t, err)

	cmdr := &fakeCommander{}
	n := NewNestedNode(ctx, newDepthPort()).WithCmd(cmdr)

	cmdRT := reprtree.New(typeterm.Of(charID))
	result := n.SendCmdObj(cmdRT)
	require.Equal(t, Continue, result)
	require.Equal(t, cmdRT, cmdr.received)
}

func TestSendCmdObjExitsWithNoCommanderAttached(t *testing.T) {
	ctx := editctx.NewContext(nil)
	charID, err := ctx.AddTypeName("Char")
	require.NoError(t, err)

	n := NewNestedNode(ctx, newDepthPort())
	result := n.SendCmdObj(reprtree.New(typeterm.Of(charID)))
	require.Equal(t, Exit, result)
}

func TestGetEditRoundTrips(t *testing.T) {
	ctx := editctx.NewContext(nil)
	n := NewNestedNode(ctx, newDepthPort()).WithEditor(42)

	v, ok := GetEdit[int](n)
	require.True(t, ok)
	require.Equal(t, 42, v)

	_, ok = GetEdit[string](n)
	require.False(t, ok, "a type mismatch must not panic, just report false")
}

func TestSpillAndDrainSpill(t *testing.T) {
	ctx := editctx.NewContext(nil)
	n := NewNestedNode(ctx, newDepthPort())
	child := NewNestedNode(ctx, newDepthPort())

	n.Spill(child)
	drained := n.DrainSpill()
	require.Equal(t, []*NestedNode{child}, drained)
	require.Empty(t, n.DrainSpill())
}

func TestGetDiagDefaultsToEmptyPort(t *testing.T) {
	ctx := editctx.NewContext(nil)
	n := NewNestedNode(ctx, newDepthPort())

	view := n.GetMsgPort().GetView()
	require.Nil(t, view)
}

func TestWithDiagAttachesMessageStream(t *testing.T) {
	ctx := editctx.NewContext(nil)
	p := port.New[port.SequenceMsg]()
	buf := buffer.NewVecBuffer[diagnostics.Message](p)
	buf.Push(diagnostics.Message{Addr: []int64{0}, Level: diagnostics.LevelError, Body: "bad"})

	n := NewNestedNode(ctx, newDepthPort()).WithDiag(p)

	view, ok := n.GetMsgPort().GetView().(port.SequenceView[diagnostics.Message])
	require.True(t, ok)
	require.Equal(t, 1, view.Len())
	require.Equal(t, "bad", view.Get(0).Body)
}

func TestCloseCharRoundTrips(t *testing.T) {
	ctx := editctx.NewContext(nil)
	n := NewNestedNode(ctx, newDepthPort())

	_, ok := n.CloseChar()
	require.False(t, ok)

	n.WithCloseChar(')')
	r, ok := n.CloseChar()
	require.True(t, ok)
	require.Equal(t, ')', r)
}
