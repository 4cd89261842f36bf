// Package edittree implements NestedNode: the editable-tree container that
// bundles a ReprTree, its display and diagnostics views, and the optional
// editor/commander/navigator objects that give it behaviour. A NestedNode
// with none of those set is a valid, inert leaf: every TreeNav/ObjCommander
// method degrades to a harmless default instead of panicking.
package edittree

import (
	"sync"

	"nested/internal/editctx"
	"nested/internal/port"
	"nested/internal/reprtree"
)

// ObjCommander is the universal command-dispatch capability: send_cmd_obj
// in spec.md §4.6. cmd is itself a ReprTree so that any editor can
// recognise the command families it cares about by type tag; Exit means
// "not consumed, propagate outward", Continue means "consumed".
type ObjCommander interface {
	SendCmdObj(cmd *reprtree.ReprTree) TreeNavResult
}

// Diagnostics exposes a node's own diagnostics stream, independent of
// whatever its editor or navigator do.
type Diagnostics interface {
	GetMsgPort() port.Outer[port.SequenceMsg]
}

// NestedNodeDisplay is the half of a NestedNode concerned with what gets
// shown: the ReprTree backing its rendered view, an optional diagnostics
// stream, and the depth singleton used to decide indentation/collapsing.
type NestedNodeDisplay struct {
	mu    sync.RWMutex
	view  *reprtree.ReprTree
	diag  *port.Port[port.SequenceMsg]
	depth port.Outer[port.Unit]
}

// NestedNodeEdit is the half of a NestedNode concerned with behaviour: the
// type-erased editor object, a scratch buffer for subtrees detached during
// split/clear, and the optional commander/navigator/close-char that give
// the node its ObjCommander and TreeNav implementations.
type NestedNodeEdit struct {
	mu        sync.RWMutex
	editor    any
	spillbuf  []*NestedNode
	cmd       ObjCommander
	closeChar *rune
	treeNav   TreeNav
}

// NestedNode is the editable-tree container: spec.md §4.4's "NestedNode /
// EditTree" -- a ReprTree plus display, diagnostics, commander and
// navigator, any of which may be absent.
type NestedNode struct {
	ctx  *editctx.Context
	disp NestedNodeDisplay
	edit NestedNodeEdit
}

// NewNestedNode creates an empty node over a freshly tagged "Display"
// ReprTree, with depth wired to the given reactive depth view and nothing
// else set.
func NewNestedNode(ctx *editctx.Context, depth port.Outer[port.Unit]) *NestedNode {
	displayType, err := ctx.Parse("Display")
	if err != nil {
		displayType, _ = ctx.Parse("EditTree")
	}
	return &NestedNode{
		ctx: ctx,
		disp: NestedNodeDisplay{
			view:  reprtree.New(displayType),
			depth: depth,
		},
	}
}

// WithEditor attaches the type-erased concrete editor object (e.g. a
// *listeditor.ListEditor), returning n for chaining.
func (n *NestedNode) WithEditor(editor any) *NestedNode {
	n.edit.mu.Lock()
	n.edit.editor = editor
	n.edit.mu.Unlock()
	return n
}

// WithCmd attaches cmd as n's command dispatch target.
func (n *NestedNode) WithCmd(cmd ObjCommander) *NestedNode {
	n.edit.mu.Lock()
	n.edit.cmd = cmd
	n.edit.mu.Unlock()
	return n
}

// WithNav attaches nav as n's navigator.
func (n *NestedNode) WithNav(nav TreeNav) *NestedNode {
	n.edit.mu.Lock()
	n.edit.treeNav = nav
	n.edit.mu.Unlock()
	return n
}

// WithCloseChar records the rune that, typed while this node is focused,
// should close it and propagate to the parent.
func (n *NestedNode) WithCloseChar(r rune) *NestedNode {
	n.edit.mu.Lock()
	n.edit.closeChar = &r
	n.edit.mu.Unlock()
	return n
}

// WithDiag attaches diag as n's diagnostics stream.
func (n *NestedNode) WithDiag(diag *port.Port[port.SequenceMsg]) *NestedNode {
	n.disp.mu.Lock()
	n.disp.diag = diag
	n.disp.mu.Unlock()
	return n
}

// WithDepth overwrites n's depth view. Constructors that can't take depth
// as a constructor argument (editctx.Context.MakeNode takes none) use this
// to fix depth up afterward, since the original's nodes always carry the
// depth they were actually built at.
func (n *NestedNode) WithDepth(depth port.Outer[port.Unit]) *NestedNode {
	n.disp.mu.Lock()
	n.disp.depth = depth
	n.disp.mu.Unlock()
	return n
}

// ReprTree returns the ReprTree backing this node's display view.
func (n *NestedNode) ReprTree() *reprtree.ReprTree {
	n.disp.mu.RLock()
	defer n.disp.mu.RUnlock()
	return n.disp.view
}

// CloseChar returns the rune registered via WithCloseChar, if any.
func (n *NestedNode) CloseChar() (rune, bool) {
	n.edit.mu.RLock()
	defer n.edit.mu.RUnlock()
	if n.edit.closeChar == nil {
		return 0, false
	}
	return *n.edit.closeChar, true
}

// spillEditor is implemented by an editor object (e.g. *listeditor.
// ListEditor) that owns its own spill buffer. WithEditor wiring an editor
// that satisfies this makes n.Spill/n.DrainSpill bridge straight through
// to it instead of keeping a second, always-empty copy here -- mirroring
// into_node sharing its spillbuf field with the editor's own
// (editors/list/editor.rs), the source both Split/Clear write into and
// listlist_split/listlist_join_* read back out of.
type spillEditor interface {
	Spill(child *NestedNode)
	DrainSpill() []*NestedNode
}

// Spill appends child to n's spill buffer, the scratch area a split or
// clear operation uses to hand detached subtrees back to whatever caller
// wants to reclaim them. Bridges to n's editor when it keeps its own.
func (n *NestedNode) Spill(child *NestedNode) {
	n.edit.mu.RLock()
	editor := n.edit.editor
	n.edit.mu.RUnlock()
	if se, ok := editor.(spillEditor); ok {
		se.Spill(child)
		return
	}

	n.edit.mu.Lock()
	n.edit.spillbuf = append(n.edit.spillbuf, child)
	n.edit.mu.Unlock()
}

// DrainSpill removes and returns everything currently in n's spill buffer.
// Bridges to n's editor when it keeps its own.
func (n *NestedNode) DrainSpill() []*NestedNode {
	n.edit.mu.RLock()
	editor := n.edit.editor
	n.edit.mu.RUnlock()
	if se, ok := editor.(spillEditor); ok {
		return se.DrainSpill()
	}

	n.edit.mu.Lock()
	defer n.edit.mu.Unlock()
	drained := n.edit.spillbuf
	n.edit.spillbuf = nil
	return drained
}

// GetDiag returns n's diagnostics stream, or a fresh empty one if none was
// attached.
func (n *NestedNode) GetDiag() port.Outer[port.SequenceMsg] {
	n.disp.mu.RLock()
	defer n.disp.mu.RUnlock()
	if n.disp.diag == nil {
		return port.New[port.SequenceMsg]().Outer()
	}
	return n.disp.diag.Outer()
}

// GetEdit type-asserts n's editor object to T, returning (zero, false) if
// no editor is set or it holds a different concrete type. This is the one
// place a caller is allowed to downcast, per spec.md's "downcast only
// where unavoidable" guidance.
func GetEdit[T any](n *NestedNode) (T, bool) {
	n.edit.mu.RLock()
	defer n.edit.mu.RUnlock()
	var zero T
	if n.edit.editor == nil {
		return zero, false
	}
	t, ok := n.edit.editor.(T)
	return t, ok
}

var _ TreeNav = (*NestedNode)(nil)
var _ ObjCommander = (*NestedNode)(nil)
var _ Diagnostics = (*NestedNode)(nil)

// GetCursor delegates to the attached navigator, defaulting to the
// unfocused cursor when none is set.
func (n *NestedNode) GetCursor() TreeCursor {
	if nav := n.nav(); nav != nil {
		return nav.GetCursor()
	}
	return NoneCursor()
}

// GetCursorWarp delegates to the attached navigator, defaulting to the
// unfocused cursor when none is set.
func (n *NestedNode) GetCursorWarp() TreeCursor {
	if nav := n.nav(); nav != nil {
		return nav.GetCursorWarp()
	}
	return NoneCursor()
}

// GetAddrView delegates to the attached navigator, defaulting to an empty
// sequence when none is set.
func (n *NestedNode) GetAddrView() port.Outer[port.SequenceMsg] {
	if nav := n.nav(); nav != nil {
		return nav.GetAddrView()
	}
	return port.New[port.SequenceMsg]().Outer()
}

// GetModeView delegates to the attached navigator, defaulting to an empty
// singleton view when none is set.
func (n *NestedNode) GetModeView() port.Outer[port.Unit] {
	if nav := n.nav(); nav != nil {
		return nav.GetModeView()
	}
	return port.New[port.Unit]().Outer()
}

// GetHeight delegates to the attached navigator, defaulting to 0 (a leaf
// with no navigator has no internal structure to report a height for).
func (n *NestedNode) GetHeight(op TreeHeightOp) int {
	if nav := n.nav(); nav != nil {
		return nav.GetHeight(op)
	}
	return 0
}

// Goby delegates to the attached navigator, defaulting to Exit (nothing to
// move within) when none is set.
func (n *NestedNode) Goby(dx, dy int64) TreeNavResult {
	if nav := n.nav(); nav != nil {
		return nav.Goby(dx, dy)
	}
	return Exit
}

// Goto delegates to the attached navigator, defaulting to Exit when none
// is set.
func (n *NestedNode) Goto(c TreeCursor) TreeNavResult {
	if nav := n.nav(); nav != nil {
		return nav.Goto(c)
	}
	return Exit
}

// SendCmdObj first recognises TreeNavCmd-tagged commands itself (dispatching
// pxev/nexd/qpxev/qnexd/up/dn to the embedded TreeNav methods), then falls
// back to the attached commander, and finally to Exit if neither applies --
// mirroring the type-tag sniff in lib-nested-core's NestedNode::send_cmd_obj.
func (n *NestedNode) SendCmdObj(cmd *reprtree.ReprTree) TreeNavResult {
	if treeNavCmdID, ok := n.ctx.GetTypeID("TreeNavCmd"); ok {
		if head, ok := cmd.Type().HeadTypeID(); ok && head == treeNavCmdID {
			if v, err := reprtree.GetSingletonView[TreeNavCmd](cmd); err == nil {
				return n.dispatchTreeNavCmd(v)
			}
			return Exit
		}
	}

	n.edit.mu.RLock()
	cmdr := n.edit.cmd
	n.edit.mu.RUnlock()
	if cmdr != nil {
		return cmdr.SendCmdObj(cmd)
	}
	return Exit
}

// TreeNavCmd is the six-variant command family SendCmdObj recognises by
// type tag before delegating to whatever commander is attached.
type TreeNavCmd int

const (
	CmdPxev TreeNavCmd = iota
	CmdNexd
	CmdQpxev
	CmdQnexd
	CmdUp
	CmdDn
)

func (n *NestedNode) dispatchTreeNavCmd(cmd TreeNavCmd) TreeNavResult {
	switch cmd {
	case CmdPxev:
		return Pxev(n)
	case CmdNexd:
		return Nexd(n)
	case CmdQpxev:
		return Qpxev(n)
	case CmdQnexd:
		return Qnexd(n)
	case CmdUp:
		return Up(n)
	case CmdDn:
		return Dn(n)
	default:
		return Continue
	}
}

// GetMsgPort implements Diagnostics by returning the same stream GetDiag
// exposes for display purposes.
func (n *NestedNode) GetMsgPort() port.Outer[port.SequenceMsg] {
	return n.GetDiag()
}

func (n *NestedNode) nav() TreeNav {
	n.edit.mu.RLock()
	defer n.edit.mu.RUnlock()
	return n.edit.treeNav
}

// Ctx returns the Context a node was built against.
func (n *NestedNode) Ctx() *editctx.Context { return n.ctx }
