package listeditor

import (
	"nested/internal/buffer"
	"nested/internal/editctx"
	"nested/internal/edittree"
	"nested/internal/port"
	"nested/internal/reprtree"
	"nested/internal/typeterm"
)

// resolveTypeTag returns the TypeID registered under name, registering it
// as a plain type name on first use. Command ReprTrees are tagged by name
// lazily this way rather than requiring every Context to pre-register the
// kernel's built-in command vocabulary up front.
func resolveTypeTag(ctx *editctx.Context, name string) typeterm.Term {
	if id, ok := ctx.GetTypeID(name); ok {
		return typeterm.Of(id)
	}
	id, err := ctx.AddTypeName(name)
	if err != nil {
		if id, ok := ctx.GetTypeID(name); ok {
			return typeterm.Of(id)
		}
		return typeterm.Term{}
	}
	return typeterm.Of(id)
}

// ListCmd is the seven-variant command family a list editor recognises by
// type tag, per spec.md §4.7.
type ListCmd int

const (
	CmdDeletePxev ListCmd = iota
	CmdDeleteNexd
	CmdJoinNexd
	CmdJoinPxev
	CmdSplit
	CmdClear
	CmdClose
)

// listCmdRT wraps cmd as a ReprTree tagged "ListCmd", the command-dispatch
// vocabulary send_cmd_obj sniffs for.
func listCmdRT(ctx *editctx.Context, cmd ListCmd) *reprtree.ReprTree {
	tag := resolveTypeTag(ctx, "ListCmd")
	p := port.New[port.Unit]()
	buffer.NewSingletonBuffer(p, cmd)
	return reprtree.NewLeaf(tag, p.Outer())
}

func splitCmdRT(ctx *editctx.Context) *reprtree.ReprTree {
	return listCmdRT(ctx, CmdSplit)
}

// nestedNodeCmdRT wraps node as a ReprTree tagged "NestedNode", used to
// replay a spilled child into another editor via SendCmdObj.
func nestedNodeCmdRT(ctx *editctx.Context, node *edittree.NestedNode) *reprtree.ReprTree {
	tag := resolveTypeTag(ctx, "NestedNode")
	p := port.New[port.Unit]()
	buffer.NewSingletonBuffer(p, node)
	return reprtree.NewLeaf(tag, p.Outer())
}

var _ edittree.ObjCommander = (*ListEditor)(nil)

// SendCmdObj dispatches cmd by its ReprTree's type tag, per spec.md §4.7:
// a "NestedNode" command replaces or inserts at the cursor; a "ListCmd"
// is handled locally or delegated to the selected item (escalating to a
// listlist join when that item's own cursor sits at an extreme boundary);
// anything else is forwarded to the selected item, or Exit if none is
// selected.
func (e *ListEditor) SendCmdObj(cmd *reprtree.ReprTree) edittree.TreeNavResult {
	if nodeTag, ok := e.ctx.GetTypeID("NestedNode"); ok {
		if head, ok := cmd.Type().HeadTypeID(); ok && head == nodeTag {
			return e.sendNestedNode(cmd)
		}
	}

	if listCmdTag, ok := e.ctx.GetTypeID("ListCmd"); ok {
		if head, ok := cmd.Type().HeadTypeID(); ok && head == listCmdTag {
			return e.sendListCmd(cmd)
		}
	}

	if item := e.GetItem(); item != nil {
		return item.SendCmdObj(cmd)
	}
	return edittree.Exit
}

func (e *ListEditor) sendNestedNode(cmd *reprtree.ReprTree) edittree.TreeNavResult {
	node, err := reprtree.GetSingletonView[*edittree.NestedNode](cmd)
	if err != nil {
		return edittree.Exit
	}

	cur := e.cursor.Get()
	if !cur.HasIdx {
		return edittree.Exit
	}

	switch cur.Mode {
	case edittree.ModeSelect:
		e.data.Update(int(cur.Idx), node)
		return edittree.Exit
	default:
		e.Insert(node)
		return edittree.Continue
	}
}

func (e *ListEditor) sendListCmd(cmd *reprtree.ReprTree) edittree.TreeNavResult {
	lc, err := reprtree.GetSingletonView[ListCmd](cmd)
	if err != nil {
		return edittree.Exit
	}

	if lc == CmdClear {
		e.Clear()
		return edittree.Continue
	}

	cur := e.cursor.Get()
	if !cur.HasIdx {
		return edittree.Exit
	}

	switch cur.Mode {
	case edittree.ModeSelect:
		item := e.GetItem()
		if item == nil {
			return edittree.Exit
		}
		itemCur := item.GetCursor()

		switch lc {
		case CmdDeletePxev:
			if cur.Idx > 0 && allEqual(itemCur.TreeAddr, 0) {
				e.ListlistJoinPxev(int(cur.Idx))
				return edittree.Continue
			}
			return item.SendCmdObj(cmd)

		case CmdDeleteNexd:
			itemWarp := item.GetCursorWarp()
			nextIdx := cur.Idx + 1
			if nextIdx < int64(e.data.Len()) && allEqual(itemWarp.TreeAddr, -1) {
				e.ListlistJoinNexd(int(cur.Idx))
				return edittree.Continue
			}
			return item.SendCmdObj(cmd)

		case CmdSplit:
			e.ListlistSplit()
			return edittree.Continue

		default:
			item.SendCmdObj(cmd)
			return edittree.Continue
		}

	default: // ModeInsert
		switch lc {
		case CmdDeletePxev:
			e.DeletePxev()
			return edittree.Continue
		case CmdDeleteNexd:
			e.DeleteNexd()
			return edittree.Continue
		case CmdSplit:
			e.Split()
			return edittree.Exit
		case CmdClose:
			e.Goto(edittree.NoneCursor())
			return edittree.Exit
		default:
			return edittree.Continue
		}
	}
}
