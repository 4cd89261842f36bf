package edittree

import "nested/internal/port"

// ListCursorMode distinguishes a cursor that selects an existing item from
// one that is poised to insert a new one.
type ListCursorMode int

const (
	ModeSelect ListCursorMode = iota
	ModeInsert
)

// TreeNavResult reports whether a navigation or command call consumed the
// input (Continue) or left it for the caller to handle itself (Exit).
type TreeNavResult int

const (
	Continue TreeNavResult = iota
	Exit
)

// TreeHeightOp selects which of a node's three heights get_height reports:
// P (from the start), Q (from the end), or Max (the greatest depth
// anywhere below the node, counting the node itself) -- used
// by neighbour-depth calculations when two adjacent nodes have different
// nesting depths.
type TreeHeightOp int

const (
	HeightP TreeHeightOp = iota
	HeightQ
	HeightMax
)

// TreeCursor is the combined navigation position of a nested editor: a
// leaf mode plus a path of signed indices. A negative index counts from
// the end of its level (-1 == last); an empty path means "not focused".
type TreeCursor struct {
	LeafMode ListCursorMode
	TreeAddr []int64
}

// Home is the cursor at the very first position: Insert mode, address [0].
func Home() TreeCursor {
	return TreeCursor{LeafMode: ModeInsert, TreeAddr: []int64{0}}
}

// NoneCursor is the zero cursor: Insert mode, no address at all.
func NoneCursor() TreeCursor {
	return TreeCursor{LeafMode: ModeInsert, TreeAddr: nil}
}

// TreeNav is the capability set a navigable editor implements: reading its
// current cursor (absolute and end-relative), reactive views of its
// address and leaf mode, its height along P/Q/Max, and moving the cursor
// by an explicit target (Goto) or a relative 2-D step (Goby).
type TreeNav interface {
	GetCursor() TreeCursor
	GetCursorWarp() TreeCursor
	GetAddrView() port.Outer[port.SequenceMsg]
	GetModeView() port.Outer[port.Unit]
	GetHeight(op TreeHeightOp) int
	Goby(dx, dy int64) TreeNavResult
	Goto(c TreeCursor) TreeNavResult
}

// Up, Dn, Pxev and Nexd are the four single-step directions Goby expresses:
// vertical moves cross editor levels, horizontal moves stay within one.
func Up(n TreeNav) TreeNavResult   { return n.Goby(0, -1) }
func Dn(n TreeNav) TreeNavResult   { return n.Goby(0, 1) }
func Pxev(n TreeNav) TreeNavResult { return n.Goby(-1, 0) }
func Nexd(n TreeNav) TreeNavResult { return n.Goby(1, 0) }

// Qpxev jumps to the start of the current level; if already there, it
// takes one Pxev step and jumps to the start of the level that step
// lands on.
func Qpxev(n TreeNav) TreeNavResult {
	c := n.GetCursor()
	depth := len(c.TreeAddr)
	if depth == 0 {
		return n.Goto(Home())
	}
	if c.TreeAddr[depth-1] != 0 {
		c.TreeAddr[depth-1] = 0
	} else {
		Pxev(n)
		c = n.GetCursor()
		if d := len(c.TreeAddr); d > 0 {
			c.TreeAddr[d-1] = 0
		}
	}
	return n.Goto(c)
}

// Qnexd jumps to the end of the current level; if already there, it
// takes one Nexd step and jumps to the end of the level that step lands
// on.
func Qnexd(n TreeNav) TreeNavResult {
	c := n.GetCursorWarp()
	depth := len(c.TreeAddr)
	if depth == 0 {
		return Exit
	}
	if c.TreeAddr[depth-1] != -1 {
		c.TreeAddr[depth-1] = -1
	} else {
		Nexd(n)
		c = n.GetCursor()
		if d := len(c.TreeAddr); d > 0 {
			c.TreeAddr[d-1] = -1
		}
	}
	return n.Goto(c)
}
