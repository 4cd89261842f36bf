package listeditor

import (
	"nested/internal/buffer"
	"nested/internal/edittree"
	"nested/internal/port"
)

var _ edittree.TreeNav = (*ListEditor)(nil)

// GetCursor returns the combined TreeCursor: own index in Insert mode, or
// the selected child's cursor (with this editor's index prepended) in
// Select mode. Mirrors editors/list/nav.rs's get_cursor.
func (e *ListEditor) GetCursor() edittree.TreeCursor {
	cur := e.cursor.Get()
	switch cur.Mode {
	case edittree.ModeInsert:
		if !cur.HasIdx {
			return edittree.TreeCursor{LeafMode: cur.Mode}
		}
		return edittree.TreeCursor{LeafMode: cur.Mode, TreeAddr: []int64{cur.Idx}}
	default: // ModeSelect
		if cur.HasIdx && cur.Idx < int64(e.data.Len()) {
			sub := e.data.Get(int(cur.Idx)).GetCursor()
			if len(sub.TreeAddr) > 0 {
				addr := append([]int64{cur.Idx}, sub.TreeAddr...)
				return edittree.TreeCursor{LeafMode: sub.LeafMode, TreeAddr: addr}
			}
			return edittree.TreeCursor{LeafMode: edittree.ModeSelect, TreeAddr: []int64{cur.Idx}}
		}
		return edittree.TreeCursor{LeafMode: edittree.ModeSelect}
	}
}

// GetCursorWarp is GetCursor with every index expressed end-relative
// (negative), mirroring get_cursor_warp.
func (e *ListEditor) GetCursorWarp() edittree.TreeCursor {
	cur := e.cursor.Get()
	n := int64(e.data.Len())
	switch cur.Mode {
	case edittree.ModeInsert:
		if !cur.HasIdx {
			return edittree.TreeCursor{LeafMode: cur.Mode}
		}
		return edittree.TreeCursor{LeafMode: cur.Mode, TreeAddr: []int64{cur.Idx - n - 1}}
	default:
		if cur.HasIdx && cur.Idx < n {
			sub := e.data.Get(int(cur.Idx)).GetCursorWarp()
			addr := append([]int64{cur.Idx - n}, sub.TreeAddr...)
			return edittree.TreeCursor{LeafMode: sub.LeafMode, TreeAddr: addr}
		}
		if cur.HasIdx {
			return edittree.TreeCursor{LeafMode: edittree.ModeSelect, TreeAddr: []int64{cur.Idx - n}}
		}
		return edittree.TreeCursor{LeafMode: cur.Mode}
	}
}

// GetAddrView returns a snapshot Sequence view: this editor's own index
// (if any) followed by the selected child's address. Rebuilt fresh on
// each call rather than incrementally maintained -- see the listeditor
// grounding detail in DESIGN.md for why the fully reactive switch-on-
// cursor chain the source builds was not replicated.
func (e *ListEditor) GetAddrView() port.Outer[port.SequenceMsg] {
	cur := e.cursor.Get()
	var addr []int64
	if cur.HasIdx {
		addr = append(addr, cur.Idx)
		if cur.Mode == edittree.ModeSelect && cur.Idx >= 0 && cur.Idx < int64(e.data.Len()) {
			child := e.data.Get(int(cur.Idx))
			if view, ok := child.GetAddrView().GetView().(port.SequenceView[int64]); ok {
				for i := 0; i < view.Len(); i++ {
					addr = append(addr, view.Get(i))
				}
			}
		}
	}
	p := port.New[port.SequenceMsg]()
	buffer.NewVecBufferWithData[int64](p, addr)
	return p.Outer()
}

// GetModeView returns a snapshot Singleton view equal to this editor's own
// mode in Insert, or to the selected child's mode in Select.
func (e *ListEditor) GetModeView() port.Outer[port.Unit] {
	cur := e.cursor.Get()
	if cur.Mode == edittree.ModeSelect && cur.HasIdx && cur.Idx >= 0 && cur.Idx < int64(e.data.Len()) {
		return e.data.Get(int(cur.Idx)).GetModeView()
	}
	p := port.New[port.Unit]()
	buffer.NewSingletonBuffer(p, cur.Mode)
	return p.Outer()
}

// GetHeight implements the P/Q/Max height calculation from spec.md §4.7.
func (e *ListEditor) GetHeight(op edittree.TreeHeightOp) int {
	n := e.data.Len()
	switch op {
	case edittree.HeightP, edittree.HeightQ:
		if n == 0 {
			return 1
		}
		idx := 0
		if op == edittree.HeightQ {
			idx = n - 1
		}
		return 1 + e.data.Get(idx).GetHeight(op)
	default: // HeightMax
		max := 0
		for i := 0; i < n; i++ {
			h := e.data.Get(i).GetHeight(edittree.HeightMax)
			if h > max {
				max = h
			}
		}
		return 1 + max
	}
}

// Goto sets the cursor to new_cur, mirroring nav.rs's goto: an empty
// address unfocuses, a length-1 address selects this level, anything
// longer recurses into the addressed child.
func (e *ListEditor) Goto(newCur edittree.TreeCursor) edittree.TreeNavResult {
	old := e.cursor.Get()
	if old.HasIdx && old.Idx < int64(e.data.Len()) {
		e.data.Get(int(old.Idx)).Goto(edittree.NoneCursor())
	}

	switch len(newCur.TreeAddr) {
	case 0:
		e.cursor.Set(ListCursor{Mode: newCur.LeafMode, HasIdx: false})
		return edittree.Continue

	case 1:
		bound := int64(e.data.Len())
		if newCur.LeafMode == edittree.ModeInsert {
			bound++
		}
		idx := modulo(newCur.TreeAddr[0], bound)
		e.cursor.Set(ListCursor{Mode: newCur.LeafMode, HasIdx: true, Idx: idx})
		if newCur.LeafMode == edittree.ModeSelect && e.data.Len() > 0 {
			e.data.Get(int(idx)).Goto(edittree.TreeCursor{LeafMode: edittree.ModeSelect})
		}
		return edittree.Continue

	default:
		if e.data.Len() == 0 {
			e.cursor.Set(HomeCursor())
			return edittree.Continue
		}
		idx := modulo(newCur.TreeAddr[0], int64(e.data.Len()))
		e.cursor.Set(ListCursor{Mode: edittree.ModeSelect, HasIdx: true, Idx: idx})
		e.data.Get(int(idx)).Goto(edittree.TreeCursor{
			LeafMode: newCur.LeafMode,
			TreeAddr: newCur.TreeAddr[1:],
		})
		return edittree.Continue
	}
}

// Goby performs one 2-D navigation step: spec.md §4.7 decomposes this by
// the current address depth (0 unfocused, 1 own level, >=2 delegates to
// the focused child, crossing to a neighbour on Exit with a gravity-
// weighted number of descent steps).
func (e *ListEditor) Goby(dx, dy int64) edittree.TreeNavResult {
	cur := e.GetCursor()

	switch len(cur.TreeAddr) {
	case 0:
		switch {
		case dy < 0:
			e.cursor.Set(NoCursor())
			return edittree.Exit
		case dy > 0:
			mode := cur.LeafMode
			if e.data.Len() == 0 {
				mode = edittree.ModeInsert
			}
			e.cursor.Set(ListCursor{Mode: mode, HasIdx: true, Idx: 0})
			e.Goby(dx, dy-1)
			return edittree.Continue
		default:
			return edittree.Continue
		}

	case 1:
		return e.gobyOwnLevel(cur, dx, dy)

	default:
		return e.gobyNested(cur, dx, dy)
	}
}

func (e *ListEditor) gobyOwnLevel(cur edittree.TreeCursor, dx, dy int64) edittree.TreeNavResult {
	idx := cur.TreeAddr[0]

	switch {
	case dy > 0:
		if idx < int64(e.data.Len()) {
			if e.data.Get(int(idx)).Goby(dx, dy) == edittree.Continue {
				e.cursor.Set(ListCursor{Mode: edittree.ModeSelect, HasIdx: true, Idx: idx})
				e.setLeafMode(cur.LeafMode)
			}
		}
		return edittree.Continue

	case dy < 0:
		e.cursor.Set(ListCursor{Mode: cur.LeafMode, HasIdx: false})
		return edittree.Exit

	default:
		bound := int64(e.data.Len())
		if cur.LeafMode == edittree.ModeInsert {
			bound++
		}
		if idx+dx < 0 || idx+dx >= bound {
			e.cursor.Set(NoCursor())
			return edittree.Exit
		}

		newIdx := idx + dx
		var newAddr []int64

		if cur.LeafMode == edittree.ModeSelect {
			curHeight := e.data.Get(int(idx)).GetHeight(edittree.HeightMax)
			var height int
			if dx < 0 {
				height = e.data.Get(int(newIdx)).GetHeight(edittree.HeightQ)
			} else {
				height = e.data.Get(int(newIdx)).GetHeight(edittree.HeightP)
			}
			newAddr = append(newAddr, newIdx)
			if curHeight < 2 {
				step := int64(0)
				if dx < 0 {
					step = -1
				}
				for i := 1; i < height; i++ {
					newAddr = append(newAddr, step)
				}
			}
		} else {
			if dx > 0 {
				if int(idx) < e.data.Len() {
					curHeight := e.data.Get(int(idx)).GetHeight(edittree.HeightP)
					if curHeight > 1 {
						newAddr = append(newAddr, idx, 0)
					} else {
						newAddr = append(newAddr, newIdx)
					}
				}
			} else {
				if int(newIdx) < e.data.Len() {
					pxvHeight := e.data.Get(int(newIdx)).GetHeight(edittree.HeightP)
					if pxvHeight > 1 {
						newAddr = append(newAddr, newIdx, -1)
					} else {
						newAddr = append(newAddr, newIdx)
					}
				}
			}
		}

		next := cur
		if e.data.Len() == 0 {
			next.LeafMode = edittree.ModeInsert
		}
		next.TreeAddr = newAddr
		e.Goto(next)
		return edittree.Continue
	}
}

func (e *ListEditor) gobyNested(cur edittree.TreeCursor, dx, dy int64) edittree.TreeNavResult {
	idx := cur.TreeAddr[0]
	depth := int64(len(cur.TreeAddr))

	if idx >= int64(e.data.Len()) {
		e.cursor.Set(ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 0})
		return edittree.Continue
	}

	child := e.data.Get(int(idx))
	result := child.Goby(dx, dy)
	if result == edittree.Continue {
		return edittree.Continue
	}

	switch {
	case dy < 0:
		e.cursor.Set(ListCursor{Mode: cur.LeafMode, HasIdx: true, Idx: idx})
		return edittree.Continue

	case dy > 0:
		return edittree.Continue

	default:
		if idx+dx < 0 || idx+dx >= int64(e.data.Len()) {
			e.cursor.Set(NoCursor())
			return edittree.Exit
		}

		var newAddr []int64
		if dx < 0 {
			pxvHeight := int64(e.data.Get(int(idx) - 1).GetHeight(edittree.HeightQ))
			curHeight := int64(child.GetHeight(edittree.HeightP))
			distFromGround := curHeight - (depth - 1)
			nSteps := pxvHeight - distFromGround
			newAddr = append(newAddr, idx-1)
			for i := int64(0); i < nSteps; i++ {
				newAddr = append(newAddr, -1)
			}
		} else {
			nxdHeight := int64(e.data.Get(int(idx) + 1).GetHeight(edittree.HeightP))
			curHeight := int64(child.GetHeight(edittree.HeightQ))
			distFromGround := curHeight - (depth - 1)
			nSteps := nxdHeight - distFromGround
			newAddr = append(newAddr, idx+1)
			for i := int64(0); i < nSteps; i++ {
				newAddr = append(newAddr, 0)
			}
		}

		next := cur
		next.TreeAddr = newAddr
		return e.Goto(next)
	}
}
