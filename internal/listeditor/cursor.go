// Package listeditor implements ListEditor: a flat sequence of navigable
// child editors with its own cursor, insert/delete/split/join operations,
// and the recursive "listlist" variants that treat a list of lists as one
// navigable tree. This is the hard core of the kernel: most of an editor's
// perceived behaviour (nested insertion, splitting a line in two, joining
// adjacent sub-lists) is this package's navigation and cursor arithmetic.
package listeditor

import "nested/internal/edittree"

// ListCursor is the editor's own focus: a mode plus an optional index.
// Comparable (no pointers) so it can back a buffer.SingletonBuffer, whose
// change-notification relies on == to detect an actual change.
type ListCursor struct {
	Mode   edittree.ListCursorMode
	HasIdx bool
	Idx    int64
}

// HomeCursor is the cursor at the first insert position.
func HomeCursor() ListCursor {
	return ListCursor{Mode: edittree.ModeInsert, HasIdx: true, Idx: 0}
}

// NoCursor is the unfocused cursor.
func NoCursor() ListCursor {
	return ListCursor{Mode: edittree.ModeInsert, HasIdx: false}
}

func modulo(a, m int64) int64 {
	if m == 0 {
		return 0
	}
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func allEqual(addr []int64, v int64) bool {
	for _, x := range addr {
		if x != v {
			return false
		}
	}
	return true
}
