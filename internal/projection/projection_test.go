package projection

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nested/internal/buffer"
	"nested/internal/port"
)

// awaitNotify polls until pred is true or fails after a short timeout,
// since projection delivery runs on a background goroutine drained off a
// channel.
func awaitNotify(t *testing.T, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.Fail(t, "timed out waiting for projection to update")
}

func TestMapItem_TranslatesValues(t *testing.T) {
	p := port.New[port.SequenceMsg]()
	b := buffer.NewVecBufferWithData(p, []int{1, 2, 3})

	out := MapItem[int, string](p.Outer(), func(n int) string { return strconv.Itoa(n * 10) })
	_ = b

	view := out.GetView().(port.SequenceView[string])
	require.Equal(t, 3, view.Len())
	require.Equal(t, "10", view.Get(0))
	require.Equal(t, "30", view.Get(2))

	b.Push(4)
	awaitNotify(t, func() bool {
		return out.GetView().(port.SequenceView[string]).Len() == 4
	})
	require.Equal(t, "40", out.GetView().(port.SequenceView[string]).Get(3))
}

func TestFilterMap_DropsFilteredAndCompactsIndices(t *testing.T) {
	p := port.New[port.SequenceMsg]()
	b := buffer.NewVecBufferWithData(p, []int{1, 2, 3, 4, 5})

	out := FilterMap[int, int](p.Outer(), func(n int) (int, bool) {
		if n%2 == 0 {
			return n, true
		}
		return 0, false
	})

	awaitNotify(t, func() bool {
		v, _ := out.GetView().(port.SequenceView[int])
		return v != nil && v.Len() == 2
	})
	view := out.GetView().(port.SequenceView[int])
	require.Equal(t, 2, view.Get(0))
	require.Equal(t, 4, view.Get(1))

	b.Push(6)
	awaitNotify(t, func() bool {
		return out.GetView().(port.SequenceView[int]).Len() == 3
	})
	require.Equal(t, 6, out.GetView().(port.SequenceView[int]).Get(2))
}

func TestEnumerate_IndexesByPosition(t *testing.T) {
	p := port.New[port.SequenceMsg]()
	buffer.NewVecBufferWithData(p, []string{"a", "b"})

	out := Enumerate[string](p.Outer())
	view := out.GetView().(port.IndexView[int, string])
	v, ok := view.Get(1)
	require.True(t, ok)
	require.Equal(t, "b", v)
}

func TestSeparate_InsertsDelimiter(t *testing.T) {
	p := port.New[port.SequenceMsg]()
	buffer.NewVecBufferWithData(p, []string{"a", "b", "c"})

	out := Separate[string](p.Outer(), ",")
	view := out.GetView().(port.SequenceView[string])
	require.Equal(t, 5, view.Len())
	require.Equal(t, []string{"a", ",", "b", ",", "c"}, collect(view))
}

func TestWrap_BracketsSequence(t *testing.T) {
	p := port.New[port.SequenceMsg]()
	buffer.NewVecBufferWithData(p, []string{"x", "y"})

	out := Wrap[string](p.Outer(), "[", "]")
	view := out.GetView().(port.SequenceView[string])
	require.Equal(t, []string{"[", "x", "y", "]"}, collect(view))
}

func collect(v port.SequenceView[string]) []string {
	out := make([]string, v.Len())
	for i := range out {
		out[i] = v.Get(i)
	}
	return out
}
