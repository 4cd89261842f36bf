package editctx

import (
	"testing"

	"pgregory.net/rapid"

	"nested/internal/buffer"
	"nested/internal/port"
	"nested/internal/reprtree"
	"nested/internal/typeterm"
)

// TestProperty_ApplyMorphismTwiceIsStructurallyIdentical checks spec law
// #9: applying the same morphism twice to the same (untouched) ReprTree
// produces two ascended trees with the same type tag and the same leaf
// value -- ApplyMorphism never mutates its source rt, so reapplying it is
// indistinguishable from the first application.
func TestProperty_ApplyMorphismTwiceIsStructurallyIdentical(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := NewContext(nil)
		_, char, u8 := setupTypes3(t, ctx)

		value := rune(rapid.IntRange(0, 127).Draw(t, "value"))
		p := port.New[port.Unit]()
		buffer.NewSingletonBuffer(p, value)
		src := reprtree.NewLeaf(typeterm.Of(char), p.Outer())

		ctx.AddMorphism(MorphismTypePattern{Dst: u8}, func(c *Context, rt *reprtree.ReprTree, dst typeterm.Term, extra ...any) (any, bool) {
			v, err := reprtree.GetSingletonView[rune](src)
			if err != nil {
				return nil, false
			}
			vp := port.New[port.Unit]()
			buffer.NewSingletonBuffer(vp, v)
			rt.InsertLeaf(nil, vp.Outer())
			return rt, true
		})

		first, err := ctx.ApplyMorphism(src, typeterm.Of(u8))
		if err != nil {
			t.Fatalf("first ApplyMorphism failed: %v", err)
		}
		second, err := ctx.ApplyMorphism(src, typeterm.Of(u8))
		if err != nil {
			t.Fatalf("second ApplyMorphism failed: %v", err)
		}

		if first.Type().Key() != second.Type().Key() {
			t.Fatalf("type tags diverged: %v vs %v", first.Type(), second.Type())
		}

		v1, err := reprtree.GetSingletonView[rune](first)
		if err != nil {
			t.Fatalf("reading first result: %v", err)
		}
		v2, err := reprtree.GetSingletonView[rune](second)
		if err != nil {
			t.Fatalf("reading second result: %v", err)
		}
		if v1 != v2 {
			t.Fatalf("leaf value diverged between applications: %v vs %v", v1, v2)
		}
		if v1 != value {
			t.Fatalf("leaf value %v did not match source value %v", v1, value)
		}
	})
}

func setupTypes3(t *rapid.T, ctx *Context) (digit, char, u8 typeterm.TypeID) {
	var err error
	digit, err = ctx.AddTypeName("Digit")
	if err != nil {
		t.Fatalf("registering Digit: %v", err)
	}
	char, err = ctx.AddTypeName("Char")
	if err != nil {
		t.Fatalf("registering Char: %v", err)
	}
	u8, err = ctx.AddTypeName("u8")
	if err != nil {
		t.Fatalf("registering u8: %v", err)
	}
	return
}
