package main

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"nested/internal/buffer"
	"nested/internal/diagnostics"
	"nested/internal/editctx"
	"nested/internal/edittree"
	"nested/internal/listeditor"
	"nested/internal/port"
	"nested/internal/reprtree"
	"nested/internal/tracing"
	"nested/internal/typeterm"
)

// kernel bundles everything a single nestedctl run needs: a Context, the
// root <List Char> node, and the command vocabulary that drives it.
type kernel struct {
	ctx      *editctx.Context
	charType typeterm.Term
	list     *listeditor.ListEditor
	root     *edittree.NestedNode
	diag     *port.Port[port.SequenceMsg]
}

// newKernel builds a fresh kernel: a Context with "Char" registered, a
// flat <List Char> editor wired as its root node's editor/navigator, and
// a traced commander driven by tracer.
func newKernel(tracer trace.Tracer) *kernel {
	ctx := editctx.NewContext(nil)

	charID, err := ctx.AddTypeName("Char")
	if err != nil {
		panic(fmt.Sprintf("nestedctl: registering Char type: %v", err))
	}
	charType := typeterm.Of(charID)

	list := listeditor.New(ctx, charType)
	depth := newDepthPort()
	root := list.IntoNode(depth)

	diag := port.New[port.SequenceMsg]()
	root.WithDiag(diag)
	root.WithCmd(tracing.WrapCommander(tracer, "RootList", list))

	tracing.TraceDiagnostics(tracer, "RootList", diag.Outer())

	root.Goto(edittree.Home())

	return &kernel{ctx: ctx, charType: charType, list: list, root: root, diag: diag}
}

func newDepthPort() port.Outer[port.Unit] {
	p := port.New[port.Unit]()
	buffer.NewSingletonBuffer(p, 0)
	return p.Outer()
}

// newCharNode builds a leaf NestedNode carrying a single rune. It bypasses
// ctx.MakeNode, which only supports zero-argument ("blank") constructors;
// a char leaf needs a caller-supplied value at construction time, so this
// wires a SingletonBuffer directly onto the node's own ReprTree instead.
func (k *kernel) newCharNode(r rune) *edittree.NestedNode {
	n := edittree.NewNestedNode(k.ctx, newDepthPort())
	p := port.New[port.Unit]()
	buffer.NewSingletonBuffer(p, r)
	n.ReprTree().InsertLeaf(nil, p.Outer())
	return n
}

func readChar(n *edittree.NestedNode) (rune, bool) {
	if n == nil {
		return 0, false
	}
	r, err := reprtree.GetSingletonView[rune](n.ReprTree())
	if err != nil {
		return 0, false
	}
	return r, true
}

// ErrUnknownCommand is returned by Apply for any token outside its
// vocabulary.
type ErrUnknownCommand struct{ Token string }

func (e ErrUnknownCommand) Error() string {
	return fmt.Sprintf("nestedctl: unknown command %q", e.Token)
}

// Apply interprets a single whitespace-delimited command token against
// the kernel's root list. The vocabulary is deliberately small:
//
//	insert:<text>   insert each rune of text at the cursor
//	left, right     Pxev / Nexd
//	up, down        Up / Dn
//	qleft, qright   Qpxev / Qnexd
//	split           spill everything from the cursor onward
//	delete-pxev     DeletePxev
//	delete-nexd     DeleteNexd
//	clear           Clear
func (k *kernel) Apply(tok string) error {
	if text, ok := strings.CutPrefix(tok, "insert:"); ok {
		for _, r := range text {
			k.list.Insert(k.newCharNode(r))
		}
		return nil
	}

	switch tok {
	case "left":
		edittree.Pxev(k.root)
	case "right":
		edittree.Nexd(k.root)
	case "up":
		edittree.Up(k.root)
	case "down":
		edittree.Dn(k.root)
	case "qleft":
		edittree.Qpxev(k.root)
	case "qright":
		edittree.Qnexd(k.root)
	case "split":
		k.list.Split()
	case "delete-pxev":
		k.list.DeletePxev()
	case "delete-nexd":
		k.list.DeleteNexd()
	case "clear":
		k.list.Clear()
	default:
		return ErrUnknownCommand{Token: tok}
	}
	return nil
}

// Run applies every whitespace-separated token in script in turn,
// stopping at the first error.
func (k *kernel) Run(script string) error {
	for _, tok := range strings.Fields(script) {
		if err := k.Apply(tok); err != nil {
			return err
		}
	}
	return nil
}

// Contents renders the root list's current items as a single string, one
// rune per item.
func (k *kernel) Contents() string {
	var b strings.Builder
	for i := 0; i < k.list.Len(); i++ {
		r, ok := readChar(k.list.Item(i))
		if !ok {
			b.WriteRune('?')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Diagnostics returns every message accumulated on the root node's
// diagnostics stream so far, filtered to at least minLevel.
func (k *kernel) Diagnostics(minLevel diagnostics.Level) []diagnostics.Message {
	filtered := diagnostics.FilterAtLeast(k.diag.Outer(), minLevel)
	view, ok := filtered.GetView().(port.SequenceView[diagnostics.Message])
	if !ok {
		return nil
	}
	msgs := make([]diagnostics.Message, view.Len())
	for i := range msgs {
		msgs[i] = view.Get(i)
	}
	return msgs
}
