package editctx

import (
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"nested/internal/reprtree"
	"nested/internal/typeterm"
)

// MorphismTypePattern is the pattern a registered morphism is filed under:
// an optional source head TypeID (nil matches any source) and a required
// destination head TypeID. Derived from a concrete pair of TypeTerms by
// MorphismPatternOf.
type MorphismTypePattern struct {
	Src *typeterm.TypeID
	Dst typeterm.TypeID
}

func (p MorphismTypePattern) key() string {
	if p.Src == nil {
		return fmt.Sprintf("morph:*->%v", p.Dst)
	}
	return fmt.Sprintf("morph:%v->%v", *p.Src, p.Dst)
}

// MorphismPatternOf derives a MorphismTypePattern from a concrete
// (optional) source type and a destination type. The source side uses
// Term.HeadTypeID() (Args[0] through any leading App/Ladder, matching
// context.rs's is_list_type walk). The destination side instead uses
// dstPatternHead: a plain TypeID or App's head is unchanged, but a Ladder
// destination (the shape setup_edittree passes: "T~EditTree") is keyed by
// its LAST rung, since that rung names what the morphism is actually
// migrating the node toward -- the outermost rung is just the node's
// existing type carried along as ascend's branch key, not the target
// family a constructor registers itself under. Returns false if dstType
// has no derivable head (nothing can be registered or matched against
// it).
func MorphismPatternOf(srcType *typeterm.Term, dstType typeterm.Term) (MorphismTypePattern, bool) {
	dstHead, ok := dstPatternHead(dstType)
	if !ok {
		return MorphismTypePattern{}, false
	}
	pattern := MorphismTypePattern{Dst: dstHead}
	if srcType != nil {
		if h, ok := srcType.HeadTypeID(); ok {
			pattern.Src = &h
		}
	}
	return pattern, true
}

func dstPatternHead(t typeterm.Term) (typeterm.TypeID, bool) {
	if t.Kind == typeterm.KindLadder && len(t.Args) > 0 {
		return t.Args[len(t.Args)-1].HeadTypeID()
	}
	return t.HeadTypeID()
}

// MorphismFunc builds or extends a node: given the ReprTree the node's
// data currently lives at (for make_node, a freshly constructed, empty
// ReprTree tagged dstType; for morph_node, the result of ascending the
// prior data under dstType) and the destination type, it returns a
// type-erased node value (an *edittree.NestedNode in practice -- editctx
// never imports edittree, so it cannot name the concrete type) and
// whether it succeeded. extra carries call-specific side data a
// constructor may want (SetupEditTree passes the depth port as extra[0]).
type MorphismFunc func(ctx *Context, rt *reprtree.ReprTree, dstType typeterm.Term, extra ...any) (any, bool)

// AddMorphism registers fn under pattern in this frame only: a sibling or
// ancestor Context never sees it, matching the frame-local resolution in
// DESIGN.md.
func (c *Context) AddMorphism(pattern MorphismTypePattern, fn MorphismFunc) {
	c.morphisms = append(c.morphisms, registeredMorphism{pattern: pattern, fn: fn})
	c.cache.Flush()
}

// GetMorphism finds the first morphism whose pattern matches (srcType,
// dstType), checking this frame's table before walking up through parent.
// A pattern with Src == nil matches any source. Hits are memoized per
// frame; a miss is not cached and is looked up again on the next call.
func (c *Context) GetMorphism(srcType *typeterm.Term, dstType typeterm.Term) (MorphismFunc, bool) {
	pattern, ok := MorphismPatternOf(srcType, dstType)
	if !ok {
		return nil, false
	}

	if v, found := c.cache.Get(pattern.key()); found {
		fn, ok := v.(MorphismFunc)
		return fn, ok && fn != nil
	}

	for _, m := range c.morphisms {
		if m.pattern.Dst != pattern.Dst {
			continue
		}
		if m.pattern.Src != nil && (pattern.Src == nil || *m.pattern.Src != *pattern.Src) {
			continue
		}
		c.cache.Set(pattern.key(), m.fn, gocache.DefaultExpiration)
		return m.fn, true
	}

	if c.parent != nil {
		fn, ok := c.parent.GetMorphism(srcType, dstType)
		if ok {
			c.cache.Set(pattern.key(), fn, gocache.DefaultExpiration)
		}
		return fn, ok
	}

	return nil, false
}

// MakeNode looks up the morphism registered with src = nil, dst =
// dstType, builds a fresh ReprTree tagged dstType, and invokes the
// morphism against it. The returned node value is whatever the
// constructor built (an *edittree.NestedNode wrapping the ReprTree, in
// practice).
func (c *Context) MakeNode(dstType typeterm.Term) (any, error) {
	fn, ok := c.GetMorphism(nil, dstType)
	if !ok {
		return nil, fmt.Errorf("%w: no constructor for %s", ErrNoMorphism, c.Unparse(dstType))
	}
	rt := reprtree.New(dstType)
	node, ok := fn(c, rt, dstType)
	if !ok {
		return nil, fmt.Errorf("%w: constructor for %s", ErrMorphismDeclined, c.Unparse(dstType))
	}
	return node, nil
}

// ApplyMorphism ascends rt under dstType and invokes the morphism
// registered for (rt.Type(), dstType) against the ascended tree,
// returning it on success. This is the shared primitive MorphNode and
// SetupEditTree both build on.
func (c *Context) ApplyMorphism(rt *reprtree.ReprTree, dstType typeterm.Term, extra ...any) (*reprtree.ReprTree, error) {
	srcType := rt.Type()
	fn, ok := c.GetMorphism(&srcType, dstType)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoMorphism, c.Unparse(srcType), c.Unparse(dstType))
	}
	ascended := reprtree.Ascend(rt, dstType)
	if _, ok := fn(c, ascended, dstType, extra...); !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrMorphismDeclined, c.Unparse(srcType), c.Unparse(dstType))
	}
	return ascended, nil
}

// MorphNode is ApplyMorphism with spec.md §4.5's morph_node fallback: a
// missing morphism leaves rt unchanged and logs a diagnostic warning
// instead of returning an error, since morph is explicitly allowed to be
// a no-op.
func (c *Context) MorphNode(rt *reprtree.ReprTree, dstType typeterm.Term) *reprtree.ReprTree {
	morphed, err := c.ApplyMorphism(rt, dstType)
	if err != nil {
		c.logWarn("morph_node: no morphism, node unchanged",
			"src", c.Unparse(rt.Type()), "dst", c.Unparse(dstType))
		return rt
	}
	return morphed
}

// SetupEditTree looks up the morphism mapping rt's type T to the ladder
// T~EditTree, applies it (passing depth through to the constructor as
// extra call data), and descends into the resulting EditTree branch.
// Unlike MorphNode, a missing morphism here is a hard error: every
// editable type must have one.
func (c *Context) SetupEditTree(rt *reprtree.ReprTree, depth any) (*reprtree.ReprTree, error) {
	editTreeID, ok := c.GetTypeID("EditTree")
	if !ok {
		return nil, fmt.Errorf("%w: EditTree type not registered in this Context", ErrUnknownType)
	}
	ladder := typeterm.Ladder(rt.Type(), typeterm.Of(editTreeID))
	ascended, err := c.ApplyMorphism(rt, ladder, depth)
	if err != nil {
		return nil, err
	}
	return ascended.Descend(typeterm.Of(editTreeID))
}
