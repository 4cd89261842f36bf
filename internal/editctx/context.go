// Package editctx implements Context: a TypeDict, a pattern-indexed
// morphism table, a list-type registry and a meta-char registry, chained
// through an optional parent frame. It never imports internal/edittree:
// node construction and morphing are expressed generically over
// *reprtree.ReprTree and a type-erased `any` node value, so that
// internal/edittree (which does need to import editctx for Context) does
// not create an import cycle back into this package.
package editctx

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"nested/internal/log"
	"nested/internal/typeterm"
)

const (
	defaultCacheExpiration = 10 * time.Minute
	defaultCacheCleanup    = 30 * time.Minute
)

// typeIDSet is a shared, mutex-guarded set of TypeIDs. A Context and every
// child built with NewContext(parent) hold the same *typeIDSet pointer, so
// registering a list type in a child is visible to its parent and
// siblings too -- unlike the morphism table, which is frame-local.
type typeIDSet struct {
	ids map[typeterm.TypeID]bool
}

func newTypeIDSet() *typeIDSet { return &typeIDSet{ids: make(map[typeterm.TypeID]bool)} }

// metaCharSet is the shared registry of characters that close or split a
// surrounding editor, mapping the rune to a short description for
// diagnostics.
type metaCharSet struct {
	chars map[rune]string
}

func newMetaCharSet() *metaCharSet { return &metaCharSet{chars: make(map[rune]string)} }

type registeredMorphism struct {
	pattern MorphismTypePattern
	fn      MorphismFunc
}

// Context owns a TypeDict (shared with children), a set of list-like
// TypeIDs and a set of meta-chars (both shared with children), a morphism
// table (frame-local: never inherited, never shared upward) and an
// optional parent. Lookups that miss in this frame walk the parent chain;
// lookups that hit are memoized in this frame's own cache.
type Context struct {
	dict      *typeterm.Dict
	listTypes *typeIDSet
	metaChars *metaCharSet
	morphisms []registeredMorphism
	parent    *Context
	cache     *gocache.Cache
}

// NewContext creates a Context. If parent is non-nil, the TypeDict and the
// list-type/meta-char sets are the same shared instances as parent's;
// the morphism table starts empty regardless, per the frame-local
// resolution in DESIGN.md.
func NewContext(parent *Context) *Context {
	c := &Context{
		parent: parent,
		cache:  gocache.New(defaultCacheExpiration, defaultCacheCleanup),
	}
	if parent != nil {
		c.dict = parent.dict
		c.listTypes = parent.listTypes
		c.metaChars = parent.metaChars
	} else {
		c.dict = typeterm.NewDict()
		c.listTypes = newTypeIDSet()
		c.metaChars = newMetaCharSet()
	}
	return c
}

// Clone pushes a fresh, empty frame on top of c, so a caller (typically a
// test or the demo CLI) can register scratch morphisms without mutating
// the base context any observer of c still holds.
func (c *Context) Clone() *Context {
	return NewContext(c)
}

// Parent returns c's parent frame, or nil at the root.
func (c *Context) Parent() *Context { return c.parent }

// Depth returns the number of ancestor frames above c (0 at the root).
func (c *Context) Depth() int {
	d := 0
	for p := c.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// AddTypeName registers a plain type name in the shared TypeDict.
func (c *Context) AddTypeName(name string) (typeterm.TypeID, error) {
	id, err := c.dict.AddTypeName(name)
	if err == nil {
		c.cache.Flush()
	}
	return id, err
}

// AddVarName registers a variable-namespace name in the shared TypeDict.
func (c *Context) AddVarName(name string) (typeterm.TypeID, error) {
	id, err := c.dict.AddVarName(name)
	if err == nil {
		c.cache.Flush()
	}
	return id, err
}

// AddSynonym registers an additional parse-only alias for id.
func (c *Context) AddSynonym(id typeterm.TypeID, synonym string) error {
	err := c.dict.AddSynonym(id, synonym)
	if err == nil {
		c.cache.Flush()
	}
	return err
}

// AddListTypeName registers name as a type name and marks it list-like,
// so IsListType reports true for any term headed by it.
func (c *Context) AddListTypeName(name string) (typeterm.TypeID, error) {
	id, err := c.dict.AddTypeName(name)
	if err != nil {
		return id, err
	}
	c.listTypes.ids[id] = true
	c.cache.Flush()
	return id, nil
}

// IsListType reports whether t's head TypeID (through any leading
// App/Ladder) was registered via AddListTypeName.
func (c *Context) IsListType(t typeterm.Term) bool {
	head, ok := t.HeadTypeID()
	if !ok {
		return false
	}
	return c.listTypes.ids[head]
}

// AddMetaChar registers r as a meta-char with a short diagnostic
// description (e.g. "closes enclosing list").
func (c *Context) AddMetaChar(r rune, desc string) {
	c.metaChars.chars[r] = desc
}

// IsMetaChar reports whether r was registered via AddMetaChar, and its
// description if so.
func (c *Context) IsMetaChar(r rune) (string, bool) {
	desc, ok := c.metaChars.chars[r]
	return desc, ok
}

// GetTypeID resolves a name (canonical or synonym) in the shared TypeDict.
func (c *Context) GetTypeID(name string) (typeterm.TypeID, bool) {
	return c.dict.GetTypeID(name)
}

// GetTypeName returns the canonical name for id.
func (c *Context) GetTypeName(id typeterm.TypeID) (string, bool) {
	return c.dict.GetTypeName(id)
}

// Parse parses s against the shared TypeDict, memoizing the result so a
// repeatedly-parsed surface string (e.g. a command family tag checked on
// every SendCmdObj dispatch) doesn't re-run the parser each time.
func (c *Context) Parse(s string) (typeterm.Term, error) {
	if v, found := c.cache.Get(parseCacheKey(s)); found {
		if t, ok := v.(typeterm.Term); ok {
			return t, nil
		}
	}
	t, err := typeterm.Parse(c.dict, s)
	if err != nil {
		return typeterm.Term{}, err
	}
	c.cache.Set(parseCacheKey(s), t, gocache.DefaultExpiration)
	return t, nil
}

// Unparse renders t against the shared TypeDict.
func (c *Context) Unparse(t typeterm.Term) string {
	return typeterm.ToStr(c.dict, t)
}

func parseCacheKey(s string) string { return "parse:" + s }

func (c *Context) logWarn(msg string, fields ...any) {
	log.Warn(log.CatContext, msg, fields...)
}
