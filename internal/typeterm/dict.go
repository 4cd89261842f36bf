package typeterm

import (
	"fmt"
	"sync"
)

// Dict is the bijection between names and TypeIDs: one counter per
// namespace (plain type names, function names, variable names), plus a
// synonym table. Unparsing always emits the canonical (first-registered)
// name for a TypeID, never a synonym, so parse(unparse(t)) is stable even
// when synonyms exist.
type Dict struct {
	mu        sync.RWMutex
	counters  map[IDKind]int64
	canonical map[TypeID]string
	byName    map[string]TypeID
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{
		counters:  make(map[IDKind]int64),
		canonical: make(map[TypeID]string),
		byName:    make(map[string]TypeID),
	}
}

func (d *Dict) nextID(kind IDKind) TypeID {
	d.counters[kind]++
	return TypeID{Kind: kind, id: d.counters[kind]}
}

// ErrDuplicateName is returned when a name is already registered.
var ErrDuplicateName = fmt.Errorf("typeterm: duplicate name")

// ErrUnknownName is returned when a name has no registered TypeID.
var ErrUnknownName = fmt.Errorf("typeterm: unknown name")

func (d *Dict) add(kind IDKind, name string) (TypeID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byName[name]; exists {
		return TypeID{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	id := d.nextID(kind)
	d.canonical[id] = name
	d.byName[name] = id
	return id, nil
}

// AddTypeName registers a plain type name.
func (d *Dict) AddTypeName(name string) (TypeID, error) { return d.add(IDName, name) }

// AddFunctionName registers a function-namespace name.
func (d *Dict) AddFunctionName(name string) (TypeID, error) { return d.add(IDFunction, name) }

// AddVarName registers a variable-namespace name.
func (d *Dict) AddVarName(name string) (TypeID, error) { return d.add(IDVariable, name) }

// AddSynonym registers an additional alias for an already-named TypeID.
// Unparsing never emits a synonym; it only ever resolves one on parse.
func (d *Dict) AddSynonym(id TypeID, synonym string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.canonical[id]; !exists {
		return fmt.Errorf("%w: synonym target has no canonical name", ErrUnknownName)
	}
	if _, exists := d.byName[synonym]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, synonym)
	}
	d.byName[synonym] = id
	return nil
}

// GetTypeID resolves a name (canonical or synonym) to its TypeID.
func (d *Dict) GetTypeID(name string) (TypeID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byName[name]
	return id, ok
}

// GetTypeName returns the canonical name for id.
func (d *Dict) GetTypeName(id TypeID) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.canonical[id]
	return name, ok
}
