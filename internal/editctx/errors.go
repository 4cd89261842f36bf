package editctx

import "fmt"

// ErrNoMorphism is returned when no registered morphism matches a pattern
// walking the parent chain.
var ErrNoMorphism = fmt.Errorf("editctx: no matching morphism")

// ErrMorphismDeclined is returned when a matched morphism function itself
// reports failure (its bool return is false).
var ErrMorphismDeclined = fmt.Errorf("editctx: morphism declined")

// ErrUnknownType is returned when a name has no TypeID in this Context's
// TypeDict.
var ErrUnknownType = fmt.Errorf("editctx: unknown type name")
