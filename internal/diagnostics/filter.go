package diagnostics

import (
	"nested/internal/port"
	"nested/internal/projection"
)

// FilterAtLeast returns a Sequence view of upstream containing only the
// messages at or above level, using the same filter_map projection every
// other index-compacting view in this kernel is built on.
func FilterAtLeast(upstream port.Outer[port.SequenceMsg], level Level) *port.Port[port.SequenceMsg] {
	return projection.FilterMap(upstream, func(m Message) (Message, bool) {
		return m, m.Level >= level
	})
}
