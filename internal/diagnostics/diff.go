package diagnostics

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// RenderUpdateDiff renders a compact inline diff between a buffer item's
// previous and new string form, for use as an Update Message's Body.
// Returns "unchanged" for equal inputs; otherwise the text is a
// character-level diff (semantically cleaned up) with deletions written
// as [-x] and insertions as [+y] (this is a debug aid, not a
// general-purpose value formatter).
func RenderUpdateDiff(oldValue, newValue string) string {
	if oldValue == newValue {
		return "unchanged"
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldValue, newValue, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			fmt.Fprintf(&b, "[-%s]", d.Text)
		case diffmatchpatch.DiffInsert:
			fmt.Fprintf(&b, "[+%s]", d.Text)
		}
	}
	return b.String()
}
