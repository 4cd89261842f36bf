package typeterm

import (
	"strconv"
	"strings"
)

// ToStr renders t back into surface syntax, using dict's canonical (never
// synonym) name for every TypeID so that Parse(ToStr(t)) round-trips
// regardless of which synonym t happened to be parsed from.
func ToStr(dict *Dict, t Term) string {
	switch t.Kind {
	case KindTypeID:
		name, ok := dict.GetTypeName(t.ID)
		if !ok {
			return "<unknown-type-id>"
		}
		return name

	case KindNum:
		return strconv.FormatInt(t.Num, 10)

	case KindChar:
		if t.Char == '\n' {
			return `'\n'`
		}
		return "'" + string(t.Char) + "'"

	case KindApp:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = ToStr(dict, a)
		}
		return "<" + strings.Join(parts, " ") + ">"

	case KindLadder:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = ToStr(dict, a)
		}
		return strings.Join(parts, "~")

	default:
		return ""
	}
}
