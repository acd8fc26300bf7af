package parse

import "strings"

const (
	// ListSeparator joins list entries in a single text column.
	ListSeparator = ';'
	escapeChar    = '\\'
)

// CleanList drops blank entries, keeping the order of the others.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

// JoinList flattens items into one string. Separators and backslashes inside
// entries are escaped with a backslash so SplitList gives the entries back.
// Blank entries are dropped.
func JoinList(items []string) string {
	var b strings.Builder
	first := true
	for _, it := range CleanList(items) {
		if !first {
			b.WriteByte(ListSeparator)
		}
		first = false
		for i := 0; i < len(it); i++ {
			c := it[i]
			if c == ListSeparator || c == escapeChar {
				b.WriteByte(escapeChar)
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// SplitList is the inverse of JoinList. Blank entries are dropped, which also
// makes it accept values written by the older unescaped format.
func SplitList(raw string) []string {
	if raw == "" {
		return []string{}
	}

	var (
		items []string
		cur   strings.Builder
	)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == escapeChar && i+1 < len(raw):
			i++
			cur.WriteByte(raw[i])
		case c == ListSeparator:
			items = append(items, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	items = append(items, cur.String())

	return CleanList(items)
}
