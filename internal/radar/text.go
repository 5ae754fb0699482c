package radar

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Truncate shortens s to at most n user-perceived characters, replacing
// the tail with "…" when it is cut.
func Truncate(s string, n int) string {
	if n <= 0 || s == "" {
		return ""
	}
	if uniseg.GraphemeClusterCount(s) <= n {
		return s
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n-1 && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	b.WriteString("…")
	return b.String()
}
