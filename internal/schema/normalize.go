package schema

import (
	"regexp"
	"strings"
)

var intWidthPattern = regexp.MustCompile(`^INT\([^)]*\)`)

// NormalizeType canonicalizes a column type so that cosmetic variants
// compare equal. Display widths on INT are dropped, TINYINT(1) becomes
// TINYINT, and VARCHAR keeps its length.
func NormalizeType(t string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	switch {
	case t == "TINYINT(1)":
		return "TINYINT"
	case strings.HasPrefix(t, "VARCHAR"):
		return t
	}
	return intWidthPattern.ReplaceAllString(t, "INT")
}
