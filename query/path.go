package query

import "strings"

// gjson treats these as syntax inside a path component.
const pathMeta = `\*?|#@!=<>%()[]{},:`

// EscapePath turns a plain dot-separated field path into a gjson path, so
// that only "." acts as a separator and every other character is literal.
func EscapePath(path string) string {
	if !strings.ContainsAny(path, pathMeta) {
		return path
	}

	var b strings.Builder
	b.Grow(len(path) + 8)
	for _, r := range path {
		if r != '.' && strings.ContainsRune(pathMeta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
