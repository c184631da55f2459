package zephyr

import (
	"strconv"
	"strings"
)

// pathRef builds JSON Pointer paths for flattened issues.
type pathRef struct {
	parts []string
}

func rootPath() pathRef { return pathRef{} }

func (p pathRef) Field(name string) pathRef {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// pointerLess orders JSON Pointers segment by segment. Segments that are both
// array indexes compare numerically, so /2 sorts before /10; a pointer sorts
// before its own descendants.
func pointerLess(a, b string) bool {
	sa, sb := pointerSegments(a), pointerSegments(b)
	for i := 0; i < len(sa) && i < len(sb); i++ {
		if sa[i] == sb[i] {
			continue
		}
		na, aerr := strconv.ParseUint(sa[i], 10, 64)
		nb, berr := strconv.ParseUint(sb[i], 10, 64)
		if aerr == nil && berr == nil && na != nb {
			return na < nb
		}
		return sa[i] < sb[i]
	}
	return len(sa) < len(sb)
}

func pointerSegments(p string) []string {
	if p == "" || p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}
