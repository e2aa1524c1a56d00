package fsobj

import "strings"

// basename returns the last non-empty segment of p. Trailing separators are
// ignored, so "/a/b/" yields "b".
func basename(p, sep string) string {
	trimmed := strings.TrimRight(p, sep)
	if trimmed == "" {
		if p == "" {
			return ""
		}
		return sep
	}
	if i := strings.LastIndex(trimmed, sep); i >= 0 {
		return trimmed[i+len(sep):]
	}
	return trimmed
}

// dirname returns the parent of p. A path without any separator has parent
// ".", and the parent of a top level entry is the separator itself.
func dirname(p, sep string) string {
	trimmed := strings.TrimRight(p, sep)
	if trimmed == "" {
		if p == "" {
			return "."
		}
		return sep
	}
	i := strings.LastIndex(trimmed, sep)
	if i < 0 {
		return "."
	}
	parent := strings.TrimRight(trimmed[:i], sep)
	if parent == "" {
		return sep
	}
	return parent
}

// joinPath appends name to dir without doubling the separator.
func joinPath(dir, name, sep string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, sep) {
		return dir + name
	}
	return dir + sep + name
}

// isRootPath reports whether p is the empty path or the separator root.
// Nothing may ever be deleted or renamed at such a path.
func isRootPath(p, sep string) bool {
	return p == "" || p == sep
}

// splitExtension splits a filename at its last dot.
func splitExtension(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}
