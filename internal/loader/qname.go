package loader

import "strings"

// QName derives a module's qualified name from its file path: an
// __init__.py contributes its containing directory's name instead of
// "__init__", a plain file drops its .py suffix, any literal dot already
// present in a path component is escaped as "%20" so it cannot be mistaken
// for a qname separator, and path separators become the qname's dots.
func QName(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	if strings.HasSuffix(p, "/__init__.py") {
		p = strings.TrimSuffix(p, "/__init__.py")
	} else if p == "__init__.py" {
		p = ""
	} else {
		p = strings.TrimSuffix(p, ".py")
	}
	p = strings.TrimPrefix(p, "/")

	parts := strings.Split(p, "/")
	for i, seg := range parts {
		parts[i] = strings.ReplaceAll(seg, ".", "%20")
	}
	return strings.Join(parts, ".")
}
