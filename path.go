package minimalapi

import (
	"net/url"
	"strings"
)

// ResolvePath computes the route path of an endpoint.
//
// A non-empty override is normalized and returned as is. Otherwise the path is
// derived from the type's namespace relative to rootNamespace, followed by
// nameOverride or, when that is empty, typeName.
func ResolvePath(override, rootNamespace, typeNamespace, typeName, nameOverride string) (string, error) {
	if override != "" {
		return NormalizePath(override), nil
	}

	root := strings.TrimRight(rootNamespace, "/.")
	var rel string
	switch {
	case typeNamespace == root:
	case root == "":
		rel = typeNamespace
	case strings.HasPrefix(typeNamespace, root) && isNamespaceSep(typeNamespace[len(root)]):
		rel = typeNamespace[len(root)+1:]
	default:
		return "", &ConfigurationError{
			Reason: "namespace " + typeNamespace + " is not inside " + rootNamespace,
			Err:    ErrOutsideRoot,
		}
	}
	rel = strings.ReplaceAll(rel, ".", "/")

	name := nameOverride
	if strings.TrimSpace(name) == "" {
		name = stripArity(typeName)
	}
	return NormalizePath(rel, name), nil
}

// NormalizePath joins the given parts into a canonical route path: lower-cased,
// empty segments dropped, literal segments percent-encoded and a leading slash
// enforced. Route parameter segments such as {id} or {rest...} are kept
// unencoded. Normalizing an already normalized path returns it unchanged.
func NormalizePath(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		part = strings.ToLower(strings.ReplaceAll(part, `\`, "/"))
		for _, seg := range strings.Split(part, "/") {
			seg = strings.TrimSpace(seg)
			if seg == "" {
				continue
			}
			b.WriteByte('/')
			b.WriteString(encodeSegment(seg))
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

func encodeSegment(seg string) string {
	if isParamSegment(seg) {
		return seg
	}
	if raw, err := url.PathUnescape(seg); err == nil {
		seg = raw
	}
	return url.PathEscape(seg)
}

func isParamSegment(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}

// routeParams lists the parameter names in a normalized route path.
func routeParams(path string) []string {
	var names []string
	for _, seg := range strings.Split(path, "/") {
		if !isParamSegment(seg) {
			continue
		}
		name := strings.TrimSuffix(seg[1:len(seg)-1], "...")
		if name == "$" || name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// stripArity removes a generic instantiation suffix ("Page[pkg.T]") or an
// arity marker ("Page`1") from a type name.
func stripArity(name string) string {
	if i := strings.IndexAny(name, "[`"); i >= 0 {
		return name[:i]
	}
	return name
}

func isNamespaceSep(c byte) bool {
	return c == '/' || c == '.'
}
