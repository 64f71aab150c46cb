package document

import "strings"

type declaration struct {
	property string
	value    string
}

// declarations is an inline style attribute in source order.
type declarations []declaration

func parseStyle(attr string) declarations {
	var out declarations
	for _, part := range strings.Split(attr, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = normalizeProperty(prop)
		value = strings.TrimSpace(value)
		if prop == "" || value == "" {
			continue
		}
		out.set(prop, value)
	}
	return out
}

// Custom properties (--x) are case sensitive, the rest are not.
func normalizeProperty(prop string) string {
	prop = strings.TrimSpace(prop)
	if strings.HasPrefix(prop, "--") {
		return prop
	}
	return strings.ToLower(prop)
}

func (d declarations) get(prop string) string {
	prop = normalizeProperty(prop)
	for _, decl := range d {
		if decl.property == prop {
			return decl.value
		}
	}
	return ""
}

func (d *declarations) set(prop, value string) {
	prop = normalizeProperty(prop)
	value = strings.TrimSpace(value)
	for i, decl := range *d {
		if decl.property != prop {
			continue
		}
		if value == "" {
			*d = append((*d)[:i], (*d)[i+1:]...)
			return
		}
		(*d)[i].value = value
		return
	}
	if value != "" {
		*d = append(*d, declaration{property: prop, value: value})
	}
}

func (d declarations) String() string {
	parts := make([]string, 0, len(d))
	for _, decl := range d {
		parts = append(parts, decl.property+": "+decl.value)
	}
	return strings.Join(parts, "; ") + ";"
}
