package entity

// ExpandableGroup tracks the expandable settings sections, of which at most
// one is expanded at a time.
type ExpandableGroup struct {
	keys     []string
	expanded string
}

// NewExpandableGroup creates a group of collapsed sections.
func NewExpandableGroup(keys ...string) *ExpandableGroup {
	g := &ExpandableGroup{keys: make([]string, 0, len(keys))}
	for _, k := range keys {
		if k != "" && !g.Has(k) {
			g.keys = append(g.keys, k)
		}
	}
	return g
}

// Keys returns the section keys in document order.
func (g *ExpandableGroup) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Has reports whether key belongs to the group.
func (g *ExpandableGroup) Has(key string) bool {
	for _, k := range g.keys {
		if k == key {
			return true
		}
	}
	return false
}

// Expanded returns the key of the expanded section, or "" when all are collapsed.
func (g *ExpandableGroup) Expanded() string {
	return g.expanded
}

// IsExpanded reports whether key is the expanded section.
func (g *ExpandableGroup) IsExpanded(key string) bool {
	return key != "" && g.expanded == key
}

// Toggle expands key and collapses any other section, or collapses key if it
// was already expanded. Unknown keys are ignored. It returns the expanded key
// after the transition.
func (g *ExpandableGroup) Toggle(key string) string {
	if !g.Has(key) {
		return g.expanded
	}
	if g.expanded == key {
		g.expanded = ""
	} else {
		g.expanded = key
	}
	return g.expanded
}

// CollapseAll collapses every section.
func (g *ExpandableGroup) CollapseAll() {
	g.expanded = ""
}
