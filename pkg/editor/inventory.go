package editor

import (
	"sort"
	"strings"
)

// Inventory lists the node types a host can create, each filed under a
// "/"-separated category path such as "Math/Trigonometry".
type Inventory struct {
	types map[string]string
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{types: make(map[string]string)}
}

// Add registers a node type. Adding an existing type moves it to category.
func (inv *Inventory) Add(nodeType, category string) {
	inv.types[nodeType] = category
}

// Has reports whether nodeType is registered.
func (inv *Inventory) Has(nodeType string) bool {
	_, ok := inv.types[nodeType]
	return ok
}

// Len returns the number of registered types.
func (inv *Inventory) Len() int { return len(inv.types) }

// MenuItem is one entry of the new-node menu. Submenus have Items and an
// empty Type; leaves carry the node type.
type MenuItem struct {
	Label string
	Type  string
	Items []*MenuItem
}

// Menu builds the category tree. Entries are ordered by category, then by
// type name, and submenus appear in the order their first entry does.
func (inv *Inventory) Menu() []*MenuItem {
	type pair struct{ name, category string }
	pairs := make([]pair, 0, len(inv.types))
	for name, cat := range inv.types {
		pairs = append(pairs, pair{name, cat})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].category == pairs[j].category {
			return pairs[i].name < pairs[j].name
		}
		return pairs[i].category < pairs[j].category
	})

	root := &MenuItem{}
	submenus := map[string]*MenuItem{}
	for _, p := range pairs {
		parent := root
		path := ""
		for _, seg := range strings.Split(p.category, "/") {
			if seg == "" {
				continue
			}
			path += "/" + seg
			sub, ok := submenus[path]
			if !ok {
				sub = &MenuItem{Label: seg}
				submenus[path] = sub
				parent.Items = append(parent.Items, sub)
			}
			parent = sub
		}
		parent.Items = append(parent.Items, &MenuItem{Label: p.name, Type: p.name})
	}
	return root.Items
}

// Filter returns the types whose name contains text, ignoring case, in
// name order. Blank text matches everything.
func (inv *Inventory) Filter(text string) []string {
	needle := strings.ToLower(strings.TrimSpace(text))
	var out []string
	for name := range inv.types {
		if needle == "" || strings.Contains(strings.ToLower(name), needle) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
