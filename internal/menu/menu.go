// Package menu holds the immutable catalog a bot sells from: items, the
// modifiers each item accepts and their prices.
package menu

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

type Category string

const (
	CategoryPizza Category = "pizza"
	CategorySide  Category = "side"
	CategoryDrink Category = "drink"
)

type ModifierKind string

const (
	KindSize    ModifierKind = "size"
	KindCrust   ModifierKind = "crust"
	KindTopping ModifierKind = "topping"
	KindOption  ModifierKind = "option"
)

// Modifier adjusts an item's base price. SizeDeltas overrides Delta for a
// given size name (toppings are cheaper on a small pizza).
type Modifier struct {
	Name       string           `yaml:"name"`
	Delta      Money            `yaml:"delta"`
	SizeDeltas map[string]Money `yaml:"size_deltas"`
	Aliases    []string         `yaml:"aliases"`
	Note       string           `yaml:"note"`
}

// DeltaFor returns the delta that applies when the item is ordered in size.
func (m Modifier) DeltaFor(size string) Money {
	if size != "" {
		for name, d := range m.SizeDeltas {
			if Normalize(name) == Normalize(size) {
				return d
			}
		}
	}
	return m.Delta
}

func (m Modifier) matches(key string) bool {
	if Normalize(m.Name) == key {
		return true
	}
	for _, a := range m.Aliases {
		if Normalize(a) == key {
			return true
		}
	}
	return false
}

type Item struct {
	Name        string     `yaml:"name"`
	Category    Category   `yaml:"category"`
	Description string     `yaml:"description"`
	Base        Money      `yaml:"base"`
	DefaultSize string     `yaml:"default_size"`
	Sizes       []Modifier `yaml:"sizes"`
	Crusts      []Modifier `yaml:"crusts"`
	Toppings    []Modifier `yaml:"toppings"`
	Options     []Modifier `yaml:"options"`
	// Included lists toppings that come with the item at no charge.
	Included []string `yaml:"included"`
	Aliases  []string `yaml:"aliases"`
}

// Modifiers returns the allowed modifiers of the given kind.
func (it *Item) Modifiers(kind ModifierKind) []Modifier {
	switch kind {
	case KindSize:
		return it.Sizes
	case KindCrust:
		return it.Crusts
	case KindTopping:
		return it.Toppings
	case KindOption:
		return it.Options
	}
	return nil
}

// Modifier looks up an allowed modifier by name or alias.
func (it *Item) Modifier(kind ModifierKind, name string) (Modifier, bool) {
	key := Normalize(name)
	if key == "" {
		return Modifier{}, false
	}
	for _, m := range it.Modifiers(kind) {
		if m.matches(key) {
			return m, true
		}
	}
	return Modifier{}, false
}

// IsIncluded reports whether topping comes with the item.
func (it *Item) IsIncluded(topping string) bool {
	key := Normalize(topping)
	for _, inc := range it.Included {
		if Normalize(inc) == key {
			return true
		}
	}
	return false
}

func (it *Item) matches(key string) bool {
	if Normalize(it.Name) == key {
		return true
	}
	for _, a := range it.Aliases {
		if Normalize(a) == key {
			return true
		}
	}
	return false
}

type Menu struct {
	Name  string `yaml:"name"`
	Items []Item `yaml:"items"`
}

// Lookup finds an item by name or alias, ignoring case and punctuation.
func (m *Menu) Lookup(name string) (*Item, bool) {
	key := Normalize(name)
	if key == "" {
		return nil, false
	}
	for i := range m.Items {
		if m.Items[i].matches(key) {
			return &m.Items[i], true
		}
	}
	return nil, false
}

// ByCategory returns the items of a category in menu order.
func (m *Menu) ByCategory(c Category) []*Item {
	var out []*Item
	for i := range m.Items {
		if m.Items[i].Category == c {
			out = append(out, &m.Items[i])
		}
	}
	return out
}

// Validate checks the catalog once at load time.
func (m *Menu) Validate() error {
	if len(m.Items) == 0 {
		return fmt.Errorf("menu %q has no items", m.Name)
	}
	seen := map[string]string{}
	for i := range m.Items {
		it := &m.Items[i]
		if Normalize(it.Name) == "" {
			return fmt.Errorf("menu %q: item %d has no name", m.Name, i)
		}
		switch it.Category {
		case CategoryPizza, CategorySide, CategoryDrink:
		default:
			return fmt.Errorf("item %q: unknown category %q", it.Name, it.Category)
		}
		if it.Base < 0 {
			return fmt.Errorf("item %q: negative base price", it.Name)
		}
		for _, n := range append([]string{it.Name}, it.Aliases...) {
			k := Normalize(n)
			if prev, dup := seen[k]; dup {
				return fmt.Errorf("item name %q of %q collides with %q", n, it.Name, prev)
			}
			seen[k] = it.Name
		}
		if it.DefaultSize != "" {
			if _, ok := it.Modifier(KindSize, it.DefaultSize); !ok {
				return fmt.Errorf("item %q: default size %q is not one of its sizes", it.Name, it.DefaultSize)
			}
		}
		for _, kind := range []ModifierKind{KindSize, KindCrust, KindTopping, KindOption} {
			for _, mod := range it.Modifiers(kind) {
				if mod.Delta < 0 {
					return fmt.Errorf("item %q: %s %q has a negative delta", it.Name, kind, mod.Name)
				}
				for size, d := range mod.SizeDeltas {
					if d < 0 {
						return fmt.Errorf("item %q: %s %q has a negative delta for %s", it.Name, kind, mod.Name, size)
					}
				}
			}
		}
	}
	return nil
}

// Names lists every item name, sorted, for error messages and prompts.
func (m *Menu) Names() []string {
	out := make([]string, 0, len(m.Items))
	for _, it := range m.Items {
		out = append(out, it.Name)
	}
	sort.Strings(out)
	return out
}

// Normalize folds a free-text name into a comparison key: lower case,
// letters and digits only. "Hand-Tossed" and "hand tossed" share a key.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
