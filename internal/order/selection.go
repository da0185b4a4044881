package order

import (
	"strings"

	"github.com/ccastromar/pizzabot/internal/menu"
)

// Selection is one item as the conversation named it, before validation.
type Selection struct {
	Item     string   `json:"item"`
	Size     string   `json:"size,omitempty"`
	Crust    string   `json:"crust,omitempty"`
	Toppings []string `json:"toppings,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// Line is a validated, priced selection.
type Line struct {
	Item     *menu.Item
	Size     *menu.Modifier
	Crust    *menu.Modifier
	Toppings []menu.Modifier
	Included []string
	Options  []menu.Modifier
	Price    menu.Money
}

// SizeName is "" when the item is not sized.
func (l Line) SizeName() string {
	if l.Size == nil {
		return ""
	}
	return l.Size.Name
}

func (l Line) CrustName() string {
	if l.Crust == nil {
		return ""
	}
	return l.Crust.Name
}

func (l Line) ToppingNames() []string {
	out := make([]string, 0, len(l.Included)+len(l.Toppings))
	out = append(out, l.Included...)
	for _, t := range l.Toppings {
		out = append(out, t.Name)
	}
	return out
}

func (l Line) OptionNames() []string {
	out := make([]string, 0, len(l.Options))
	for _, o := range l.Options {
		out = append(out, o.Name)
	}
	return out
}

// Label is the short name used on receipts: "Zalo Supreme (Large, Deep Dish)".
func (l Line) Label() string {
	var qual []string
	if s := l.SizeName(); s != "" {
		qual = append(qual, s)
	}
	if c := l.CrustName(); c != "" {
		qual = append(qual, c)
	}
	qual = append(qual, l.OptionNames()...)
	if len(qual) == 0 {
		return l.Item.Name
	}
	return l.Item.Name + " (" + strings.Join(qual, ", ") + ")"
}

// Equal compares the chosen item and modifiers, not the price.
func (l Line) Equal(o Line) bool {
	if l.Item == nil || o.Item == nil {
		return l.Item == o.Item
	}
	return l.Item.Name == o.Item.Name &&
		l.SizeName() == o.SizeName() &&
		l.CrustName() == o.CrustName() &&
		equalStrings(l.ToppingNames(), o.ToppingNames()) &&
		equalStrings(l.OptionNames(), o.OptionNames())
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// blank reports modifier values the model uses to mean "nothing chosen".
func blank(s string) bool {
	switch menu.Normalize(s) {
	case "", "na", "none", "no", "regular", "standard", "default":
		return true
	}
	return false
}

// Resolve validates sel against the menu and prices it.
func Resolve(m *menu.Menu, sel Selection) (Line, error) {
	it, ok := m.Lookup(sel.Item)
	if !ok {
		return Line{}, &SelectionError{Item: strings.TrimSpace(sel.Item), Kind: "item", Err: ErrUnknownItem}
	}
	line := Line{Item: it}

	size := sel.Size
	if blank(size) {
		size = it.DefaultSize
	}
	switch {
	case size != "":
		mod, ok := it.Modifier(menu.KindSize, size)
		if !ok {
			return Line{}, &SelectionError{Item: it.Name, Kind: "size", Value: size, Err: ErrInvalidModifier}
		}
		line.Size = &mod
	case len(it.Sizes) > 0:
		return Line{}, &SelectionError{Item: it.Name, Kind: "size", Err: ErrMissingSize}
	}

	if !blank(sel.Crust) {
		mod, ok := it.Modifier(menu.KindCrust, sel.Crust)
		if !ok {
			return Line{}, &SelectionError{Item: it.Name, Kind: "crust", Value: sel.Crust, Err: ErrInvalidModifier}
		}
		line.Crust = &mod
	}

	for _, t := range sel.Toppings {
		if blank(t) {
			continue
		}
		if it.IsIncluded(t) {
			line.Included = append(line.Included, canonicalIncluded(it, t))
			continue
		}
		mod, ok := it.Modifier(menu.KindTopping, t)
		if !ok {
			return Line{}, &SelectionError{Item: it.Name, Kind: "topping", Value: t, Err: ErrInvalidModifier}
		}
		line.Toppings = append(line.Toppings, mod)
	}

	for _, o := range sel.Options {
		if blank(o) {
			continue
		}
		mod, ok := it.Modifier(menu.KindOption, o)
		if !ok {
			return Line{}, &SelectionError{Item: it.Name, Kind: "option", Value: o, Err: ErrInvalidModifier}
		}
		line.Options = append(line.Options, mod)
	}

	line.Price = PriceLine(line)
	return line, nil
}

func canonicalIncluded(it *menu.Item, name string) string {
	key := menu.Normalize(name)
	for _, inc := range it.Included {
		if menu.Normalize(inc) == key {
			return inc
		}
	}
	return name
}
