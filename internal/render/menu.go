package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ccastromar/pizzabot/internal/menu"
)

func menuTable(re *lipgloss.Renderer, m *menu.Menu, st styles) *table.Table {
	header := re.NewStyle().Bold(true).Foreground(info).Padding(0, 1)
	first := re.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	price := re.NewStyle().Foreground(warning).Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.table).
		BorderRow(true).
		Headers("Category", "Item", "Details / Price").
		Rows(MenuRows(m)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return first
			case col == 2:
				return price
			}
			return st.cell
		})
}

// MenuRows lays the catalog out as category, items and prices rows.
func MenuRows(m *menu.Menu) [][]string {
	var rows [][]string
	pizzas := m.ByCategory(menu.CategoryPizza)
	for _, it := range pizzas {
		label := "Size"
		if len(pizzas) > 1 {
			label = it.Name
		}
		if len(it.Sizes) > 0 {
			rows = append(rows, []string{label, names(it.Sizes), sizePrices(it)})
		} else {
			rows = append(rows, []string{label, it.Name, it.Base.String()})
		}
		if len(it.Crusts) > 0 {
			rows = append(rows, []string{"Crust", names(it.Crusts), extras(it.Crusts)})
		}
		if len(it.Toppings) > 0 {
			rows = append(rows, []string{"Toppings", names(it.Toppings), extras(it.Toppings)})
		}
	}
	for _, group := range []struct {
		label string
		cat   menu.Category
	}{{"Sides", menu.CategorySide}, {"Drinks", menu.CategoryDrink}} {
		items := m.ByCategory(group.cat)
		if len(items) == 0 {
			continue
		}
		itemNames := make([]string, 0, len(items))
		prices := make([]menu.Money, 0, len(items))
		for _, it := range items {
			itemNames = append(itemNames, it.Name)
			prices = append(prices, it.Base)
		}
		rows = append(rows, []string{group.label, strings.Join(itemNames, ", "), eachOrList(prices)})
	}
	return rows
}

func names(mods []menu.Modifier) string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Name)
	}
	return strings.Join(out, ", ")
}

func sizePrices(it *menu.Item) string {
	out := make([]string, 0, len(it.Sizes))
	for _, s := range it.Sizes {
		out = append(out, (it.Base + s.Delta).String())
	}
	return strings.Join(out, " / ")
}

// extras shows only the modifiers that cost something: "Stuffed: +$2.50".
// When every modifier costs the same it collapses to "$1.00 each".
func extras(mods []menu.Modifier) string {
	deltas := make([]menu.Money, 0, len(mods))
	var paid []string
	for _, m := range mods {
		deltas = append(deltas, m.Delta)
		if m.Delta > 0 {
			paid = append(paid, m.Name+": +"+m.Delta.String())
		}
	}
	if len(mods) > 1 && len(paid) == len(mods) && same(deltas) {
		return deltas[0].String() + " each"
	}
	if len(paid) == 0 {
		return "included"
	}
	return strings.Join(paid, ", ")
}

func eachOrList(prices []menu.Money) string {
	if len(prices) > 1 && same(prices) {
		return prices[0].String() + " each"
	}
	out := make([]string, 0, len(prices))
	for _, p := range prices {
		out = append(out, p.String())
	}
	return strings.Join(out, " / ")
}

func same(ms []menu.Money) bool {
	for _, m := range ms[1:] {
		if m != ms[0] {
			return false
		}
	}
	return true
}
