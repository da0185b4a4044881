// Package prompt renders the system instruction a bot sends with every
// model call: persona, the menu with its prices and the reply protocol.
package prompt

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/ccastromar/pizzabot/internal/config"
	"github.com/ccastromar/pizzabot/internal/menu"
)

// NotePrefix marks text the ordering system adds in front of a customer
// message. Both templates tell the model how to treat it.
const NotePrefix = "[ordering system]"

type data struct {
	Bot        config.Bot
	Menu       *menu.Menu
	Pizzas     []*menu.Item
	Sides      []*menu.Item
	Drinks     []*menu.Item
	NotePrefix string
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"join":  strings.Join,
	"sizes": sizePrices,
	"mods":  modifierList,
	"price": itemPrice,
}

var templates = map[string]*template.Template{
	config.ProtocolJSON:   template.Must(template.New("json").Funcs(funcs).Parse(jsonTemplate)),
	config.ProtocolTagged: template.Must(template.New("tagged").Funcs(funcs).Parse(taggedTemplate)),
}

// Render builds the system prompt for def's protocol.
func Render(def *config.Definition) (string, error) {
	t, ok := templates[def.Bot.Protocol]
	if !ok {
		return "", fmt.Errorf("no prompt template for protocol %q", def.Bot.Protocol)
	}

	m := &def.Menu
	d := data{
		Bot:        def.Bot,
		Menu:       m,
		Pizzas:     m.ByCategory(menu.CategoryPizza),
		Sides:      m.ByCategory(menu.CategorySide),
		Drinks:     m.ByCategory(menu.CategoryDrink),
		NotePrefix: NotePrefix,
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", def.Bot.Protocol, err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// sizePrices lists the full price of an item in each of its sizes:
// "Small $14.99, Medium $18.99, Large $22.99".
func sizePrices(it *menu.Item) string {
	if len(it.Sizes) == 0 {
		return it.Base.String()
	}
	parts := make([]string, 0, len(it.Sizes))
	for _, s := range it.Sizes {
		parts = append(parts, fmt.Sprintf("%s %s", s.Name, it.Base+s.Delta))
	}
	return strings.Join(parts, ", ")
}

func itemPrice(it *menu.Item) string {
	if len(it.Sizes) > 0 {
		return sizePrices(it)
	}
	return it.Base.String()
}

// modifierList renders "Thin Crust, Deep Dish (+$2.00)" with per-size
// overrides appended: "Bacon (+$1.50, Small +$1.00)".
func modifierList(mods []menu.Modifier) string {
	parts := make([]string, 0, len(mods))
	for _, m := range mods {
		var extra []string
		if m.Delta > 0 {
			extra = append(extra, "+"+m.Delta.String())
		}
		sizes := make([]string, 0, len(m.SizeDeltas))
		for size := range m.SizeDeltas {
			sizes = append(sizes, size)
		}
		sort.Strings(sizes)
		for _, size := range sizes {
			extra = append(extra, fmt.Sprintf("%s +%s", size, m.SizeDeltas[size]))
		}
		if len(extra) == 0 {
			parts = append(parts, m.Name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", m.Name, strings.Join(extra, ", ")))
	}
	return strings.Join(parts, ", ")
}
