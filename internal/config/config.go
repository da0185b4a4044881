package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ccastromar/pizzabot/internal/menu"
)

const (
	ProtocolJSON   = "json"
	ProtocolTagged = "tagged"
)

// Bot describes how one chatbot talks: which reply protocol the model is
// asked to follow and what happens once an order is complete.
type Bot struct {
	Name      string   `yaml:"name"`
	Title     string   `yaml:"title"`
	Protocol  string   `yaml:"protocol"`
	Welcome   string   `yaml:"welcome"`
	Greeting  string   `yaml:"greeting"`
	Farewell  string   `yaml:"farewell"`
	Placed    string   `yaml:"placed"`
	QuitWords []string `yaml:"quit_words"`
	// RepeatOrders offers a new order after each completed one.
	RepeatOrders bool `yaml:"repeat_orders"`
	ShowMenu     bool `yaml:"show_menu"`
	// PizzaItem is the menu item used when the model describes a pizza by
	// size, crust and toppings only.
	PizzaItem string `yaml:"pizza_item"`
}

type Definition struct {
	Bot  Bot       `yaml:"bot"`
	Menu menu.Menu `yaml:"menu"`
}

// LoadDefinition reads <dir>/<name>.yaml.
func LoadDefinition(dir, name string) (*Definition, error) {
	path := filepath.Join(dir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bot definition: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if def.Bot.Name == "" {
		def.Bot.Name = name
	}
	if err := def.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &def, nil
}

func (d *Definition) validate() error {
	switch d.Bot.Protocol {
	case ProtocolJSON, ProtocolTagged:
	case "":
		d.Bot.Protocol = ProtocolJSON
	default:
		return fmt.Errorf("bot %q: unknown protocol %q", d.Bot.Name, d.Bot.Protocol)
	}
	if d.Bot.Title == "" {
		d.Bot.Title = d.Bot.Name
	}
	if len(d.Bot.QuitWords) == 0 {
		d.Bot.QuitWords = []string{"quit", "exit"}
	}
	for i, w := range d.Bot.QuitWords {
		d.Bot.QuitWords[i] = strings.ToLower(strings.TrimSpace(w))
	}
	if err := d.Menu.Validate(); err != nil {
		return err
	}
	if d.Bot.PizzaItem != "" {
		if _, ok := d.Menu.Lookup(d.Bot.PizzaItem); !ok {
			return fmt.Errorf("bot %q: pizza_item %q is not on the menu", d.Bot.Name, d.Bot.PizzaItem)
		}
	}
	if d.Bot.Protocol == ProtocolTagged && d.Bot.PizzaItem == "" {
		return fmt.Errorf("bot %q: the tagged protocol needs a pizza_item", d.Bot.Name)
	}
	return nil
}
