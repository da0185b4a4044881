package extract

import (
	"encoding/json"
	"strings"

	"github.com/ccastromar/pizzabot/internal/order"
)

const fallbackMessage = "I'm not sure how to respond to that."

// maxQuantity bounds how many copies of one item a single entry expands to.
const maxQuantity = 20

// JSONParser reads the envelope
//
//	{"status": "...", "response": "...", "order_details": {"items": [...]}}
//
// and the older flat order_details shape with pizza_name, size, crust,
// toppings, sides and drinks keys.
type JSONParser struct {
	// PizzaItem names the menu item a flat pizza without pizza_name maps to.
	PizzaItem string
}

type envelope struct {
	Status       string          `json:"status"`
	Response     *string         `json:"response"`
	OrderDetails json.RawMessage `json:"order_details"`
}

type itemEntry struct {
	Item     string     `json:"item"`
	Name     string     `json:"name"`
	Size     string     `json:"size"`
	Crust    string     `json:"crust"`
	Toppings stringList `json:"toppings"`
	Options  stringList `json:"options"`
	Quantity int        `json:"quantity"`
}

type orderDetails struct {
	// Items is nil when the key is absent; an empty list empties the order.
	Items *[]itemEntry `json:"items"`

	PizzaName string     `json:"pizza_name"`
	Size      string     `json:"size"`
	Crust     string     `json:"crust"`
	Toppings  stringList `json:"toppings"`
	Sides     stringList `json:"sides"`
	Drinks    stringList `json:"drinks"`
}

func (p JSONParser) Parse(raw string) (Reply, error) {
	clean := Clean(raw)

	var env envelope
	if err := json.Unmarshal([]byte(clean), &env); err != nil {
		return Reply{}, &MalformedError{Text: clean, Err: err}
	}

	reply := Reply{
		Message: fallbackMessage,
		Status:  parseStatus(env.Status),
	}
	if env.Response != nil {
		reply.Message = strings.TrimSpace(*env.Response)
	}

	if len(env.OrderDetails) == 0 || string(env.OrderDetails) == "null" {
		return reply, nil
	}
	var details orderDetails
	if err := json.Unmarshal(env.OrderDetails, &details); err != nil {
		return Reply{}, &MalformedError{Text: clean, Err: err}
	}
	reply.Selections = p.selections(details)
	reply.HasOrder = details.Items != nil || len(reply.Selections) > 0
	return reply, nil
}

func (p JSONParser) selections(d orderDetails) []order.Selection {
	if d.Items != nil {
		out := []order.Selection{}
		for _, e := range *d.Items {
			name := e.Item
			if strings.TrimSpace(name) == "" {
				name = e.Name
			}
			sel := order.Selection{
				Item:     strings.TrimSpace(name),
				Size:     e.Size,
				Crust:    e.Crust,
				Toppings: e.Toppings,
				Options:  e.Options,
			}
			n := e.Quantity
			if n < 1 {
				n = 1
			}
			if n > maxQuantity {
				n = maxQuantity
			}
			for i := 0; i < n; i++ {
				out = append(out, sel)
			}
		}
		return out
	}
	return p.flatSelections(d)
}

func (p JSONParser) flatSelections(d orderDetails) []order.Selection {
	var out []order.Selection
	pizza := strings.TrimSpace(d.PizzaName)
	if pizza == "" && (d.Size != "" || d.Crust != "" || len(d.Toppings) > 0) {
		pizza = p.PizzaItem
	}
	if pizza != "" {
		out = append(out, order.Selection{
			Item:     pizza,
			Size:     d.Size,
			Crust:    d.Crust,
			Toppings: d.Toppings,
		})
	}
	for _, group := range []stringList{d.Sides, d.Drinks} {
		for _, s := range group {
			if skip(s) {
				continue
			}
			name, opts := splitQualifier(s)
			out = append(out, order.Selection{Item: name, Options: opts})
		}
	}
	return out
}
