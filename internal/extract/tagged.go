package extract

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ccastromar/pizzabot/internal/order"
)

const (
	openTag  = "<ORDER>"
	closeTag = "</ORDER>"
)

// TaggedParser reads free-text replies that, once the customer confirms,
// carry the order as JSON inside an <ORDER>...</ORDER> block. A present
// block means the order is complete.
type TaggedParser struct {
	PizzaItem string
}

var errUnterminatedBlock = errors.New("unterminated " + openTag + " block")

type taggedOrder struct {
	Size     string     `json:"size"`
	Crust    string     `json:"crust"`
	Toppings stringList `json:"toppings"`
	Drinks   stringList `json:"drinks"`
}

func (p TaggedParser) Parse(raw string) (Reply, error) {
	start := strings.Index(raw, openTag)
	if start < 0 {
		return Reply{Message: strings.TrimSpace(raw), Status: StatusInProgress}, nil
	}
	end := strings.Index(raw[start:], closeTag)
	if end < 0 {
		return Reply{}, &MalformedError{Text: stripTags(raw), Err: errUnterminatedBlock}
	}
	end += start

	block := raw[start+len(openTag) : end]
	message := strings.TrimSpace(raw[:start] + raw[end+len(closeTag):])

	var to taggedOrder
	if err := json.Unmarshal([]byte(Clean(block)), &to); err != nil {
		return Reply{}, &MalformedError{Text: stripTags(raw), Err: err}
	}

	sels := []order.Selection{{
		Item:     p.PizzaItem,
		Size:     to.Size,
		Crust:    to.Crust,
		Toppings: to.Toppings,
	}}
	for _, d := range to.Drinks {
		if skip(d) {
			continue
		}
		name, opts := splitQualifier(d)
		sels = append(sels, order.Selection{Item: name, Options: opts})
	}

	return Reply{
		Message:    message,
		Status:     StatusComplete,
		Selections: sels,
		HasOrder:   true,
	}, nil
}

func stripTags(raw string) string {
	return strings.TrimSpace(strings.NewReplacer(openTag, "", closeTag, "").Replace(raw))
}
