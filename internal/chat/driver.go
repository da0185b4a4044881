// Package chat runs the ordering conversation: it reads the customer's
// lines, asks the model, keeps the order in sync with the model's replies
// and decides when the order is done.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ccastromar/pizzabot/internal/config"
	"github.com/ccastromar/pizzabot/internal/extract"
	"github.com/ccastromar/pizzabot/internal/llm"
	"github.com/ccastromar/pizzabot/internal/logx"
	"github.com/ccastromar/pizzabot/internal/menu"
	"github.com/ccastromar/pizzabot/internal/order"
	"github.com/ccastromar/pizzabot/internal/prompt"
)

// Screen is where the conversation is shown.
type Screen interface {
	Welcome(text string)
	Menu(m *menu.Menu)
	Bot(msg string)
	System(msg string)
	Error(msg string)
	Notice(msg string)
	Prompt()
	Order(o *order.Order, closing string)
	Partial(o *order.Order)
	Goodbye(msg string)
}

var yesWords = map[string]bool{"yes": true, "y": true, "sure": true, "ok": true, "yeah": true}

type outcome int

const (
	keepGoing outcome = iota
	orderDone
	interrupted
)

type Driver struct {
	bot    config.Bot
	menu   *menu.Menu
	system string
	client llm.LLMClient
	parser extract.Parser
	screen Screen
	in     io.Reader
	store  *llm.Store

	session string
	order   *order.Order
	// pending is prepended to the next customer message so the model
	// learns what the ordering system refused.
	pending string
}

// New builds a driver for def. system is the rendered system prompt.
func New(def *config.Definition, system string, client llm.LLMClient, screen Screen, in io.Reader) *Driver {
	var parser extract.Parser = extract.JSONParser{PizzaItem: def.Bot.PizzaItem}
	if def.Bot.Protocol == config.ProtocolTagged {
		parser = extract.TaggedParser{PizzaItem: def.Bot.PizzaItem}
	}
	return &Driver{
		bot:    def.Bot,
		menu:   &def.Menu,
		system: system,
		client: client,
		parser: parser,
		screen: screen,
		in:     in,
		store:  llm.NewStore(),
	}
}

// Order is the order of the current session.
func (d *Driver) Order() *order.Order { return d.order }

// Run holds the conversation until the customer quits, the order is placed
// or ctx is cancelled. Model and parsing failures are shown and the
// conversation goes on; Run itself only fails on programming errors.
func (d *Driver) Run(ctx context.Context) error {
	input := newLineReader(d.in)
	defer input.stop()

	d.screen.Welcome(d.bot.Welcome)
	if d.bot.ShowMenu {
		d.screen.Menu(d.menu)
	}
	d.startSession()

	for {
		d.screen.Prompt()
		text, ok := d.next(ctx, input)
		if !ok {
			d.endEarly()
			return nil
		}
		if text == "" {
			continue
		}
		if d.isQuit(text) {
			d.screen.Goodbye(d.bot.Farewell)
			return nil
		}

		switch d.turn(ctx, text) {
		case interrupted:
			d.endEarly()
			return nil
		case orderDone:
			d.screen.Order(d.order, d.bot.Placed)
			if !d.bot.RepeatOrders {
				return nil
			}
			d.screen.Bot("Would you like to place another order? (yes/no)")
			d.screen.Prompt()
			answer, ok := d.next(ctx, input)
			if !ok {
				d.endEarly()
				return nil
			}
			if !yesWords[strings.ToLower(answer)] {
				d.screen.Goodbye(d.bot.Farewell)
				return nil
			}
			d.screen.Bot("Great! Let's start a new order.")
			d.store.Drop(d.session)
			d.startSession()
		}
	}
}

func (d *Driver) next(ctx context.Context, input *lineReader) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-input.lines:
		if !ok {
			if err := input.Err(); err != nil {
				logx.Warn("Chat", "[%s] reading input: %v", d.session, err)
				d.screen.Error("Could not read input: " + err.Error())
			}
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

func (d *Driver) isQuit(text string) bool {
	text = strings.ToLower(text)
	for _, w := range d.bot.QuitWords {
		if text == w {
			return true
		}
	}
	return false
}

// startSession opens a fresh transcript and order and greets the customer.
// With the JSON protocol the greeting is seeded as the model's first reply
// so the model keeps answering in the same envelope.
func (d *Driver) startSession() {
	d.session = d.store.NewSession()
	d.order = order.New(d.session)
	d.pending = ""
	logx.L(d.session, "Chat", "session started for %s", d.bot.Name)

	if d.bot.Protocol == config.ProtocolJSON {
		d.store.Get(d.session).AddExchange("Hello!", greetingEnvelope(d.bot.Greeting))
		d.screen.Bot(d.bot.Greeting)
		return
	}
	d.screen.Notice(d.bot.Greeting)
}

func greetingEnvelope(greeting string) string {
	b, _ := json.Marshal(map[string]any{
		"status":        extract.StatusInProgress,
		"response":      greeting,
		"order_details": map[string]any{},
	})
	return string(b)
}

func (d *Driver) endEarly() {
	d.screen.Goodbye("Chat ended. Goodbye!")
	if d.order != nil && !d.order.IsComplete() {
		d.screen.Partial(d.order)
	}
}

// turn sends one customer message and applies the reply.
func (d *Driver) turn(ctx context.Context, text string) outcome {
	timer := logx.Start(d.session, "Chat", "turn")
	defer timer.End()

	msg := text
	if d.pending != "" {
		msg = d.pending + "\n\n" + text
	}

	history := d.store.Get(d.session)
	raw, err := d.client.Chat(ctx, d.system, history.Messages(), msg)
	if err != nil {
		if ctx.Err() != nil {
			return interrupted
		}
		logx.Warn("Chat", "[%s] model call failed: %v", d.session, err)
		if llm.IsAuthError(err) {
			d.screen.Error("The API key was rejected: " + err.Error())
		} else {
			d.screen.Error("An error occurred with the API call: " + err.Error())
		}
		return keepGoing
	}
	history.AddExchange(msg, raw)
	d.pending = ""

	reply, err := d.parser.Parse(raw)
	if err != nil {
		d.showMalformed(err, raw)
		return keepGoing
	}

	var rejected []error
	if reply.HasOrder {
		rejected = d.order.Sync(d.menu, reply.Selections)
		logx.L(d.session, "Chat", "order synced: %d lines, total %s, %d rejected", d.order.Len(), d.order.Total(), len(rejected))
	}

	if reply.Message != "" {
		d.screen.Bot(reply.Message)
	}

	if len(rejected) > 0 {
		d.reject(rejected)
		return keepGoing
	}
	if !reply.Complete() {
		return keepGoing
	}

	if err := d.order.Complete(); err != nil {
		logx.L(d.session, "Chat", "cannot complete order: %v", err)
		if errors.Is(err, order.ErrEmptyOrder) {
			d.screen.System("The order has no items yet, so it was not placed.")
			d.pending = prompt.NotePrefix + " The order has no items. Ask the customer what they would like before completing it."
		}
		return keepGoing
	}
	return orderDone
}

func (d *Driver) showMalformed(err error, raw string) {
	logx.Warn("Chat", "[%s] unparseable reply: %v", d.session, err)
	text := strings.TrimSpace(raw)
	var me *extract.MalformedError
	if errors.As(err, &me) {
		text = me.Text
	}
	if d.bot.Protocol == config.ProtocolTagged {
		d.screen.Error("Sorry, there was an error confirming your order. Let's try again.")
		d.screen.Bot(text)
		return
	}
	d.screen.System("Raw response was not valid JSON.\n\n" + text)
}

// reject tells the customer which selections were refused and queues the
// same list for the model.
func (d *Driver) reject(errs []error) {
	reasons := make([]string, 0, len(errs))
	for _, err := range errs {
		reasons = append(reasons, err.Error())
	}
	list := strings.Join(reasons, "; ")
	d.screen.System("Could not add to the order: " + list)
	d.pending = fmt.Sprintf("%s These selections were rejected: %s. The order does not contain them. "+
		"Tell the customer and offer choices from the menu.", prompt.NotePrefix, list)
}
