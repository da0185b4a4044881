package chat

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccastromar/pizzabot/internal/config"
	"github.com/ccastromar/pizzabot/internal/llm"
	"github.com/ccastromar/pizzabot/internal/menu"
	"github.com/ccastromar/pizzabot/internal/order"
	"github.com/ccastromar/pizzabot/internal/prompt"
)

type call struct {
	system  string
	history []llm.Message
	user    string
}

type step struct {
	reply string
	err   error
}

type fakeLLM struct {
	mu    sync.Mutex
	steps []step
	calls []call
}

func (f *fakeLLM) Ping(context.Context) error { return nil }

func (f *fakeLLM) Chat(_ context.Context, system string, history []llm.Message, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{system: system, history: history, user: user})
	if len(f.steps) == 0 {
		return "", errors.New("no scripted reply")
	}
	s := f.steps[0]
	f.steps = f.steps[1:]
	return s.reply, s.err
}

type fakeScreen struct {
	events []string
	orders []menu.Money
}

func (s *fakeScreen) add(kind, msg string) { s.events = append(s.events, kind+": "+msg) }

func (s *fakeScreen) Welcome(text string) { s.add("welcome", text) }
func (s *fakeScreen) Menu(*menu.Menu) { s.add("menu", "") }
func (s *fakeScreen) Bot(msg string) { s.add("bot", msg) }
func (s *fakeScreen) System(msg string) { s.add("system", msg) }
func (s *fakeScreen) Error(msg string) { s.add("error", msg) }
func (s *fakeScreen) Notice(msg string) { s.add("notice", msg) }
func (s *fakeScreen) Prompt() {}
func (s *fakeScreen) Goodbye(msg string) { s.add("goodbye", msg) }
func (s *fakeScreen) Partial(o *order.Order) { s.add("partial", o.Total().String()) }
func (s *fakeScreen) Order(o *order.Order, closing string) {
	s.orders = append(s.orders, o.Total())
	s.add("order", o.Total().String()+" "+closing)
}

func (s *fakeScreen) has(prefix string) bool {
	for _, e := range s.events {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}

func (s *fakeScreen) count(prefix string) int {
	n := 0
	for _, e := range s.events {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

func loadDef(t *testing.T, name string) *config.Definition {
	t.Helper()
	def, err := config.LoadDefinition("../../definitions", name)
	require.NoError(t, err)
	return def
}

func newDriver(t *testing.T, bot string, input string, steps ...step) (*Driver, *fakeLLM, *fakeScreen) {
	t.Helper()
	def := loadDef(t, bot)
	f := &fakeLLM{steps: steps}
	scr := &fakeScreen{}
	return New(def, "you sell pizza", f, scr, strings.NewReader(input)), f, scr
}

const supremeInProgress = `{"status":"in_progress","response":"Deep dish it is! Anything else?",
 "order_details":{"items":[{"item":"Zalo Supreme","size":"Large","crust":"Deep Dish",
 "toppings":["Pepperoni","Sausage","Green Peppers","Onions","Mushrooms"]}]}}`

const supremeComplete = "```json\n" + `{"status":"complete","response":"Perfect! Here is your order.",
 "order_details":{"items":[
  {"item":"Zalo Supreme","size":"Large","crust":"Deep Dish","toppings":["Pepperoni","Sausage","Green Peppers","Onions","Mushrooms"]},
  {"item":"Wings","options":["Hot"]},
  {"item":"Coke"}]}}` + "\n```"

func TestRun_JSONBotCompletesOrder(t *testing.T) {
	d, f, scr := newDriver(t, "pizzabot",
		"a large zalo supreme on deep dish\nadd hot wings and a coke, that's all\nno\n",
		step{reply: supremeInProgress},
		step{reply: supremeComplete},
	)

	require.NoError(t, d.Run(context.Background()))

	require.Len(t, f.calls, 2)
	assert.Equal(t, "you sell pizza", f.calls[0].system)
	require.Len(t, f.calls[0].history, 2, "greeting exchange is seeded")
	assert.Equal(t, llm.RoleModel, f.calls[0].history[1].Role)
	assert.Contains(t, f.calls[0].history[1].Content, "specialty pizzas")
	assert.Len(t, f.calls[1].history, 4)
	assert.Equal(t, "a large zalo supreme on deep dish", f.calls[1].history[2].Content)

	require.Equal(t, []menu.Money{3649}, scr.orders)
	assert.True(t, d.Order().IsComplete())
	assert.Equal(t, 3, d.Order().Len())
	assert.True(t, scr.has("bot: Deep dish it is!"))
	assert.True(t, scr.has("bot: Would you like to place another order?"))
	assert.Equal(t, "goodbye: Thank you for visiting Zalo's Pizzeria. Goodbye! 👋", scr.events[len(scr.events)-1])
	assert.False(t, scr.has("partial"))
}

func TestRun_AnotherOrderStartsFresh(t *testing.T) {
	d, f, scr := newDriver(t, "pizzabot",
		"everything please\nyes\nquit\n",
		step{reply: supremeComplete},
	)
	require.NoError(t, d.Run(context.Background()))

	require.Len(t, f.calls, 1)
	assert.Equal(t, 0, d.Order().Len())
	assert.False(t, d.Order().IsComplete())
	assert.Equal(t, 2, scr.count("bot: Hello! Welcome to Zalo's Pizzeria."))
	assert.True(t, scr.has("bot: Great! Let's start a new order."))
	assert.Equal(t, 1, d.store.Len(), "finished sessions are dropped")
}

func TestRun_LLMErrorIsNotRecorded(t *testing.T) {
	d, f, scr := newDriver(t, "pizzabot",
		"large supreme deep dish\nlarge supreme deep dish\nquit\n",
		step{err: errors.New("dial tcp: connection refused")},
		step{reply: supremeInProgress},
	)

	require.NoError(t, d.Run(context.Background()))

	require.Len(t, f.calls, 2)
	assert.True(t, scr.has("error: An error occurred with the API call: dial tcp"))
	assert.Len(t, f.calls[1].history, 2, "failed turn must not reach the transcript")
	assert.Equal(t, 1, d.Order().Len())
	assert.Equal(t, menu.Money(2499), d.Order().Total())
}

func TestRun_AuthErrorIsShown(t *testing.T) {
	d, _, scr := newDriver(t, "pizzabot", "hi\nquit\n",
		step{err: &llm.StatusError{Provider: "openai", Op: "chat", Code: 401}},
	)
	require.NoError(t, d.Run(context.Background()))
	assert.True(t, scr.has("error: The API key was rejected"))
}

func TestRun_QuitWordsSkipTheModel(t *testing.T) {
	for _, word := range []string{"quit", "EXIT", "  Bye  "} {
		d, f, scr := newDriver(t, "pizzabot", word+"\n")
		require.NoError(t, d.Run(context.Background()))
		assert.Empty(t, f.calls, word)
		assert.True(t, scr.has("goodbye: Thank you for visiting"), word)
	}
}

func TestRun_ChainBotDoesNotQuitOnBye(t *testing.T) {
	d, f, _ := newDriver(t, "pizzabot-chain", "bye\nquit\n", step{reply: "Bye? Before you go, want a pizza?"})
	require.NoError(t, d.Run(context.Background()))
	assert.Len(t, f.calls, 1)
}

func TestRun_EOFShowsPartialOrder(t *testing.T) {
	d, _, scr := newDriver(t, "pizzabot", "large supreme deep dish\n", step{reply: supremeInProgress})

	require.NoError(t, d.Run(context.Background()))

	assert.True(t, scr.has("goodbye: Chat ended. Goodbye!"))
	assert.True(t, scr.has("partial: $24.99"))
}

func TestRun_EmptyItemListClearsOrder(t *testing.T) {
	d, _, scr := newDriver(t, "pizzabot", "a coke\nactually remove it\n",
		step{reply: `{"status":"in_progress","response":"One Coke.","order_details":{"items":[{"item":"Coke"}]}}`},
		step{reply: `{"status":"in_progress","response":"Removed, your order is empty.","order_details":{"items":[]}}`},
	)

	require.NoError(t, d.Run(context.Background()))

	assert.True(t, scr.has("bot: Removed, your order is empty."))
	assert.Zero(t, d.order.Len())
	assert.True(t, scr.has("partial: $0.00"))
}

func TestRun_OverlongInputLineReportsError(t *testing.T) {
	input := strings.Repeat("x", maxLine+1) + "\n"
	d, f, scr := newDriver(t, "pizzabot", input)

	require.NoError(t, d.Run(context.Background()))

	assert.Empty(t, f.calls)
	assert.True(t, scr.has("error: Could not read input: "+bufio.ErrTooLong.Error()))
	assert.True(t, scr.has("goodbye: Chat ended. Goodbye!"))
}

func TestLineReader_LongLine(t *testing.T) {
	long := strings.Repeat("a", 100*1024)
	lr := newLineReader(strings.NewReader(long + "\nnext\n"))
	defer lr.stop()

	require.Equal(t, long, <-lr.lines)
	require.Equal(t, "next", <-lr.lines)
	_, ok := <-lr.lines
	require.False(t, ok)
	require.NoError(t, lr.Err())
}

func TestRun_CancelWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	def := loadDef(t, "pizzabot")
	scr := &fakeScreen{}
	d := New(def, "sys", &fakeLLM{}, scr, pr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.True(t, scr.has("goodbye: Chat ended. Goodbye!"))
	assert.False(t, scr.has("partial"), "empty orders are not shown")
}

func TestRun_RejectedSelectionsAreFedBack(t *testing.T) {
	unicorn := `{"status":"complete","response":"Done!","order_details":{"items":[
		{"item":"Coke"},{"item":"Unicorn Pizza","size":"Large"}]}}`
	fixed := `{"status":"in_progress","response":"Sorry, no unicorns. Anything else?",
		"order_details":{"items":[{"item":"Coke"}]}}`

	d, f, scr := newDriver(t, "pizzabot", "coke and a unicorn pizza\nok just the coke\nquit\n",
		step{reply: unicorn},
		step{reply: fixed},
	)

	require.NoError(t, d.Run(context.Background()))

	assert.True(t, scr.has(`system: Could not add to the order: "Unicorn Pizza": item is not on the menu`))
	assert.Empty(t, scr.orders, "complete with rejections must not place the order")
	require.Len(t, f.calls, 2)
	assert.True(t, strings.HasPrefix(f.calls[1].user, prompt.NotePrefix))
	assert.True(t, strings.HasSuffix(f.calls[1].user, "ok just the coke"))
	assert.False(t, d.Order().IsComplete())
	assert.Equal(t, menu.Money(250), d.Order().Total())
}

func TestRun_CompleteWithoutItems(t *testing.T) {
	d, f, scr := newDriver(t, "pizzabot", "that's all\nwhat?\nquit\n",
		step{reply: `{"status":"complete","response":"Thanks!","order_details":{}}`},
		step{reply: `{"status":"in_progress","response":"What would you like?","order_details":{}}`},
	)

	require.NoError(t, d.Run(context.Background()))

	assert.True(t, scr.has("system: The order has no items yet"))
	assert.Empty(t, scr.orders)
	require.Len(t, f.calls, 2)
	assert.True(t, strings.HasPrefix(f.calls[1].user, prompt.NotePrefix))
}

func TestRun_MalformedJSONReply(t *testing.T) {
	d, f, scr := newDriver(t, "pizzabot", "hello\nhello again\nquit\n",
		step{reply: "I am not JSON today"},
		step{reply: supremeInProgress},
	)

	require.NoError(t, d.Run(context.Background()))

	assert.True(t, scr.has("system: Raw response was not valid JSON.\n\nI am not JSON today"))
	require.Len(t, f.calls, 2)
	assert.Len(t, f.calls[1].history, 4, "a malformed answer is still part of the transcript")
	assert.Equal(t, 1, d.Order().Len())
}

func TestRun_TaggedBotPlacesOrderAndExits(t *testing.T) {
	confirmed := `Great! Here is your order.
<ORDER>
{"size": "Medium", "crust": "Stuffed", "toppings": ["Olives", "Extra Cheese"], "drinks": ["Coke"]}
</ORDER>`
	d, f, scr := newDriver(t, "pizzabot-chain", "medium stuffed with olives and extra cheese, and a coke\nyes\nnever read\n",
		step{reply: "So a Medium Stuffed pizza with Olives and Extra Cheese plus a Coke. Is that correct?"},
		step{reply: confirmed},
	)

	require.NoError(t, d.Run(context.Background()))

	require.Len(t, f.calls, 2)
	assert.Equal(t, "menu: ", scr.events[1])
	assert.True(t, scr.has("notice: Hello! I'm ready to take your order."))
	assert.Empty(t, f.calls[0].history, "the tagged bot starts with an empty transcript")
	require.Equal(t, []menu.Money{1650}, scr.orders)
	assert.Equal(t, "order: $16.50 Thank you! Your order has been placed and will be ready soon.", scr.events[len(scr.events)-1])
	assert.True(t, scr.has("bot: Great! Here is your order."))
	assert.False(t, scr.has("bot: Would you like to place another order?"))
}

func TestRun_TaggedBotMalformedBlock(t *testing.T) {
	d, _, scr := newDriver(t, "pizzabot-chain", "yes\nquit\n",
		step{reply: "Confirmed! <ORDER>{size: Medium}</ORDER>"},
	)

	require.NoError(t, d.Run(context.Background()))

	assert.True(t, scr.has("error: Sorry, there was an error confirming your order."))
	assert.True(t, scr.has("bot: Confirmed! {size: Medium}"))
	assert.Empty(t, scr.orders)
}
