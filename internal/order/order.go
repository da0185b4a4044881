// Package order tracks the running order of one chat session.
//
// Every mutation re-prices the whole order, so Total always equals the sum
// of the current line prices. Once Complete is called the order is frozen.
package order

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ccastromar/pizzabot/internal/menu"
)

type Order struct {
	ID       string
	lines    []Line
	total    menu.Money
	complete bool
}

// New starts an empty order. An empty id gets a random one.
func New(id string) *Order {
	if id == "" {
		id = uuid.NewString()
	}
	return &Order{ID: id}
}

func (o *Order) Add(m *menu.Menu, sel Selection) (Line, error) {
	if o.complete {
		return Line{}, ErrOrderComplete
	}
	line, err := Resolve(m, sel)
	if err != nil {
		return Line{}, err
	}
	o.lines = append(o.lines, line)
	o.reprice()
	return line, nil
}

// Replace corrects a line that was misheard.
func (o *Order) Replace(i int, m *menu.Menu, sel Selection) (Line, error) {
	if o.complete {
		return Line{}, ErrOrderComplete
	}
	if i < 0 || i >= len(o.lines) {
		return Line{}, fmt.Errorf("replace line %d: %w", i, ErrNoSuchLine)
	}
	line, err := Resolve(m, sel)
	if err != nil {
		return Line{}, err
	}
	o.lines[i] = line
	o.reprice()
	return line, nil
}

func (o *Order) Remove(i int) error {
	if o.complete {
		return ErrOrderComplete
	}
	if i < 0 || i >= len(o.lines) {
		return fmt.Errorf("remove line %d: %w", i, ErrNoSuchLine)
	}
	o.lines = append(o.lines[:i], o.lines[i+1:]...)
	o.reprice()
	return nil
}

// Sync reconciles the order with the full item list the conversation
// currently holds. Lines are matched by position: equal lines are kept,
// different ones replaced, new ones appended and missing ones dropped. An
// empty list empties the order.
//
// Rejected selections are returned and never change the order: a rejected
// correction of an existing line keeps that line, a rejected new entry is
// skipped, and a list with rejections never drops trailing lines.
func (o *Order) Sync(m *menu.Menu, sels []Selection) []error {
	if o.complete {
		return []error{ErrOrderComplete}
	}
	if len(sels) == 0 {
		o.lines = nil
		o.reprice()
		return nil
	}

	var (
		target []Line
		errs   []error
	)
	for _, sel := range sels {
		line, err := Resolve(m, sel)
		if err == nil {
			target = append(target, line)
			continue
		}
		errs = append(errs, err)
		if i := len(target); i < len(o.lines) && sameItem(m, o.lines[i], sel) {
			target = append(target, o.lines[i])
		}
	}
	if len(errs) > 0 && len(target) < len(o.lines) {
		target = append(target, o.lines[len(target):]...)
	}

	for i, line := range target {
		switch {
		case i >= len(o.lines):
			o.lines = append(o.lines, line)
		case !o.lines[i].Equal(line):
			o.lines[i] = line
		}
	}
	o.lines = o.lines[:len(target)]
	o.reprice()
	return errs
}

// sameItem reports whether sel names the menu item already on line l.
func sameItem(m *menu.Menu, l Line, sel Selection) bool {
	it, ok := m.Lookup(sel.Item)
	return ok && l.Item != nil && it.Name == l.Item.Name
}

// Clear drops every line of an open order.
func (o *Order) Clear() error {
	if o.complete {
		return ErrOrderComplete
	}
	o.lines = nil
	o.reprice()
	return nil
}

// Complete marks the order as confirmed by the customer.
func (o *Order) Complete() error {
	if o.complete {
		return ErrOrderComplete
	}
	if len(o.lines) == 0 {
		return ErrEmptyOrder
	}
	o.complete = true
	return nil
}

func (o *Order) IsComplete() bool { return o.complete }

func (o *Order) Len() int { return len(o.lines) }

func (o *Order) Total() menu.Money { return o.total }

// Lines returns a copy of the current lines.
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// Reprice recomputes every line and the total. On an unchanged order the
// result is the same every time.
func (o *Order) Reprice() menu.Money {
	o.reprice()
	return o.total
}

func (o *Order) reprice() {
	for i := range o.lines {
		o.lines[i].Price = PriceLine(o.lines[i])
	}
	o.total = PriceOrder(o.lines)
}
