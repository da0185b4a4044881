package order

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownItem     = errors.New("item is not on the menu")
	ErrInvalidModifier = errors.New("modifier is not available for this item")
	ErrMissingSize     = errors.New("a size is required for this item")
	ErrOrderComplete   = errors.New("order is already complete")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrNoSuchLine      = errors.New("no such order line")
)

// SelectionError explains why a selection was rejected.
type SelectionError struct {
	Item  string
	Kind  string // "item", "size", "crust", "topping", "option"
	Value string
	Err   error
}

func (e *SelectionError) Error() string {
	switch {
	case e.Kind == "item":
		return fmt.Sprintf("%q: %v", e.Item, e.Err)
	case e.Value == "":
		return fmt.Sprintf("%s: %v", e.Item, e.Err)
	default:
		return fmt.Sprintf("%s: %s %q: %v", e.Item, e.Kind, e.Value, e.Err)
	}
}

func (e *SelectionError) Unwrap() error { return e.Err }
