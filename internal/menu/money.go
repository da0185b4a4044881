package menu

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Money is an amount in cents.
type Money int64

// FromFloat rounds a decimal dollar amount to the nearest cent.
func FromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

func (m Money) Float() float64 { return float64(m) / 100 }

func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s$%d.%02d", sign, int64(m)/100, int64(m)%100)
}

// UnmarshalYAML reads prices written as plain decimals (2.5, 14.99).
func (m *Money) UnmarshalYAML(node *yaml.Node) error {
	var v float64
	if err := node.Decode(&v); err != nil {
		return fmt.Errorf("price %q at line %d: %w", node.Value, node.Line, err)
	}
	*m = FromFloat(v)
	return nil
}
