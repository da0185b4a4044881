package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ccastromar/pizzabot/internal/menu"
	"github.com/ccastromar/pizzabot/internal/order"
)

const minDots = 3

// Summary formats the order lines with dotted prices and a TOTAL row,
// fitted to width columns. It does no styling.
func Summary(o *order.Order, width int) string {
	var b strings.Builder
	for _, line := range o.Lines() {
		b.WriteString(dotted(line.Label(), line.Price, width))
		b.WriteByte('\n')
		if tops := line.ToppingNames(); len(tops) > 0 {
			b.WriteString(detail("Toppings: "+strings.Join(tops, ", "), width))
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	b.WriteString(dotted("TOTAL", o.Total(), width))
	return b.String()
}

func dotted(label string, price menu.Money, width int) string {
	p := price.String()
	n := width - lipgloss.Width(label) - lipgloss.Width(p) - 2
	if n < minDots {
		n = minDots
	}
	return fmt.Sprintf("%s %s %s", label, strings.Repeat(".", n), p)
}

func detail(text string, width int) string {
	const pad = 2
	wrapped := wordwrap.String(text, width-pad)
	return indent.String(wrapped, pad)
}
