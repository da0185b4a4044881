package order

import "github.com/ccastromar/pizzabot/internal/menu"

// PriceLine is base price plus every modifier delta. Topping deltas follow
// the line's size when the modifier defines a per-size price.
func PriceLine(l Line) menu.Money {
	if l.Item == nil {
		return 0
	}
	size := l.SizeName()
	p := l.Item.Base
	if l.Size != nil {
		p += l.Size.Delta
	}
	if l.Crust != nil {
		p += l.Crust.DeltaFor(size)
	}
	for _, t := range l.Toppings {
		p += t.DeltaFor(size)
	}
	for _, o := range l.Options {
		p += o.DeltaFor(size)
	}
	return p
}

func PriceOrder(lines []Line) menu.Money {
	var total menu.Money
	for _, l := range lines {
		total += PriceLine(l)
	}
	return total
}
