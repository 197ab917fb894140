package split

import (
	"fmt"

	"tapin/internal/money"
	"tapin/internal/ticket"
)

const (
	MinWays = 2
	MaxWays = 12
)

// Item is one unit of a ticket line. Lines are exploded to quantity 1
// so a single line can be spread over several seats.
type Item struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	UnitPrice money.Cents `json:"unit_price"`
	Notes     string      `json:"notes"`
	Course    int         `json:"course"`
	IsFired   bool        `json:"is_fired"`
}

func (i Item) LineTotal() money.Cents {
	return i.UnitPrice
}

func (i Item) line() ticket.LineItem {
	return ticket.LineItem{
		Name:      i.Name,
		UnitPrice: i.UnitPrice,
		Quantity:  1,
		Notes:     i.Notes,
		Course:    i.Course,
		IsFired:   i.IsFired,
	}
}

// Explode turns ticket lines into unit items with stable ids.
func Explode(lines []ticket.LineItem) []Item {
	var out []Item
	for _, li := range lines {
		for n := 0; n < li.Quantity; n++ {
			out = append(out, Item{
				ID:        fmt.Sprintf("item-%d", len(out)+1),
				Name:      li.Name,
				UnitPrice: li.UnitPrice,
				Notes:     li.Notes,
				Course:    li.Course,
				IsFired:   li.IsFired,
			})
		}
	}
	return out
}

// Collapse merges unit items back into ticket lines.
func Collapse(items []Item) []ticket.LineItem {
	lines := make([]ticket.LineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.line())
	}
	return ticket.Merge(lines)
}

func clampWays(n int) int {
	if n < MinWays {
		return MinWays
	}
	if n > MaxWays {
		return MaxWays
	}
	return n
}

func removeItem(items []Item, id string) ([]Item, Item, bool) {
	for i, it := range items {
		if it.ID == id {
			out := append(items[:i:i], items[i+1:]...)
			return out, it, true
		}
	}
	return items, Item{}, false
}
