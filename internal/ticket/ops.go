package ticket

import (
	"strings"

	"tapin/internal/core"
	"tapin/internal/menu"
	"tapin/internal/money"
)

// AddItem prices a menu selection and puts it on the ticket. A line
// with the same name, notes and course that has not been fired absorbs
// the quantity; anything else becomes a new line.
func AddItem(
	t Ticket,
	item menu.Item,
	quantity int,
	optionIDs []string,
	note string,
) (Ticket, error) {
	if quantity < 1 {
		return t, core.Validation("quantity must be at least 1")
	}

	chosen, err := selectOptions(item, optionIDs)
	if err != nil {
		return t, err
	}

	unitPrice := item.BasePrice
	names := make([]string, 0, len(chosen))
	for _, opt := range chosen {
		unitPrice += opt.PriceDelta
		names = append(names, opt.Name)
	}

	line := LineItem{
		Name:      item.Name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Notes:     BuildNotes(names, note),
		Course:    CourseFor(item.Category),
	}

	out := t.Clone()
	for i := range out.Items {
		if out.Items[i].Key() == line.Key() {
			out.Items[i].Quantity += quantity
			return out, nil
		}
	}

	out.Items = append(out.Items, line)
	return out, nil
}

// selectOptions resolves option ids against the item's modifier groups
// and returns them in menu order.
func selectOptions(item menu.Item, optionIDs []string) ([]menu.ModifierOption, error) {
	wanted := make(map[string]bool, len(optionIDs))
	for _, id := range optionIDs {
		wanted[id] = true
	}

	var chosen []menu.ModifierOption
	matched := 0

	for _, group := range item.ModifierGroups {
		picked := 0
		for _, opt := range group.Options {
			if wanted[opt.ID] {
				chosen = append(chosen, opt)
				picked++
			}
		}
		matched += picked

		if group.IsRequired && picked == 0 {
			return nil, core.Validation("missing required modifier %q", group.Name)
		}
		if group.IsRequired && picked > 1 {
			return nil, core.Validation("choose exactly one option for %q", group.Name)
		}
	}

	if matched != len(wanted) {
		return nil, core.Validation("unknown modifier option for %q", item.Name)
	}
	return chosen, nil
}

// BuildNotes renders "opt1, opt2 | free text", skipping empty parts.
func BuildNotes(optionNames []string, note string) string {
	var parts []string
	if mods := strings.Join(optionNames, ", "); mods != "" {
		parts = append(parts, mods)
	}
	if note = strings.TrimSpace(note); note != "" {
		parts = append(parts, note)
	}
	return strings.Join(parts, " | ")
}

// EditItem replaces quantity and notes of one line in place. Edited
// lines are not merged with their neighbours.
func EditItem(t Ticket, ref Key, quantity int, notes string) (Ticket, error) {
	if quantity < 1 {
		return t, core.Validation("quantity must be at least 1")
	}

	i := indexOf(t.Items, ref)
	if i < 0 {
		return t, core.NotFound("line item", ref.Name)
	}

	out := t.Clone()
	out.Items[i].Quantity = quantity
	out.Items[i].Notes = strings.TrimSpace(notes)
	return out, nil
}

// DeleteItem removes one unit of the referenced line, dropping the line
// with its last unit. An unknown ref leaves the ticket as it is.
func DeleteItem(t Ticket, ref Key) Ticket {
	i := indexOf(t.Items, ref)
	if i < 0 {
		return t
	}

	out := t.Clone()
	if out.Items[i].Quantity > 1 {
		out.Items[i].Quantity--
		return out
	}

	out.Items = append(out.Items[:i], out.Items[i+1:]...)
	return out
}

// FireUnfired marks every unfired line as fired and returns the groups
// to send to the kitchen. With nothing to fire the ticket is returned
// unchanged and groups is nil.
func FireUnfired(t Ticket) (Ticket, []FireGroup) {
	return fireWhere(t, func(LineItem) bool { return true })
}

// FireCourse fires only the unfired lines of one course.
func FireCourse(t Ticket, course int) (Ticket, []FireGroup) {
	return fireWhere(t, func(li LineItem) bool { return li.Course == course })
}

func fireWhere(t Ticket, match func(LineItem) bool) (Ticket, []FireGroup) {
	type groupKey struct {
		name, notes string
		course      int
	}

	var (
		groups []FireGroup
		index  = map[groupKey]int{}
		out    = t.Clone()
	)

	for i, li := range out.Items {
		if li.IsFired || !match(li) {
			continue
		}

		k := groupKey{li.Name, li.Notes, li.Course}
		if at, ok := index[k]; ok {
			groups[at].Quantity += li.Quantity
		} else {
			index[k] = len(groups)
			groups = append(groups, FireGroup{
				Name:     li.Name,
				Quantity: li.Quantity,
				Notes:    li.Notes,
				Course:   li.Course,
			})
		}
		out.Items[i].IsFired = true
	}

	if len(groups) == 0 {
		return t, nil
	}
	return out, groups
}

func SetGuestCount(t Ticket, guests int) (Ticket, error) {
	if guests < 0 {
		return t, core.Validation("guest count cannot be negative")
	}
	out := t.Clone()
	out.GuestCount = guests
	return out, nil
}

// Cleared is the state a table returns to after settlement.
func Cleared(tableID string) Ticket {
	return Ticket{TableID: tableID, Items: []LineItem{}}
}

// Merge collapses lines that share a full identity key, keeping the
// first occurrence's order and price.
func Merge(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	index := map[Key]int{}

	for _, li := range items {
		if at, ok := index[li.Key()]; ok {
			out[at].Quantity += li.Quantity
			continue
		}
		index[li.Key()] = len(out)
		out = append(out, li)
	}
	return out
}

// Grouped is the presentation view of a ticket. Totals must be taken
// from the raw items, never from this.
func Grouped(items []LineItem) []LineItem {
	return Merge(items)
}

// Unfired sums the value not yet sent to the kitchen.
func Unfired(items []LineItem) money.Cents {
	var sum money.Cents
	for _, li := range items {
		if !li.IsFired {
			sum += li.LineTotal()
		}
	}
	return sum
}

func indexOf(items []LineItem, ref Key) int {
	for i, li := range items {
		if li.Key() == ref {
			return i
		}
	}
	return -1
}
