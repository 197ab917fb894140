package ticket

import (
	"strings"
	"time"

	"tapin/internal/money"
)

// LineItem is one row on a ticket. UnitPrice is frozen when the item
// is added.
type LineItem struct {
	Name      string      `json:"name"`
	UnitPrice money.Cents `json:"unit_price"`
	Quantity  int         `json:"quantity"`
	Notes     string      `json:"notes"`
	Course    int         `json:"course"`
	IsFired   bool        `json:"is_fired"`
}

func (li LineItem) LineTotal() money.Cents {
	return li.UnitPrice * money.Cents(li.Quantity)
}

func (li LineItem) Key() Key {
	return Key{Name: li.Name, Notes: li.Notes, Course: li.Course, IsFired: li.IsFired}
}

// Key identifies a line for merging, editing and deleting.
type Key struct {
	Name    string `json:"name"`
	Notes   string `json:"notes"`
	Course  int    `json:"course"`
	IsFired bool   `json:"is_fired"`
}

// Ticket is the live order for one table or takeout slot.
type Ticket struct {
	TableID    string     `json:"table_id"`
	GuestCount int        `json:"guest_count"`
	Items      []LineItem `json:"items"`
	UpdatedAt  time.Time  `json:"updated_at,omitempty"`
}

// Occupied is true while anything is on the ticket.
func (t Ticket) Occupied() bool {
	for _, item := range t.Items {
		if item.Quantity > 0 {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no item storage with t.
func (t Ticket) Clone() Ticket {
	out := t
	out.Items = make([]LineItem, len(t.Items))
	copy(out.Items, t.Items)
	return out
}

// FireGroup is one row of a kitchen order: identical unfired items
// summed by name, notes and course.
type FireGroup struct {
	Name     string `json:"name"`
	Quantity int    `json:"qty"`
	Notes    string `json:"notes"`
	Course   int    `json:"course"`
}

const takeoutPrefix = "ToGo: "

// TakeoutID builds the synthetic table id used for takeout orders.
func TakeoutID(customer string) string {
	return takeoutPrefix + strings.TrimSpace(customer)
}

func IsTakeout(tableID string) bool {
	return strings.HasPrefix(tableID, takeoutPrefix)
}
