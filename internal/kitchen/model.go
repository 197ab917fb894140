package kitchen

import (
	"time"

	"tapin/internal/core"
	"tapin/internal/ticket"
)

type Status string

const (
	StatusNew     Status = "new"
	StatusReady   Status = "ready"
	StatusServed  Status = "served"
	StatusCleared Status = "cleared"
)

// Active is what the kitchen display shows.
var Active = []Status{StatusNew, StatusReady}

// Order is one fire event: the groups sent to the line at once.
type Order struct {
	ID         string             `json:"id"`
	Number     int64              `json:"number"`
	TableID    string             `json:"table_id"`
	ServerName string             `json:"server_name"`
	Items      []ticket.FireGroup `json:"items"`
	Status     Status             `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// CanBecome reports whether next is a legal move from s.
func (s Status) CanBecome(next Status) bool {
	switch next {
	case StatusReady:
		return s == StatusNew
	case StatusServed:
		return s == StatusReady
	case StatusCleared:
		return s == StatusNew || s == StatusReady
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusReady, StatusServed, StatusCleared:
		return true
	}
	return false
}

// transition moves o to next in place. Stores call it under their own
// lock or transaction so the check and the write happen together.
func transition(o *Order, next Status, now time.Time) error {
	if !o.Status.CanBecome(next) {
		return core.Validation("order %s cannot go from %s to %s", o.ID, o.Status, next)
	}
	o.Status = next
	o.UpdatedAt = now
	return nil
}

func hasStatus(s Status, statuses []Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, want := range statuses {
		if s == want {
			return true
		}
	}
	return false
}
