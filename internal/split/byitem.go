package split

import (
	"strconv"

	"tapin/internal/core"
	"tapin/internal/money"
	"tapin/internal/pricing"
	"tapin/internal/ticket"
)

type Seat struct {
	Number int         `json:"number"`
	Items  []Item      `json:"items"`
	IsPaid bool        `json:"is_paid"`
	Paid   money.Cents `json:"paid,omitempty"`
}

// ByItem assigns individual items to seats; each seat pays on its own.
type ByItem struct {
	ID         string  `json:"id"`
	TableID    string  `json:"table_id"`
	GuestCount int     `json:"guest_count"`
	Unassigned []Item  `json:"unassigned"`
	Seats      []*Seat `json:"seats"`

	Subtotal     money.Cents `json:"subtotal"`
	Tax          money.Cents `json:"tax"`
	TaxCollected money.Cents `json:"tax_collected"`

	cfg pricing.Config
}

// NewByItem opens a by-item split over t. It starts with one seat per
// guest, never fewer than two.
func NewByItem(id string, t ticket.Ticket, cfg pricing.Config) (*ByItem, error) {
	items := Explode(t.Items)
	if len(items) == 0 {
		return nil, core.Validation("table %s has nothing to split", t.TableID)
	}

	seats := t.GuestCount
	if seats < MinWays {
		seats = MinWays
	}

	s := &ByItem{
		ID:         id,
		TableID:    t.TableID,
		GuestCount: t.GuestCount,
		Unassigned: items,
		cfg:        cfg,
	}
	for n := 1; n <= seats; n++ {
		s.Seats = append(s.Seats, &Seat{Number: n, Items: []Item{}})
	}

	s.Subtotal = pricing.Subtotal(items)
	s.Tax = pricing.Tax(s.Subtotal, cfg.TaxRatePercent)
	return s, nil
}

func (s *ByItem) seat(number int) (*Seat, error) {
	for _, seat := range s.Seats {
		if seat.Number == number {
			return seat, nil
		}
	}
	return nil, core.NotFound("seat", strconv.Itoa(number))
}

func (s *ByItem) Assign(itemID string, seatNumber int) error {
	seat, err := s.seat(seatNumber)
	if err != nil {
		return err
	}
	if seat.IsPaid {
		return core.Validation("seat %d is already paid", seatNumber)
	}

	rest, item, ok := removeItem(s.Unassigned, itemID)
	if !ok {
		return core.NotFound("unassigned item", itemID)
	}
	s.Unassigned = rest
	seat.Items = append(seat.Items, item)
	return nil
}

func (s *ByItem) Unassign(itemID string, seatNumber int) error {
	seat, err := s.seat(seatNumber)
	if err != nil {
		return err
	}
	if seat.IsPaid {
		return core.Validation("seat %d is already paid", seatNumber)
	}

	rest, item, ok := removeItem(seat.Items, itemID)
	if !ok {
		return core.NotFound("seat item", itemID)
	}
	seat.Items = rest
	s.Unassigned = append(s.Unassigned, item)
	return nil
}

func (s *ByItem) AddSeat() *Seat {
	next := 1
	if n := len(s.Seats); n > 0 {
		next = s.Seats[n-1].Number + 1
	}
	seat := &Seat{Number: next, Items: []Item{}}
	s.Seats = append(s.Seats, seat)
	return seat
}

// RemoveSeat drops the last seat if it is empty and unpaid. One seat
// always remains.
func (s *ByItem) RemoveSeat(seatNumber int) error {
	seat, err := s.seat(seatNumber)
	if err != nil {
		return err
	}
	last := s.Seats[len(s.Seats)-1]
	switch {
	case seat != last:
		return core.Validation("only the last seat can be removed")
	case len(s.Seats) == 1:
		return core.Validation("a split needs at least one seat")
	case seat.IsPaid:
		return core.Validation("seat %d is already paid", seatNumber)
	case len(seat.Items) > 0:
		return core.Validation("seat %d still has items", seatNumber)
	}
	s.Seats = s.Seats[:len(s.Seats)-1]
	return nil
}

// SeatBill prices a seat. A seat never pays more tax than is still
// uncollected, and the payment that completes the split takes whatever
// remains, so the seats add up to the ticket's own tax to the cent and
// no seat's tax is negative.
func (s *ByItem) SeatBill(seatNumber int, tip pricing.TipMode) (pricing.Breakdown, error) {
	seat, err := s.seat(seatNumber)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	if len(seat.Items) == 0 {
		return pricing.Breakdown{}, core.Validation("seat %d has no items", seatNumber)
	}

	sub := pricing.Subtotal(seat.Items)
	outstanding := s.Tax - s.TaxCollected
	tax := pricing.Tax(sub, s.cfg.TaxRatePercent)
	if tax > outstanding || s.completes(seat) {
		tax = outstanding
	}

	total := pricing.Total(sub, tax)
	tipAmount, err := pricing.Tip(total, tip, s.cfg)
	if err != nil {
		return pricing.Breakdown{}, err
	}

	return pricing.Breakdown{
		Subtotal:   sub,
		Tax:        tax,
		Total:      total,
		Tip:        tipAmount,
		FinalTotal: total + tipAmount,
	}, nil
}

// MarkPaid seals a seat after its receipt has been written.
func (s *ByItem) MarkPaid(seatNumber int, bill pricing.Breakdown) error {
	seat, err := s.seat(seatNumber)
	if err != nil {
		return err
	}
	if seat.IsPaid {
		return core.Validation("seat %d is already paid", seatNumber)
	}
	seat.IsPaid = true
	seat.Paid = bill.FinalTotal
	s.TaxCollected += bill.Tax
	return nil
}

// Complete is true once every seat is paid and nothing is unassigned.
func (s *ByItem) Complete() bool {
	if len(s.Unassigned) > 0 {
		return false
	}
	for _, seat := range s.Seats {
		if !seat.IsPaid && len(seat.Items) > 0 {
			return false
		}
	}
	return true
}

func (s *ByItem) AnyPaid() bool {
	for _, seat := range s.Seats {
		if seat.IsPaid {
			return true
		}
	}
	return false
}

// Remaining is what still belongs on the ticket: unassigned items and
// items on unpaid seats, merged back into lines.
func (s *ByItem) Remaining() ticket.Ticket {
	items := append([]Item{}, s.Unassigned...)
	for _, seat := range s.Seats {
		if !seat.IsPaid {
			items = append(items, seat.Items...)
		}
	}
	return ticket.Ticket{
		TableID:    s.TableID,
		GuestCount: s.GuestCount,
		Items:      Collapse(items),
	}
}

// Clone is a deep copy that shares nothing with s.
func (s *ByItem) Clone() *ByItem {
	c := *s
	c.Unassigned = append([]Item{}, s.Unassigned...)
	c.Seats = make([]*Seat, len(s.Seats))
	for i, seat := range s.Seats {
		cp := *seat
		cp.Items = append([]Item{}, seat.Items...)
		c.Seats[i] = &cp
	}
	return &c
}

// completes reports whether paying seat would finish the split.
func (s *ByItem) completes(seat *Seat) bool {
	if len(s.Unassigned) > 0 {
		return false
	}
	for _, other := range s.Seats {
		if other != seat && !other.IsPaid && len(other.Items) > 0 {
			return false
		}
	}
	return true
}
