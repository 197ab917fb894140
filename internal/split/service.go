package split

import (
	"context"
	"sync"

	"tapin/internal/core"
	"tapin/internal/logger"
	"tapin/internal/pricing"
	"tapin/internal/receipt"
	"tapin/internal/ticket"

	"github.com/google/uuid"
)

type TicketStore interface {
	Get(ctx context.Context, tableID string) (ticket.Ticket, error)
	Put(ctx context.Context, t ticket.Ticket) error
}

// Settler writes partition receipts and clears the finished table.
// receipt.Service satisfies it.
type Settler interface {
	Record(ctx context.Context, r receipt.Receipt) (receipt.Receipt, error)
	ClearTable(ctx context.Context, tableID string) error
}

type PricingSource interface {
	Pricing(ctx context.Context) (pricing.Config, error)
}

// Payment is the outcome of paying one seat or share.
type Payment struct {
	Receipt receipt.Receipt   `json:"receipt"`
	Bill    pricing.Breakdown `json:"bill"`
	Settled bool              `json:"settled"`
}

// Service keeps open split sessions in memory. A table has at most
// one session, in one mode.
type Service struct {
	mu      sync.Mutex
	byItem  map[string]*ByItem
	even    map[string]*Even
	byTable map[string]string

	tickets TicketStore
	settle  Settler
	pricing PricingSource
	log     *logger.Logger
}

func NewService(tickets TicketStore, settle Settler, pricing PricingSource, log *logger.Logger) *Service {
	return &Service{
		byItem:  make(map[string]*ByItem),
		even:    make(map[string]*Even),
		byTable: make(map[string]string),
		tickets: tickets,
		settle:  settle,
		pricing: pricing,
		log:     log.WithComponent("split"),
	}
}

// --------------------------------------------------
// Sessions
// --------------------------------------------------
func (s *Service) StartByItem(ctx context.Context, tableID string) (*ByItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, cfg, err := s.open(ctx, tableID)
	if err != nil {
		return nil, err
	}

	session, err := NewByItem(uuid.New().String(), t, cfg)
	if err != nil {
		return nil, err
	}
	s.byItem[session.ID] = session
	s.byTable[tableID] = session.ID
	return session.Clone(), nil
}

func (s *Service) StartEven(ctx context.Context, tableID string) (*Even, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, cfg, err := s.open(ctx, tableID)
	if err != nil {
		return nil, err
	}

	session, err := NewEven(uuid.New().String(), t, cfg)
	if err != nil {
		return nil, err
	}
	s.even[session.ID] = session
	s.byTable[tableID] = session.ID
	return session.Clone(), nil
}

// open loads the ticket and replaces any earlier session for the
// table that has not taken a payment yet.
func (s *Service) open(ctx context.Context, tableID string) (ticket.Ticket, pricing.Config, error) {
	if id, ok := s.byTable[tableID]; ok {
		if b, ok := s.byItem[id]; ok && b.AnyPaid() {
			return ticket.Ticket{}, pricing.Config{}, core.Validation("table %s already has a split in progress", tableID)
		}
		if e, ok := s.even[id]; ok && e.PaidCount() > 0 {
			return ticket.Ticket{}, pricing.Config{}, core.Validation("table %s already has a split in progress", tableID)
		}
		s.drop(id)
	}

	t, err := s.tickets.Get(ctx, tableID)
	if err != nil {
		return ticket.Ticket{}, pricing.Config{}, err
	}
	cfg, err := s.pricing.Pricing(ctx)
	if err != nil {
		return ticket.Ticket{}, pricing.Config{}, err
	}
	return t, cfg, nil
}

// Session returns a copy of whichever session has id.
func (s *Service) Session(id string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.byItem[id]; ok {
		return b.Clone(), nil
	}
	if e, ok := s.even[id]; ok {
		return e.Clone(), nil
	}
	return nil, core.NotFound("split session", id)
}

// Cancel abandons a session. Payments already taken stand.
func (s *Service) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byItem[id]; !ok {
		if _, ok := s.even[id]; !ok {
			return core.NotFound("split session", id)
		}
	}
	s.drop(id)
	return nil
}

func (s *Service) drop(id string) {
	if b, ok := s.byItem[id]; ok {
		delete(s.byTable, b.TableID)
	}
	if e, ok := s.even[id]; ok {
		delete(s.byTable, e.TableID)
	}
	delete(s.byItem, id)
	delete(s.even, id)
}

// --------------------------------------------------
// By item
// --------------------------------------------------
// withByItem runs fn on the live session under the lock and returns a
// copy, so callers never read a session another request is changing.
func (s *Service) withByItem(id string, fn func(*ByItem) error) (*ByItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byItem[id]
	if !ok {
		return nil, core.NotFound("split session", id)
	}
	if err := fn(b); err != nil {
		return nil, err
	}
	return b.Clone(), nil
}

func (s *Service) Assign(id, itemID string, seat int) (*ByItem, error) {
	return s.withByItem(id, func(b *ByItem) error { return b.Assign(itemID, seat) })
}

func (s *Service) Unassign(id, itemID string, seat int) (*ByItem, error) {
	return s.withByItem(id, func(b *ByItem) error { return b.Unassign(itemID, seat) })
}

func (s *Service) AddSeat(id string) (*ByItem, error) {
	return s.withByItem(id, func(b *ByItem) error {
		b.AddSeat()
		return nil
	})
}

func (s *Service) RemoveSeat(id string, seat int) (*ByItem, error) {
	return s.withByItem(id, func(b *ByItem) error { return b.RemoveSeat(seat) })
}

// PaySeat writes the seat's receipt, then seals the seat. When that
// was the last payment the table is cleared; otherwise what is left
// goes back on the ticket.
func (s *Service) PaySeat(ctx context.Context, id string, seat int, tip pricing.TipMode, serverName string) (*Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byItem[id]
	if !ok {
		return nil, core.NotFound("split session", id)
	}
	st, err := b.seat(seat)
	if err != nil {
		return nil, err
	}
	if st.IsPaid {
		return nil, core.Validation("seat %d is already paid", seat)
	}

	bill, err := b.SeatBill(seat, tip)
	if err != nil {
		return nil, err
	}

	lines := Collapse(st.Items)
	r, err := s.settle.Record(ctx, receipt.Receipt{
		TableID:       b.TableID,
		ServerName:    serverName,
		Items:         lines,
		Subtotal:      bill.Subtotal,
		Tax:           bill.Tax,
		Tip:           bill.Tip,
		Total:         bill.Total,
		PaymentMethod: receipt.MethodSplitCard,
	})
	if err != nil {
		return nil, err
	}

	if err := b.MarkPaid(seat, bill); err != nil {
		return nil, err
	}

	pay := &Payment{Receipt: r, Bill: bill}

	if b.Complete() {
		pay.Settled = true
		s.drop(id)
		if err := s.settle.ClearTable(ctx, b.TableID); err != nil {
			return pay, err
		}
		s.log.Info("split settled", "table_id", b.TableID, "mode", "by_item")
		return pay, nil
	}

	if err := s.tickets.Put(ctx, b.Remaining()); err != nil {
		return pay, core.Persistence("write back remaining items", err)
	}
	return pay, nil
}

// --------------------------------------------------
// Even
// --------------------------------------------------
func (s *Service) SetWays(id string, n int) (*Even, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.even[id]
	if !ok {
		return nil, core.NotFound("split session", id)
	}
	if err := e.SetWays(n); err != nil {
		return nil, err
	}
	return e.Clone(), nil
}

func (s *Service) PayShare(ctx context.Context, id string, index int, tip pricing.TipMode, serverName string) (*Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.even[id]
	if !ok {
		return nil, core.NotFound("split session", id)
	}

	bill, err := e.ShareBill(index, tip)
	if err != nil {
		return nil, err
	}

	r, err := s.settle.Record(ctx, receipt.Receipt{
		TableID:       e.TableID,
		ServerName:    serverName,
		Items:         e.Items,
		Subtotal:      bill.Subtotal,
		Tax:           bill.Tax,
		Tip:           bill.Tip,
		Total:         bill.Total,
		PaymentMethod: receipt.MethodSplitEven,
	})
	if err != nil {
		return nil, err
	}

	if err := e.MarkPaid(index, bill); err != nil {
		return nil, err
	}

	pay := &Payment{Receipt: r, Bill: bill}
	if e.Complete() {
		pay.Settled = true
		s.drop(id)
		if err := s.settle.ClearTable(ctx, e.TableID); err != nil {
			return pay, err
		}
		s.log.Info("split settled", "table_id", e.TableID, "mode", "even", "ways", e.Ways)
	}
	return pay, nil
}
