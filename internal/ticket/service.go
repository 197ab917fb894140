package ticket

import (
	"context"
	"fmt"
	"strings"

	"tapin/internal/core"
	"tapin/internal/logger"
	"tapin/internal/menu"
)

// MenuLookup resolves the catalog entry being ordered.
type MenuLookup interface {
	Lookup(ctx context.Context, name string) (*menu.Item, error)
}

// Kitchen accepts fired groups. Void withdraws an order whose ticket
// write did not go through.
type Kitchen interface {
	Submit(ctx context.Context, tableID, serverName string, groups []FireGroup) (orderID string, err error)
	Void(ctx context.Context, orderID string) error
}

type Service struct {
	store   Store
	menu    MenuLookup
	kitchen Kitchen
	log     *logger.Logger
}

func NewService(store Store, menu MenuLookup, kitchen Kitchen, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		menu:    menu,
		kitchen: kitchen,
		log:     log.WithComponent("ticket"),
	}
}

// AddRequest is a menu selection from the order screen.
type AddRequest struct {
	ItemName  string   `json:"name"`
	Quantity  int      `json:"quantity"`
	OptionIDs []string `json:"option_ids"`
	Note      string   `json:"note"`
}

// FireResult reports what went to the kitchen. OrderID is empty when
// there was nothing to fire.
type FireResult struct {
	Ticket  Ticket      `json:"ticket"`
	OrderID string      `json:"order_id,omitempty"`
	Groups  []FireGroup `json:"groups"`
}

// TableSummary is one entry of the floor overview.
type TableSummary struct {
	TableID    string `json:"table_id"`
	GuestCount int    `json:"guest_count"`
	Occupied   bool   `json:"occupied"`
	ItemCount  int    `json:"item_count"`
	Takeout    bool   `json:"takeout"`
}

func (s *Service) Get(ctx context.Context, tableID string) (Ticket, error) {
	if strings.TrimSpace(tableID) == "" {
		return Ticket{}, core.Validation("table id is required")
	}
	return s.store.Get(ctx, tableID)
}

// --------------------------------------------------
// Line items
// --------------------------------------------------
func (s *Service) Add(ctx context.Context, tableID string, req AddRequest) (Ticket, error) {
	item, err := s.menu.Lookup(ctx, req.ItemName)
	if err != nil {
		return Ticket{}, err
	}

	return s.mutate(ctx, tableID, func(t Ticket) (Ticket, error) {
		return AddItem(t, *item, req.Quantity, req.OptionIDs, req.Note)
	})
}

func (s *Service) Edit(ctx context.Context, tableID string, ref Key, quantity int, notes string) (Ticket, error) {
	return s.mutate(ctx, tableID, func(t Ticket) (Ticket, error) {
		return EditItem(t, ref, quantity, notes)
	})
}

func (s *Service) Delete(ctx context.Context, tableID string, ref Key) (Ticket, error) {
	return s.mutate(ctx, tableID, func(t Ticket) (Ticket, error) {
		return DeleteItem(t, ref), nil
	})
}

func (s *Service) SetGuests(ctx context.Context, tableID string, guests int) (Ticket, error) {
	return s.mutate(ctx, tableID, func(t Ticket) (Ticket, error) {
		return SetGuestCount(t, guests)
	})
}

// OpenTakeout starts a takeout ticket for one guest.
func (s *Service) OpenTakeout(ctx context.Context, customer string) (Ticket, error) {
	if strings.TrimSpace(customer) == "" {
		return Ticket{}, core.Validation("customer name is required")
	}

	id := TakeoutID(customer)
	return s.mutate(ctx, id, func(t Ticket) (Ticket, error) {
		if t.GuestCount == 0 {
			t.GuestCount = 1
		}
		return t, nil
	})
}

// --------------------------------------------------
// Fire to kitchen
// --------------------------------------------------

// Fire sends unfired items to the kitchen, all courses when course is
// 0. The kitchen order is created before the ticket is rewritten; if
// the rewrite fails the order is voided so the two never disagree.
func (s *Service) Fire(ctx context.Context, tableID, serverName string, course int) (*FireResult, error) {
	t, err := s.Get(ctx, tableID)
	if err != nil {
		return nil, err
	}

	var (
		fired  Ticket
		groups []FireGroup
	)
	if course == 0 {
		fired, groups = FireUnfired(t)
	} else {
		fired, groups = FireCourse(t, course)
	}

	if len(groups) == 0 {
		return &FireResult{Ticket: t, Groups: []FireGroup{}}, nil
	}

	orderID, err := s.kitchen.Submit(ctx, tableID, serverName, groups)
	if err != nil {
		return nil, fmt.Errorf("submit kitchen order: %w", err)
	}

	if err := s.store.Put(ctx, fired); err != nil {
		if voidErr := s.kitchen.Void(ctx, orderID); voidErr != nil {
			s.log.Error("kitchen order left without fired ticket",
				"table_id", tableID,
				"order_id", orderID,
				"error", voidErr,
			)
		}
		return nil, core.Persistence("mark items fired", err)
	}

	s.log.Info("fired to kitchen",
		"table_id", tableID,
		"order_id", orderID,
		"groups", len(groups),
		"course", course,
	)

	return &FireResult{Ticket: fired, OrderID: orderID, Groups: groups}, nil
}

// --------------------------------------------------
// Floor
// --------------------------------------------------
func (s *Service) Floor(ctx context.Context) ([]TableSummary, error) {
	tickets, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TableSummary, 0, len(tickets))
	for _, t := range tickets {
		count := 0
		for _, li := range t.Items {
			count += li.Quantity
		}
		out = append(out, TableSummary{
			TableID:    t.TableID,
			GuestCount: t.GuestCount,
			Occupied:   t.Occupied(),
			ItemCount:  count,
			Takeout:    IsTakeout(t.TableID),
		})
	}
	return out, nil
}

// WipeAll clears every ticket. It stops at the first failed write and
// reports how many were cleared before it.
func (s *Service) WipeAll(ctx context.Context) (int, error) {
	tickets, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}

	cleared := 0
	for _, t := range tickets {
		if !t.Occupied() && t.GuestCount == 0 {
			continue
		}
		if err := s.store.Put(ctx, Cleared(t.TableID)); err != nil {
			return cleared, err
		}
		cleared++
	}

	s.log.Warn("wiped all tables", "cleared", cleared)
	return cleared, nil
}

func (s *Service) Subscribe(ctx context.Context, tableID string, fn func(Ticket)) (core.Subscription, error) {
	return s.store.Subscribe(ctx, tableID, fn)
}

// mutate is a read-modify-write against the latest stored ticket.
// Concurrent writers are last-write-wins.
func (s *Service) mutate(
	ctx context.Context,
	tableID string,
	change func(Ticket) (Ticket, error),
) (Ticket, error) {
	t, err := s.Get(ctx, tableID)
	if err != nil {
		return Ticket{}, err
	}

	updated, err := change(t)
	if err != nil {
		return Ticket{}, err
	}
	updated.TableID = tableID

	if err := s.store.Put(ctx, updated); err != nil {
		return Ticket{}, err
	}
	return updated, nil
}
