package kitchen

import (
	"context"
	"strings"
	"time"

	"tapin/internal/core"
	"tapin/internal/logger"
	"tapin/internal/ticket"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type Service struct {
	store Store
	pub   Publisher
	node  *snowflake.Node
	log   *logger.Logger
	now   func() time.Time
}

// NewService wires the kitchen. nodeID tells apart chit numbers minted
// by different API instances (0..1023).
func NewService(store Store, pub Publisher, nodeID int64, log *logger.Logger) (*Service, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Service{
		store: store,
		pub:   pub,
		node:  node,
		log:   log.WithComponent("kitchen"),
		now:   time.Now,
	}, nil
}

// --------------------------------------------------
// Submit / Void (called by ticket.Service on fire)
// --------------------------------------------------

// Submit creates a new kitchen order from fired groups.
func (s *Service) Submit(ctx context.Context, tableID, serverName string, groups []ticket.FireGroup) (string, error) {
	if len(groups) == 0 {
		return "", core.Validation("nothing to send to the kitchen")
	}
	if strings.TrimSpace(serverName) == "" {
		serverName = "Server"
	}

	o := Order{
		ID:         uuid.New().String(),
		Number:     s.node.Generate().Int64(),
		TableID:    tableID,
		ServerName: serverName,
		Items:      groups,
		Status:     StatusNew,
		CreatedAt:  s.now().UTC(),
	}
	o.UpdatedAt = o.CreatedAt

	if err := s.store.Create(ctx, o); err != nil {
		return "", err
	}

	s.publish(ctx, OrdersExchange, FiredRoutingKey(tableID), Event{
		Type:      EventFired,
		Order:     o,
		NewStatus: StatusNew,
	})

	s.log.Info("kitchen order created",
		"order_id", o.ID,
		"number", o.Number,
		"table_id", tableID,
		"groups", len(groups),
	)
	return o.ID, nil
}

// Void withdraws an order whose ticket write failed.
func (s *Service) Void(ctx context.Context, orderID string) error {
	_, err := s.move(ctx, orderID, StatusCleared)
	return err
}

// --------------------------------------------------
// Status transitions
// --------------------------------------------------
func (s *Service) MarkReady(ctx context.Context, orderID string) (Order, error) {
	return s.move(ctx, orderID, StatusReady)
}

func (s *Service) MarkServed(ctx context.Context, orderID string) (Order, error) {
	return s.move(ctx, orderID, StatusServed)
}

func (s *Service) Clear(ctx context.Context, orderID string) (Order, error) {
	return s.move(ctx, orderID, StatusCleared)
}

func (s *Service) move(ctx context.Context, orderID string, next Status) (Order, error) {
	before, err := s.store.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}

	o, err := s.store.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return Order{}, err
	}

	s.publish(ctx, NotificationsExchange, "", Event{
		Type:      EventStatusChanged,
		Order:     o,
		OldStatus: before.Status,
		NewStatus: o.Status,
	})
	return o, nil
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

// Active lists new and ready orders, oldest first.
func (s *Service) Active(ctx context.Context) ([]Order, error) {
	return s.store.ListByStatus(ctx, Active...)
}

// Ready lists orders waiting to be run to the table.
func (s *Service) Ready(ctx context.Context) ([]Order, error) {
	return s.store.ListByStatus(ctx, StatusReady)
}

func (s *Service) Get(ctx context.Context, orderID string) (Order, error) {
	return s.store.Get(ctx, orderID)
}

func (s *Service) SubscribeActive(ctx context.Context, fn func([]Order)) (core.Subscription, error) {
	return s.store.Subscribe(ctx, Active, fn)
}

// publish is best effort: the store is the record, events only wake
// printers and displays.
func (s *Service) publish(ctx context.Context, exchange, key string, e Event) {
	e.OccurredAt = s.now().UTC()

	body, err := encodeEvent(e)
	if err != nil {
		s.log.Error("encode kitchen event", "error", err)
		return
	}

	if err := s.pub.Publish(ctx, exchange, key, body); err != nil {
		s.log.Warn("kitchen event not published",
			"event_type", e.Type,
			"order_id", e.Order.ID,
			"exchange", exchange,
			"error", err,
		)
	}
}
