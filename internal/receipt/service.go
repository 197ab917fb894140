package receipt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tapin/internal/core"
	"tapin/internal/logger"
	"tapin/internal/money"
	"tapin/internal/pricing"
	"tapin/internal/settings"
	"tapin/internal/ticket"

	"github.com/google/uuid"
)

// SettingsSource provides tax, tip presets and the receipt footer.
type SettingsSource interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// Archiver keeps an off-site JSON copy of each receipt.
// storage.R2Client satisfies it.
type Archiver interface {
	PutJSON(ctx context.Context, key string, v any) (string, error)
}

type Service struct {
	store    Store
	tickets  ticket.Store
	settings SettingsSource
	archive  Archiver
	log      *logger.Logger
	now      func() time.Time

	// clearBackoff is the wait before each retry of the ticket clear.
	clearBackoff []time.Duration
}

func NewService(
	store Store,
	tickets ticket.Store,
	settings SettingsSource,
	archive Archiver,
	log *logger.Logger,
) *Service {
	return &Service{
		store:        store,
		tickets:      tickets,
		settings:     settings,
		archive:      archive,
		log:          log.WithComponent("receipt"),
		now:          time.Now,
		clearBackoff: []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 900 * time.Millisecond},
	}
}

// --------------------------------------------------
// Record (append only, no ticket change)
// --------------------------------------------------

// Record stores a receipt for a partial payment.
func (s *Service) Record(ctx context.Context, r Receipt) (Receipt, error) {
	if strings.TrimSpace(r.TableID) == "" {
		return Receipt{}, core.Validation("table id is required")
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = s.now().UTC()
	}
	if r.Items == nil {
		r.Items = []ticket.LineItem{}
	}

	if err := s.store.Append(ctx, r); err != nil {
		return Receipt{}, core.Persistence("append receipt", err)
	}

	s.archiveCopy(ctx, r)

	s.log.Info("receipt recorded",
		"receipt_id", r.ID,
		"table_id", r.TableID,
		"method", r.PaymentMethod,
		"charged", r.Charged().String(),
	)
	return r, nil
}

// --------------------------------------------------
// Settle (receipt first, then clear)
// --------------------------------------------------

// Settle records the receipt and then clears the ticket. A failed
// receipt leaves the ticket untouched. A failed clear is retried; if
// it still fails the receipt stands and a PersistenceError is returned
// alongside it so staff can clear the table by hand.
func (s *Service) Settle(ctx context.Context, r Receipt) (Receipt, error) {
	recorded, err := s.Record(ctx, r)
	if err != nil {
		return Receipt{}, err
	}

	if err := s.ClearTable(ctx, recorded.TableID); err != nil {
		s.log.Error("receipt recorded but table not cleared",
			"receipt_id", recorded.ID,
			"table_id", recorded.TableID,
			"error", err,
		)
		return recorded, err
	}
	return recorded, nil
}

// ClearTable resets a ticket, retrying transient store failures.
func (s *Service) ClearTable(ctx context.Context, tableID string) error {
	err := s.tickets.Put(ctx, ticket.Cleared(tableID))
	for attempt := 0; err != nil && attempt < len(s.clearBackoff); attempt++ {
		s.log.Warn("clear table failed, retrying",
			"table_id", tableID,
			"attempt", attempt+1,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return core.Persistence("clear table", ctx.Err())
		case <-time.After(s.clearBackoff[attempt]):
		}
		err = s.tickets.Put(ctx, ticket.Cleared(tableID))
	}
	return core.Persistence("clear table", err)
}

// --------------------------------------------------
// Checkout (whole ticket, one payer)
// --------------------------------------------------

type CheckoutRequest struct {
	TableID    string
	ServerName string
	Method     string
	Tip        pricing.TipMode
	Tendered   money.Cents
}

type CheckoutResult struct {
	Receipt   Receipt           `json:"receipt"`
	Breakdown pricing.Breakdown `json:"breakdown"`
	ChangeDue money.Cents       `json:"change_due"`
	Message   string            `json:"message"`
}

func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if !validMethod(req.Method) {
		return nil, core.Validation("unknown payment method %q", req.Method)
	}

	t, err := s.tickets.Get(ctx, req.TableID)
	if err != nil {
		return nil, err
	}
	if !t.Occupied() {
		return nil, core.Validation("table %s has nothing to pay", req.TableID)
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	b, err := pricing.Compute(t.Items, cfg.Pricing(), req.Tip)
	if err != nil {
		return nil, err
	}

	var change money.Cents
	if req.Method == MethodCash {
		if change, err = pricing.ChangeDue(req.Tendered, b.FinalTotal); err != nil {
			return nil, err
		}
	}

	r, err := s.Settle(ctx, Receipt{
		TableID:       req.TableID,
		ServerName:    req.ServerName,
		Items:         t.Items,
		Subtotal:      b.Subtotal,
		Tax:           b.Tax,
		Tip:           b.Tip,
		Total:         b.Total,
		PaymentMethod: req.Method,
	})
	if r.ID == "" {
		return nil, err
	}

	return &CheckoutResult{
		Receipt:   r,
		Breakdown: b,
		ChangeDue: change,
		Message:   cfg.ReceiptMessage,
	}, err
}

// --------------------------------------------------
// Reporting
// --------------------------------------------------
func (s *Service) List(ctx context.Context) ([]Receipt, error) {
	return s.store.List(ctx)
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	receipts, err := s.store.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(receipts), nil
}

// archiveCopy is best effort; the store is the record.
func (s *Service) archiveCopy(ctx context.Context, r Receipt) {
	if s.archive == nil {
		return
	}
	key := ArchiveKey(r)
	if _, err := s.archive.PutJSON(ctx, key, r); err != nil {
		s.log.Warn("receipt not archived", "receipt_id", r.ID, "key", key, "error", err)
	}
}

// ArchiveKey is receipts/YYYY/MM/DD/<id>.json.
func ArchiveKey(r Receipt) string {
	return fmt.Sprintf("receipts/%s/%s.json", r.Timestamp.UTC().Format("2006/01/02"), r.ID)
}
