package split

import (
	"strconv"

	"tapin/internal/core"
	"tapin/internal/money"
	"tapin/internal/pricing"
	"tapin/internal/ticket"
)

type Share struct {
	Index     int         `json:"index"`
	Subtotal  money.Cents `json:"subtotal"`
	Tax       money.Cents `json:"tax"`
	AmountDue money.Cents `json:"amount_due"`
	Tip       money.Cents `json:"tip"`
	IsPaid    bool        `json:"is_paid"`
}

// Even divides the ticket total into equal shares. Leftover cents go
// to the lowest indexes.
type Even struct {
	ID      string            `json:"id"`
	TableID string            `json:"table_id"`
	Items   []ticket.LineItem `json:"items"`
	Bill    pricing.Breakdown `json:"bill"`
	Ways    int               `json:"ways"`
	Shares  []*Share          `json:"shares"`

	cfg pricing.Config
}

// NewEven opens an even split with one share per guest, clamped to
// the allowed range.
func NewEven(id string, t ticket.Ticket, cfg pricing.Config) (*Even, error) {
	if !t.Occupied() {
		return nil, core.Validation("table %s has nothing to split", t.TableID)
	}

	bill, err := pricing.Compute(t.Items, cfg, pricing.NoTip())
	if err != nil {
		return nil, err
	}

	e := &Even{
		ID:      id,
		TableID: t.TableID,
		Items:   t.Items,
		Bill:    bill,
		cfg:     cfg,
	}
	e.divide(clampWays(t.GuestCount))
	return e, nil
}

// SetWays re-divides the bill. It is refused once any share is paid.
func (e *Even) SetWays(n int) error {
	if e.PaidCount() > 0 {
		return core.Validation("cannot change the split after a share is paid")
	}
	e.divide(clampWays(n))
	return nil
}

func (e *Even) divide(n int) {
	totals := money.Split(e.Bill.Total, n)
	subs := money.Split(e.Bill.Subtotal, n)

	e.Ways = n
	e.Shares = make([]*Share, n)
	for i := range e.Shares {
		e.Shares[i] = &Share{
			Index:     i,
			Subtotal:  subs[i],
			Tax:       totals[i] - subs[i],
			AmountDue: totals[i],
		}
	}
}

func (e *Even) share(index int) (*Share, error) {
	if index < 0 || index >= len(e.Shares) {
		return nil, core.NotFound("share", strconv.Itoa(index))
	}
	return e.Shares[index], nil
}

// ShareBill prices one share with its tip.
func (e *Even) ShareBill(index int, tip pricing.TipMode) (pricing.Breakdown, error) {
	sh, err := e.share(index)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	if sh.IsPaid {
		return pricing.Breakdown{}, core.Validation("share %d is already paid", index)
	}

	tipAmount, err := pricing.Tip(sh.AmountDue, tip, e.cfg)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	return pricing.Breakdown{
		Subtotal:   sh.Subtotal,
		Tax:        sh.Tax,
		Total:      sh.AmountDue,
		Tip:        tipAmount,
		FinalTotal: sh.AmountDue + tipAmount,
	}, nil
}

func (e *Even) MarkPaid(index int, bill pricing.Breakdown) error {
	sh, err := e.share(index)
	if err != nil {
		return err
	}
	if sh.IsPaid {
		return core.Validation("share %d is already paid", index)
	}
	sh.IsPaid = true
	sh.Tip = bill.Tip
	return nil
}

func (e *Even) PaidCount() int {
	n := 0
	for _, sh := range e.Shares {
		if sh.IsPaid {
			n++
		}
	}
	return n
}

func (e *Even) Complete() bool {
	return e.PaidCount() == len(e.Shares)
}

// Clone is a deep copy that shares nothing with e.
func (e *Even) Clone() *Even {
	c := *e
	c.Items = append([]ticket.LineItem{}, e.Items...)
	c.Shares = make([]*Share, len(e.Shares))
	for i, sh := range e.Shares {
		cp := *sh
		c.Shares[i] = &cp
	}
	return &c
}
