package receipt

import (
	"time"

	"tapin/internal/money"
	"tapin/internal/ticket"
)

const (
	MethodCreditCard = "Credit Card"
	MethodCash       = "Cash"
	MethodApplePay   = "Apple Pay"
	MethodSplitCard  = "Split - Credit Card"
	MethodSplitEven  = "Split - Even"
)

// Receipt is an immutable record of one payment. Total is subtotal
// plus tax; the amount charged is Total + Tip.
type Receipt struct {
	ID            string            `json:"id"`
	TableID       string            `json:"table_id"`
	ServerName    string            `json:"server_name"`
	Items         []ticket.LineItem `json:"items"`
	Subtotal      money.Cents       `json:"subtotal"`
	Tax           money.Cents       `json:"tax"`
	Tip           money.Cents       `json:"tip"`
	Total         money.Cents       `json:"total"`
	PaymentMethod string            `json:"payment_method"`
	Timestamp     time.Time         `json:"timestamp"`
}

// Charged is what left the guest's wallet.
func (r Receipt) Charged() money.Cents {
	return r.Total + r.Tip
}

// Summary aggregates receipts for the admin dashboard.
type Summary struct {
	Count    int                    `json:"count"`
	Subtotal money.Cents            `json:"subtotal"`
	Tax      money.Cents            `json:"tax"`
	Tips     money.Cents            `json:"tips"`
	Gross    money.Cents            `json:"gross"`
	ByMethod map[string]money.Cents `json:"by_method"`
}

func Summarize(receipts []Receipt) Summary {
	s := Summary{ByMethod: map[string]money.Cents{}}
	for _, r := range receipts {
		s.Count++
		s.Subtotal += r.Subtotal
		s.Tax += r.Tax
		s.Tips += r.Tip
		s.Gross += r.Charged()
		s.ByMethod[r.PaymentMethod] += r.Charged()
	}
	return s
}

func validMethod(m string) bool {
	switch m {
	case MethodCreditCard, MethodCash, MethodApplePay:
		return true
	}
	return false
}
