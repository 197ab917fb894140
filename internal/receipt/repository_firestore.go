package receipt

import (
	"context"
	"errors"
	"time"

	"tapin/internal/core"
	"tapin/internal/money"
	"tapin/internal/ticket"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const receiptsCollection = "receipts"

// receiptDoc keeps the tablet app's layout: dollar amounts and
// camelCase keys.
type receiptDoc struct {
	TableID       string        `firestore:"tableId"`
	ServerName    string        `firestore:"serverName"`
	Items         []receiptLine `firestore:"items"`
	Subtotal      float64       `firestore:"subtotal"`
	Tax           float64       `firestore:"tax"`
	Tip           float64       `firestore:"tip"`
	Total         float64       `firestore:"total"`
	PaymentMethod string        `firestore:"paymentMethod"`
	Timestamp     time.Time     `firestore:"timestamp"`
}

type receiptLine struct {
	Name   string  `firestore:"name"`
	Price  float64 `firestore:"price"`
	Qty    int     `firestore:"qty"`
	Notes  string  `firestore:"notes"`
	Course int     `firestore:"course"`
}

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (r *FirestoreStore) Append(ctx context.Context, rc Receipt) error {
	doc := receiptDoc{
		TableID:       rc.TableID,
		ServerName:    rc.ServerName,
		Items:         make([]receiptLine, 0, len(rc.Items)),
		Subtotal:      rc.Subtotal.Float(),
		Tax:           rc.Tax.Float(),
		Tip:           rc.Tip.Float(),
		Total:         rc.Total.Float(),
		PaymentMethod: rc.PaymentMethod,
		Timestamp:     rc.Timestamp,
	}
	for _, li := range rc.Items {
		doc.Items = append(doc.Items, receiptLine{
			Name:   li.Name,
			Price:  li.UnitPrice.Float(),
			Qty:    li.Quantity,
			Notes:  li.Notes,
			Course: li.Course,
		})
	}

	// Create fails on an existing id, keeping receipts write-once.
	_, err := r.client.Collection(receiptsCollection).Doc(rc.ID).Create(ctx, doc)
	return core.Persistence("append receipt", err)
}

func (r *FirestoreStore) List(ctx context.Context) ([]Receipt, error) {
	iter := r.client.Collection(receiptsCollection).
		OrderBy("timestamp", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var out []Receipt
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, core.Persistence("list receipts", err)
		}

		var doc receiptDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, core.Persistence("decode receipt "+snap.Ref.ID, err)
		}

		rc := Receipt{
			ID:            snap.Ref.ID,
			TableID:       doc.TableID,
			ServerName:    doc.ServerName,
			Items:         make([]ticket.LineItem, 0, len(doc.Items)),
			Subtotal:      money.FromFloat(doc.Subtotal),
			Tax:           money.FromFloat(doc.Tax),
			Tip:           money.FromFloat(doc.Tip),
			Total:         money.FromFloat(doc.Total),
			PaymentMethod: doc.PaymentMethod,
			Timestamp:     doc.Timestamp,
		}
		for _, li := range doc.Items {
			rc.Items = append(rc.Items, ticket.LineItem{
				Name:      li.Name,
				UnitPrice: money.FromFloat(li.Price),
				Quantity:  li.Qty,
				Notes:     li.Notes,
				Course:    li.Course,
				IsFired:   true,
			})
		}
		out = append(out, rc)
	}
	return out, nil
}
