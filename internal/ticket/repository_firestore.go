package ticket

import (
	"context"
	"errors"
	"time"

	"tapin/internal/core"
	"tapin/internal/money"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const tablesCollection = "tables"

// tableDoc is the stored shape of a "tables" document. Prices are
// dollars, as the tablet clients write them.
type tableDoc struct {
	Guests    int       `firestore:"guests"`
	Items     []lineDoc `firestore:"items"`
	UpdatedAt time.Time `firestore:"updatedAt,serverTimestamp"`
}

type lineDoc struct {
	Name    string  `firestore:"name"`
	Price   float64 `firestore:"price"`
	Qty     int     `firestore:"qty"`
	Notes   string  `firestore:"notes"`
	Course  int     `firestore:"course"`
	IsFired bool    `firestore:"isFired"`
}

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (r *FirestoreStore) Get(ctx context.Context, tableID string) (Ticket, error) {
	snap, err := r.client.Collection(tablesCollection).Doc(tableID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Cleared(tableID), nil
	}
	if err != nil {
		return Ticket{}, core.Persistence("get ticket", err)
	}
	return decodeTable(snap)
}

func (r *FirestoreStore) Put(ctx context.Context, t Ticket) error {
	doc := tableDoc{Guests: t.GuestCount, Items: make([]lineDoc, 0, len(t.Items))}
	for _, li := range t.Items {
		doc.Items = append(doc.Items, lineDoc{
			Name:    li.Name,
			Price:   li.UnitPrice.Float(),
			Qty:     li.Quantity,
			Notes:   li.Notes,
			Course:  li.Course,
			IsFired: li.IsFired,
		})
	}

	_, err := r.client.Collection(tablesCollection).Doc(t.TableID).Set(ctx, doc)
	return core.Persistence("put ticket", err)
}

func (r *FirestoreStore) List(ctx context.Context) ([]Ticket, error) {
	iter := r.client.Collection(tablesCollection).Documents(ctx)
	defer iter.Stop()

	var out []Ticket
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, core.Persistence("list tickets", err)
		}

		t, err := decodeTable(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Subscribe attaches a realtime snapshot listener to the table document.
func (r *FirestoreStore) Subscribe(
	ctx context.Context,
	tableID string,
	fn func(Ticket),
) (core.Subscription, error) {
	ref := r.client.Collection(tablesCollection).Doc(tableID)

	return core.Listen(ctx, func(ctx context.Context) {
		snaps := ref.Snapshots(ctx)
		defer snaps.Stop()

		for {
			snap, err := snaps.Next()
			if err != nil {
				return
			}

			if !snap.Exists() {
				fn(Cleared(tableID))
				continue
			}

			t, err := decodeTable(snap)
			if err != nil {
				continue
			}
			fn(t)
		}
	}), nil
}

func decodeTable(snap *firestore.DocumentSnapshot) (Ticket, error) {
	var doc tableDoc
	if err := snap.DataTo(&doc); err != nil {
		return Ticket{}, core.Persistence("decode table "+snap.Ref.ID, err)
	}

	t := Ticket{
		TableID:    snap.Ref.ID,
		GuestCount: doc.Guests,
		Items:      make([]LineItem, 0, len(doc.Items)),
		UpdatedAt:  doc.UpdatedAt,
	}
	for _, li := range doc.Items {
		qty := li.Qty
		if qty < 1 {
			qty = 1
		}
		course := li.Course
		if course < 1 {
			course = CourseAppetizers
		}
		t.Items = append(t.Items, LineItem{
			Name:      li.Name,
			UnitPrice: money.FromFloat(li.Price),
			Quantity:  qty,
			Notes:     li.Notes,
			Course:    course,
			IsFired:   li.IsFired,
		})
	}
	return t, nil
}
