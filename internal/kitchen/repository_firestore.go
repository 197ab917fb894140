package kitchen

import (
	"context"
	"errors"
	"time"

	"tapin/internal/core"
	"tapin/internal/ticket"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ordersCollection = "kitchenOrders"

type orderDoc struct {
	Number     int64      `firestore:"number"`
	TableID    string     `firestore:"tableId"`
	ServerName string     `firestore:"serverName"`
	Items      []groupDoc `firestore:"items"`
	Status     string     `firestore:"status"`
	CreatedAt  time.Time  `firestore:"createdAt"`
	UpdatedAt  time.Time  `firestore:"updatedAt"`
}

type groupDoc struct {
	Name   string `firestore:"name"`
	Qty    int    `firestore:"qty"`
	Notes  string `firestore:"notes"`
	Course int    `firestore:"course"`
}

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (r *FirestoreStore) Create(ctx context.Context, o Order) error {
	doc := orderDoc{
		Number:     o.Number,
		TableID:    o.TableID,
		ServerName: o.ServerName,
		Items:      make([]groupDoc, 0, len(o.Items)),
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.CreatedAt,
	}
	for _, g := range o.Items {
		doc.Items = append(doc.Items, groupDoc{Name: g.Name, Qty: g.Quantity, Notes: g.Notes, Course: g.Course})
	}

	_, err := r.client.Collection(ordersCollection).Doc(o.ID).Create(ctx, doc)
	return core.Persistence("create kitchen order", err)
}

func (r *FirestoreStore) Get(ctx context.Context, id string) (Order, error) {
	snap, err := r.client.Collection(ordersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Order{}, core.NotFound("kitchen order", id)
	}
	if err != nil {
		return Order{}, core.Persistence("get kitchen order", err)
	}
	return decodeOrder(snap)
}

// UpdateStatus reads and writes inside one transaction so two stations
// cannot both move the same chit.
func (r *FirestoreStore) UpdateStatus(ctx context.Context, id string, next Status) (Order, error) {
	ref := r.client.Collection(ordersCollection).Doc(id)
	var updated Order

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return core.NotFound("kitchen order", id)
		}
		if err != nil {
			return err
		}

		o, err := decodeOrder(snap)
		if err != nil {
			return err
		}
		if err := transition(&o, next, time.Now()); err != nil {
			return err
		}

		updated = o
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(o.Status)},
			{Path: "updatedAt", Value: o.UpdatedAt},
		})
	})
	if err != nil {
		return Order{}, core.Persistence("update kitchen order", err)
	}
	return updated, nil
}

func (r *FirestoreStore) ListByStatus(ctx context.Context, statuses ...Status) ([]Order, error) {
	iter := r.query(statuses).Documents(ctx)
	defer iter.Stop()

	var out []Order
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, core.Persistence("list kitchen orders", err)
		}

		o, err := decodeOrder(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// Subscribe attaches a query snapshot listener. Every snapshot carries
// the full matching set.
func (r *FirestoreStore) Subscribe(
	ctx context.Context,
	statuses []Status,
	fn func([]Order),
) (core.Subscription, error) {
	q := r.query(statuses)

	return core.Listen(ctx, func(ctx context.Context) {
		snaps := q.Snapshots(ctx)
		defer snaps.Stop()

		for {
			qs, err := snaps.Next()
			if err != nil {
				return
			}

			docs, err := qs.Documents.GetAll()
			if err != nil {
				continue
			}

			orders := make([]Order, 0, len(docs))
			for _, snap := range docs {
				if o, err := decodeOrder(snap); err == nil {
					orders = append(orders, o)
				}
			}
			fn(orders)
		}
	}), nil
}

func (r *FirestoreStore) query(statuses []Status) firestore.Query {
	q := r.client.Collection(ordersCollection).Query
	if len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, s := range statuses {
			names = append(names, string(s))
		}
		q = q.Where("status", "in", names)
	}
	return q.OrderBy("createdAt", firestore.Asc)
}

func decodeOrder(snap *firestore.DocumentSnapshot) (Order, error) {
	var doc orderDoc
	if err := snap.DataTo(&doc); err != nil {
		return Order{}, core.Persistence("decode kitchen order "+snap.Ref.ID, err)
	}

	o := Order{
		ID:         snap.Ref.ID,
		Number:     doc.Number,
		TableID:    doc.TableID,
		ServerName: doc.ServerName,
		Items:      make([]ticket.FireGroup, 0, len(doc.Items)),
		Status:     Status(doc.Status),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	for _, g := range doc.Items {
		o.Items = append(o.Items, ticket.FireGroup{Name: g.Name, Quantity: g.Qty, Notes: g.Notes, Course: g.Course})
	}
	return o, nil
}
