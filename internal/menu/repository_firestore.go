package menu

import (
	"context"
	"errors"

	"tapin/internal/core"
	"tapin/internal/money"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const menuCollection = "menu"

// menuDoc is the stored shape of the "menu" collection. Prices are
// dollars; documents written before availability existed omit it.
type menuDoc struct {
	Name           string        `firestore:"name"`
	Price          float64       `firestore:"price"`
	Group          string        `firestore:"group"`
	Category       string        `firestore:"category"`
	Available      *bool         `firestore:"available,omitempty"`
	ModifierGroups []modGroupDoc `firestore:"modifierGroups,omitempty"`
}

type modGroupDoc struct {
	ID       string      `firestore:"id"`
	Name     string      `firestore:"name"`
	Required bool        `firestore:"required"`
	Options  []optionDoc `firestore:"options"`
}

type optionDoc struct {
	ID    string  `firestore:"id"`
	Name  string  `firestore:"name"`
	Price float64 `firestore:"price"`
}

type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) ListItems(ctx context.Context) ([]Item, error) {
	iter := r.client.Collection(menuCollection).OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var items []Item
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, core.Persistence("list menu items", err)
		}

		var doc menuDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, core.Persistence("decode menu item "+snap.Ref.ID, err)
		}
		items = append(items, doc.toItem(snap.Ref.ID))
	}
	return items, nil
}

func (d menuDoc) toItem(id string) Item {
	item := Item{
		ID:          id,
		Name:        d.Name,
		BasePrice:   money.FromFloat(d.Price),
		Group:       Group(d.Group),
		Category:    d.Category,
		IsAvailable: d.Available == nil || *d.Available,
	}

	for _, g := range d.ModifierGroups {
		group := ModifierGroup{ID: g.ID, Name: g.Name, IsRequired: g.Required}
		for _, o := range g.Options {
			group.Options = append(group.Options, ModifierOption{
				ID:         o.ID,
				Name:       o.Name,
				PriceDelta: money.FromFloat(o.Price),
			})
		}
		item.ModifierGroups = append(item.ModifierGroups, group)
	}
	return item
}
