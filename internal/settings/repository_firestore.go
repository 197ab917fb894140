package settings

import (
	"context"

	"tapin/internal/core"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// settingsDoc is settings/global as the tablet app stores it.
type settingsDoc struct {
	TaxRate        float64 `firestore:"taxRate"`
	Tip1           int     `firestore:"tip1"`
	Tip2           int     `firestore:"tip2"`
	Tip3           int     `firestore:"tip3"`
	ReceiptMessage string  `firestore:"receiptMessage"`
}

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (r *FirestoreStore) doc() *firestore.DocumentRef {
	return r.client.Collection("settings").Doc("global")
}

func (r *FirestoreStore) Get(ctx context.Context) (Settings, bool, error) {
	snap, err := r.doc().Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Settings{}, false, nil
	}
	if err != nil {
		return Settings{}, false, core.Persistence("get settings", err)
	}

	var d settingsDoc
	if err := snap.DataTo(&d); err != nil {
		return Settings{}, false, core.Persistence("decode settings", err)
	}
	return Settings{
		TaxRatePercent: d.TaxRate,
		Tip1:           d.Tip1,
		Tip2:           d.Tip2,
		Tip3:           d.Tip3,
		ReceiptMessage: d.ReceiptMessage,
	}, true, nil
}

func (r *FirestoreStore) Put(ctx context.Context, s Settings) error {
	_, err := r.doc().Set(ctx, settingsDoc{
		TaxRate:        s.TaxRatePercent,
		Tip1:           s.Tip1,
		Tip2:           s.Tip2,
		Tip3:           s.Tip3,
		ReceiptMessage: s.ReceiptMessage,
	})
	return core.Persistence("put settings", err)
}
