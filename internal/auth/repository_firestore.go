package auth

import (
	"context"
	"errors"
	"time"

	"tapin/internal/core"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

type userDoc struct {
	Name      string    `firestore:"name"`
	PINHash   string    `firestore:"pinHash"`
	Role      string    `firestore:"role"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type FirestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) *FirestoreUserRepository {
	return &FirestoreUserRepository{client: client}
}

func (r *FirestoreUserRepository) Save(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, userDoc{
		Name:      user.Name,
		PINHash:   user.PINHash,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
	return core.Persistence("save user", err)
}

func (r *FirestoreUserRepository) List(ctx context.Context) ([]User, error) {
	iter := r.client.Collection("users").OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []User
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, core.Persistence("list users", err)
		}

		var d userDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, core.Persistence("decode user "+snap.Ref.ID, err)
		}
		out = append(out, User{
			ID:        snap.Ref.ID,
			Name:      d.Name,
			PINHash:   d.PINHash,
			Role:      d.Role,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}
