package auth

import (
	"context"
	"time"

	"tapin/internal/core"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Save(ctx context.Context, user *User) error {
	// Generate UUID if not already set
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (id, name, pin_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    pin_hash = EXCLUDED.pin_hash,
		    role = EXCLUDED.role
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.PINHash, user.Role, user.CreatedAt,
	)
	return core.Persistence("save user", err)
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, pin_hash, role, created_at
		FROM users
		ORDER BY name
	`)
	if err != nil {
		return nil, core.Persistence("list users", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.PINHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, core.Persistence("scan user", err)
		}
		out = append(out, u)
	}
	return out, core.Persistence("list users", rows.Err())
}
