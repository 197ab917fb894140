package settings

import (
	"context"
	"errors"

	"tapin/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const globalID = "global"

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) Get(ctx context.Context) (Settings, bool, error) {
	var s Settings
	err := r.db.QueryRow(ctx, `
		SELECT tax_rate::float8, tip1, tip2, tip3, receipt_message
		FROM settings
		WHERE id = $1
	`, globalID).Scan(&s.TaxRatePercent, &s.Tip1, &s.Tip2, &s.Tip3, &s.ReceiptMessage)

	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, false, nil
	}
	if err != nil {
		return Settings{}, false, core.Persistence("get settings", err)
	}
	return s, true, nil
}

func (r *PostgresStore) Put(ctx context.Context, s Settings) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO settings (id, tax_rate, tip1, tip2, tip3, receipt_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET tax_rate = EXCLUDED.tax_rate,
		    tip1 = EXCLUDED.tip1,
		    tip2 = EXCLUDED.tip2,
		    tip3 = EXCLUDED.tip3,
		    receipt_message = EXCLUDED.receipt_message
	`, globalID, s.TaxRatePercent, s.Tip1, s.Tip2, s.Tip3, s.ReceiptMessage)

	return core.Persistence("put settings", err)
}
