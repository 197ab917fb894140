package receipt

import (
	"context"
	"encoding/json"

	"tapin/internal/core"
	"tapin/internal/money"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) Append(ctx context.Context, rc Receipt) error {
	items, err := json.Marshal(rc.Items)
	if err != nil {
		return core.Persistence("encode receipt items", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO receipts (
			id, table_id, server_name, items,
			subtotal_cents, tax_cents, tip_cents, total_cents,
			payment_method, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		rc.ID, rc.TableID, rc.ServerName, items,
		int64(rc.Subtotal), int64(rc.Tax), int64(rc.Tip), int64(rc.Total),
		rc.PaymentMethod, rc.Timestamp,
	)
	return core.Persistence("append receipt", err)
}

func (r *PostgresStore) List(ctx context.Context) ([]Receipt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, table_id, server_name, items,
		       subtotal_cents, tax_cents, tip_cents, total_cents,
		       payment_method, created_at
		FROM receipts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, core.Persistence("list receipts", err)
	}
	defer rows.Close()

	var out []Receipt
	for rows.Next() {
		var (
			rc                        Receipt
			items                     []byte
			subtotal, tax, tip, total int64
		)
		if err := rows.Scan(
			&rc.ID, &rc.TableID, &rc.ServerName, &items,
			&subtotal, &tax, &tip, &total,
			&rc.PaymentMethod, &rc.Timestamp,
		); err != nil {
			return nil, core.Persistence("scan receipt", err)
		}
		if err := json.Unmarshal(items, &rc.Items); err != nil {
			return nil, core.Persistence("decode receipt items", err)
		}
		rc.Subtotal, rc.Tax = money.Cents(subtotal), money.Cents(tax)
		rc.Tip, rc.Total = money.Cents(tip), money.Cents(total)
		out = append(out, rc)
	}
	return out, core.Persistence("list receipts", rows.Err())
}
