package kitchen

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tapin/internal/core"
	"tapin/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const changeChannel = "kitchen_changes"

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) Create(ctx context.Context, o Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return core.Persistence("encode kitchen items", err)
	}

	err = db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO kitchen_orders
				(id, number, table_id, server_name, items, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		`, o.ID, o.Number, o.TableID, o.ServerName, items, o.Status, o.CreatedAt); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO kitchen_order_status_log (order_id, from_status, to_status)
			VALUES ($1, NULL, $2)
		`, o.ID, o.Status); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, changeChannel, o.ID)
		return err
	})

	return core.Persistence("create kitchen order", err)
}

func (r *PostgresStore) Get(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `
		SELECT id, number, table_id, server_name, items, status, created_at, updated_at
		FROM kitchen_orders
		WHERE id = $1
	`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, core.NotFound("kitchen order", id)
	}
	if err != nil {
		return Order{}, core.Persistence("get kitchen order", err)
	}
	return o, nil
}

// --------------------------------------------------
// STATUS (row lock + audit log + notify)
// --------------------------------------------------
func (r *PostgresStore) UpdateStatus(ctx context.Context, id string, next Status) (Order, error) {
	var updated Order

	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		o, err := scanOrder(tx.QueryRow(ctx, `
			SELECT id, number, table_id, server_name, items, status, created_at, updated_at
			FROM kitchen_orders
			WHERE id = $1
			FOR UPDATE
		`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return core.NotFound("kitchen order", id)
		}
		if err != nil {
			return err
		}

		from := o.Status
		if err := transition(&o, next, time.Now()); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			UPDATE kitchen_orders SET status = $2, updated_at = $3 WHERE id = $1
		`, id, o.Status, o.UpdatedAt); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO kitchen_order_status_log (order_id, from_status, to_status)
			VALUES ($1, $2, $3)
		`, id, from, o.Status); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, changeChannel, id); err != nil {
			return err
		}

		updated = o
		return nil
	})
	if err != nil {
		return Order{}, core.Persistence("update kitchen order", err)
	}
	return updated, nil
}

func (r *PostgresStore) ListByStatus(ctx context.Context, statuses ...Status) ([]Order, error) {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, number, table_id, server_name, items, status, created_at, updated_at
		FROM kitchen_orders
		WHERE cardinality($1::text[]) = 0 OR status = ANY($1)
		ORDER BY created_at, number
	`, names)
	if err != nil {
		return nil, core.Persistence("list kitchen orders", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, core.Persistence("scan kitchen order", err)
		}
		out = append(out, o)
	}
	return out, core.Persistence("list kitchen orders", rows.Err())
}

// --------------------------------------------------
// SUBSCRIBE (LISTEN kitchen_changes)
// --------------------------------------------------
func (r *PostgresStore) Subscribe(
	ctx context.Context,
	statuses []Status,
	fn func([]Order),
) (core.Subscription, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, core.Persistence("acquire listener connection", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		conn.Release()
		return nil, core.Persistence("listen for kitchen changes", err)
	}

	current, err := r.ListByStatus(ctx, statuses...)
	if err != nil {
		conn.Release()
		return nil, err
	}

	return core.Listen(ctx, func(ctx context.Context) {
		defer func() {
			_, _ = conn.Exec(context.Background(), "UNLISTEN "+changeChannel)
			conn.Release()
		}()

		fn(current)

		for {
			if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
				return
			}

			orders, err := r.ListByStatus(ctx, statuses...)
			if err != nil {
				continue
			}
			fn(orders)
		}
	}), nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o     Order
		items []byte
	)
	if err := row.Scan(
		&o.ID, &o.Number, &o.TableID, &o.ServerName,
		&items, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return Order{}, err
	}
	return o, nil
}
