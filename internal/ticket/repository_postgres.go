package ticket

import (
	"context"
	"encoding/json"
	"errors"

	"tapin/internal/core"
	"tapin/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// changeChannel carries the table id of every ticket write.
const changeChannel = "ticket_changes"

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) Get(ctx context.Context, tableID string) (Ticket, error) {
	t := Ticket{TableID: tableID}
	var items []byte

	err := r.db.QueryRow(ctx, `
		SELECT guest_count, items, updated_at
		FROM tickets
		WHERE table_id = $1
	`, tableID).Scan(&t.GuestCount, &items, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return Cleared(tableID), nil
	}
	if err != nil {
		return Ticket{}, core.Persistence("get ticket", err)
	}

	if err := json.Unmarshal(items, &t.Items); err != nil {
		return Ticket{}, core.Persistence("decode ticket items", err)
	}
	return t, nil
}

// --------------------------------------------------
// PUT (upsert + notify in one transaction)
// --------------------------------------------------
func (r *PostgresStore) Put(ctx context.Context, t Ticket) error {
	items := t.Items
	if items == nil {
		items = []LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return core.Persistence("encode ticket items", err)
	}

	err = db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO tickets (table_id, guest_count, items, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (table_id) DO UPDATE
			SET guest_count = EXCLUDED.guest_count,
			    items = EXCLUDED.items,
			    updated_at = now()
		`, t.TableID, t.GuestCount, data); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, changeChannel, t.TableID)
		return err
	})

	return core.Persistence("put ticket", err)
}

func (r *PostgresStore) List(ctx context.Context) ([]Ticket, error) {
	rows, err := r.db.Query(ctx, `
		SELECT table_id, guest_count, items, updated_at
		FROM tickets
		ORDER BY table_id
	`)
	if err != nil {
		return nil, core.Persistence("list tickets", err)
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		var (
			t     Ticket
			items []byte
		)
		if err := rows.Scan(&t.TableID, &t.GuestCount, &items, &t.UpdatedAt); err != nil {
			return nil, core.Persistence("scan ticket", err)
		}
		if err := json.Unmarshal(items, &t.Items); err != nil {
			return nil, core.Persistence("decode ticket items", err)
		}
		out = append(out, t)
	}
	return out, core.Persistence("list tickets", rows.Err())
}

// --------------------------------------------------
// SUBSCRIBE (LISTEN ticket_changes)
// --------------------------------------------------
func (r *PostgresStore) Subscribe(
	ctx context.Context,
	tableID string,
	fn func(Ticket),
) (core.Subscription, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, core.Persistence("acquire listener connection", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		conn.Release()
		return nil, core.Persistence("listen for ticket changes", err)
	}

	current, err := r.Get(ctx, tableID)
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
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				return
			}
			if n.Payload != tableID {
				continue
			}

			t, err := r.Get(ctx, tableID)
			if err != nil {
				continue
			}
			fn(t)
		}
	}), nil
}
