package menu

import (
	"context"
	"encoding/json"

	"tapin/internal/core"
	"tapin/internal/money"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// LIST MENU ITEMS
// --------------------------------------------------
func (r *PostgresRepository) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, price_cents, grp, category, is_available, modifier_groups
		FROM menu_items
		ORDER BY name
	`)
	if err != nil {
		return nil, core.Persistence("list menu items", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item      Item
			price     int64
			group     string
			modifiers []byte
		)
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&price,
			&group,
			&item.Category,
			&item.IsAvailable,
			&modifiers,
		); err != nil {
			return nil, core.Persistence("scan menu item", err)
		}

		item.BasePrice = money.Cents(price)
		item.Group = Group(group)

		if len(modifiers) > 0 {
			if err := json.Unmarshal(modifiers, &item.ModifierGroups); err != nil {
				return nil, core.Persistence("decode modifier groups", err)
			}
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, core.Persistence("list menu items", err)
	}
	return items, nil
}
