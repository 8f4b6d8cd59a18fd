package local

import (
	"context"
	"fmt"
	"time"

	"github.com/pocketlist/pocketlist/internal/models"
)

// List returns the owner's items in creation order.
func (b *Backend) List(ctx context.Context) ([]models.Item, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, name, description, image
		FROM todos
		WHERE owner = ?
		ORDER BY seq ASC`, b.owner)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Image); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts item under a new ID. Any ID on the input is ignored.
func (b *Backend) Create(ctx context.Context, item models.Item) (models.Item, error) {
	item.ID = b.newID()
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO todos (id, owner, name, description, image, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, b.owner, item.Name, item.Description, item.Image, b.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return models.Item{}, fmt.Errorf("insert todo: %w", err)
	}
	return item, nil
}
