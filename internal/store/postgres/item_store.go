package postgres

import (
	"context"
	"fmt"

	"github.com/feedbackx/feedbackx-backend/internal/store"
	"github.com/feedbackx/feedbackx-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ store.FeedbackItemStore = (*ItemStore)(nil)

const itemColumns = `id::text, collection_id::text, score, comment, metadata, created_at`

// ItemStore stores feedback items in the feedback_items table.
type ItemStore struct {
	db DBTX
}

func NewItemStore(db DBTX) *ItemStore {
	return &ItemStore{db: db}
}

func scanItem(row pgx.Row) (*types.FeedbackItem, error) {
	item := &types.FeedbackItem{}
	err := row.Scan(
		&item.ID,
		&item.CollectionID,
		&item.Score,
		&item.Comment,
		&item.Metadata,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemStore) CreateItem(ctx context.Context, item *types.FeedbackItem) (*types.FeedbackItem, error) {
	query := `
		INSERT INTO feedback_items (collection_id, score, comment, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + itemColumns

	created, err := scanItem(s.db.QueryRow(ctx, query,
		item.CollectionID,
		item.Score,
		item.Comment,
		jsonArg(item.Metadata),
	))
	if err != nil {
		return nil, mapWriteError("failed to create feedback item", err)
	}
	return created, nil
}

func (s *ItemStore) ListItems(ctx context.Context, collectionID string, limit, offset int) ([]*types.FeedbackItem, int, error) {
	var total int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM feedback_items WHERE collection_id = $1`, collectionID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count feedback items: %w", err)
	}

	query := `
		SELECT ` + itemColumns + `
		FROM feedback_items
		WHERE collection_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, collectionID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feedback items: %w", err)
	}
	defer rows.Close()

	items := make([]*types.FeedbackItem, 0, limit)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan feedback item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate feedback items: %w", err)
	}
	return items, total, nil
}
