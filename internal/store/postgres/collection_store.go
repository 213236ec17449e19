package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/feedbackx/feedbackx-backend/internal/store"
	"github.com/feedbackx/feedbackx-backend/types"
	"github.com/jackc/pgx/v5"
)

// Ensure CollectionStore implements store.CollectionStore
var _ store.CollectionStore = (*CollectionStore)(nil)

const collectionColumns = `id::text, name, key, description, scale, metadata, api_key, created_at, updated_at`

// CollectionStore stores feedback collections in the feedback_collections
// table.
type CollectionStore struct {
	db DBTX
}

func NewCollectionStore(db DBTX) *CollectionStore {
	return &CollectionStore{db: db}
}

func scanCollection(row pgx.Row) (*types.FeedbackCollection, error) {
	c := &types.FeedbackCollection{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Key,
		&c.Description,
		&c.Scale,
		&c.Metadata,
		&c.APIKey,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CollectionStore) CreateCollection(ctx context.Context, c *types.FeedbackCollection) (*types.FeedbackCollection, error) {
	query := `
		INSERT INTO feedback_collections (name, key, description, scale, metadata, api_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + collectionColumns

	created, err := scanCollection(s.db.QueryRow(ctx, query,
		c.Name,
		c.Key,
		c.Description,
		c.Scale,
		jsonArg(c.Metadata),
		c.APIKey,
	))
	if err != nil {
		return nil, mapWriteError("failed to create feedback collection", err)
	}
	return created, nil
}

func (s *CollectionStore) FindConflicts(ctx context.Context, name, key, excludeID string) ([]*types.FeedbackCollection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM feedback_collections
		WHERE (name = $1 OR key = $2)
		  AND ($3 = '' OR id::text <> $3)
		ORDER BY created_at`

	rows, err := s.db.Query(ctx, query, name, key, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up conflicting collections: %w", err)
	}
	defer rows.Close()

	var matches []*types.FeedbackCollection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conflicting collection: %w", err)
		}
		matches = append(matches, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conflicting collections: %w", err)
	}
	return matches, nil
}

func (s *CollectionStore) GetCollection(ctx context.Context, id string) (*types.FeedbackCollection, error) {
	query := `SELECT ` + collectionColumns + ` FROM feedback_collections WHERE id = $1`

	c, err := scanCollection(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get feedback collection: %w", err)
	}
	return c, nil
}

func (s *CollectionStore) GetCollectionByAPIKey(ctx context.Context, apiKey string) (*types.FeedbackCollection, error) {
	query := `SELECT ` + collectionColumns + ` FROM feedback_collections WHERE api_key = $1`

	c, err := scanCollection(s.db.QueryRow(ctx, query, apiKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get feedback collection by api key: %w", err)
	}
	return c, nil
}

func (s *CollectionStore) ListCollections(ctx context.Context, limit, offset int) ([]*types.FeedbackCollection, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM feedback_collections`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count feedback collections: %w", err)
	}

	query := `
		SELECT ` + collectionColumns + `
		FROM feedback_collections
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feedback collections: %w", err)
	}
	defer rows.Close()

	collections := make([]*types.FeedbackCollection, 0, limit)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan feedback collection: %w", err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate feedback collections: %w", err)
	}
	return collections, total, nil
}

// UpdateCollection applies the non-nil fields of update. The API key column
// is never written here.
func (s *CollectionStore) UpdateCollection(ctx context.Context, id string, update *types.FeedbackCollectionUpdate) (*types.FeedbackCollection, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Key != nil {
		add("key", *update.Key)
	}
	if update.Description != nil {
		if *update.Description == "" {
			add("description", nil)
		} else {
			add("description", *update.Description)
		}
	}
	if update.Scale != nil {
		add("scale", *update.Scale)
	}
	if update.Metadata != nil {
		add("metadata", jsonArg(*update.Metadata))
	}

	query := `
		UPDATE feedback_collections
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING ` + collectionColumns

	c, err := scanCollection(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapWriteError("failed to update feedback collection", err)
	}
	return c, nil
}

func (s *CollectionStore) DeleteCollection(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM feedback_collections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete feedback collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
