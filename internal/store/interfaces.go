package store

import (
	"context"

	"github.com/feedbackx/feedbackx-backend/types"
)

// CollectionStore persists feedback collections.
type CollectionStore interface {
	// CreateCollection inserts c and returns the stored row with its
	// generated ID and timestamps.
	CreateCollection(ctx context.Context, c *types.FeedbackCollection) (*types.FeedbackCollection, error)
	// FindConflicts returns every collection other than excludeID whose name
	// equals name or whose key equals key. Empty name or key never match;
	// an empty excludeID excludes nothing.
	FindConflicts(ctx context.Context, name, key, excludeID string) ([]*types.FeedbackCollection, error)
	GetCollection(ctx context.Context, id string) (*types.FeedbackCollection, error)
	GetCollectionByAPIKey(ctx context.Context, apiKey string) (*types.FeedbackCollection, error)
	// ListCollections returns a page of collections, newest first, and the
	// total number of collections.
	ListCollections(ctx context.Context, limit, offset int) ([]*types.FeedbackCollection, int, error)
	UpdateCollection(ctx context.Context, id string, update *types.FeedbackCollectionUpdate) (*types.FeedbackCollection, error)
	DeleteCollection(ctx context.Context, id string) error
}

// FeedbackItemStore persists feedback items.
type FeedbackItemStore interface {
	CreateItem(ctx context.Context, item *types.FeedbackItem) (*types.FeedbackItem, error)
	ListItems(ctx context.Context, collectionID string, limit, offset int) ([]*types.FeedbackItem, int, error)
}
