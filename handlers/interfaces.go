package handlers

import (
	"context"

	"github.com/feedbackx/feedbackx-backend/types"
)

// CollectionServiceInterface is the subset of services.CollectionService the
// handlers use.
type CollectionServiceInterface interface {
	Create(ctx context.Context, input types.NewCollectionData) (*types.FeedbackCollection, error)
	Get(ctx context.Context, id string) (*types.FeedbackCollection, error)
	List(ctx context.Context, limit, offset int) ([]*types.FeedbackCollection, int, error)
	Update(ctx context.Context, id string, update *types.FeedbackCollectionUpdate) (*types.FeedbackCollection, error)
	Delete(ctx context.Context, id string) error
}

// ItemServiceInterface is the subset of services.ItemService the handlers use.
type ItemServiceInterface interface {
	Submit(ctx context.Context, collection *types.FeedbackCollection, req *types.FeedbackItemCreate) (*types.FeedbackItem, error)
	List(ctx context.Context, collectionID string, limit, offset int) ([]*types.FeedbackItem, int, error)
}
