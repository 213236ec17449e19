package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/feedbackx/feedbackx-backend/errors"
	"github.com/feedbackx/feedbackx-backend/internal/events"
	"github.com/feedbackx/feedbackx-backend/internal/metrics"
	"github.com/feedbackx/feedbackx-backend/internal/store"
	"github.com/feedbackx/feedbackx-backend/logger"
	"github.com/feedbackx/feedbackx-backend/types"
	"go.uber.org/zap"
)

// ItemService accepts feedback items for collections and lists them.
type ItemService struct {
	items       store.FeedbackItemStore
	collections *CollectionService
	events      events.Publisher
	metrics     *metrics.Metrics
	log         *zap.SugaredLogger
}

func NewItemService(items store.FeedbackItemStore, collections *CollectionService, publisher events.Publisher, m *metrics.Metrics) *ItemService {
	return &ItemService{
		items:       items,
		collections: collections,
		events:      publisher,
		metrics:     m,
		log:         logger.GetLogger(),
	}
}

// Submit validates req.Score against the collection's scale and stores the
// item.
func (s *ItemService) Submit(ctx context.Context, collection *types.FeedbackCollection, req *types.FeedbackItemCreate) (*types.FeedbackItem, error) {
	if msg := collection.Scale.CheckScore(req.Score); msg != "" {
		s.metrics.ItemsRejected.WithLabelValues("score").Inc()
		return nil, apperrors.ValidationFailed(map[string]string{"score": msg})
	}

	var score bytes.Buffer
	if err := json.Compact(&score, req.Score); err != nil {
		return nil, fmt.Errorf("failed to compact score: %w", err)
	}

	created, err := s.items.CreateItem(ctx, &types.FeedbackItem{
		CollectionID: collection.ID,
		Score:        json.RawMessage(score.Bytes()),
		Comment:      req.Comment,
		Metadata:     req.Metadata,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound(collectionEntity, collection.ID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	s.metrics.ItemsSubmitted.WithLabelValues(string(collection.Scale.Kind())).Inc()
	s.log.Debugw("Feedback item stored", "collection_id", collection.ID, "item_id", created.ID)
	events.Emit(ctx, s.events, events.EventTypeItemSubmitted, collection.ID, map[string]any{
		"itemId": created.ID,
		"score":  created.Score,
	})
	return created, nil
}

// List returns a page of items of the collection with collectionID.
func (s *ItemService) List(ctx context.Context, collectionID string, limit, offset int) ([]*types.FeedbackItem, int, error) {
	if _, err := s.collections.Get(ctx, collectionID); err != nil {
		return nil, 0, err
	}
	items, total, err := s.items.ListItems(ctx, collectionID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError(err)
	}
	return items, total, nil
}
