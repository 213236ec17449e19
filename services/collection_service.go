package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/feedbackx/feedbackx-backend/errors"
	"github.com/feedbackx/feedbackx-backend/internal/auth"
	"github.com/feedbackx/feedbackx-backend/internal/events"
	"github.com/feedbackx/feedbackx-backend/internal/metrics"
	"github.com/feedbackx/feedbackx-backend/internal/store"
	"github.com/feedbackx/feedbackx-backend/logger"
	"github.com/feedbackx/feedbackx-backend/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	NameTakenMessage = "A feedback collection with this name already exists"
	KeyTakenMessage  = "A feedback collection with this key already exists"

	collectionEntity = "Feedback collection"
)

// CollectionService implements the feedback collection workflows on top of a
// CollectionStore.
type CollectionService struct {
	store       store.CollectionStore
	metrics     *metrics.Metrics
	events      events.Publisher
	log         *zap.SugaredLogger
	generateKey func() (string, error)
}

func NewCollectionService(collectionStore store.CollectionStore, publisher events.Publisher, m *metrics.Metrics) *CollectionService {
	return &CollectionService{
		store:       collectionStore,
		metrics:     m,
		events:      publisher,
		log:         logger.GetLogger(),
		generateKey: auth.GenerateAPIKey,
	}
}

// Create stores a new collection with a freshly generated API key.
//
// Name and key must not be used by any existing collection. Every existing
// row matching either is inspected, so a name owned by one collection and a
// key owned by another both get reported. The unique constraints in the
// database remain authoritative: a concurrent create that slips past the
// lookup is reported with the same field issues.
func (s *CollectionService) Create(ctx context.Context, input types.NewCollectionData) (*types.FeedbackCollection, error) {
	matches, err := s.store.FindConflicts(ctx, input.Name, input.Key, "")
	if err != nil {
		return nil, apperrors.NewDatabaseError(fmt.Errorf("failed to check collection uniqueness: %w", err))
	}
	if issues := conflictIssues(matches, input.Name, input.Key); len(issues) > 0 {
		s.recordConflicts(issues)
		return nil, apperrors.InvalidFields(issues)
	}

	apiKey, err := s.generateKey()
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateCollection(ctx, &types.FeedbackCollection{
		Name:        input.Name,
		Key:         input.Key,
		Description: input.Description,
		Scale:       input.Scale,
		Metadata:    input.Metadata,
		APIKey:      apiKey,
	})
	if err != nil {
		if issues := uniqueViolationIssues(err); issues != nil {
			s.log.Infow("Collection create lost a uniqueness race", "name", input.Name, "key", input.Key)
			s.recordConflicts(issues)
			return nil, apperrors.InvalidFields(issues)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	s.metrics.CollectionsCreated.Inc()
	s.log.Infow("Feedback collection created",
		"collection_id", created.ID,
		"key", created.Key,
		"scale", created.Scale.Kind(),
		"api_key", logger.MaskAPIKey(created.APIKey))
	events.Emit(ctx, s.events, events.EventTypeCollectionCreated, created.ID, map[string]any{
		"name":  created.Name,
		"key":   created.Key,
		"scale": created.Scale.Kind(),
	})
	return created, nil
}

// Get returns the collection with id. Unknown or malformed ids are not found.
func (s *CollectionService) Get(ctx context.Context, id string) (*types.FeedbackCollection, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound(collectionEntity, id)
	}
	c, err := s.store.GetCollection(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound(collectionEntity, id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return c, nil
}

// List returns a page of collections and the total count.
func (s *CollectionService) List(ctx context.Context, limit, offset int) ([]*types.FeedbackCollection, int, error) {
	collections, total, err := s.store.ListCollections(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError(err)
	}
	return collections, total, nil
}

// Update applies a partial update. A changed name or key is checked for
// uniqueness against every other collection; the API key never changes.
func (s *CollectionService) Update(ctx context.Context, id string, update *types.FeedbackCollectionUpdate) (*types.FeedbackCollection, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound(collectionEntity, id)
	}

	if update.Name != nil || update.Key != nil {
		var name, key string
		if update.Name != nil {
			name = *update.Name
		}
		if update.Key != nil {
			key = *update.Key
		}
		matches, err := s.store.FindConflicts(ctx, name, key, id)
		if err != nil {
			return nil, apperrors.NewDatabaseError(fmt.Errorf("failed to check collection uniqueness: %w", err))
		}
		if issues := conflictIssues(matches, name, key); len(issues) > 0 {
			s.recordConflicts(issues)
			return nil, apperrors.InvalidFields(issues)
		}
	}

	updated, err := s.store.UpdateCollection(ctx, id, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound(collectionEntity, id)
		}
		if issues := uniqueViolationIssues(err); issues != nil {
			s.recordConflicts(issues)
			return nil, apperrors.InvalidFields(issues)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	s.log.Infow("Feedback collection updated", "collection_id", id)
	return updated, nil
}

// Delete removes the collection and, through the foreign key, its items.
func (s *CollectionService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NotFound(collectionEntity, id)
	}
	if err := s.store.DeleteCollection(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound(collectionEntity, id)
		}
		return apperrors.NewDatabaseError(err)
	}
	s.log.Infow("Feedback collection deleted", "collection_id", id)
	events.Emit(ctx, s.events, events.EventTypeCollectionDeleted, id, nil)
	return nil
}

// ResolveAPIKey returns the collection owning apiKey. Malformed or unknown
// keys are reported as an authentication failure.
func (s *CollectionService) ResolveAPIKey(ctx context.Context, apiKey string) (*types.FeedbackCollection, error) {
	if apiKey == "" {
		return nil, apperrors.Unauthorized("missing_api_key", "Unauthorized")
	}
	if !auth.IsAPIKey(apiKey) {
		return nil, apperrors.Unauthorized("malformed_api_key", "Unauthorized")
	}
	c, err := s.store.GetCollectionByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Unauthorized("unknown_api_key", "Unauthorized")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return c, nil
}

func (s *CollectionService) recordConflicts(issues apperrors.Issues) {
	for field := range issues {
		s.metrics.CollectionConflicts.WithLabelValues(field).Inc()
	}
}

// conflictIssues reports name and key collisions found among matches. An
// empty name or key is never compared.
func conflictIssues(matches []*types.FeedbackCollection, name, key string) apperrors.Issues {
	issues := apperrors.Issues{}
	for _, m := range matches {
		if name != "" && m.Name == name && len(issues["name"]) == 0 {
			issues.Add("name", NameTakenMessage)
		}
		if key != "" && m.Key == key && len(issues["key"]) == 0 {
			issues.Add("key", KeyTakenMessage)
		}
	}
	return issues
}

// uniqueViolationIssues maps a name or key unique violation from the store to
// field issues. It returns nil for any other error.
func uniqueViolationIssues(err error) apperrors.Issues {
	var uv *store.UniqueViolation
	if !errors.As(err, &uv) {
		return nil
	}
	switch uv.Field {
	case "name":
		return apperrors.Issues{"name": {NameTakenMessage}}
	case "key":
		return apperrors.Issues{"key": {KeyTakenMessage}}
	default:
		return nil
	}
}
