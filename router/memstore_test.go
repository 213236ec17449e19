package router

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/feedbackx/feedbackx-backend/internal/store"
	"github.com/feedbackx/feedbackx-backend/types"
	"github.com/google/uuid"
)

// memStore is an in-memory CollectionStore and FeedbackItemStore enforcing
// the same uniqueness rules as the database.
type memStore struct {
	mu          sync.Mutex
	collections []*types.FeedbackCollection
	items       []*types.FeedbackItem
}

func (s *memStore) CreateCollection(_ context.Context, c *types.FeedbackCollection) (*types.FeedbackCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.collections {
		switch {
		case existing.Name == c.Name:
			return nil, &store.UniqueViolation{Field: "name", Constraint: "feedback_collections_name_unique"}
		case existing.Key == c.Key:
			return nil, &store.UniqueViolation{Field: "key", Constraint: "feedback_collections_key_unique"}
		}
	}
	out := *c
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now().UTC()
	out.UpdatedAt = out.CreatedAt
	s.collections = append(s.collections, &out)
	return &out, nil
}

func (s *memStore) FindConflicts(_ context.Context, name, key, excludeID string) ([]*types.FeedbackCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.FeedbackCollection
	for _, c := range s.collections {
		if c.ID != excludeID && ((name != "" && c.Name == name) || (key != "" && c.Key == key)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) find(match func(*types.FeedbackCollection) bool) (*types.FeedbackCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.collections {
		if match(c) {
			return c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memStore) GetCollection(_ context.Context, id string) (*types.FeedbackCollection, error) {
	return s.find(func(c *types.FeedbackCollection) bool { return c.ID == id })
}

func (s *memStore) GetCollectionByAPIKey(_ context.Context, apiKey string) (*types.FeedbackCollection, error) {
	return s.find(func(c *types.FeedbackCollection) bool { return c.APIKey == apiKey })
}

func (s *memStore) ListCollections(_ context.Context, limit, offset int) ([]*types.FeedbackCollection, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return page(s.collections, limit, offset), len(s.collections), nil
}

func (s *memStore) UpdateCollection(_ context.Context, id string, update *types.FeedbackCollectionUpdate) (*types.FeedbackCollection, error) {
	return nil, fmt.Errorf("update %s: not supported by memStore", id)
}

func (s *memStore) DeleteCollection(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.collections {
		if c.ID == id {
			s.collections = append(s.collections[:i], s.collections[i+1:]...)
			kept := s.items[:0]
			for _, item := range s.items {
				if item.CollectionID != id {
					kept = append(kept, item)
				}
			}
			s.items = kept
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *memStore) CreateItem(_ context.Context, item *types.FeedbackItem) (*types.FeedbackItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := *item
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now().UTC()
	s.items = append(s.items, &out)
	return &out, nil
}

func (s *memStore) ListItems(_ context.Context, collectionID string, limit, offset int) ([]*types.FeedbackItem, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matching []*types.FeedbackItem
	for _, item := range s.items {
		if item.CollectionID == collectionID {
			matching = append(matching, item)
		}
	}
	return page(matching, limit, offset), len(matching), nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
