package types

import (
	"encoding/json"
	"time"
)

// FeedbackItem is a single score submitted against a collection.
type FeedbackItem struct {
	ID           string
	CollectionID string
	Score        json.RawMessage
	Comment      *string
	Metadata     Metadata
	CreatedAt    time.Time
}

// FeedbackItemCreate is the body of POST /items. Score is a JSON number for
// numeric scales and a JSON string for enum scales.
type FeedbackItemCreate struct {
	Score    json.RawMessage `json:"score" binding:"required"`
	Comment  *string         `json:"comment" binding:"omitempty,max=2000"`
	Metadata Metadata        `json:"metadata"`
}

type FeedbackItemResponse struct {
	ID           string          `json:"id"`
	CollectionID string          `json:"collectionId"`
	Score        json.RawMessage `json:"score"`
	Comment      *string         `json:"comment,omitempty"`
	Metadata     Metadata        `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (i *FeedbackItem) ToResponse() FeedbackItemResponse {
	return FeedbackItemResponse{
		ID:           i.ID,
		CollectionID: i.CollectionID,
		Score:        i.Score,
		Comment:      i.Comment,
		Metadata:     i.Metadata,
		CreatedAt:    i.CreatedAt,
	}
}
