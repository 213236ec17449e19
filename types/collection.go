package types

import (
	"strings"
	"time"

	apperrors "github.com/feedbackx/feedbackx-backend/errors"
)

const (
	MaxNameLength        = 63
	MaxKeyLength         = 64
	MaxDescriptionLength = 255
)

// Metadata is a free-form JSON object. Only its shape (an object) is checked.
type Metadata map[string]interface{}

// FeedbackCollection is a named, keyed configuration that feedback items are
// scored against. APIKey is generated once at creation and never rendered
// outside the creation response.
type FeedbackCollection struct {
	ID          string
	Name        string
	Key         string
	Description *string
	Scale       ScaleConfig
	Metadata    Metadata
	APIKey      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCollectionData is the already-validated input of a collection create.
type NewCollectionData struct {
	Name        string
	Key         string
	Description *string
	Scale       ScaleConfig
	Metadata    Metadata
}

// FeedbackCollectionCreate is the request body of POST /feedbacks.
type FeedbackCollectionCreate struct {
	Name        string       `json:"name" binding:"required,max=63"`
	Key         string       `json:"key" binding:"required,max=64,urlsafe"`
	Description *string      `json:"description" binding:"omitempty,max=255"`
	Scale       *ScaleConfig `json:"scale" binding:"required"`
	Metadata    Metadata     `json:"metadata"`
}

// Validate checks what the binding tags cannot express and returns the
// issues found, or nil.
func (r *FeedbackCollectionCreate) Validate() apperrors.Issues {
	issues := apperrors.Issues{}
	if strings.TrimSpace(r.Name) == "" {
		issues.Add("name", "must not be blank")
	}
	if r.Scale == nil {
		issues.Add("scale", "is required")
	} else {
		r.Scale.Validate(issues)
	}
	if len(issues) == 0 {
		return nil
	}
	return issues
}

// ToData converts the request into service input.
func (r *FeedbackCollectionCreate) ToData() NewCollectionData {
	data := NewCollectionData{
		Name:        strings.TrimSpace(r.Name),
		Key:         r.Key,
		Description: r.Description,
		Metadata:    r.Metadata,
	}
	if r.Scale != nil {
		data.Scale = *r.Scale
	}
	return data
}

// FeedbackCollectionUpdate is the partial-update body of PATCH /feedbacks/:id.
// Nil fields are left untouched; the API key cannot be changed.
type FeedbackCollectionUpdate struct {
	Name        *string      `json:"name" binding:"omitempty,min=1,max=63"`
	Key         *string      `json:"key" binding:"omitempty,min=1,max=64,urlsafe"`
	Description *string      `json:"description" binding:"omitempty,max=255"`
	Scale       *ScaleConfig `json:"scale"`
	Metadata    *Metadata    `json:"metadata"`
}

func (r *FeedbackCollectionUpdate) Validate() apperrors.Issues {
	issues := apperrors.Issues{}
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			issues.Add("name", "must not be blank")
		}
		r.Name = &trimmed
	}
	if r.Scale != nil {
		r.Scale.Validate(issues)
	}
	if r.IsEmpty() {
		issues.Add("body", "must contain at least one field to update")
	}
	if len(issues) == 0 {
		return nil
	}
	return issues
}

func (r *FeedbackCollectionUpdate) IsEmpty() bool {
	return r.Name == nil && r.Key == nil && r.Description == nil && r.Scale == nil && r.Metadata == nil
}

// FeedbackCollectionResponse is the public rendering of a collection.
type FeedbackCollectionResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Key         string      `json:"key"`
	Description *string     `json:"description,omitempty"`
	Scale       ScaleConfig `json:"scale"`
	Metadata    Metadata    `json:"metadata,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// FeedbackCollectionCreatedResponse is returned once, by the create call, and
// is the only response carrying the API key.
type FeedbackCollectionCreatedResponse struct {
	FeedbackCollectionResponse
	APIKey string `json:"apiKey"`
}

func (c *FeedbackCollection) ToResponse() FeedbackCollectionResponse {
	return FeedbackCollectionResponse{
		ID:          c.ID,
		Name:        c.Name,
		Key:         c.Key,
		Description: c.Description,
		Scale:       c.Scale,
		Metadata:    c.Metadata,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (c *FeedbackCollection) ToCreatedResponse() FeedbackCollectionCreatedResponse {
	return FeedbackCollectionCreatedResponse{
		FeedbackCollectionResponse: c.ToResponse(),
		APIKey:                     c.APIKey,
	}
}
