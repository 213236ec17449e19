package handlers

import (
	"net/http"

	apperrors "github.com/feedbackx/feedbackx-backend/errors"
	"github.com/feedbackx/feedbackx-backend/types"
	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	collectionService CollectionServiceInterface
}

func NewCollectionHandler(collectionService CollectionServiceInterface) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// CreateCollectionHandler handles POST /feedbacks. The response is the only
// place the collection's API key is ever returned.
func (h *CollectionHandler) CreateCollectionHandler(c *gin.Context) {
	var req types.FeedbackCollectionCreate
	if !bindJSONOrError(c, &req) {
		return
	}
	if issues := req.Validate(); issues != nil {
		_ = c.Error(apperrors.InvalidFields(issues))
		return
	}

	created, err := h.collectionService.Create(c.Request.Context(), req.ToData())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, created.ToCreatedResponse())
}

// ListCollectionsHandler handles GET /feedbacks.
func (h *CollectionHandler) ListCollectionsHandler(c *gin.Context) {
	var params types.PaginationParams
	if !bindQueryOrError(c, &params) {
		return
	}

	collections, total, err := h.collectionService.List(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	data := make([]types.FeedbackCollectionResponse, 0, len(collections))
	for _, collection := range collections {
		data = append(data, collection.ToResponse())
	}

	c.JSON(http.StatusOK, types.PaginatedResponse{
		Data: data,
		Pagination: types.Pagination{
			Limit:  params.Limit,
			Offset: params.Offset,
			Total:  total,
		},
	})
}

// GetCollectionHandler handles GET /feedbacks/:id.
func (h *CollectionHandler) GetCollectionHandler(c *gin.Context) {
	collection, err := h.collectionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, collection.ToResponse())
}

// UpdateCollectionHandler handles PATCH /feedbacks/:id.
func (h *CollectionHandler) UpdateCollectionHandler(c *gin.Context) {
	var req types.FeedbackCollectionUpdate
	if !bindJSONOrError(c, &req) {
		return
	}
	if issues := req.Validate(); issues != nil {
		_ = c.Error(apperrors.InvalidFields(issues))
		return
	}

	updated, err := h.collectionService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated.ToResponse())
}

// DeleteCollectionHandler handles DELETE /feedbacks/:id. Items of the
// collection are removed with it.
func (h *CollectionHandler) DeleteCollectionHandler(c *gin.Context) {
	if err := h.collectionService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
