package handlers

import (
	"net/http"

	apperrors "github.com/feedbackx/feedbackx-backend/errors"
	"github.com/feedbackx/feedbackx-backend/middleware"
	"github.com/feedbackx/feedbackx-backend/types"
	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	itemService ItemServiceInterface
}

func NewItemHandler(itemService ItemServiceInterface) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// SubmitItemHandler handles POST /items. The target collection comes from
// the API key resolved by middleware.APIKeyAuth.
func (h *ItemHandler) SubmitItemHandler(c *gin.Context) {
	collection, ok := middleware.CollectionFromContext(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized("missing_api_key", "Unauthorized"))
		return
	}

	var req types.FeedbackItemCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	item, err := h.itemService.Submit(c.Request.Context(), collection, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, item.ToResponse())
}

// ListItemsHandler handles GET /feedbacks/:id/items.
func (h *ItemHandler) ListItemsHandler(c *gin.Context) {
	var params types.PaginationParams
	if !bindQueryOrError(c, &params) {
		return
	}

	items, total, err := h.itemService.List(c.Request.Context(), c.Param("id"), params.Limit, params.Offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	data := make([]types.FeedbackItemResponse, 0, len(items))
	for _, item := range items {
		data = append(data, item.ToResponse())
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
