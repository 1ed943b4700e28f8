package rest

import (
	"context"
	"net/http"

	"relatedItems/domain"
	"relatedItems/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type (
	RelatedItemsHandler struct {
		validate *validator.Validate
		service  RelatedItemsService
	}

	RelatedItemsService interface {
		GetRelated(ctx context.Context, baseSKU string, limit int) ([]domain.Association, error)
	}

	RelatedItemsQuery struct {
		N int `query:"n" validate:"omitempty,gt=0"`
	}

	RelatedItemsResponse struct {
		BaseSKU string               `json:"base_sku"`
		Related []domain.Association `json:"related"`
	}
)

func NewRelatedItemsHandler(service RelatedItemsService) *RelatedItemsHandler {
	return &RelatedItemsHandler{
		validate: validator.New(),
		service:  service,
	}
}

func (h *RelatedItemsHandler) GetBySKU(c echo.Context) error {
	baseSKU := c.Param("sku")
	if baseSKU == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing sku"})
	}

	var q RelatedItemsQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	related, err := h.service.GetRelated(c.Request().Context(), baseSKU, q.N)
	if err != nil {
		logger.Error("Failed to get related items", "sku", baseSKU, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	if related == nil {
		related = []domain.Association{}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(RelatedItemsResponse{
		BaseSKU: baseSKU,
		Related: related,
	}))
}
