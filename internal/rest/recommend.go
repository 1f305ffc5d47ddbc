package rest

import (
	"context"
	"net/http"
	"priceKart/domain"
	"priceKart/pkg/logger"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type RecommendService interface {
	SimilarProducts(ctx context.Context, productID uint64, limit int) ([]domain.Product, error)
}

type RecommendHandler struct {
	service RecommendService
	timeout time.Duration
}

func NewRecommendHandler(service RecommendService) *RecommendHandler {
	return &RecommendHandler{
		service: service,
		timeout: 10 * time.Second,
	}
}

// SimilarProducts returns the price-closest products for a reference item.
// An empty result is the "no similar products" state, not an error.
func (h *RecommendHandler) SimilarProducts(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid limit"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.service.SimilarProducts(ctx, productID, limit)
	if err != nil {
		if err.Error() == "product not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to build recommendations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"count":    len(products),
		"products": products,
	}))
}
