package rest

import (
	"context"
	"net/http"
	"priceKart/business/preload"
	"priceKart/domain"
	"priceKart/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type AggregatorService interface {
	SearchAllPlatforms(ctx context.Context, query string, category domain.Category) []domain.PriceListing
}

type SearchHandler struct {
	aggregator    AggregatorService
	preloader     *preload.Preloader
	criticalCount int
	validator     *validator.Validate
	timeout       time.Duration
}

func NewSearchHandler(aggregator AggregatorService, preloader *preload.Preloader, criticalCount int) *SearchHandler {
	return &SearchHandler{
		aggregator:    aggregator,
		preloader:     preloader,
		criticalCount: criticalCount,
		validator:     validator.New(),
		timeout:       30 * time.Second,
	}
}

type SearchQuery struct {
	Q        string `query:"q" validate:"required"`
	Category string `query:"category" validate:"required,oneof=men women kids"`
}

// Search fans the query out to every platform through the cache/dedup gate.
// Zero listings is a valid empty result, never an error.
func (h *SearchHandler) Search(c echo.Context) error {
	var q SearchQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	traceID := uuid.NewString()
	start := time.Now()

	category, _ := domain.ParseCategory(q.Category)
	listings := h.aggregator.SearchAllPlatforms(ctx, q.Q, category)

	logger.Info("search served",
		"trace_id", traceID,
		"query", q.Q,
		"category", q.Category,
		"listings", len(listings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	// Warm imagery for the above-the-fold results and attach preload hints.
	if h.preloader != nil {
		products := make([]domain.Product, 0, h.criticalCount)
		for i, l := range listings {
			if i >= h.criticalCount {
				break
			}
			products = append(products, domain.Product{ImageURL: l.ImageURL})
		}
		for _, hint := range h.preloader.Schedule(products, preload.TierCritical) {
			c.Response().Header().Add("Link", hint)
		}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"trace_id": traceID,
		"count":    len(listings),
		"listings": listings,
	}))
}
