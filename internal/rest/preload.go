package rest

import (
	"context"
	"net/http"
	"priceKart/business/preload"
	"priceKart/domain"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type PreloadProductSource interface {
	GetProductByID(ctx context.Context, id uint64) (*domain.Product, error)
}

type PreloadHandler struct {
	preloader *preload.Preloader
	gate      *preload.Gate
	products  PreloadProductSource
	validator *validator.Validate
	timeout   time.Duration
}

func NewPreloadHandler(preloader *preload.Preloader, gate *preload.Gate, products PreloadProductSource) *PreloadHandler {
	return &PreloadHandler{
		preloader: preloader,
		gate:      gate,
		products:  products,
		validator: validator.New(),
		timeout:   10 * time.Second,
	}
}

type PreloadRequest struct {
	ProductIDs []uint64 `json:"product_ids" validate:"required,min=1"`
	Tier       string   `json:"tier" validate:"required,oneof=critical background"`
}

// Schedule warms imagery for the given products. Critical-tier hints come
// back both as Link headers and in the body so the client can inject them.
func (h *PreloadHandler) Schedule(c echo.Context) error {
	var req PreloadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products := make([]domain.Product, 0, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		product, err := h.products.GetProductByID(ctx, id)
		if err != nil {
			// Unknown products are skipped, not fatal: preloading is an
			// optimization.
			continue
		}
		products = append(products, *product)
	}

	hints := h.preloader.Schedule(products, preload.Tier(req.Tier))
	for _, hint := range hints {
		c.Response().Header().Add("Link", hint)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"scheduled": len(products),
		"hints":     hints,
	}))
}

type RegisterCardRequest struct {
	CardID    string `json:"card_id" validate:"required"`
	ForceLoad bool   `json:"force_load"`
}

// RegisterCard adds a card to the viewport gate. The response tells the
// client whether to mount immediately or render the placeholder and report
// visibility later.
func (h *PreloadHandler) RegisterCard(c echo.Context) error {
	var req RegisterCardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	mounted := h.gate.Register(req.CardID, req.ForceLoad)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"card_id":   req.CardID,
		"mounted":   mounted,
		"margin":    h.gate.Margin,
		"threshold": h.gate.Threshold,
	}))
}

// CardVisible is the viewport-intersection signal. The first call mounts the
// card and tears the observation down; repeats are no-ops.
func (h *PreloadHandler) CardVisible(c echo.Context) error {
	cardID := c.Param("card")
	if cardID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "card id is required"})
	}

	fired := h.gate.Trigger(cardID)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"card_id": cardID,
		"fired":   fired,
		"mounted": h.gate.Mounted(cardID),
	}))
}
