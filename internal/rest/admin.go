package rest

import (
	"net/http"
	"priceKart/domain"
	"priceKart/internal/platform"
	"priceKart/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	registry  *platform.Registry
	validator *validator.Validate
}

func NewAdminHandler(registry *platform.Registry) *AdminHandler {
	return &AdminHandler{
		registry:  registry,
		validator: validator.New(),
	}
}

// GetPlatforms lists each adapter's credential and demo-mode status.
func (h *AdminHandler) GetPlatforms(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.registry.Status()))
}

type PlatformModeRequest struct {
	DemoMode *bool `json:"demo_mode" validate:"required"`
}

// SetPlatformMode forces demo mode on or off for one platform.
func (h *AdminHandler) SetPlatformMode(c echo.Context) error {
	p, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req PlatformModeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.registry.SetDemoMode(p, *req.DemoMode); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	logger.Info("platform demo mode updated", "platform", p, "demo_mode", *req.DemoMode)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.registry.Status()))
}
