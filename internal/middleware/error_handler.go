package middleware

import (
	"errors"
	"net/http"

	jsonres "priceKart/pkg/response"

	"github.com/labstack/echo/v4"
)

var (
	errMissingAuth   = errors.New("Missing authorization header")
	errBadAuthFormat = errors.New("Invalid authorization format")
	errInvalidToken  = errors.New("Invalid token")
)

// ErrorHandler is the echo HTTPErrorHandler: everything that escapes a
// handler becomes the standard error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	label := "INTERNAL_ERROR"
	switch code {
	case http.StatusNotFound:
		label = "NOT_FOUND"
	case http.StatusBadRequest:
		label = "BAD_REQUEST"
	case http.StatusMethodNotAllowed:
		label = "METHOD_NOT_ALLOWED"
	}

	_ = c.JSON(code, jsonres.Error(label, message, nil))
}
