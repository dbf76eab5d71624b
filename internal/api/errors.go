package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hublishing/fnsretail-sub001/internal/editor"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

// toHTTPError maps domain errors to HTTP errors. Unknown errors become 500
// with the cause kept as the internal error for logging.
func toHTTPError(err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, editor.ErrInvalidArgument), errors.Is(err, editor.ErrUnknownProduct),
		errors.Is(err, storage.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, editor.ErrSessionClosed):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}
