package httpapi

import (
	"context"
	"errors"
	"net/http"

	"marketplace-be/internal/cart"
	"marketplace-be/internal/crud"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/order"
	"marketplace-be/internal/prefs"
	"marketplace-be/internal/product"
	"marketplace-be/internal/report"
	"marketplace-be/internal/seller"
	"marketplace-be/internal/user"
	"marketplace-be/internal/utils"

	"go.uber.org/zap"
)

var (
	errBadRequest      = errors.New("bad request")
	errExportsDisabled = errors.New("export archive is not configured")
	errNoPreferences   = errors.New("preferences are not available for this request")
)

func statusFor(err error) int {
	var verr *crud.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, crud.ErrValidation),
		errors.Is(err, errBadRequest),
		errors.Is(err, cart.ErrCartEmpty),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, prefs.ErrUnsupportedLanguage):
		return http.StatusBadRequest

	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, user.ErrBanned),
		errors.Is(err, order.ErrUnauthorized):
		return http.StatusForbidden

	case errors.Is(err, crud.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		return http.StatusNotFound

	case errors.Is(err, crud.ErrInFlight),
		errors.Is(err, crud.ErrDuplicate),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, seller.ErrInvalidTransition),
		errors.Is(err, report.ErrAlreadyClosed),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, user.ErrAlreadyBanned),
		errors.Is(err, user.ErrNotBanned),
		errors.Is(err, product.ErrInsufficientStock),
		errors.Is(err, product.ErrNotAvailable):
		return http.StatusConflict

	case errors.Is(err, errExportsDisabled):
		return http.StatusServiceUnavailable

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": "..."}; validation errors also carry
// the offending fields.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)

	log := logger.FromCtx(r.Context())
	if code >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		log.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", code), zap.Error(err))
	}

	var verr *crud.ValidationError
	if errors.As(err, &verr) {
		utils.WriteJSON(w, code, map[string]any{"error": verr.Error(), "fields": verr.Fields})
		return
	}
	utils.WriteJSONError(w, err.Error(), code)
}
