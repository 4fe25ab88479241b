package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/order"
	"marketplace-be/internal/utils"

	"go.uber.org/zap"
)

// Callback statuses sent by the payment provider.
const (
	StatusPaid    = "PAID"
	StatusExpired = "EXPIRED"
	StatusFailed  = "FAILED"
)

// maxPayloadBytes caps the callback body, matching the API's request limit.
const maxPayloadBytes = 1 << 20

var ErrInvalidSignature = errors.New("invalid webhook signature")

// WebhookPayload represents the JSON the payment provider sends
type WebhookPayload struct {
	ID         string  `json:"id"`
	ExternalID string  `json:"external_id"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount"`
	PaidAt     string  `json:"paid_at,omitempty"`
}

// Orders is the part of the order service the webhook drives.
type Orders interface {
	Get(ctx context.Context, id string) (order.Order, error)
	MarkPaid(ctx context.Context, id string) (order.Order, error)
	UpdateStatus(ctx context.Context, id string, to order.Status) (order.Order, error)
}

type WebhookHandler struct {
	orders        Orders
	callbackToken string
}

func NewWebhookHandler(orders Orders, callbackToken string) *WebhookHandler {
	return &WebhookHandler{orders: orders, callbackToken: callbackToken}
}

// VerifySignature checks the shared callback token. An empty token skips
// the check (development).
func (h *WebhookHandler) VerifySignature(r *http.Request) error {
	if h.callbackToken == "" {
		return nil
	}
	if r.Header.Get("x-callback-token") != h.callbackToken {
		return ErrInvalidSignature
	}
	return nil
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("layer", "webhook"))

	if err := h.VerifySignature(r); err != nil {
		log.Warn("payment webhook rejected", zap.Error(err))
		utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var payload WebhookPayload
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPayloadBytes)).Decode(&payload); err != nil || payload.ExternalID == "" {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	log = log.With(zap.String("order_id", payload.ExternalID), zap.String("status", payload.Status))

	o, err := h.orders.Get(ctx, payload.ExternalID)
	if err != nil {
		h.fail(w, log, err)
		return
	}

	switch payload.Status {
	case StatusPaid:
		if o.PaymentStatus == order.PaymentPaid {
			log.Info("duplicate payment callback ignored")
			utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		if math.Abs(payload.Amount-o.Total) > 0.5 {
			log.Warn("payment amount mismatch", zap.Float64("amount", payload.Amount), zap.Float64("total", o.Total))
			utils.WriteJSONError(w, "amount does not match order total", http.StatusBadRequest)
			return
		}
		_, err = h.orders.MarkPaid(ctx, o.ID)
	case StatusExpired, StatusFailed:
		if o.Status != order.StatusPending {
			break
		}
		_, err = h.orders.UpdateStatus(ctx, o.ID, order.StatusCancelled)
	default:
		log.Debug("payment callback ignored")
	}

	if err != nil {
		h.fail(w, log, err)
		return
	}

	log.Info("payment callback processed")
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebhookHandler) fail(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, crud.ErrNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, crud.ErrInFlight), errors.Is(err, order.ErrInvalidTransition):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
	default:
		log.Error("failed to update order", zap.Error(err))
		utils.WriteJSONError(w, "failed to update order", http.StatusInternalServerError)
	}
}
