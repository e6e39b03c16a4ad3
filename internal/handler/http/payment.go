package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campusbites/checkout/internal/models"
	"github.com/go-chi/chi/v5"
)

func orderIDParam(r *http.Request) string {
	return chi.URLParam(r, "orderID")
}

type verifyPaymentRequest struct {
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	GatewaySignature string `json:"gatewaySignature"`
	OrderID          string `json:"orderId"`
}

type verifyPaymentResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// VerifyPayment handles the gateway success callback
// 200 — payment verified, authoritative order id returned;
// 400 — malformed request or incomplete proof;
// 401 — caller is not authenticated;
// 402 — verification failed, order remains pending;
// 404 — no active payment session for this order;
// 409 — session already resolved (dismissed or verified);
// 500 — internal error.
func (ch *CheckoutHandler) VerifyPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := getAuthPayload(r.Context(), authPayloadKey); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		req := verifyPaymentRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.OrderID == "" || req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.GatewaySignature == "" {
			http.Error(w, "incomplete verification proof", http.StatusBadRequest)
			return
		}

		proof := models.VerificationProof{
			GatewayOrderRef:   req.GatewayOrderID,
			GatewayPaymentRef: req.GatewayPaymentID,
			GatewaySignature:  req.GatewaySignature,
		}

		outcome, err := ch.svc.DeliverSuccess(r.Context(), req.OrderID, proof)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrSessionNotFound):
				http.Error(w, "no active payment session", http.StatusNotFound)
			case errors.Is(err, models.ErrSessionConsumed):
				http.Error(w, "payment session already resolved", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if outcome.State != models.StateConfirmed {
			// the order is still pending; the caller must not be told it succeeded
			http.Error(w, "payment verification failed", http.StatusPaymentRequired)
			return
		}

		resp := verifyPaymentResponse{
			OrderID: outcome.ConfirmedID,
			Status:  string(models.StateConfirmed),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type cancelOrderResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Detail  string `json:"detail,omitempty"`
}

// CancelOrder handles the gateway dismiss callback
// 200 — payment cancelled, backend locks released;
// 202 — payment cancelled, release failed and is kept for reconciliation;
// 400 — missing order id;
// 401 — caller is not authenticated;
// 404 — no active payment session for this order;
// 409 — session already resolved (verification has begun or finished);
// 500 — internal error.
func (ch *CheckoutHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := getAuthPayload(r.Context(), authPayloadKey); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID := orderIDParam(r)
		if orderID == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		outcome, err := ch.svc.DeliverDismiss(r.Context(), orderID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrSessionNotFound):
				http.Error(w, "no active payment session", http.StatusNotFound)
			case errors.Is(err, models.ErrSessionConsumed):
				http.Error(w, "payment session already resolved", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := cancelOrderResponse{
			OrderID: orderID,
			Status:  string(models.StateCancelled),
		}

		statusCode := http.StatusOK
		if outcome.State == models.StateCancelFailed {
			// cancelled for the user, pending backend-side until reconciled
			statusCode = http.StatusAccepted
			resp.Detail = "payment cancelled, but the order release failed; it will be retried"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
