package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campusbites/checkout/internal/gateway"
	"github.com/campusbites/checkout/internal/models"
	"github.com/campusbites/checkout/internal/service"
)

// CheckoutService is the checkout orchestration surface consumed by HTTP
// handlers.
type CheckoutService interface {
	// Checkout submits a priced cart and returns gateway launch parameters
	Checkout(ctx context.Context, userID string, req *models.CheckoutRequest) (*service.CheckoutResult, error)
	// DeliverSuccess routes the gateway success callback to its session
	DeliverSuccess(ctx context.Context, orderID string, proof models.VerificationProof) (service.Outcome, error)
	// DeliverDismiss routes the gateway dismiss callback to its session
	DeliverDismiss(ctx context.Context, orderID string) (service.Outcome, error)
	// Attempt returns the recorded checkout attempt for an order
	Attempt(ctx context.Context, orderID string) (*models.CheckoutOrder, error)
}

// CheckoutHandler represents HTTP handler for checkout-related requests
type CheckoutHandler struct {
	svc CheckoutService
}

// NewCheckoutHandler creates new CheckoutHandler instance
func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type checkoutLine struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
	Packable bool   `json:"packable"`
	Category string `json:"category"`
}

type checkoutRequest struct {
	OrderType      string         `json:"orderType"`
	CollectorName  string         `json:"collectorName"`
	CollectorPhone string         `json:"collectorPhone"`
	Address        string         `json:"address"`
	Items          []checkoutLine `json:"items"`
}

type billResponse struct {
	ItemTotal  int64 `json:"itemTotal"`
	Packaging  int64 `json:"packaging"`
	Delivery   int64 `json:"delivery"`
	GrandTotal int64 `json:"grandTotal"`
}

type checkoutResponse struct {
	OrderID        string               `json:"orderId"`
	Bill           billResponse         `json:"bill"`
	GatewayOptions gateway.LaunchParams `json:"gatewayOptions"`
}

// SubmitCheckout submits a checkout attempt
// 200 — order allocated, gateway launch parameters returned;
// 400 — malformed request or required collector field missing;
// 401 — caller is not authenticated;
// 502 — order backend rejected/unreachable, or gateway could not be launched;
// 500 — internal error.
func (ch *CheckoutHandler) SubmitCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		req := checkoutRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		checkout := models.CheckoutRequest{
			Type:           models.OrderType(req.OrderType),
			CollectorName:  req.CollectorName,
			CollectorPhone: req.CollectorPhone,
			Address:        req.Address,
		}
		for _, item := range req.Items {
			checkout.Lines = append(checkout.Lines, models.CartLine{
				ItemID:   item.ItemID,
				Name:     item.Name,
				Price:    item.Price,
				Quantity: item.Quantity,
				Packable: item.Packable,
				Category: item.Category,
			})
		}

		res, err := ch.svc.Checkout(r.Context(), payload.UserID, &checkout)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrValidation):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, models.ErrSubmitFailed), errors.Is(err, models.ErrGatewayLaunch):
				http.Error(w, err.Error(), http.StatusBadGateway)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := checkoutResponse{
			OrderID: res.OrderID,
			Bill: billResponse{
				ItemTotal:  res.Bill.ItemTotal,
				Packaging:  res.Bill.Packaging,
				Delivery:   res.Bill.Delivery,
				GrandTotal: res.Bill.GrandTotal,
			},
			GatewayOptions: res.Launch,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type orderStatusResponse struct {
	OrderID     string `json:"orderId"`
	ConfirmedID string `json:"confirmedId,omitempty"`
	State       string `json:"state"`
	Amount      int64  `json:"amount"`
}

// GetOrderStatus returns the recorded checkout attempt state
// 200 — attempt found;
// 401 — caller is not authenticated;
// 404 — no attempt recorded for this order id;
// 500 — internal error.
func (ch *CheckoutHandler) GetOrderStatus() http.HandlerFunc {
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

		attempt, err := ch.svc.Attempt(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := orderStatusResponse{
			OrderID:     attempt.OrderID,
			ConfirmedID: attempt.ConfirmedID,
			State:       string(attempt.State),
			Amount:      attempt.Bill.GrandTotal,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
