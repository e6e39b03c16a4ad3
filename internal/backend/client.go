package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/campusbites/checkout/internal/models"
	"github.com/google/uuid"
)

// Client talks to the order backend of record. Order allocation and gateway
// session issuance are a single backend-owned operation, so no partial order
// is left orphaned on failure.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new Client instance
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

type orderItem struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

type createOrderRequest struct {
	Receipt        string           `json:"receipt"`
	OrderType      models.OrderType `json:"orderType"`
	CollectorName  string           `json:"collectorName"`
	CollectorPhone string           `json:"collectorPhone"`
	Address        string           `json:"address,omitempty"`
	Items          []orderItem      `json:"items"`
	Amount         int64            `json:"amount"`
}

type createOrderResponse struct {
	OrderID        string `json:"orderId"`
	GatewayOptions struct {
		Key      string `json:"key"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		OrderID  string `json:"order_id"`
	} `json:"gatewayOptions"`
}

// CreateOrder sends the priced order intent to the backend, which allocates
// a pending order and returns its gateway session.
// 201 — order allocated, gateway session issued.
// anything else — submit failure, cart preserved for retry.
func (c *Client) CreateOrder(ctx context.Context, order *models.CheckoutOrder) (string, models.GatewaySession, error) {
	reqBody := createOrderRequest{
		Receipt:        uuid.NewString(),
		OrderType:      order.Type,
		CollectorName:  order.CollectorName,
		CollectorPhone: order.CollectorPhone,
		Address:        order.Address,
		Amount:         order.Bill.GrandTotal,
	}
	for _, line := range order.Lines {
		reqBody.Items = append(reqBody.Items, orderItem{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return "", models.GatewaySession{}, fmt.Errorf("%w: %v", models.ErrSubmitFailed, err)
	}

	// POST /api/orders
	u, err := url.JoinPath(c.baseURL, "api", "orders")
	if err != nil {
		return "", models.GatewaySession{}, fmt.Errorf("%w: %v", models.ErrSubmitFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(raw))
	if err != nil {
		return "", models.GatewaySession{}, fmt.Errorf("%w: %v", models.ErrSubmitFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return "", models.GatewaySession{}, fmt.Errorf("%w: %v", models.ErrSubmitFailed, err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", models.GatewaySession{}, fmt.Errorf("%w: backend returned %d", models.ErrSubmitFailed, resp.StatusCode)
	}

	out := createOrderResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", models.GatewaySession{}, fmt.Errorf("%w: %v", models.ErrSubmitFailed, err)
	}
	if out.OrderID == "" {
		return "", models.GatewaySession{}, fmt.Errorf("%w: backend response has no order id", models.ErrSubmitFailed)
	}

	session := models.GatewaySession{
		Key:      out.GatewayOptions.Key,
		OrderRef: out.GatewayOptions.OrderID,
		Currency: out.GatewayOptions.Currency,
		Amount:   out.GatewayOptions.Amount,
	}

	return out.OrderID, session, nil
}

// CancelOrder asks the backend to cancel a pending order and release any
// held locks. Best-effort: the caller decides what a failure means.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	// POST /api/orders/{orderID}/cancel
	u, err := url.JoinPath(c.baseURL, "api", "orders", orderID, "cancel")
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrCancelRelease, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrCancelRelease, err)
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrCancelRelease, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: backend returned %d", models.ErrCancelRelease, resp.StatusCode)
	}

	return nil
}
