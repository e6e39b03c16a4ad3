package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/campusbites/checkout/internal/models"
)

// Client exchanges a gateway proof for a confirmed order state with the
// backend of record.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new Client instance
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type verifyRequest struct {
	GatewayOrderRef   string `json:"gatewayOrderId"`
	GatewayPaymentRef string `json:"gatewayPaymentId"`
	GatewaySignature  string `json:"gatewaySignature"`
	OrderID           string `json:"orderId"`
}

type verifyResponse struct {
	OrderID string `json:"orderId"`
}

// Verify forwards the proof verbatim together with the provisional order id
// and returns the backend-authoritative order id, which may differ. The call
// is made exactly once; retrying without idempotency guarantees from the
// backend risks double-confirmation, so retry policy stays with the caller
// and the backend must keep verification idempotent per payment reference.
func (c *Client) Verify(ctx context.Context, proof models.VerificationProof, orderID string) (string, error) {
	raw, err := json.Marshal(verifyRequest{
		GatewayOrderRef:   proof.GatewayOrderRef,
		GatewayPaymentRef: proof.GatewayPaymentRef,
		GatewaySignature:  proof.GatewaySignature,
		OrderID:           orderID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrVerifyFailed, err)
	}

	// POST /api/payment/verify
	u, err := url.JoinPath(c.baseURL, "api", "payment", "verify")
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrVerifyFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrVerifyFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrVerifyFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: backend returned %d", models.ErrVerifyFailed, resp.StatusCode)
	}

	out := verifyResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrVerifyFailed, err)
	}
	if out.OrderID == "" {
		return "", fmt.Errorf("%w: response has no confirmed order id", models.ErrVerifyFailed)
	}

	return out.OrderID, nil
}
