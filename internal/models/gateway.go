package models

// GatewaySession is the one-time launch credential issued by the backend of
// record for a specific order amount. It is ephemeral and consumed exactly
// once to launch the gateway widget.
type GatewaySession struct {
	Key      string
	OrderRef string
	Currency string
	Amount   int64
}

// VerificationProof is the gateway's signed evidence that a payment
// completed. Opaque to the checkout core, forwarded verbatim.
type VerificationProof struct {
	GatewayOrderRef   string `json:"gatewayOrderId"`
	GatewayPaymentRef string `json:"gatewayPaymentId"`
	GatewaySignature  string `json:"gatewaySignature"`
}

// TokenPayload is the identity carried by the auth token. Session mechanics
// live outside this service.
type TokenPayload struct {
	UserID string
}
