package gateway

import (
	"fmt"
	"sync"

	"github.com/campusbites/checkout/internal/models"
)

// LaunchParams are the provider options handed to the payment widget.
type LaunchParams struct {
	Key            string `json:"key"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	OrderRef       string `json:"order_id"`
	Description    string `json:"description"`
	PrefillName    string `json:"prefill_name"`
	PrefillContact string `json:"prefill_contact"`
}

// Events is the success/dismiss pair for one gateway launch. The two events
// are mutually exclusive and each launch resolves through at most one of
// them; the first delivery wins and every later delivery is refused.
type Events struct {
	once    sync.Once
	success chan models.VerificationProof
	dismiss chan struct{}
}

func newEvents() *Events {
	return &Events{
		success: make(chan models.VerificationProof, 1),
		dismiss: make(chan struct{}),
	}
}

// Success delivers the gateway success callback with its proof. It reports
// false if the launch has already been resolved by either event.
func (e *Events) Success(proof models.VerificationProof) bool {
	fired := false
	e.once.Do(func() {
		e.success <- proof
		fired = true
	})
	return fired
}

// Dismiss delivers the gateway dismiss callback (user closed the payment UI
// without completing it). It reports false if the launch has already been
// resolved by either event.
func (e *Events) Dismiss() bool {
	fired := false
	e.once.Do(func() {
		close(e.dismiss)
		fired = true
	})
	return fired
}

// SuccessC is the channel the success event arrives on.
func (e *Events) SuccessC() <-chan models.VerificationProof {
	return e.success
}

// DismissC is the channel the dismiss event arrives on.
func (e *Events) DismissC() <-chan struct{} {
	return e.dismiss
}

// Launch is one prepared gateway launch: the widget parameters plus the
// event pair the launch resolves through.
type Launch struct {
	Params LaunchParams
	Events *Events
}

const defaultCurrency = "INR"

// Adapter builds provider launch parameters from gateway sessions.
type Adapter struct {
	keyID string
}

// NewAdapter creates new Adapter instance. keyID is the provider key used
// when the backend session does not carry one.
func NewAdapter(keyID string) *Adapter {
	return &Adapter{keyID: keyID}
}

// Launch consumes a gateway session and returns the widget launch parameters
// together with a fresh event pair. An unusable session is a local launch
// failure, distinct from a user-initiated dismiss.
func (a *Adapter) Launch(session models.GatewaySession, collectorName, collectorPhone string) (*Launch, error) {
	key := session.Key
	if key == "" {
		key = a.keyID
	}
	if key == "" {
		return nil, fmt.Errorf("%w: no gateway key", models.ErrGatewayLaunch)
	}
	if session.OrderRef == "" {
		return nil, fmt.Errorf("%w: session has no order reference", models.ErrGatewayLaunch)
	}
	if session.Amount <= 0 {
		return nil, fmt.Errorf("%w: session amount %d", models.ErrGatewayLaunch, session.Amount)
	}

	currency := session.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	return &Launch{
		Params: LaunchParams{
			Key:            key,
			Amount:         session.Amount,
			Currency:       currency,
			OrderRef:       session.OrderRef,
			Description:    "Complete your payment",
			PrefillName:    collectorName,
			PrefillContact: collectorPhone,
		},
		Events: newEvents(),
	}, nil
}
