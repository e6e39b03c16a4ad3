package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/campusbites/checkout/internal/gateway"
	"github.com/campusbites/checkout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	mu          sync.Mutex
	createCalls int
	cancelCalls int

	orderID   string
	session   models.GatewaySession
	createErr error
	cancelErr error
}

func (b *stubBackend) CreateOrder(_ context.Context, _ *models.CheckoutOrder) (string, models.GatewaySession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createCalls++
	if b.createErr != nil {
		return "", models.GatewaySession{}, b.createErr
	}
	return b.orderID, b.session, nil
}

func (b *stubBackend) CancelOrder(_ context.Context, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelCalls++
	return b.cancelErr
}

func (b *stubBackend) calls() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createCalls, b.cancelCalls
}

type stubVerifier struct {
	mu          sync.Mutex
	verifyCalls int
	confirmedID string
	err         error
	proof       models.VerificationProof
}

func (v *stubVerifier) Verify(_ context.Context, proof models.VerificationProof, _ string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.verifyCalls++
	v.proof = proof
	if v.err != nil {
		return "", v.err
	}
	return v.confirmedID, nil
}

func (v *stubVerifier) calls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.verifyCalls
}

type stubFees struct{}

func (stubFees) Resolve(_ context.Context, _ string) models.FeeSchedule {
	return models.FeeSchedule{Packaging: 5, Delivery: 50}
}

type stubAttempts struct {
	mu     sync.Mutex
	states map[string][]models.AttemptState
}

func newStubAttempts() *stubAttempts {
	return &stubAttempts{states: map[string][]models.AttemptState{}}
}

func (a *stubAttempts) CreateAttempt(_ context.Context, order *models.CheckoutOrder) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.states[order.OrderID] = append(a.states[order.OrderID], order.State)
	return nil
}

func (a *stubAttempts) UpdateState(_ context.Context, orderID string, state models.AttemptState) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.states[orderID] = append(a.states[orderID], state)
	return nil
}

func (a *stubAttempts) SetConfirmed(_ context.Context, orderID, _ string) error {
	return a.UpdateState(context.Background(), orderID, models.StateConfirmed)
}

func (a *stubAttempts) GetAttempt(_ context.Context, orderID string) (*models.CheckoutOrder, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	states, ok := a.states[orderID]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &models.CheckoutOrder{OrderID: orderID, State: states[len(states)-1]}, nil
}

func (a *stubAttempts) GetAttemptsByState(_ context.Context, state models.AttemptState) ([]models.CheckoutOrder, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	orders := []models.CheckoutOrder{}
	for id, states := range a.states {
		if states[len(states)-1] == state {
			orders = append(orders, models.CheckoutOrder{OrderID: id, State: state})
		}
	}
	return orders, nil
}

func (a *stubAttempts) history(orderID string) []models.AttemptState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.AttemptState{}, a.states[orderID]...)
}

type stubPublisher struct {
	mu     sync.Mutex
	events []models.CheckoutEvent
}

func (p *stubPublisher) PublishCheckoutEvent(_ context.Context, event models.CheckoutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *stubPublisher) published() []models.CheckoutEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.CheckoutEvent{}, p.events...)
}

func validRequest(orderType models.OrderType) *models.CheckoutRequest {
	req := &models.CheckoutRequest{
		Type:           orderType,
		CollectorName:  "Asha",
		CollectorPhone: "9999999999",
		Lines: []models.CartLine{
			{ItemID: "i1", Name: "Masala Dosa", Price: 100, Quantity: 2, Packable: true},
		},
	}
	if orderType == models.OrderTypeDelivery {
		req.Address = "Hostel 4"
	}
	return req
}

func validSession() models.GatewaySession {
	return models.GatewaySession{Key: "rzp_test", OrderRef: "order_gw", Currency: "INR", Amount: 260}
}

type fixture struct {
	svc       *CheckoutService
	backend   *stubBackend
	verifier  *stubVerifier
	attempts  *stubAttempts
	publisher *stubPublisher
}

func newFixture(backend *stubBackend, verifier *stubVerifier) *fixture {
	attempts := newStubAttempts()
	publisher := &stubPublisher{}
	svc := NewCheckoutService(backend, verifier, stubFees{}, gateway.NewAdapter("rzp_test"), attempts, publisher)
	return &fixture{svc: svc, backend: backend, verifier: verifier, attempts: attempts, publisher: publisher}
}

func TestCheckoutValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.CheckoutRequest
	}{
		{
			name: "empty_phone_takeaway",
			req: &models.CheckoutRequest{
				Type:          models.OrderTypeTakeaway,
				CollectorName: "Asha",
				Lines:         []models.CartLine{{ItemID: "i1", Price: 100, Quantity: 1}},
			},
		},
		{
			name: "delivery_without_address",
			req: &models.CheckoutRequest{
				Type:           models.OrderTypeDelivery,
				CollectorName:  "Asha",
				CollectorPhone: "9999999999",
				Lines:          []models.CartLine{{ItemID: "i1", Price: 100, Quantity: 1}},
			},
		},
		{
			name: "empty_name",
			req: &models.CheckoutRequest{
				Type:           models.OrderTypeTakeaway,
				CollectorPhone: "9999999999",
				Lines:          []models.CartLine{{ItemID: "i1", Price: 100, Quantity: 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(&stubBackend{orderID: "ord_1", session: validSession()}, &stubVerifier{})

			_, err := f.svc.Checkout(context.Background(), "u1", tt.req)
			assert.ErrorIs(t, err, models.ErrValidation)

			// local failure: no network call was made
			creates, cancels := f.backend.calls()
			assert.Zero(t, creates)
			assert.Zero(t, cancels)
		})
	}
}

func TestCheckoutSubmitFailure(t *testing.T) {
	f := newFixture(&stubBackend{createErr: models.ErrSubmitFailed}, &stubVerifier{})

	_, err := f.svc.Checkout(context.Background(), "u1", validRequest(models.OrderTypeDelivery))
	assert.ErrorIs(t, err, models.ErrSubmitFailed)

	// allocation failed, so there is nothing to cancel
	_, cancels := f.backend.calls()
	assert.Zero(t, cancels)
}

func TestCheckoutGatewayLaunchFailure(t *testing.T) {
	// backend hands back an unusable session
	f := newFixture(&stubBackend{orderID: "ord_1", session: models.GatewaySession{Key: "rzp_test"}}, &stubVerifier{})

	_, err := f.svc.Checkout(context.Background(), "u1", validRequest(models.OrderTypeTakeaway))
	assert.ErrorIs(t, err, models.ErrGatewayLaunch)

	// the pending order is abandoned: release intent must be expressed
	_, cancels := f.backend.calls()
	assert.Equal(t, 1, cancels)
}

func TestCheckoutConfirmedFlow(t *testing.T) {
	f := newFixture(
		&stubBackend{orderID: "ord_provisional", session: validSession()},
		&stubVerifier{confirmedID: "ord_confirmed"},
	)

	res, err := f.svc.Checkout(context.Background(), "u1", validRequest(models.OrderTypeDelivery))
	require.NoError(t, err)
	assert.Equal(t, "ord_provisional", res.OrderID)
	assert.Equal(t, int64(260), res.Bill.GrandTotal)
	assert.Equal(t, "order_gw", res.Launch.OrderRef)

	proof := models.VerificationProof{
		GatewayOrderRef:   "order_gw",
		GatewayPaymentRef: "pay_1",
		GatewaySignature:  "sig",
	}

	outcome, err := f.svc.DeliverSuccess(context.Background(), "ord_provisional", proof)
	require.NoError(t, err)
	assert.Equal(t, models.StateConfirmed, outcome.State)
	// the authoritative id supersedes the provisional one
	assert.Equal(t, "ord_confirmed", outcome.ConfirmedID)

	assert.Equal(t, 1, f.verifier.calls())
	assert.Equal(t, proof, f.verifier.proof)

	// never Confirmed without passing Verifying first
	assert.Equal(t, []models.AttemptState{
		models.StateAwaitingGateway,
		models.StateVerifying,
		models.StateConfirmed,
	}, f.attempts.history("ord_provisional"))

	events := f.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, "ord_confirmed", events[0].OrderID)
	assert.Equal(t, string(models.StateConfirmed), events[0].Status)
}

func TestCheckoutVerifyFailure(t *testing.T) {
	f := newFixture(
		&stubBackend{orderID: "ord_1", session: validSession()},
		&stubVerifier{err: models.ErrVerifyFailed},
	)

	_, err := f.svc.Checkout(context.Background(), "u1", validRequest(models.OrderTypeTakeaway))
	require.NoError(t, err)

	outcome, err := f.svc.DeliverSuccess(context.Background(), "ord_1", models.VerificationProof{GatewayPaymentRef: "pay_1"})
	require.NoError(t, err)
	assert.Equal(t, models.StateVerifyFailed, outcome.State)
	assert.ErrorIs(t, outcome.Err, models.ErrVerifyFailed)
	assert.Empty(t, outcome.ConfirmedID)
}

func TestCheckoutDismissCancelsOnce(t *testing.T) {
	f := newFixture(&stubBackend{orderID: "ord_1", session: validSession()}, &stubVerifier{})

	_, err := f.svc.Checkout(context.Background(), "u1", validRequest(models.OrderTypeTakeaway))
	require.NoError(t, err)

	outcome, err := f.svc.DeliverDismiss(context.Background(), "ord_1")
	require.NoError(t, err)
	assert.Equal(t, models.StateCancelled, outcome.State)
	assert.NoError(t, outcome.Err)

	_, cancels := f.backend.calls()
	assert.Equal(t, 1, cancels)
	assert.Zero(t, f.verifier.calls())

	events := f.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, string(models.StateCancelled), events[0].Status)
}

func TestCheckoutDismissWithFailedRelease(t *testing.T) {
	f := newFixture(
		&stubBackend{orderID: "ord_1", session: validSession(), cancelErr: models.ErrCancelRelease},
		&stubVerifier{},
	)

	_, err := f.svc.Checkout(context.Background(), "u1", validRequest(models.OrderTypeTakeaway))
	require.NoError(t, err)

	outcome, err := f.svc.DeliverDismiss(context.Background(), "ord_1")
	require.NoError(t, err)

	// still a cancellation for the user, but reported with a caveat
	assert.Equal(t, models.StateCancelFailed, outcome.State)
	assert.ErrorIs(t, outcome.Err, models.ErrCancelRelease)

	_, cancels := f.backend.calls()
	assert.Equal(t, 1, cancels)

	assert.Equal(t, []models.AttemptState{
		models.StateAwaitingGateway,
		models.StateCancelling,
		models.StateCancelFailed,
	}, f.attempts.history("ord_1"))
}

func TestSuccessAfterDismissIsIgnored(t *testing.T) {
	f := newFixture(&stubBackend{orderID: "ord_1", session: validSession()}, &stubVerifier{})

	_, err := f.svc.Checkout(context.Background(), "u1", validRequest(models.OrderTypeTakeaway))
	require.NoError(t, err)

	_, err = f.svc.DeliverDismiss(context.Background(), "ord_1")
	require.NoError(t, err)

	_, err = f.svc.DeliverSuccess(context.Background(), "ord_1", models.VerificationProof{GatewayPaymentRef: "pay_1"})
	assert.True(t, errors.Is(err, models.ErrSessionConsumed) || errors.Is(err, models.ErrSessionNotFound),
		"late success must be refused, got %v", err)

	// no transition to Verifying
	assert.Zero(t, f.verifier.calls())
}

func TestDismissAfterSuccessIsIgnored(t *testing.T) {
	f := newFixture(
		&stubBackend{orderID: "ord_1", session: validSession()},
		&stubVerifier{confirmedID: "ord_confirmed"},
	)

	_, err := f.svc.Checkout(context.Background(), "u1", validRequest(models.OrderTypeTakeaway))
	require.NoError(t, err)

	_, err = f.svc.DeliverSuccess(context.Background(), "ord_1", models.VerificationProof{GatewayPaymentRef: "pay_1"})
	require.NoError(t, err)

	_, err = f.svc.DeliverDismiss(context.Background(), "ord_1")
	assert.True(t, errors.Is(err, models.ErrSessionConsumed) || errors.Is(err, models.ErrSessionNotFound),
		"late dismiss must be refused, got %v", err)

	// verification superseded cancellation: no cancel was issued
	_, cancels := f.backend.calls()
	assert.Zero(t, cancels)
}

func TestDeliverToUnknownOrder(t *testing.T) {
	f := newFixture(&stubBackend{orderID: "ord_1", session: validSession()}, &stubVerifier{})

	_, err := f.svc.DeliverSuccess(context.Background(), "ord_unknown", models.VerificationProof{})
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	_, err = f.svc.DeliverDismiss(context.Background(), "ord_unknown")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestFailedReleasesRetry(t *testing.T) {
	backend := &stubBackend{orderID: "ord_1", session: validSession(), cancelErr: models.ErrCancelRelease}
	f := newFixture(backend, &stubVerifier{})

	_, err := f.svc.Checkout(context.Background(), "u1", validRequest(models.OrderTypeTakeaway))
	require.NoError(t, err)

	_, err = f.svc.DeliverDismiss(context.Background(), "ord_1")
	require.NoError(t, err)

	// backend recovers; the reconciler retries the release
	backend.mu.Lock()
	backend.cancelErr = nil
	backend.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch := make(chan string, 10)
	require.NoError(t, f.svc.FailedReleases(ctx, ch))
	close(ch)

	f.svc.ReleaseOrders(ctx, ch)

	history := f.attempts.history("ord_1")
	assert.Equal(t, models.StateCancelled, history[len(history)-1])
}
