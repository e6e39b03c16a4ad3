package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campusbites/checkout/internal/billing"
	"github.com/campusbites/checkout/internal/gateway"
	"github.com/campusbites/checkout/internal/logger"
	"github.com/campusbites/checkout/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BackendClient allocates and releases orders at the backend of record.
type BackendClient interface {
	// CreateOrder allocates a pending order and returns its gateway session
	CreateOrder(ctx context.Context, order *models.CheckoutOrder) (string, models.GatewaySession, error)
	// CancelOrder releases a pending order and any held locks
	CancelOrder(ctx context.Context, orderID string) error
}

// VerifyClient exchanges a gateway proof for the confirmed order id.
type VerifyClient interface {
	Verify(ctx context.Context, proof models.VerificationProof, orderID string) (string, error)
}

// FeeResolver resolves the fee schedule for a cart owner.
type FeeResolver interface {
	Resolve(ctx context.Context, userID string) models.FeeSchedule
}

// GatewayAdapter prepares gateway launches.
type GatewayAdapter interface {
	Launch(session models.GatewaySession, collectorName, collectorPhone string) (*gateway.Launch, error)
}

// AttemptRepository records checkout attempt state transitions.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, order *models.CheckoutOrder) error
	UpdateState(ctx context.Context, orderID string, state models.AttemptState) error
	SetConfirmed(ctx context.Context, orderID, confirmedID string) error
	GetAttempt(ctx context.Context, orderID string) (*models.CheckoutOrder, error)
	GetAttemptsByState(ctx context.Context, state models.AttemptState) ([]models.CheckoutOrder, error)
}

// EventPublisher publishes terminal checkout outcomes.
type EventPublisher interface {
	PublishCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error
}

// Outcome is the terminal result of a checkout session.
type Outcome struct {
	State       models.AttemptState
	ConfirmedID string
	Err         error
}

// Session is one in-flight checkout orchestration. Sessions are independent:
// nothing is shared between concurrent checkouts except the backend's own
// per-order locks.
type Session struct {
	OrderID string
	UserID  string
	Bill    models.Bill

	events  *gateway.Events
	done    chan struct{}
	outcome Outcome
}

func (s *Session) finish(outcome Outcome) {
	s.outcome = outcome
	close(s.done)
}

// wait blocks until the session reaches a terminal state or ctx is done.
func (s *Session) wait(ctx context.Context) (Outcome, error) {
	select {
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	case <-s.done:
		return s.outcome, nil
	}
}

// CheckoutResult is handed to the caller after a successful submit: the
// provisional order id, the bill, and the gateway launch parameters.
type CheckoutResult struct {
	OrderID string
	Bill    models.Bill
	Launch  gateway.LaunchParams
}

// CheckoutService orchestrates the checkout flow: it prices the cart,
// submits the order intent, launches the payment gateway and reconciles the
// gateway outcome back into a single consistent order state.
type CheckoutService struct {
	backend  BackendClient
	verifier VerifyClient
	fees     FeeResolver
	gateway  GatewayAdapter
	attempts AttemptRepository
	events   EventPublisher

	mu       sync.Mutex
	sessions map[string]*Session

	closeOnce sync.Once
	closing   chan struct{}
}

// NewCheckoutService creates new CheckoutService instance
func NewCheckoutService(backend BackendClient, verifier VerifyClient, fees FeeResolver, gw GatewayAdapter, attempts AttemptRepository, events EventPublisher) *CheckoutService {
	return &CheckoutService{
		backend:  backend,
		verifier: verifier,
		fees:     fees,
		gateway:  gw,
		attempts: attempts,
		events:   events,
		sessions: map[string]*Session{},
		closing:  make(chan struct{}),
	}
}

// Checkout turns a priced cart into a pending order awaiting payment.
// Validation is local and runs before any network call. A repeated checkout
// for the same cart allocates a new order rather than reusing a stale
// gateway session.
func (cs *CheckoutService) Checkout(ctx context.Context, userID string, req *models.CheckoutRequest) (*CheckoutResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	schedule := cs.fees.Resolve(ctx, userID)

	bill, err := billing.Calculate(req.Lines, schedule, req.Type)
	if err != nil {
		return nil, err
	}

	order := &models.CheckoutOrder{
		UserID:         userID,
		Type:           req.Type,
		CollectorName:  req.CollectorName,
		CollectorPhone: req.CollectorPhone,
		Address:        req.Address,
		Lines:          req.Lines,
		Bill:           bill,
		State:          models.StateSubmitting,
	}

	orderID, gwSession, err := cs.backend.CreateOrder(ctx, order)
	if err != nil {
		logger.Log.Error("order submit failed", zap.Error(err))
		if !errors.Is(err, models.ErrSubmitFailed) {
			err = fmt.Errorf("%w: %v", models.ErrSubmitFailed, err)
		}
		return nil, err
	}
	order.OrderID = orderID
	order.State = models.StateAwaitingGateway

	// attempt records feed the status endpoint and reconciliation; failing
	// to write one must not fail the checkout
	if err := cs.attempts.CreateAttempt(ctx, order); err != nil {
		logger.Log.Error("record checkout attempt", zap.String("order", orderID), zap.Error(err))
	}

	launch, err := cs.gateway.Launch(gwSession, req.CollectorName, req.CollectorPhone)
	if err != nil {
		logger.Log.Error("gateway launch failed", zap.String("order", orderID), zap.Error(err))
		// the gateway never opened, so the pending order is abandoned:
		// express the release intent right away
		cs.release(context.WithoutCancel(ctx), orderID)
		if !errors.Is(err, models.ErrGatewayLaunch) {
			err = fmt.Errorf("%w: %v", models.ErrGatewayLaunch, err)
		}
		return nil, err
	}

	session := &Session{
		OrderID: orderID,
		UserID:  userID,
		Bill:    bill,
		events:  launch.Events,
		done:    make(chan struct{}),
	}
	cs.register(session)

	go cs.await(session)

	logger.Log.Info("order awaiting gateway",
		zap.String("order", orderID),
		zap.Int64("amount", bill.GrandTotal))

	return &CheckoutResult{
		OrderID: orderID,
		Bill:    bill,
		Launch:  launch.Params,
	}, nil
}

// DeliverSuccess routes the gateway success callback to its session and
// waits for the terminal outcome. Once a success has been accepted,
// verification supersedes cancellation: a later dismiss is refused.
func (cs *CheckoutService) DeliverSuccess(ctx context.Context, orderID string, proof models.VerificationProof) (Outcome, error) {
	session, ok := cs.session(orderID)
	if !ok {
		return Outcome{}, models.ErrSessionNotFound
	}

	if !session.events.Success(proof) {
		return Outcome{}, models.ErrSessionConsumed
	}

	return session.wait(ctx)
}

// DeliverDismiss routes the gateway dismiss callback to its session and
// waits for the terminal outcome. A dismiss after an accepted success is
// ignored: there is no going back once verification has started.
func (cs *CheckoutService) DeliverDismiss(ctx context.Context, orderID string) (Outcome, error) {
	session, ok := cs.session(orderID)
	if !ok {
		return Outcome{}, models.ErrSessionNotFound
	}

	if !session.events.Dismiss() {
		return Outcome{}, models.ErrSessionConsumed
	}

	return session.wait(ctx)
}

// Attempt returns the recorded checkout attempt for an order
func (cs *CheckoutService) Attempt(ctx context.Context, orderID string) (*models.CheckoutOrder, error) {
	return cs.attempts.GetAttempt(ctx, orderID)
}

// Close releases suspended sessions on shutdown.
func (cs *CheckoutService) Close() {
	cs.closeOnce.Do(func() {
		close(cs.closing)
	})
}

// await suspends on the session's event pair. The core imposes no timeout:
// the gateway UI may stay open indefinitely, and the only ways out are
// success, dismiss, or service shutdown.
func (cs *CheckoutService) await(session *Session) {
	defer cs.unregister(session.OrderID)

	select {
	case proof := <-session.events.SuccessC():
		cs.verifyPayment(session, proof)
	case <-session.events.DismissC():
		cs.cancelOrder(session)
	case <-cs.closing:
	}
}

func (cs *CheckoutService) verifyPayment(session *Session, proof models.VerificationProof) {
	ctx := context.Background()

	cs.setState(ctx, session.OrderID, models.StateVerifying)

	confirmedID, err := cs.verifier.Verify(ctx, proof, session.OrderID)
	if err != nil {
		// the order remains pendingPayment backend-side; the caller must
		// not be told the order succeeded
		logger.Log.Error("payment verification failed",
			zap.String("order", session.OrderID), zap.Error(err))
		cs.setState(ctx, session.OrderID, models.StateVerifyFailed)
		if !errors.Is(err, models.ErrVerifyFailed) {
			err = fmt.Errorf("%w: %v", models.ErrVerifyFailed, err)
		}
		session.finish(Outcome{State: models.StateVerifyFailed, Err: err})
		return
	}

	if err := cs.attempts.SetConfirmed(ctx, session.OrderID, confirmedID); err != nil {
		logger.Log.Error("record confirmed attempt",
			zap.String("order", session.OrderID), zap.Error(err))
	}

	cs.publish(ctx, session, confirmedID, string(models.StateConfirmed))

	logger.Log.Info("order confirmed",
		zap.String("order", session.OrderID),
		zap.String("confirmed", confirmedID))

	session.finish(Outcome{State: models.StateConfirmed, ConfirmedID: confirmedID})
}

func (cs *CheckoutService) cancelOrder(session *Session) {
	ctx := context.Background()

	cs.setState(ctx, session.OrderID, models.StateCancelling)

	state := cs.release(ctx, session.OrderID)

	cs.publish(ctx, session, "", string(models.StateCancelled))

	if state == models.StateCancelFailed {
		// user-visible outcome is still "payment cancelled, retry
		// available", but with a caveat so operators can reconcile the
		// pending order
		session.finish(Outcome{
			State: state,
			Err:   fmt.Errorf("%w: order %s left pending", models.ErrCancelRelease, session.OrderID),
		})
		return
	}

	session.finish(Outcome{State: models.StateCancelled})
}

// release issues the backend cancel exactly once and records the result. It
// returns the resulting attempt state.
func (cs *CheckoutService) release(ctx context.Context, orderID string) models.AttemptState {
	if err := cs.backend.CancelOrder(ctx, orderID); err != nil {
		logger.Log.Warn("cancel release failed, order left pending for reconciliation",
			zap.String("order", orderID), zap.Error(err))
		cs.setState(ctx, orderID, models.StateCancelFailed)
		return models.StateCancelFailed
	}

	cs.setState(ctx, orderID, models.StateCancelled)

	logger.Log.Info("order cancelled", zap.String("order", orderID))

	return models.StateCancelled
}

// FailedReleases writes order ids whose release failed to ch for retry
func (cs *CheckoutService) FailedReleases(ctx context.Context, ch chan<- string) error {
	orders, err := cs.attempts.GetAttemptsByState(ctx, models.StateCancelFailed)
	if err != nil {
		return err
	}

	for _, order := range orders {
		ch <- order.OrderID
	}

	return nil
}

// ReleaseOrders re-issues the backend cancel for order ids read from ch
func (cs *CheckoutService) ReleaseOrders(ctx context.Context, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("release retry is done")
			return
		case orderID, ok := <-ch:
			if !ok {
				return
			}
			cs.release(ctx, orderID)
		}
	}
}

func (cs *CheckoutService) publish(ctx context.Context, session *Session, confirmedID, status string) {
	orderID := session.OrderID
	if confirmedID != "" {
		orderID = confirmedID
	}

	event := models.CheckoutEvent{
		EventID:    uuid.NewString(),
		OrderID:    orderID,
		UserID:     session.UserID,
		Status:     status,
		Amount:     session.Bill.GrandTotal,
		OccurredAt: time.Now().UTC(),
	}

	if err := cs.events.PublishCheckoutEvent(ctx, event); err != nil {
		logger.Log.Error("publish checkout event",
			zap.String("order", orderID), zap.Error(err))
	}
}

func (cs *CheckoutService) setState(ctx context.Context, orderID string, state models.AttemptState) {
	if err := cs.attempts.UpdateState(ctx, orderID, state); err != nil {
		logger.Log.Error("update attempt state",
			zap.String("order", orderID),
			zap.String("state", string(state)),
			zap.Error(err))
	}
}

func (cs *CheckoutService) register(session *Session) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.sessions[session.OrderID] = session
}

func (cs *CheckoutService) unregister(orderID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.sessions, orderID)
}

func (cs *CheckoutService) session(orderID string) (*Session, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	session, ok := cs.sessions[orderID]
	return session, ok
}
