package worker

import (
	"context"
	"time"

	"github.com/campusbites/checkout/internal/logger"
)

type ReleaseService interface {
	ReleaseOrders(ctx context.Context, orderCh <-chan string)
	FailedReleases(ctx context.Context, orderCh chan<- string) error
}

// ReleaseReconciler retries backend releases for orders whose cancel failed
type ReleaseReconciler struct {
	svc ReleaseService
}

// NewReleaseReconciler creates new release reconciler
func NewReleaseReconciler(svc ReleaseService) *ReleaseReconciler {
	return &ReleaseReconciler{svc: svc}
}

// Run periodically collects failed releases and re-issues the cancel
func (rr *ReleaseReconciler) Run(ctx context.Context) {
	orders := make(chan string, 10)

	go rr.svc.ReleaseOrders(ctx, orders)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("release reconciler is done")
			return
		case <-ticker.C:
			if err := rr.svc.FailedReleases(ctx, orders); err != nil {
				logger.Log.Error("error collecting failed releases")
			}
		}
	}
}
