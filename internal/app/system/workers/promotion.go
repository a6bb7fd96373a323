// internal/app/system/workers/promotion.go
package workers

import (
	"context"
	"sync"
	"time"

	businessstore "github.com/dalemusser/cercadeti/internal/app/store/businesses"
	pendingbusinessstore "github.com/dalemusser/cercadeti/internal/app/store/pendingbusinesses"
	"go.uber.org/zap"
)

// batchSize caps how many submissions one pass promotes.
const batchSize = 50

// PromotionReconciler is a background worker that finishes approvals whose
// listing was never created, for example when the process died between the
// status flip and the insert.
type PromotionReconciler struct {
	pending    *pendingbusinessstore.Store
	businesses *businessstore.Store
	log        *zap.Logger
	interval   time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewPromotionReconciler creates a new reconciler.
//
// Parameters:
//   - pending: the pending-business store
//   - businesses: the live listing store
//   - logger: zap logger for logging
//   - interval: how often to run a pass (e.g., 1 minute)
func NewPromotionReconciler(pending *pendingbusinessstore.Store, businesses *businessstore.Store, logger *zap.Logger, interval time.Duration) *PromotionReconciler {
	return &PromotionReconciler{
		pending:    pending,
		businesses: businesses,
		log:        logger,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *PromotionReconciler) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("promotion reconciler started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *PromotionReconciler) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("promotion reconciler stopped")
}

func (w *PromotionReconciler) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			w.RunOnce(ctx)
			cancel()
		}
	}
}

// RunOnce promotes one batch and returns how many listings were linked.
func (w *PromotionReconciler) RunOnce(ctx context.Context) int {
	orphans, err := w.pending.ListUnpromoted(ctx, batchSize)
	if err != nil {
		w.log.Error("failed to list unpromoted submissions", zap.Error(err))
		return 0
	}

	linked := 0
	for _, p := range orphans {
		biz, err := w.businesses.CreateFromPending(ctx, p)
		if err != nil {
			w.log.Warn("promotion failed",
				zap.String("document_id", p.DocumentID),
				zap.Error(err))
			continue
		}
		if err := w.pending.LinkBusiness(ctx, p.DocumentID, biz.ID); err != nil {
			w.log.Warn("link business failed",
				zap.String("document_id", p.DocumentID),
				zap.Error(err))
			continue
		}
		linked++
	}

	if linked > 0 {
		w.log.Info("promoted approved submissions", zap.Int("count", linked))
	}
	return linked
}
