package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mwerner/shiftago/backend/internal/service/game"
)

const defaultInterval = 10 * time.Minute

// Worker periodically drops expired game sessions.
type Worker struct {
	manager  *game.SessionManager
	interval time.Duration
	logger   *zap.SugaredLogger
}

func NewWorker(manager *game.SessionManager, interval time.Duration, logger *zap.SugaredLogger) *Worker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Worker{
		manager:  manager,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until the context is cancelled. An initial sweep happens
// immediately on startup.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Infow("[CLEANUP] Session cleanup started", "interval", w.interval.String())
	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("[CLEANUP] Session cleanup stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *Worker) sweep() {
	if removed := w.manager.CleanupOldSessions(time.Now()); removed > 0 {
		w.logger.Infow("[CLEANUP] Removed expired sessions", "count", removed)
	}
}
