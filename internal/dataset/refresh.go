package dataset

import (
	"context"
	"sync"
	"time"

	"masasalarial/internal/log"
)

// Refresher re-runs Load on a fixed interval so the dashboard follows
// source edits without manual reloads. Stop must only be called after
// Start.
type Refresher struct {
	loader   *Loader
	interval time.Duration
	logger   *log.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewRefresher(loader *Loader, interval time.Duration, logger *log.Logger) *Refresher {
	return &Refresher{
		loader:   loader,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentLoader),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the refresh loop. A zero or negative interval disables it.
func (r *Refresher) Start(ctx context.Context) {
	if r.interval <= 0 {
		close(r.done)
		return
	}
	go r.run(ctx)
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.loader.Load(ctx); err != nil {
				r.logger.ErrorContext(ctx, "scheduled refresh failed, keeping previous snapshot",
					log.FieldOperation, log.OpRefresh, log.FieldError, err.Error())
			}
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		}
	}
}

// Stop terminates the loop and waits for it to exit.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}
