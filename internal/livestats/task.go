package livestats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"marketplace-be/internal/dashboard"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MessageStats is the message type of a dashboard snapshot.
const MessageStats = "stats"

var ErrAlreadyStarted = errors.New("live stats task already started")

// Snapshotter produces the payload pushed to clients.
type Snapshotter interface {
	Build(ctx context.Context) (dashboard.Snapshot, error)
}

// Broadcaster receives each fresh snapshot.
type Broadcaster interface {
	Broadcast(ctx context.Context, kind string, payload any) error
}

// Task periodically rebuilds the dashboard snapshot and broadcasts it.
// It runs between Start and Stop; Stop cancels a refresh in progress and
// waits for it to return.
type Task struct {
	interval time.Duration
	source   Snapshotter
	out      Broadcaster
	metrics  *metrics.Collector

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	running bool
}

func NewTask(interval time.Duration, source Snapshotter, out Broadcaster, m *metrics.Collector) *Task {
	return &Task{
		interval: interval,
		source:   source,
		out:      out,
		metrics:  m,
	}
}

// Start schedules the refresh every interval. The parent ctx bounds the
// lifetime of every refresh.
func (t *Task) Start(parent context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return ErrAlreadyStarted
	}
	if t.interval <= 0 {
		return fmt.Errorf("invalid stats interval %s", t.interval)
	}

	ctx, cancel := context.WithCancel(parent)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc("@every "+t.interval.String(), func() { _ = t.Refresh(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule live stats: %w", err)
	}
	c.Start()

	t.cron = c
	t.cancel = cancel
	t.running = true

	logger.L().Info("live stats started", zap.Duration("interval", t.interval))
	return nil
}

// Stop is safe to call more than once.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.cancel()
	<-t.cron.Stop().Done()
	t.running = false

	logger.L().Info("live stats stopped")
}

func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Refresh builds one snapshot and broadcasts it.
func (t *Task) Refresh(ctx context.Context) (err error) {
	log := logger.L().With(zap.String("component", "livestats_task"))
	defer func() { t.metrics.ObserveStatsRefresh(err) }()

	snap, err := t.source.Build(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Error("failed to build dashboard snapshot", zap.Error(err))
		}
		return err
	}
	if err = t.out.Broadcast(ctx, MessageStats, snap); err != nil {
		if ctx.Err() == nil {
			log.Warn("failed to broadcast snapshot", zap.Error(err))
		}
		return err
	}
	return nil
}
