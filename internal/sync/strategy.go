package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mesalivre/pos-backend/pkg/logger"
	"github.com/mesalivre/pos-backend/pkg/metrics"
)

// Mode selects how a terminal learns about floor changes. Realtime
// deployments push notifications over Redis; constrained ones poll.
type Mode string

const (
	ModePush Mode = "push"
	ModePoll Mode = "poll"
)

// Strategy drives floor refreshes until its context is cancelled.
type Strategy interface {
	Name() string
	Run(ctx context.Context) error
}

// PollStrategy refreshes the full floor state on a fixed interval.
type PollStrategy struct {
	refresher *Refresher
	interval  time.Duration
	metrics   *metrics.POSMetrics
	log       *logger.Logger
}

// NewPollStrategy builds the interval-driven strategy.
func NewPollStrategy(refresher *Refresher, interval time.Duration, m *metrics.POSMetrics, log *logger.Logger) *PollStrategy {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &PollStrategy{refresher: refresher, interval: interval, metrics: m, log: log}
}

func (s *PollStrategy) Name() string { return string(ModePoll) }

// Run refreshes immediately, then on every tick, until ctx is done.
func (s *PollStrategy) Run(ctx context.Context) error {
	s.refresh(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *PollStrategy) refresh(ctx context.Context) {
	if err := s.refresher.RefreshAll(ctx); err != nil {
		s.metrics.IncSyncRefresh(s.Name(), "error")
		s.log.Warn(ctx, "poll refresh failed")
		return
	}
	s.metrics.IncSyncRefresh(s.Name(), "ok")
}

// Subscriber opens Redis subscriptions for change notifications.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// PushStrategy refetches the floor whenever a change lands on the
// notification channel. Notifications carry the restaurant id; other
// restaurants' changes are ignored.
type PushStrategy struct {
	refresher    *Refresher
	sub          Subscriber
	channel      string
	restaurantID uuid.UUID
	metrics      *metrics.POSMetrics
	log          *logger.Logger
}

// NewPushStrategy builds the notification-driven strategy.
func NewPushStrategy(refresher *Refresher, sub Subscriber, channel string, restaurantID uuid.UUID, m *metrics.POSMetrics, log *logger.Logger) *PushStrategy {
	return &PushStrategy{
		refresher:    refresher,
		sub:          sub,
		channel:      channel,
		restaurantID: restaurantID,
		metrics:      m,
		log:          log,
	}
}

func (s *PushStrategy) Name() string { return string(ModePush) }

// Run subscribes and refetches on every relevant notification. The
// initial refresh runs unconditionally so a quiet channel still yields a
// populated floor.
func (s *PushStrategy) Run(ctx context.Context) error {
	pubsub := s.sub.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	s.refresh(ctx)
	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if !s.relevant(msg.Payload) {
				continue
			}
			s.refresh(ctx)
		}
	}
}

func (s *PushStrategy) relevant(payload string) bool {
	// an empty payload is a broadcast
	return payload == "" || payload == s.restaurantID.String()
}

func (s *PushStrategy) refresh(ctx context.Context) {
	if err := s.refresher.RefreshFloor(ctx); err != nil {
		s.metrics.IncSyncRefresh(s.Name(), "error")
		s.log.Warn(ctx, "push refresh failed")
		return
	}
	s.metrics.IncSyncRefresh(s.Name(), "ok")
}

// ReadyPoller refreshes ready-item counts on its own ticker. It runs in
// both modes: kitchen readiness has no change notification.
type ReadyPoller struct {
	refresher *Refresher
	interval  time.Duration
	log       *logger.Logger
}

// NewReadyPoller builds the ready-count ticker.
func NewReadyPoller(refresher *Refresher, interval time.Duration, log *logger.Logger) *ReadyPoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &ReadyPoller{refresher: refresher, interval: interval, log: log}
}

// Run rebuilds the ready map immediately and on every tick.
func (p *ReadyPoller) Run(ctx context.Context) error {
	if err := p.refresher.RefreshReady(ctx); err != nil {
		p.log.Warn(ctx, "ready refresh failed")
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.refresher.RefreshReady(ctx); err != nil {
				p.log.Warn(ctx, "ready refresh failed")
			}
		}
	}
}
