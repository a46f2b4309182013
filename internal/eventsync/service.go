package eventsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ewms/internal/config"
	"ewms/internal/statedb"
)

const userAgent = "ewms/0.1.0"

const (
	drainBatchSize      = 16
	maxFailuresPerRound = 5
	appendTimeout       = 5 * time.Second
)

// Outbox persists undelivered events between dispatch attempts.
type Outbox interface {
	AppendOutbox(ctx context.Context, eventID, action string, bedID int, payload []byte) error
	PendingOutbox(ctx context.Context, limit int) ([]statedb.OutboxEntry, error)
	MarkOutboxDelivered(ctx context.Context, id int64) error
	MarkOutboxFailed(ctx context.Context, id int64, cause string) error
}

// Service forwards ward transitions to the remote logging endpoint with
// durable, ordered delivery. Dispatch queues; Run drains.
type Service struct {
	endpoint   string
	client     *http.Client
	outbox     Outbox
	logger     *slog.Logger
	interval   time.Duration
	backoffMin time.Duration
	backoffMax time.Duration

	status atomic.Value // Indicator
	wake   chan struct{}
}

// NewService builds the sync service from configuration. Callers wire the
// noop dispatcher instead when sync is disabled.
func NewService(cfg *config.Config, outbox Outbox, logger *slog.Logger) *Service {
	timeout := time.Duration(cfg.Sync.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	interval := time.Duration(cfg.Sync.DrainInterval) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}
	backoffMin := time.Duration(cfg.Sync.RetryBackoffMin) * time.Second
	if backoffMin <= 0 {
		backoffMin = 2 * time.Second
	}
	backoffMax := time.Duration(cfg.Sync.RetryBackoffMax) * time.Second
	if backoffMax < backoffMin {
		backoffMax = backoffMin
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		endpoint:   cfg.Sync.EndpointURL,
		client:     &http.Client{Timeout: timeout},
		outbox:     outbox,
		logger:     logger,
		interval:   interval,
		backoffMin: backoffMin,
		backoffMax: backoffMax,
		wake:       make(chan struct{}, 1),
	}
	s.status.Store(IndicatorOK)
	return s
}

// Status returns the outcome of the most recent delivery activity.
func (s *Service) Status() Indicator {
	if v, ok := s.status.Load().(Indicator); ok {
		return v
	}
	return IndicatorOK
}

// Dispatch queues one event durably and wakes the drain loop. It never
// returns an error: a queue failure is logged and reflected in the status
// indicator, and the caller's transition stands regardless.
func (s *Service) Dispatch(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("encode sync event", slog.String("error", err.Error()))
		s.setStatus(IndicatorFailed)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	if err := s.outbox.AppendOutbox(ctx, uuid.NewString(), string(ev.Action), ev.BedID, payload); err != nil {
		s.logger.Error("queue sync event",
			slog.String("action", string(ev.Action)),
			slog.Int("bed", ev.BedID),
			slog.String("error", err.Error()))
		s.setStatus(IndicatorFailed)
		return
	}

	s.setStatus(IndicatorPending)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run drains the outbox until ctx is cancelled. A single loop is in flight
// at any time, so remote events arrive in transition order even when local
// transitions fire in quick succession.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-ticker.C:
		}
		s.drain(ctx)
	}
}

// drain delivers pending events oldest-first. A failing event is retried
// with growing backoff and blocks everything behind it; after a few
// consecutive failures the round gives up and the next tick tries again.
func (s *Service) drain(ctx context.Context) {
	backoff := s.backoffMin
	failures := 0

	for {
		if ctx.Err() != nil {
			return
		}
		entries, err := s.outbox.PendingOutbox(ctx, drainBatchSize)
		if err != nil {
			s.logger.Error("read sync outbox", slog.String("error", err.Error()))
			s.setStatus(IndicatorFailed)
			return
		}
		if len(entries) == 0 {
			if s.Status() == IndicatorPending {
				s.setStatus(IndicatorOK)
			}
			return
		}

		for _, entry := range entries {
			if err := s.deliver(ctx, entry); err != nil {
				failures++
				s.setStatus(IndicatorFailed)
				s.logger.Warn("sync delivery failed",
					slog.String("event", entry.EventID),
					slog.String("action", entry.Action),
					slog.Int("attempts", entry.Attempts+1),
					slog.String("error", err.Error()))
				if markErr := s.outbox.MarkOutboxFailed(ctx, entry.ID, err.Error()); markErr != nil {
					s.logger.Error("record sync failure", slog.String("error", markErr.Error()))
				}
				if failures >= maxFailuresPerRound {
					return
				}
				select {
				case <-ctx.Done():
					return
				case <-time.After(backoff):
				}
				backoff = min(backoff*2, s.backoffMax)
				break // refetch so the failed event stays at the head
			}

			if err := s.outbox.MarkOutboxDelivered(ctx, entry.ID); err != nil {
				// The event will be re-sent next round; the remote side sees
				// a duplicate rather than a gap.
				s.logger.Error("mark sync delivered", slog.String("error", err.Error()))
			}
			s.setStatus(IndicatorOK)
		}
	}
}

// deliver POSTs one event. The endpoint is write-only: the response body is
// drained and discarded, and only transport-level failures and server
// errors count as failure. Client errors are permanent, so the event is
// logged and dropped rather than retried forever.
func (s *Service) deliver(ctx context.Context, entry statedb.OutboxEntry) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(entry.Payload))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sync event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("sync endpoint returned %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		s.logger.Warn("sync endpoint rejected event",
			slog.String("event", entry.EventID),
			slog.Int("status", resp.StatusCode))
		return nil
	default:
		return nil
	}
}

func (s *Service) setStatus(v Indicator) {
	s.status.Store(v)
}
