package dns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Defaults for the change-apply polling loop.
const (
	DefaultSubmitInterval = 5 * time.Second
	DefaultSubmitTimeout  = 5 * time.Minute
)

var errStillPending = errors.New("change still pending")

// ChangeSubmitter submits a change to the provider and polls the change
// status until the provider reports it fully applied.
type ChangeSubmitter struct {
	provider Provider
	interval time.Duration
	timeout  time.Duration
	log      *logrus.Entry
}

// NewChangeSubmitter creates a ChangeSubmitter polling every interval until
// timeout. Non-positive durations fall back to the defaults.
func NewChangeSubmitter(provider Provider, interval, timeout time.Duration, log *logrus.Entry) *ChangeSubmitter {
	if interval <= 0 {
		interval = DefaultSubmitInterval
	}
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	return &ChangeSubmitter{provider: provider, interval: interval, timeout: timeout, log: log}
}

// Submit creates the change and blocks until its status is done, the
// deadline passes (ErrApplyTimeout) or ctx is cancelled.
func (s *ChangeSubmitter) Submit(ctx context.Context, zone ManagedZone, change Change) (PendingChange, error) {
	pending, err := s.provider.CreateChange(ctx, zone, change)
	if err != nil {
		return PendingChange{}, fmt.Errorf("failed to create change in zone %s: %w", zone.Name, err)
	}

	log := s.log.WithFields(logrus.Fields{"zone": zone.Name, "change_id": pending.ID})
	log.WithField("status", pending.Status).Debug("change created")

	if pending.Done() {
		return pending, nil
	}

	poll := func() error {
		got, err := s.provider.GetChange(ctx, zone, pending.ID)
		if err != nil {
			if !retryableProviderError(err) {
				return backoff.Permanent(err)
			}
			log.WithError(err).Warn("change status poll failed, retrying")
			return err
		}
		if !got.Done() {
			return errStillPending
		}
		pending = got
		return nil
	}

	if err := backoff.Retry(poll, fixedRetry(ctx, s.interval, s.timeout)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return PendingChange{}, fmt.Errorf("change %s in zone %s: %w", pending.ID, zone.Name, ctxErr)
		}
		if errors.Is(err, errStillPending) {
			return PendingChange{}, fmt.Errorf("%w: change %s in zone %s", ErrApplyTimeout, pending.ID, zone.Name)
		}
		return PendingChange{}, fmt.Errorf("failed to poll change %s in zone %s: %w", pending.ID, zone.Name, err)
	}

	log.Debug("change applied")
	return pending, nil
}
