package dns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Defaults for the per-nameserver propagation loop.
const (
	DefaultVerifyInterval = 5 * time.Second
	DefaultVerifyTimeout  = 10 * time.Minute
)

var errNotObserved = errors.New("expected value not observed")

// PropagationVerifier confirms that every authoritative nameserver of a zone
// serves the expected record content, by querying each one directly.
type PropagationVerifier struct {
	provider Provider
	querier  Querier
	interval time.Duration
	timeout  time.Duration
	log      *logrus.Entry
}

// NewPropagationVerifier creates a verifier re-querying every interval until
// timeout. Non-positive durations fall back to the defaults.
func NewPropagationVerifier(provider Provider, querier Querier, interval, timeout time.Duration, log *logrus.Entry) *PropagationVerifier {
	if interval <= 0 {
		interval = DefaultVerifyInterval
	}
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}
	return &PropagationVerifier{provider: provider, querier: querier, interval: interval, timeout: timeout, log: log}
}

// Verify blocks until every nameserver currently delegated for the zone
// returns a record of the given type at fqdn whose value exactly equals
// want. Nameservers are checked in parallel; all must confirm. Returns
// ErrPropagationTimeout when any nameserver runs out of time.
func (v *PropagationVerifier) Verify(ctx context.Context, zone ManagedZone, fqdn, recordType, want string) error {
	if recordType != "TXT" {
		return fmt.Errorf("unsupported record type %q for propagation check", recordType)
	}

	// The nameserver list is re-read from the provider so the check reflects
	// the zone's real delegation, not the snapshot taken before the change.
	nameservers, err := v.provider.ZoneNameservers(ctx, zone)
	if err != nil {
		return fmt.Errorf("failed to fetch nameservers of zone %s: %w", zone.Name, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, ns := range nameservers {
		g.Go(func() error {
			return v.verifyNameserver(gctx, ns, fqdn, want)
		})
	}
	return g.Wait()
}

// verifyNameserver loops query-and-wait against one nameserver until the
// expected value shows up or the deadline passes.
func (v *PropagationVerifier) verifyNameserver(ctx context.Context, nameserver, fqdn, want string) error {
	log := v.log.WithFields(logrus.Fields{"nameserver": nameserver, "record": fqdn})

	attempt := func() error {
		addrs, err := v.querier.LookupHost(ctx, nameserver)
		if err != nil {
			log.WithError(err).Warn("nameserver address lookup failed, retrying")
			return err
		}

		var lastErr error
		for _, addr := range addrs {
			answers, err := v.querier.QueryTXT(ctx, addr, fqdn)
			if err != nil {
				lastErr = err
				continue
			}
			for _, answer := range answers {
				if answer.Value == want {
					log.WithField("ttl", answer.TTL).Debug("expected value observed")
					return nil
				}
			}
			lastErr = errNotObserved
		}
		if lastErr == nil {
			lastErr = errNotObserved
		}
		return lastErr
	}

	if err := backoff.Retry(attempt, fixedRetry(ctx, v.interval, v.timeout)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("verification against %s: %w", nameserver, ctxErr)
		}
		return fmt.Errorf("%w: %s on %s (last result: %v)", ErrPropagationTimeout, fqdn, nameserver, err)
	}
	return nil
}
