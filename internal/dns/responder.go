package dns

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options tunes the responder's record TTL and retry loops. Zero values
// select the package defaults.
type Options struct {
	TTL            int64
	SubmitInterval time.Duration
	SubmitTimeout  time.Duration
	VerifyInterval time.Duration
	VerifyTimeout  time.Duration
}

// Responder satisfies dns-01 challenges against a managed zone: it publishes
// the challenge TXT record, waits for the provider to apply the change, and
// independently confirms the record on the zone's authoritative nameservers.
//
// A Responder holds no state across calls beyond its collaborators.
// Concurrent invocations for different records are safe; calls for the same
// (domain, record name, record type) tuple must be serialized by the caller,
// because the read-modify-write of the current record set is not atomic with
// respect to the provider.
type Responder struct {
	zones     *ZoneResolver
	builder   *ChangeBuilder
	submitter *ChangeSubmitter
	verifier  *PropagationVerifier
	log       *logrus.Entry
}

// NewResponder wires a Responder over the provider control plane and the
// direct-query collaborator.
func NewResponder(provider Provider, querier Querier, opts Options, logger *logrus.Logger) *Responder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	log := logger.WithField("component", "responder")
	return &Responder{
		zones:     NewZoneResolver(provider),
		builder:   NewChangeBuilder(provider, opts.TTL),
		submitter: NewChangeSubmitter(provider, opts.SubmitInterval, opts.SubmitTimeout, log),
		verifier:  NewPropagationVerifier(provider, querier, opts.VerifyInterval, opts.VerifyTimeout, log),
		log:       log,
	}
}

// Respond provisions the challenge TXT record and blocks until every
// authoritative nameserver of the owning zone serves it.
func (r *Responder) Respond(ctx context.Context, domain string, ch Challenge) error {
	log := r.opLog("respond", domain, ch)
	log.Info("responding to dns-01 challenge")

	zone, change, err := r.stage(ctx, domain, ch, ModeRespond)
	if err != nil {
		log.WithError(err).Error("failed to stage challenge record")
		return err
	}

	applied, err := r.submitter.Submit(ctx, zone, change)
	if err != nil {
		log.WithError(err).Error("failed to apply challenge record")
		return err
	}
	log.WithField("change_id", applied.ID).Info("challenge record applied, verifying propagation")

	fqdn := ChallengeFQDN(ch.RecordName, domain)
	// Nameservers answer with the raw value; the quoted form exists only in
	// the control plane.
	if err := r.verifier.Verify(ctx, zone, fqdn, ch.RecordType, ch.RecordContent); err != nil {
		log.WithError(err).Error("propagation verification failed")
		return err
	}

	log.Info("challenge record propagated")
	return nil
}

// Cleanup removes exactly the challenge value, preserving unrelated values
// at the same name and type. No propagation verification: cleanup is done
// once the provider reports the change applied.
func (r *Responder) Cleanup(ctx context.Context, domain string, ch Challenge) error {
	log := r.opLog("cleanup", domain, ch)
	log.Info("cleaning up dns-01 challenge record")

	zone, change, err := r.stage(ctx, domain, ch, ModeCleanup)
	if err != nil {
		log.WithError(err).Error("failed to stage record removal")
		return err
	}

	// The record is already gone, for example after a crashed or repeated
	// cleanup. Nothing to submit.
	if change.Empty() {
		log.Info("challenge record already absent")
		return nil
	}

	applied, err := r.submitter.Submit(ctx, zone, change)
	if err != nil {
		log.WithError(err).Error("failed to apply record removal")
		return err
	}

	log.WithField("change_id", applied.ID).Info("challenge record removed")
	return nil
}

func (r *Responder) stage(ctx context.Context, domain string, ch Challenge, mode Mode) (ManagedZone, Change, error) {
	zone, err := r.zones.Resolve(ctx, domain)
	if err != nil {
		return ManagedZone{}, Change{}, err
	}

	change, err := r.builder.Build(ctx, zone, domain, ch, mode)
	if err != nil {
		return ManagedZone{}, Change{}, err
	}
	return zone, change, nil
}

func (r *Responder) opLog(op, domain string, ch Challenge) *logrus.Entry {
	return r.log.WithFields(logrus.Fields{
		"op":     op,
		"id":     uuid.NewString()[:8],
		"domain": domain,
		"record": ChallengeFQDN(ch.RecordName, domain),
		"type":   ch.RecordType,
	})
}
