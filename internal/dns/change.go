package dns

import (
	"context"
	"fmt"
	"slices"
)

// Mode selects which direction a change moves the challenge record.
type Mode string

const (
	ModeRespond Mode = "respond"
	ModeCleanup Mode = "cleanup"
)

// DefaultTTL is the TTL in seconds for published challenge records. It is
// deliberately low to minimize negative-caching delay during verification.
const DefaultTTL = 5

// ChangeBuilder computes the minimal add/delete record-set diff for one
// challenge value. The provider has no value-level update primitive, so the
// builder reads the current set, copies it, mutates the copy and stages a
// whole-set replacement.
type ChangeBuilder struct {
	provider Provider
	ttl      int64
}

// NewChangeBuilder creates a ChangeBuilder publishing records with the given
// TTL. A non-positive ttl falls back to DefaultTTL.
func NewChangeBuilder(provider Provider, ttl int64) *ChangeBuilder {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ChangeBuilder{provider: provider, ttl: ttl}
}

// Build computes the change that adds (ModeRespond) or removes (ModeCleanup)
// the challenge value at <challenge.RecordName>.<domain>, preserving any
// unrelated values that coexist at the same name and type.
func (b *ChangeBuilder) Build(ctx context.Context, zone ManagedZone, domain string, ch Challenge, mode Mode) (Change, error) {
	fqdn := ChallengeFQDN(ch.RecordName, domain)

	current, err := b.findCurrent(ctx, zone, fqdn, ch.RecordType)
	if err != nil {
		return Change{}, err
	}

	// Values are compared in the provider's quoted representation so that
	// dedup and removal by string equality line up with what the provider
	// returned.
	quoted := b.provider.QuoteTXT(ch.RecordContent)

	var change Change
	var values []string
	if current != nil {
		change.Deletions = append(change.Deletions, *current)
		values = slices.Clone(current.Values)
	}

	switch mode {
	case ModeRespond:
		if !slices.Contains(values, quoted) {
			values = append(values, quoted)
		}
		change.Additions = append(change.Additions, RecordSet{
			Name:   fqdn,
			Type:   ch.RecordType,
			TTL:    b.ttl,
			Values: values,
		})

	case ModeCleanup:
		values = slices.DeleteFunc(values, func(v string) bool { return v == quoted })
		// An empty replacement set must not be written: staging no addition
		// leaves the unconditional deletion as the net effect.
		if len(values) > 0 {
			change.Additions = append(change.Additions, RecordSet{
				Name:   fqdn,
				Type:   ch.RecordType,
				TTL:    current.TTL,
				Values: values,
			})
		}

	default:
		return Change{}, fmt.Errorf("unknown change mode %q", mode)
	}

	return change, nil
}

// findCurrent returns the record set at (fqdn, rtype), or nil if the zone
// has none. The listing is exhausted across all pages by the provider.
func (b *ChangeBuilder) findCurrent(ctx context.Context, zone ManagedZone, fqdn, rtype string) (*RecordSet, error) {
	sets, err := b.provider.ListRecordSets(ctx, zone)
	if err != nil {
		return nil, fmt.Errorf("failed to list record sets of zone %s: %w", zone.Name, err)
	}
	for i := range sets {
		if sets[i].Name == fqdn && sets[i].Type == rtype {
			return &sets[i], nil
		}
	}
	return nil, nil
}
