package dns

import (
	"context"
	"fmt"
)

// ZoneResolver maps a domain to the most specific managed zone that
// administers it.
type ZoneResolver struct {
	provider Provider
}

// NewZoneResolver creates a ZoneResolver over the given provider.
func NewZoneResolver(provider Provider) *ZoneResolver {
	return &ZoneResolver{provider: provider}
}

// Resolve returns the managed zone with the longest apex that is equal to or
// an ancestor of domain. Returns ErrZoneNotFound if no zone matches; this is
// a hard error, never retried.
func (z *ZoneResolver) Resolve(ctx context.Context, domain string) (ManagedZone, error) {
	fqdn := CanonicalFQDN(domain)

	zones, err := z.provider.ListZones(ctx)
	if err != nil {
		return ManagedZone{}, fmt.Errorf("failed to list managed zones: %w", err)
	}

	var best ManagedZone
	found := false
	for _, zone := range zones {
		apex := CanonicalFQDN(zone.DNSName)
		if !ZoneContains(apex, fqdn) {
			continue
		}
		// Deeper apex wins so sub.example.com beats example.com.
		if !found || len(apex) > len(CanonicalFQDN(best.DNSName)) {
			best = zone
			found = true
		}
	}

	if !found {
		return ManagedZone{}, fmt.Errorf("%w: %s", ErrZoneNotFound, fqdn)
	}
	return best, nil
}
