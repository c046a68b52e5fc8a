package dns

import "context"

// ManagedZone is a snapshot of a provider-hosted zone. It is fetched per
// operation and never cached across calls.
type ManagedZone struct {
	Name        string   // opaque provider identifier
	DNSName     string   // zone apex as canonical FQDN
	Nameservers []string // delegated nameserver hostnames
}

// RecordSet is the complete set of values for one (name, type) pair. Values
// carry the provider's quoted representation for TXT records.
type RecordSet struct {
	Name   string
	Type   string
	TTL    int64
	Values []string
}

// Challenge describes one dns-01 challenge as handed over by the ACME
// client. RecordContent is the raw, unquoted value to publish.
type Challenge struct {
	RecordName    string // fragment, e.g. "_acme-challenge"
	RecordType    string // always "TXT" for dns-01
	RecordContent string
}

// Change is a record-set diff with replace-set semantics: a deletion removes
// the entire prior RecordSet at its name/type, an addition installs a
// complete replacement.
type Change struct {
	Deletions []RecordSet
	Additions []RecordSet
}

// Empty reports whether the change stages no deletions and no additions.
// The provider rejects a change with neither, so an empty change must not be
// submitted.
func (c Change) Empty() bool {
	return len(c.Deletions) == 0 && len(c.Additions) == 0
}

// Change status values reported by the provider.
const (
	ChangeStatusPending = "pending"
	ChangeStatusDone    = "done"
)

// PendingChange is a submitted change being applied by the provider.
type PendingChange struct {
	ID     string
	Status string
}

// Done reports whether the provider has finished applying the change.
func (c PendingChange) Done() bool {
	return c.Status == ChangeStatusDone
}

// Provider is the DNS control-plane surface this subsystem drives. It is
// constructor-injected and pre-authenticated; implementations live under
// providers/.
type Provider interface {
	// ListZones returns all managed zones of the configured project.
	ListZones(ctx context.Context) ([]ManagedZone, error)

	// ListRecordSets returns every record set of the zone, exhausting
	// pagination.
	ListRecordSets(ctx context.Context, zone ManagedZone) ([]RecordSet, error)

	// CreateChange submits a change against the zone and returns the
	// provider-assigned pending change.
	CreateChange(ctx context.Context, zone ManagedZone, change Change) (PendingChange, error)

	// GetChange fetches the current status of a submitted change.
	GetChange(ctx context.Context, zone ManagedZone, id string) (PendingChange, error)

	// ZoneNameservers returns the zone's current delegated nameservers,
	// re-read from the provider rather than taken from a prior snapshot.
	ZoneNameservers(ctx context.Context, zone ManagedZone) ([]string, error)

	// QuoteTXT returns the provider's quoted representation of a raw TXT
	// value, matching what ListRecordSets returns for the same value.
	QuoteTXT(value string) string
}

// TXTAnswer is one TXT value returned by a direct DNS query.
type TXTAnswer struct {
	TTL   uint32
	Value string
}

// Querier issues direct DNS lookups for propagation verification.
type Querier interface {
	// LookupHost resolves a nameserver hostname to its addresses.
	LookupHost(ctx context.Context, host string) ([]string, error)

	// QueryTXT asks the given server (ip or host, without port) for the TXT
	// record set of fqdn. A single query is bounded by the querier's
	// configured timeout; retries are the caller's concern.
	QueryTXT(ctx context.Context, server, fqdn string) ([]TXTAnswer, error)
}
