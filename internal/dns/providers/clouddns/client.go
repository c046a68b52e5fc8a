package clouddns

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/oauth2/google"
	gdns "google.golang.org/api/dns/v1"
	"google.golang.org/api/option"

	"github.com/minimum2scp/acmesmith-google-cloud-dns/internal/dns"
)

// Scope is the OAuth2 scope required to manage Cloud DNS record sets.
const Scope = gdns.NdevClouddnsReadwriteScope

// AuthMethod selects how the control-plane client authenticates.
type AuthMethod string

const (
	// AuthComputeEngine uses Application Default Credentials, typically the
	// instance service account on GCE.
	AuthComputeEngine AuthMethod = "compute_engine"
	// AuthServiceAccount uses a service-account JSON key file.
	AuthServiceAccount AuthMethod = "service_account"
)

// ErrNoAuthMethod is returned when no valid authentication method is
// configured. Fatal, never retried.
var ErrNoAuthMethod = errors.New("no valid authentication method: set compute_engine or service_account with a key file")

// Client implements dns.Provider against the Google Cloud DNS v1 API for a
// single project.
type Client struct {
	svc     *gdns.Service
	project string
}

// NewClient builds an authenticated Cloud DNS client for the project.
func NewClient(ctx context.Context, project string, auth AuthMethod, keyFile string) (*Client, error) {
	if project == "" {
		return nil, errors.New("project id is required")
	}

	var creds *google.Credentials
	var err error
	switch auth {
	case AuthComputeEngine:
		creds, err = google.FindDefaultCredentials(ctx, Scope)
		if err != nil {
			return nil, fmt.Errorf("failed to load default credentials: %w", err)
		}
	case AuthServiceAccount:
		if keyFile == "" {
			return nil, fmt.Errorf("%w: service_account requires a key file", ErrNoAuthMethod)
		}
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account key %s: %w", keyFile, err)
		}
		creds, err = google.CredentialsFromJSON(ctx, data, Scope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account key %s: %w", keyFile, err)
		}
	default:
		return nil, fmt.Errorf("%w (got %q)", ErrNoAuthMethod, auth)
	}

	svc, err := gdns.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud DNS service: %w", err)
	}

	return &Client{svc: svc, project: project}, nil
}

func (c *Client) ListZones(ctx context.Context) ([]dns.ManagedZone, error) {
	var zones []dns.ManagedZone
	err := c.svc.ManagedZones.List(c.project).Pages(ctx, func(resp *gdns.ManagedZonesListResponse) error {
		for _, mz := range resp.ManagedZones {
			zones = append(zones, dns.ManagedZone{
				Name:        mz.Name,
				DNSName:     mz.DnsName,
				Nameservers: mz.NameServers,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list managed zones in project %s: %w", c.project, err)
	}
	return zones, nil
}

func (c *Client) ListRecordSets(ctx context.Context, zone dns.ManagedZone) ([]dns.RecordSet, error) {
	var sets []dns.RecordSet
	err := c.svc.ResourceRecordSets.List(c.project, zone.Name).Pages(ctx, func(resp *gdns.ResourceRecordSetsListResponse) error {
		for _, rrset := range resp.Rrsets {
			sets = append(sets, fromAPIRecordSet(rrset))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list record sets of zone %s: %w", zone.Name, err)
	}
	return sets, nil
}

func (c *Client) CreateChange(ctx context.Context, zone dns.ManagedZone, change dns.Change) (dns.PendingChange, error) {
	apiChange := &gdns.Change{}
	for _, rrset := range change.Deletions {
		apiChange.Deletions = append(apiChange.Deletions, toAPIRecordSet(rrset))
	}
	for _, rrset := range change.Additions {
		apiChange.Additions = append(apiChange.Additions, toAPIRecordSet(rrset))
	}

	created, err := c.svc.Changes.Create(c.project, zone.Name, apiChange).Context(ctx).Do()
	if err != nil {
		return dns.PendingChange{}, fmt.Errorf("failed to create change in zone %s: %w", zone.Name, err)
	}
	return dns.PendingChange{ID: created.Id, Status: created.Status}, nil
}

func (c *Client) GetChange(ctx context.Context, zone dns.ManagedZone, id string) (dns.PendingChange, error) {
	got, err := c.svc.Changes.Get(c.project, zone.Name, id).Context(ctx).Do()
	if err != nil {
		return dns.PendingChange{}, fmt.Errorf("failed to get change %s in zone %s: %w", id, zone.Name, err)
	}
	return dns.PendingChange{ID: got.Id, Status: got.Status}, nil
}

// ZoneNameservers re-reads the zone so verification observes the current
// delegation rather than the snapshot used to build the change.
func (c *Client) ZoneNameservers(ctx context.Context, zone dns.ManagedZone) ([]string, error) {
	mz, err := c.svc.ManagedZones.Get(c.project, zone.Name).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get managed zone %s: %w", zone.Name, err)
	}
	return mz.NameServers, nil
}

// QuoteTXT renders a raw TXT value in the quoted form Cloud DNS uses in
// rrdatas, so equality checks against listed values line up.
func (c *Client) QuoteTXT(value string) string {
	return strconv.Quote(value)
}

func toAPIRecordSet(rrset dns.RecordSet) *gdns.ResourceRecordSet {
	return &gdns.ResourceRecordSet{
		Name:    rrset.Name,
		Type:    rrset.Type,
		Ttl:     rrset.TTL,
		Rrdatas: rrset.Values,
	}
}

func fromAPIRecordSet(rrset *gdns.ResourceRecordSet) dns.RecordSet {
	return dns.RecordSet{
		Name:   rrset.Name,
		Type:   rrset.Type,
		TTL:    rrset.Ttl,
		Values: rrset.Rrdatas,
	}
}
