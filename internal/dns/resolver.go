package dns

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	mdns "github.com/miekg/dns"
)

// DefaultQueryTimeout bounds a single DNS exchange so one unreachable
// nameserver cannot hang the query call itself.
const DefaultQueryTimeout = 5 * time.Second

// NetQuerier implements Querier with direct DNS exchanges (miekg/dns) and
// the system resolver for nameserver addresses.
type NetQuerier struct {
	client   *mdns.Client
	resolver *net.Resolver
}

// NewNetQuerier creates a NetQuerier with the given per-query timeout. A
// non-positive timeout falls back to DefaultQueryTimeout.
func NewNetQuerier(timeout time.Duration) *NetQuerier {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &NetQuerier{
		client:   &mdns.Client{Timeout: timeout},
		resolver: net.DefaultResolver,
	}
}

func (q *NetQuerier) LookupHost(ctx context.Context, host string) ([]string, error) {
	addrs, err := q.resolver.LookupHost(ctx, strings.TrimSuffix(host, "."))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve nameserver %s: %w", host, err)
	}
	return addrs, nil
}

// QueryTXT asks server directly for the TXT record set of fqdn. Recursion is
// not requested; the server is expected to be authoritative for the zone.
func (q *NetQuerier) QueryTXT(ctx context.Context, server, fqdn string) ([]TXTAnswer, error) {
	msg := new(mdns.Msg)
	msg.SetQuestion(mdns.Fqdn(fqdn), mdns.TypeTXT)
	msg.RecursionDesired = false

	in, _, err := q.client.ExchangeContext(ctx, msg, net.JoinHostPort(server, "53"))
	if err != nil {
		return nil, fmt.Errorf("query to %s for %s failed: %w", server, fqdn, err)
	}
	if in.Rcode != mdns.RcodeSuccess {
		return nil, fmt.Errorf("query to %s for %s returned %s", server, fqdn, mdns.RcodeToString[in.Rcode])
	}

	var answers []TXTAnswer
	for _, rr := range in.Answer {
		txt, ok := rr.(*mdns.TXT)
		if !ok {
			continue
		}
		// Long values arrive as multiple character-strings; the logical
		// value is their concatenation.
		answers = append(answers, TXTAnswer{
			TTL:   txt.Hdr.Ttl,
			Value: strings.Join(txt.Txt, ""),
		})
	}
	return answers, nil
}
