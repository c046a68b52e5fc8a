package acme

import (
	"context"
	"strings"
	"time"

	"github.com/go-acme/lego/v4/challenge/dns01"

	"github.com/minimum2scp/acmesmith-google-cloud-dns/internal/dns"
)

// ChallengeProvider adapts the dns-01 Responder to lego's challenge.Provider
// interface so a lego-driven ACME client can use it directly.
type ChallengeProvider struct {
	responder *dns.Responder
	timeout   time.Duration
	interval  time.Duration
}

// NewChallengeProvider wraps a responder. timeout and interval are the hints
// reported to lego's own propagation pre-check; zero values fall back to the
// responder's verification defaults.
func NewChallengeProvider(responder *dns.Responder, timeout, interval time.Duration) *ChallengeProvider {
	if timeout <= 0 {
		timeout = dns.DefaultVerifyTimeout
	}
	if interval <= 0 {
		interval = dns.DefaultVerifyInterval
	}
	return &ChallengeProvider{responder: responder, timeout: timeout, interval: interval}
}

// Present publishes the challenge TXT record and blocks until it is
// verifiable on the zone's authoritative nameservers.
func (p *ChallengeProvider) Present(domain, token, keyAuth string) error {
	info := dns01.GetChallengeInfo(domain, keyAuth)
	target, ch := splitChallenge(info)
	return p.responder.Respond(context.Background(), target, ch)
}

// CleanUp removes the challenge value, leaving unrelated TXT values at the
// same name untouched.
func (p *ChallengeProvider) CleanUp(domain, token, keyAuth string) error {
	info := dns01.GetChallengeInfo(domain, keyAuth)
	target, ch := splitChallenge(info)
	return p.responder.Cleanup(context.Background(), target, ch)
}

// Timeout tells lego how long its own propagation pre-check may wait. The
// responder has already confirmed the authoritative nameservers by then.
func (p *ChallengeProvider) Timeout() (timeout, interval time.Duration) {
	return p.timeout, p.interval
}

// splitChallenge turns lego's challenge info back into the (domain,
// challenge) pair the responder expects. EffectiveFQDN is used so CNAME
// delegation of the challenge name is honored.
func splitChallenge(info dns01.ChallengeInfo) (string, dns.Challenge) {
	fragment, rest := dns.SplitFirstLabel(dns.CanonicalFQDN(info.EffectiveFQDN))
	return strings.TrimSuffix(rest, "."), dns.Challenge{
		RecordName:    fragment,
		RecordType:    "TXT",
		RecordContent: info.Value,
	}
}
