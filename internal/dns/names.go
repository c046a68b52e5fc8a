package dns

import "strings"

// CanonicalFQDN converts a domain to the absolute form used by the Cloud DNS
// API: lowercase, exactly one trailing dot, repeated dots collapsed.
//
// Rules:
// - "example.com"      -> "example.com."
// - "example.com."     -> "example.com."
// - "Example..Com..."  -> "example.com."
func CanonicalFQDN(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))

	labels := make([]string, 0, strings.Count(domain, ".")+1)
	for _, label := range strings.Split(domain, ".") {
		if label != "" {
			labels = append(labels, label)
		}
	}

	return strings.Join(labels, ".") + "."
}

// ChallengeFQDN joins a challenge record name fragment with the domain and
// returns the canonical absolute record name.
//
// Rules:
// - fragment = "_acme-challenge", domain = "example.com"
//   -> "_acme-challenge.example.com."
func ChallengeFQDN(fragment, domain string) string {
	return CanonicalFQDN(fragment + "." + domain)
}

// ZoneContains reports whether the zone apex administers fqdn. The match is
// on whole labels, so zone "example.com." does not contain
// "notexample.com.". Both arguments must already be canonical FQDNs.
func ZoneContains(zoneApex, fqdn string) bool {
	if fqdn == zoneApex {
		return true
	}
	return strings.HasSuffix(fqdn, "."+zoneApex)
}

// SplitFirstLabel splits a canonical FQDN into its first label and the
// remainder. Used to recover (fragment, domain) from a challenge FQDN.
//
// Rules:
// - "_acme-challenge.example.com." -> ("_acme-challenge", "example.com.")
func SplitFirstLabel(fqdn string) (label, rest string) {
	idx := strings.Index(fqdn, ".")
	if idx < 0 {
		return fqdn, ""
	}
	return fqdn[:idx], fqdn[idx+1:]
}
