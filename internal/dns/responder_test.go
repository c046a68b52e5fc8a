package dns

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func testResponder(provider *fakeProvider, querier Querier) *Responder {
	return NewResponder(provider, querier, Options{
		SubmitInterval: time.Millisecond,
		SubmitTimeout:  time.Second,
		VerifyInterval: time.Millisecond,
		VerifyTimeout:  time.Second,
	}, testLogger())
}

// End-to-end respond followed by cleanup over the fake control plane,
// starting from a zone with no record at the challenge name.
func TestRespondThenCleanup(t *testing.T) {
	provider := &fakeProvider{
		zones:       []ManagedZone{{Name: "example-com", DNSName: "example.com."}},
		nameservers: map[string][]string{"example-com": {"ns1.example.net."}},
	}
	querier := &fakeQuerier{
		addrs: map[string][]string{"ns1.example.net.": {"192.0.2.1"}},
		scripts: map[string][]queryResult{
			"192.0.2.1": {matchAnswer("abc123")},
		},
	}
	responder := testResponder(provider, querier)
	ch := Challenge{RecordName: "_acme-challenge", RecordType: "TXT", RecordContent: "abc123"}

	if err := responder.Respond(context.Background(), "example.com", ch); err != nil {
		t.Fatalf("Respond() returned error: %v", err)
	}

	if len(provider.created) != 1 {
		t.Fatalf("created changes = %d; want 1", len(provider.created))
	}
	published := RecordSet{
		Name:   "_acme-challenge.example.com.",
		Type:   "TXT",
		TTL:    DefaultTTL,
		Values: []string{`"abc123"`},
	}
	expected := Change{Additions: []RecordSet{published}}
	if !reflect.DeepEqual(provider.created[0], expected) {
		t.Errorf("respond change = %+v; want %+v", provider.created[0], expected)
	}

	// Reflect the applied change, then clean up.
	provider.recordSets = map[string][]RecordSet{"example-com": {published}}

	if err := responder.Cleanup(context.Background(), "example.com", ch); err != nil {
		t.Fatalf("Cleanup() returned error: %v", err)
	}

	if len(provider.created) != 2 {
		t.Fatalf("created changes = %d; want 2", len(provider.created))
	}
	expected = Change{Deletions: []RecordSet{published}}
	if !reflect.DeepEqual(provider.created[1], expected) {
		t.Errorf("cleanup change = %+v; want %+v", provider.created[1], expected)
	}
}

func TestRespondZoneNotFound(t *testing.T) {
	provider := &fakeProvider{
		zones: []ManagedZone{{Name: "example-org", DNSName: "example.org."}},
	}
	responder := testResponder(provider, &fakeQuerier{})

	err := responder.Respond(context.Background(), "example.com", Challenge{RecordName: "_acme-challenge", RecordType: "TXT", RecordContent: "abc123"})
	if !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("Respond() error = %v; want ErrZoneNotFound", err)
	}
	if len(provider.created) != 0 {
		t.Errorf("created changes = %d; a failed zone lookup must not submit anything", len(provider.created))
	}
}

func TestRespondPropagationFailureSurfaces(t *testing.T) {
	provider := &fakeProvider{
		zones:       []ManagedZone{{Name: "example-com", DNSName: "example.com."}},
		nameservers: map[string][]string{"example-com": {"ns1.example.net."}},
	}
	querier := &fakeQuerier{
		addrs: map[string][]string{"ns1.example.net.": {"192.0.2.1"}},
		scripts: map[string][]queryResult{
			"192.0.2.1": {{answers: nil}},
		},
	}
	responder := NewResponder(provider, querier, Options{
		SubmitInterval: time.Millisecond,
		SubmitTimeout:  time.Second,
		VerifyInterval: time.Millisecond,
		VerifyTimeout:  20 * time.Millisecond,
	}, testLogger())

	err := responder.Respond(context.Background(), "example.com", Challenge{RecordName: "_acme-challenge", RecordType: "TXT", RecordContent: "abc123"})
	if !errors.Is(err, ErrPropagationTimeout) {
		t.Errorf("Respond() error = %v; want ErrPropagationTimeout", err)
	}
}

func TestCleanupAbsentRecordSubmitsNothing(t *testing.T) {
	provider := &fakeProvider{
		zones: []ManagedZone{{Name: "example-com", DNSName: "example.com."}},
	}
	responder := testResponder(provider, &fakeQuerier{})
	ch := Challenge{RecordName: "_acme-challenge", RecordType: "TXT", RecordContent: "abc123"}

	// First cleanup with no record at the challenge name, then again to
	// mimic a retried cleanup after a crash: both must succeed without
	// submitting an empty change.
	for i := 0; i < 2; i++ {
		if err := responder.Cleanup(context.Background(), "example.com", ch); err != nil {
			t.Fatalf("Cleanup() #%d returned error: %v", i+1, err)
		}
	}
	if len(provider.created) != 0 {
		t.Errorf("created changes = %d; want none when the record is already absent", len(provider.created))
	}
}

func TestCleanupDoesNotVerify(t *testing.T) {
	published := RecordSet{
		Name:   "_acme-challenge.example.com.",
		Type:   "TXT",
		TTL:    5,
		Values: []string{`"abc123"`},
	}
	provider := &fakeProvider{
		zones:      []ManagedZone{{Name: "example-com", DNSName: "example.com."}},
		recordSets: map[string][]RecordSet{"example-com": {published}},
	}
	// A querier with no scripts fails any query; cleanup must never ask.
	querier := &fakeQuerier{}
	responder := testResponder(provider, querier)

	err := responder.Cleanup(context.Background(), "example.com", Challenge{RecordName: "_acme-challenge", RecordType: "TXT", RecordContent: "abc123"})
	if err != nil {
		t.Fatalf("Cleanup() returned error: %v", err)
	}
	if len(querier.served) != 0 {
		t.Errorf("cleanup issued %d DNS queries; want none", len(querier.served))
	}
}
