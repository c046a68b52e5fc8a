package dns

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

// fakeProvider is an in-memory control plane for tests.
type fakeProvider struct {
	zones       []ManagedZone
	recordSets  map[string][]RecordSet // keyed by zone name
	nameservers map[string][]string    // keyed by zone name

	pollsUntilDone int // GetChange calls before the change reports done

	listZonesErr error
	listSetsErr  error
	createErr    error
	getErr       error

	created  []Change
	getCalls int
}

func (f *fakeProvider) ListZones(ctx context.Context) ([]ManagedZone, error) {
	if f.listZonesErr != nil {
		return nil, f.listZonesErr
	}
	return f.zones, nil
}

func (f *fakeProvider) ListRecordSets(ctx context.Context, zone ManagedZone) ([]RecordSet, error) {
	if f.listSetsErr != nil {
		return nil, f.listSetsErr
	}
	return f.recordSets[zone.Name], nil
}

func (f *fakeProvider) CreateChange(ctx context.Context, zone ManagedZone, change Change) (PendingChange, error) {
	if f.createErr != nil {
		return PendingChange{}, f.createErr
	}
	f.created = append(f.created, change)
	id := fmt.Sprintf("change-%d", len(f.created))
	if f.pollsUntilDone <= 0 {
		return PendingChange{ID: id, Status: ChangeStatusDone}, nil
	}
	return PendingChange{ID: id, Status: ChangeStatusPending}, nil
}

func (f *fakeProvider) GetChange(ctx context.Context, zone ManagedZone, id string) (PendingChange, error) {
	f.getCalls++
	if f.getErr != nil {
		return PendingChange{}, f.getErr
	}
	if f.getCalls >= f.pollsUntilDone {
		return PendingChange{ID: id, Status: ChangeStatusDone}, nil
	}
	return PendingChange{ID: id, Status: ChangeStatusPending}, nil
}

func (f *fakeProvider) ZoneNameservers(ctx context.Context, zone ManagedZone) ([]string, error) {
	return f.nameservers[zone.Name], nil
}

func (f *fakeProvider) QuoteTXT(value string) string {
	return strconv.Quote(value)
}

// queryResult is one scripted answer of a fake nameserver.
type queryResult struct {
	answers []TXTAnswer
	err     error
}

// fakeQuerier plays back a per-server script of query results; the last
// entry repeats once the script is exhausted.
type fakeQuerier struct {
	mu      sync.Mutex
	addrs   map[string][]string      // nameserver host -> addresses
	scripts map[string][]queryResult // server address -> responses in order
	served  map[string]int
}

func (q *fakeQuerier) LookupHost(ctx context.Context, host string) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	addrs, ok := q.addrs[host]
	if !ok {
		return nil, fmt.Errorf("unknown host %s", host)
	}
	return addrs, nil
}

func (q *fakeQuerier) QueryTXT(ctx context.Context, server, fqdn string) ([]TXTAnswer, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.served == nil {
		q.served = make(map[string]int)
	}
	script := q.scripts[server]
	if len(script) == 0 {
		return nil, fmt.Errorf("no script for server %s", server)
	}
	idx := q.served[server]
	if idx >= len(script) {
		idx = len(script) - 1
	}
	q.served[server]++
	res := script[idx]
	return res.answers, res.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testLog() *logrus.Entry {
	return testLogger().WithField("component", "test")
}
