package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/aleister1102/statuswatch/internal/models"
	"github.com/aleister1102/statuswatch/internal/statuspage"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time {
	return testEpoch
}

func mustSummary(t *testing.T, raw string) statuspage.Summary {
	t.Helper()
	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.UseNumber()
	var summary statuspage.Summary
	require.NoError(t, decoder.Decode(&summary))
	return summary
}

func summaryWithIndicator(indicator string) statuspage.Summary {
	return statuspage.Summary{
		"page":   map[string]any{"id": "kh3m0q7m9g8m"},
		"status": map[string]any{"indicator": indicator},
	}
}

// fakeClock advances its time by the requested duration on every After call.
type fakeClock struct {
	now      time.Time
	waits    []time.Duration
	blocking bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testEpoch}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.waits = append(c.waits, d)
	if c.blocking {
		return nil
	}
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// fakeSource answers each document from a per-call function.
type fakeSource struct {
	summaryFn    func(call int) (statuspage.Summary, error)
	incidentsFn  func(call int) ([]statuspage.Incident, error)
	componentsFn func(call int) ([]statuspage.Component, error)

	summaryCalls   int
	incidentCalls  int
	componentCalls int
}

func (f *fakeSource) Summary(ctx context.Context) (statuspage.Summary, error) {
	f.summaryCalls++
	if f.summaryFn == nil {
		return summaryWithIndicator("none"), nil
	}
	return f.summaryFn(f.summaryCalls)
}

func (f *fakeSource) Incidents(ctx context.Context) ([]statuspage.Incident, error) {
	f.incidentCalls++
	if f.incidentsFn == nil {
		return []statuspage.Incident{}, nil
	}
	return f.incidentsFn(f.incidentCalls)
}

func (f *fakeSource) Components(ctx context.Context) ([]statuspage.Component, error) {
	f.componentCalls++
	if f.componentsFn == nil {
		return []statuspage.Component{}, nil
	}
	return f.componentsFn(f.componentCalls)
}

// changingSummary returns a different summary on every call.
func changingSummary(call int) (statuspage.Summary, error) {
	return summaryWithIndicator(fmt.Sprintf("v%d", call)), nil
}

func timeoutErr(endpoint string) error {
	return fmt.Errorf("%w: %s: context deadline exceeded", statuspage.ErrTransport, endpoint)
}

type recordingSink struct {
	records   []models.NotificationRecord
	err       error
	onDeliver func()
}

func (s *recordingSink) Deliver(ctx context.Context, record models.NotificationRecord) error {
	s.records = append(s.records, record)
	if s.onDeliver != nil {
		s.onDeliver()
	}
	return s.err
}
