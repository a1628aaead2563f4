package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aleister1102/statuswatch/internal/statuspage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(source StatusSource, sink *recordingSink, clock *fakeClock) *Scheduler {
	return NewScheduler(SchedulerOptions{Clock: clock}, source, sink, zerolog.Nop())
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(SchedulerOptions{}, &fakeSource{}, &recordingSink{}, zerolog.Nop())

	assert.Equal(t, CadenceNormal, s.Cadence())
	assert.Equal(t, DefaultNormalInterval, s.Interval())
	assert.False(t, s.ActiveIncident())
	assert.Equal(t, "normal", CadenceNormal.String())
	assert.Equal(t, "incident", CadenceIncident.String())
}

func TestScheduler_UnchangedSummarySkipsDetails(t *testing.T) {
	source := &fakeSource{}
	sink := &recordingSink{}
	s := newTestScheduler(source, sink, newFakeClock())

	require.NoError(t, s.RunCycle(context.Background()))
	assert.Equal(t, 1, source.incidentCalls)
	assert.Equal(t, 1, source.componentCalls)

	require.NoError(t, s.RunCycle(context.Background()))
	assert.Equal(t, 2, source.summaryCalls)
	assert.Equal(t, 1, source.incidentCalls)
	assert.Equal(t, 1, source.componentCalls)
	assert.Empty(t, sink.records)
	assert.Equal(t, CycleStats{Cycles: 2, InspectedCycles: 1}, s.Stats())
}

func TestScheduler_IncidentAppearsScenario(t *testing.T) {
	source := &fakeSource{
		summaryFn: changingSummary,
		incidentsFn: func(call int) ([]statuspage.Incident, error) {
			if call == 1 {
				return []statuspage.Incident{}, nil
			}
			return []statuspage.Incident{{
				ID:              "I1",
				Status:          "investigating",
				Impact:          "major",
				IncidentUpdates: []statuspage.IncidentUpdate{{Body: "Elevated errors on chat completions"}},
				Components:      []statuspage.AffectedComponent{{Name: "Chat Completions"}},
			}}, nil
		},
	}
	sink := &recordingSink{}
	clock := newFakeClock()
	s := newTestScheduler(source, sink, clock)

	require.NoError(t, s.RunCycle(context.Background()))
	assert.Empty(t, sink.records)
	assert.Equal(t, 60*time.Second, s.Interval())

	require.NoError(t, s.RunCycle(context.Background()))
	require.Len(t, sink.records, 1)
	assert.Equal(t, "OpenAI API - Chat Completions", sink.records[0].Product)
	assert.Equal(t, "Major - Investigating", sink.records[0].Status)
	assert.Equal(t, "Elevated errors on chat completions", sink.records[0].Message)
	assert.Equal(t, "I1", sink.records[0].IncidentID)
	assert.Equal(t, CadenceIncident, s.Cadence())
	assert.Equal(t, 15*time.Second, s.Interval())

	require.NoError(t, s.RunCycle(context.Background()))
	assert.Len(t, sink.records, 1, "same incident id must not be reported again")
}

func TestScheduler_ComponentDegradationScenario(t *testing.T) {
	source := &fakeSource{
		summaryFn: changingSummary,
		componentsFn: func(call int) ([]statuspage.Component, error) {
			if call == 1 {
				return component("operational"), nil
			}
			return component("degraded_performance"), nil
		},
	}
	sink := &recordingSink{}
	s := newTestScheduler(source, sink, newFakeClock())

	for i := 0; i < 3; i++ {
		require.NoError(t, s.RunCycle(context.Background()))
	}

	require.Len(t, sink.records, 1)
	assert.Equal(t, "OpenAI API - Embeddings", sink.records[0].Product)
	assert.Equal(t, "Degraded Performance", sink.records[0].Status)
	assert.Equal(t, "Service status changed to: degraded performance", sink.records[0].Message)
}

func TestScheduler_IncidentRecordsPrecedeComponentRecords(t *testing.T) {
	source := &fakeSource{
		incidentsFn: func(int) ([]statuspage.Incident, error) {
			return []statuspage.Incident{{ID: "I1", Status: "identified", Impact: "minor"}}, nil
		},
		componentsFn: func(int) ([]statuspage.Component, error) {
			return component("partial_outage"), nil
		},
	}
	sink := &recordingSink{}
	s := newTestScheduler(source, sink, newFakeClock())

	require.NoError(t, s.RunCycle(context.Background()))

	require.Len(t, sink.records, 2)
	assert.Equal(t, "I1", sink.records[0].IncidentID)
	assert.Empty(t, sink.records[1].IncidentID)
	assert.Equal(t, 2, s.Stats().Notifications)
}

func TestScheduler_SummaryTimeoutKeepsFingerprint(t *testing.T) {
	source := &fakeSource{
		summaryFn: func(call int) (statuspage.Summary, error) {
			switch call {
			case 2:
				return nil, timeoutErr(statuspage.EndpointSummary)
			case 3:
				return summaryWithIndicator("minor"), nil
			default:
				return summaryWithIndicator("none"), nil
			}
		},
	}
	sink := &recordingSink{}
	s := newTestScheduler(source, sink, newFakeClock())

	require.NoError(t, s.RunCycle(context.Background()))
	fingerprint := s.detector.Current()

	require.NoError(t, s.RunCycle(context.Background()))
	assert.Equal(t, fingerprint, s.detector.Current())
	assert.Equal(t, 1, source.incidentCalls)
	assert.Equal(t, 1, s.Stats().TransportFailures)

	require.NoError(t, s.RunCycle(context.Background()))
	assert.Equal(t, 2, source.incidentCalls, "change is measured against the fingerprint before the timeout")
	assert.NotEqual(t, fingerprint, s.detector.Current())
}

func TestScheduler_IncidentFailureDoesNotBlockComponents(t *testing.T) {
	source := &fakeSource{
		incidentsFn: func(int) ([]statuspage.Incident, error) {
			return nil, timeoutErr(statuspage.EndpointIncidents)
		},
		componentsFn: func(int) ([]statuspage.Component, error) {
			return component("major_outage"), nil
		},
	}
	sink := &recordingSink{}
	s := newTestScheduler(source, sink, newFakeClock())

	require.NoError(t, s.RunCycle(context.Background()))

	require.Len(t, sink.records, 1)
	assert.Equal(t, "Major Outage", sink.records[0].Status)
	assert.Equal(t, 1, s.Stats().TransportFailures)
}

func TestScheduler_ActiveFlagTracksLatestIncidentList(t *testing.T) {
	source := &fakeSource{
		summaryFn: changingSummary,
		incidentsFn: func(call int) ([]statuspage.Incident, error) {
			switch call {
			case 1:
				return []statuspage.Incident{{ID: "I1", Status: "investigating"}}, nil
			case 2:
				return nil, timeoutErr(statuspage.EndpointIncidents)
			case 3:
				return []statuspage.Incident{{ID: "I1", Status: "resolved"}}, nil
			default:
				return []statuspage.Incident{}, nil
			}
		},
	}
	s := newTestScheduler(source, &recordingSink{}, newFakeClock())

	require.NoError(t, s.RunCycle(context.Background()))
	assert.True(t, s.ActiveIncident())
	assert.Equal(t, DefaultIncidentInterval, s.Interval())

	require.NoError(t, s.RunCycle(context.Background()))
	assert.True(t, s.ActiveIncident(), "a failed incidents fetch keeps the previous flag")

	require.NoError(t, s.RunCycle(context.Background()))
	assert.False(t, s.ActiveIncident())
	assert.Equal(t, DefaultNormalInterval, s.Interval())

	require.NoError(t, s.RunCycle(context.Background()))
	assert.False(t, s.ActiveIncident())
}

func TestScheduler_SinkErrorDoesNotStopCycle(t *testing.T) {
	source := &fakeSource{
		componentsFn: func(int) ([]statuspage.Component, error) {
			return []statuspage.Component{
				{ID: "A", Name: "API", Status: "major_outage"},
				{ID: "B", Name: "Files", Status: "partial_outage"},
			}, nil
		},
	}
	sink := &recordingSink{err: errors.New("webhook unavailable")}
	s := newTestScheduler(source, sink, newFakeClock())

	require.NoError(t, s.RunCycle(context.Background()))

	assert.Len(t, sink.records, 2)
	assert.Equal(t, 2, s.Stats().DeliveryFailures)
}

func TestScheduler_PanicBecomesUnexpectedError(t *testing.T) {
	source := &fakeSource{
		summaryFn: func(int) (statuspage.Summary, error) {
			panic("decoder blew up")
		},
	}
	s := newTestScheduler(source, &recordingSink{}, newFakeClock())

	err := s.RunCycle(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.Contains(t, err.Error(), "decoder blew up")
}

func TestScheduler_RunStopsOnUnexpectedError(t *testing.T) {
	source := &fakeSource{
		summaryFn: func(int) (statuspage.Summary, error) {
			return statuspage.Summary{"bad": make(chan int)}, nil
		},
	}
	clock := newFakeClock()
	s := newTestScheduler(source, &recordingSink{}, clock)

	err := s.Run(context.Background(), 0)
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.Equal(t, 1, source.summaryCalls)
	assert.Empty(t, clock.waits)
}

func TestScheduler_RunHonoursDuration(t *testing.T) {
	source := &fakeSource{}
	clock := newFakeClock()
	s := newTestScheduler(source, &recordingSink{}, clock)

	require.NoError(t, s.Run(context.Background(), 3*time.Minute))

	assert.Equal(t, 4, source.summaryCalls)
	assert.Equal(t, []time.Duration{time.Minute, time.Minute, time.Minute}, clock.waits)
}

func TestScheduler_RunUsesIncidentCadence(t *testing.T) {
	source := &fakeSource{
		incidentsFn: func(int) ([]statuspage.Incident, error) {
			return []statuspage.Incident{{ID: "I1", Status: "monitoring"}}, nil
		},
	}
	clock := newFakeClock()
	s := newTestScheduler(source, &recordingSink{}, clock)

	require.NoError(t, s.Run(context.Background(), time.Minute))

	assert.Equal(t, 5, source.summaryCalls)
	require.Len(t, clock.waits, 4)
	for _, wait := range clock.waits {
		assert.Equal(t, 15*time.Second, wait)
	}
}

func TestScheduler_RunCustomIntervals(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(SchedulerOptions{NormalInterval: 30 * time.Second, Clock: clock}, &fakeSource{}, &recordingSink{}, zerolog.Nop())

	require.NoError(t, s.Run(context.Background(), time.Minute))
	assert.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, clock.waits)
}

func TestScheduler_RunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{}
	s := newTestScheduler(source, &recordingSink{}, newFakeClock())

	require.NoError(t, s.Run(ctx, 0))
	assert.Equal(t, 0, source.summaryCalls)
}

func TestScheduler_RunCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &fakeSource{
		componentsFn: func(int) ([]statuspage.Component, error) {
			return component("major_outage"), nil
		},
	}
	sink := &recordingSink{onDeliver: cancel}
	clock := newFakeClock()
	clock.blocking = true
	s := newTestScheduler(source, sink, clock)

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 0) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Equal(t, 1, source.summaryCalls)
	assert.Len(t, sink.records, 1)
}

func TestScheduler_CancelledFetchIsTransportFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &fakeSource{
		summaryFn: func(int) (statuspage.Summary, error) {
			cancel()
			return nil, timeoutErr(statuspage.EndpointSummary)
		},
	}
	clock := newFakeClock()
	clock.blocking = true
	s := newTestScheduler(source, &recordingSink{}, clock)

	require.NoError(t, s.Run(ctx, 0))
	assert.Equal(t, 1, s.Stats().TransportFailures)
}
