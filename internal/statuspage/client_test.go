package statuspage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/aleister1102/statuswatch/internal/httpclient"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpClient, err := httpclient.NewHTTPClientBuilder(zerolog.Nop()).WithTimeout(timeout).Build()
	require.NoError(t, err)
	return NewClient(httpClient, server.URL+"/api/v2/", timeout, zerolog.Nop())
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://kh3m0q7m9g8m.statuspage.io/api/v2", BaseURL("kh3m0q7m9g8m"))
	assert.Equal(t, "https://kh3m0q7m9g8m.statuspage.io", PageURL("kh3m0q7m9g8m"))
}

func TestClient_Summary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/summary.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"page":{"id":"kh3m0q7m9g8m"},"status":{"indicator":"none"},"count":12345678901234567890}`))
	}, time.Second)

	summary, err := client.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, summary.IsEmpty())
	assert.Equal(t, json.Number("12345678901234567890"), summary["count"])
}

func TestClient_Incidents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/incidents.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"incidents":[{"id":"i1","name":"X","status":"investigating","impact":"major",
			"incident_updates":[{"id":"u1","body":"Looking into it"}],"components":[{"id":"c1","name":"API"}]}]}`))
	}, time.Second)

	incidents, err := client.Incidents(context.Background())
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "i1", incidents[0].ID)
	assert.Equal(t, "major", incidents[0].Impact)
	assert.Equal(t, "Looking into it", incidents[0].IncidentUpdates[0].Body)
	assert.Equal(t, "API", incidents[0].Components[0].Name)
	assert.False(t, incidents[0].IsTerminal())
}

func TestClient_MissingArraysAreEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":{}}`))
	}, time.Second)

	incidents, err := client.Incidents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, incidents)
	assert.Empty(t, incidents)

	components, err := client.Components(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, components)
	assert.Empty(t, components)
}

func TestClient_Components(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"components":[{"id":"c1","name":"API","status":"degraded_performance"}]}`))
	}, time.Second)

	components, err := client.Components(context.Background())
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, Component{ID: "c1", Name: "API", Status: "degraded_performance"}, components[0])
}

func TestClient_TransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"incidents":[`))
			},
		},
		{
			name: "wrong document shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[1,2,3]`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler, time.Second)

			_, err := client.Summary(context.Background())
			assert.ErrorIs(t, err, ErrTransport)
		})
	}
}

func TestClient_HTTPErrorIsExposed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, time.Second)

	_, err := client.Components(context.Background())
	require.Error(t, err)

	var httpErr *common.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
}

func TestClient_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)

	start := time.Now()
	_, err := client.Summary(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
	assert.Less(t, time.Since(start), time.Second)
}

func TestIncident_DisplayName(t *testing.T) {
	assert.Equal(t, "Elevated errors", Incident{Name: "Elevated errors"}.DisplayName())
	assert.Equal(t, UnknownIncidentName, Incident{}.DisplayName())
}
