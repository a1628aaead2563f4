package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/aleister1102/statuswatch/internal/httpclient"
	"github.com/aleister1102/statuswatch/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiscord(t *testing.T, handler http.HandlerFunc) *DiscordNotifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := httpclient.NewHTTPClientBuilder(zerolog.Nop()).WithTimeout(time.Second).Build()
	require.NoError(t, err)

	dn, err := NewDiscordNotifier(server.URL+"/webhook", "https://kh3m0q7m9g8m.statuspage.io", client, zerolog.Nop())
	require.NoError(t, err)
	return dn
}

func TestDiscordNotifier_Deliver(t *testing.T) {
	var received models.DiscordMessagePayload
	dn := newTestDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("payload_json")), &received))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, dn.Deliver(context.Background(), incidentRecord()))

	require.Len(t, received.Embeds, 1)
	assert.Equal(t, "OpenAI API - Chat Completions", received.Embeds[0].Title)
	assert.Equal(t, "https://kh3m0q7m9g8m.statuspage.io", received.Embeds[0].URL)
}

func TestDiscordNotifier_RejectedRequest(t *testing.T) {
	dn := newTestDiscord(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"You are being rate limited."}`))
	})

	err := dn.Deliver(context.Background(), componentRecord())
	require.Error(t, err)

	var httpErr *common.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
}

func TestNewDiscordNotifier_Validation(t *testing.T) {
	client, err := httpclient.NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	_, err = NewDiscordNotifier("not a url", "", client, zerolog.Nop())
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	_, err = NewDiscordNotifier("https://discord.com/api/webhooks/1/x", "", nil, zerolog.Nop())
	assert.Error(t, err)
}
