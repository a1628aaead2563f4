package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/aleister1102/statuswatch/internal/httpclient"
	"github.com/aleister1102/statuswatch/internal/models"
	"github.com/rs/zerolog"
)

// DiscordNotifier posts each record as an embed to a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	pageURL    string
	httpClient *httpclient.HTTPClient
	logger     zerolog.Logger
}

// NewDiscordNotifier validates the webhook URL and creates the sink.
func NewDiscordNotifier(webhookURL, pageURL string, httpClient *httpclient.HTTPClient, logger zerolog.Logger) (*DiscordNotifier, error) {
	if _, err := url.ParseRequestURI(webhookURL); err != nil {
		return nil, common.NewValidationError("discord_webhook_url", webhookURL, "must be an absolute URL")
	}
	if httpClient == nil {
		return nil, common.NewError("discord notifier requires an HTTP client")
	}

	return &DiscordNotifier{
		webhookURL: webhookURL,
		pageURL:    pageURL,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "DiscordNotifier").Logger(),
	}, nil
}

// Deliver sends one record. A non-2xx answer from Discord is an error.
func (dn *DiscordNotifier) Deliver(ctx context.Context, record models.NotificationRecord) error {
	return dn.SendNotification(ctx, BuildRecordPayload(record, dn.pageURL))
}

// SendNotification posts the payload as multipart payload_json.
func (dn *DiscordNotifier) SendNotification(ctx context.Context, payload models.DiscordMessagePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return common.WrapError(err, "failed to marshal discord payload")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("payload_json", string(payloadJSON)); err != nil {
		return common.WrapError(err, "failed to write payload_json to multipart")
	}
	if err := writer.Close(); err != nil {
		return common.WrapError(err, "failed to close multipart writer")
	}

	resp, err := dn.httpClient.Do(&httpclient.HTTPRequest{
		URL:     dn.webhookURL,
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": writer.FormDataContentType()},
		Body:    body,
		Context: ctx,
	})
	if err != nil {
		return common.WrapError(err, "failed to send discord notification")
	}

	if !resp.IsSuccess() {
		dn.logger.Error().Int("status_code", resp.StatusCode).Str("response_body", string(resp.Body)).Msg("Discord notification failed")
		return common.NewHTTPErrorWithURL(resp.StatusCode, fmt.Sprintf("discord rejected notification: %s", string(resp.Body)), "discord webhook")
	}

	dn.logger.Debug().Int("status_code", resp.StatusCode).Msg("Discord notification sent")
	return nil
}
