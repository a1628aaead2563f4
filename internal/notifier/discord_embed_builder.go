package notifier

import (
	"strings"
	"time"

	"github.com/aleister1102/statuswatch/internal/models"
)

// DiscordEmbedBuilder helps in constructing models.DiscordEmbed objects.
type DiscordEmbedBuilder struct {
	embed models.DiscordEmbed
}

// NewDiscordEmbedBuilder creates a new instance of DiscordEmbedBuilder.
func NewDiscordEmbedBuilder() *DiscordEmbedBuilder {
	return &DiscordEmbedBuilder{}
}

// WithTitle sets the Title for the DiscordEmbed.
func (b *DiscordEmbedBuilder) WithTitle(title string) *DiscordEmbedBuilder {
	b.embed.Title = title
	return b
}

// WithDescription sets the Description for the DiscordEmbed.
func (b *DiscordEmbedBuilder) WithDescription(description string) *DiscordEmbedBuilder {
	b.embed.Description = description
	return b
}

// WithURL sets the URL for the DiscordEmbed.
func (b *DiscordEmbedBuilder) WithURL(url string) *DiscordEmbedBuilder {
	b.embed.URL = url
	return b
}

// WithTimestamp formats the timestamp as RFC3339.
func (b *DiscordEmbedBuilder) WithTimestamp(timestamp time.Time) *DiscordEmbedBuilder {
	b.embed.Timestamp = timestamp.Format(time.RFC3339)
	return b
}

// WithColor sets the Color for the DiscordEmbed.
func (b *DiscordEmbedBuilder) WithColor(color int) *DiscordEmbedBuilder {
	b.embed.Color = color
	return b
}

// WithFooter sets the Footer for the DiscordEmbed.
func (b *DiscordEmbedBuilder) WithFooter(text string) *DiscordEmbedBuilder {
	b.embed.Footer = &models.DiscordEmbedFooter{Text: text}
	return b
}

// AddField adds a field, skipping empty values which Discord rejects.
func (b *DiscordEmbedBuilder) AddField(name, value string, inline bool) *DiscordEmbedBuilder {
	if value == "" {
		return b
	}
	b.embed.Fields = append(b.embed.Fields, models.DiscordEmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	})
	return b
}

// Build returns the constructed models.DiscordEmbed object.
func (b *DiscordEmbedBuilder) Build() models.DiscordEmbed {
	return b.embed
}

// BuildRecordPayload renders one record as a single-embed webhook message.
func BuildRecordPayload(record models.NotificationRecord, pageURL string) models.DiscordMessagePayload {
	embed := NewDiscordEmbedBuilder().
		WithTitle(record.Product).
		WithDescription(record.Message).
		WithURL(pageURL).
		WithTimestamp(record.Timestamp).
		WithColor(SeverityColor(record.Status)).
		AddField("Status", record.Status, true).
		AddField("Source", record.Source(), true).
		AddField("Incident", record.IncidentID, true).
		WithFooter(DiscordFooterText).
		Build()

	return models.DiscordMessagePayload{
		Username:        DiscordUsername,
		Embeds:          []models.DiscordEmbed{embed},
		AllowedMentions: &models.AllowedMentions{Parse: []string{}},
	}
}

// SeverityColor picks an embed color from the words of a record status.
func SeverityColor(status string) int {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "critical"), strings.Contains(s, "major outage"):
		return CriticalEmbedColor
	case strings.Contains(s, "major"), strings.Contains(s, "partial outage"):
		return MajorEmbedColor
	case strings.Contains(s, "minor"), strings.Contains(s, "degraded"):
		return WarningEmbedColor
	case strings.Contains(s, "maintenance"):
		return MaintenanceEmbedColor
	default:
		return DefaultEmbedColor
	}
}
