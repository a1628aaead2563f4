package config

import "github.com/aleister1102/statuswatch/internal/statuspage"

// StatusPageConfig identifies the Statuspage instance being watched.
type StatusPageConfig struct {
	StatusPageID  string `json:"status_page_id,omitempty" yaml:"status_page_id,omitempty" validate:"required,alphanum"`
	BaseURL       string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	ProductPrefix string `json:"product_prefix,omitempty" yaml:"product_prefix,omitempty" validate:"required"`
	UserAgent     string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	EnableHTTP2   bool   `json:"enable_http2" yaml:"enable_http2"`
}

// NewDefaultStatusPageConfig returns the OpenAI status page settings.
func NewDefaultStatusPageConfig() StatusPageConfig {
	return StatusPageConfig{
		StatusPageID:  DefaultStatusPageID,
		ProductPrefix: DefaultProductPrefix,
		UserAgent:     DefaultUserAgent,
		EnableHTTP2:   true,
	}
}

// APIBaseURL returns base_url, or the Statuspage API root for the page id.
func (c StatusPageConfig) APIBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return statuspage.BaseURL(c.StatusPageID)
}

// PageURL returns the human-facing page address.
func (c StatusPageConfig) PageURL() string {
	return statuspage.PageURL(c.StatusPageID)
}
