package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aleister1102/statuswatch/internal/models"
)

// ConsoleSink writes records in the human-readable block format.
type ConsoleSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSink creates a sink writing to out.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

// Deliver prints one record block.
func (c *ConsoleSink) Deliver(ctx context.Context, record models.NotificationRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(c.out, FormatRecord(record))
	return err
}

// PrintBanner prints the startup header.
func (c *ConsoleSink) PrintBanner(pageURL string, normal, incident time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(c.out, FormatBanner(pageURL, normal, incident))
	return err
}

// FormatRecord renders a record as:
//
//	[2006-01-02 15:04:05] Product: <product>
//	Status: <status>
//	Details: <message>
//	--------...
func FormatRecord(record models.NotificationRecord) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "[%s] Product: %s\n", record.Timestamp.Format(ConsoleTimestampLayout), record.Product)
	fmt.Fprintf(&b, "Status: %s\n", record.Status)
	if record.Message != "" {
		fmt.Fprintf(&b, "Details: %s\n", record.Message)
	}
	b.WriteString(strings.Repeat("-", recordSeparatorWidth))
	b.WriteString("\n")
	return b.String()
}

// FormatBanner renders the header shown once before polling starts.
func FormatBanner(pageURL string, normal, incident time.Duration) string {
	rule := strings.Repeat("=", bannerWidth)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString("OpenAI Status Monitor - Starting\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Monitoring: %s\n", pageURL)
	fmt.Fprintf(&b, "Check interval: %s (normal) / %s (incident)\n", seconds(normal), seconds(incident))
	b.WriteString(rule + "\n")
	return b.String()
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%gs", d.Seconds())
}
