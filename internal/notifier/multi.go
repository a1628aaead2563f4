package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/aleister1102/statuswatch/internal/models"
)

// NamedSink pairs a sink with the name used in error messages.
type NamedSink struct {
	Name string
	Sink Sink
}

// MultiSink delivers each record to every sink in order. A failing sink does
// not prevent delivery to the ones after it.
type MultiSink struct {
	sinks []NamedSink
}

// NewMultiSink creates a fan-out over sinks.
func NewMultiSink(sinks ...NamedSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Len returns the number of sinks.
func (m *MultiSink) Len() int {
	return len(m.sinks)
}

// Names returns sink names in delivery order.
func (m *MultiSink) Names() []string {
	names := make([]string, 0, len(m.sinks))
	for _, s := range m.sinks {
		names = append(names, s.Name)
	}
	return names
}

// Deliver fans the record out and combines the per-sink errors.
func (m *MultiSink) Deliver(ctx context.Context, record models.NotificationRecord) error {
	var ec common.ErrorCollector
	for _, s := range m.sinks {
		ec.AddWithContext(s.Sink.Deliver(ctx, record), s.Name)
	}
	return ec.Error()
}

// Close closes every sink implementing io.Closer.
func (m *MultiSink) Close() error {
	var ec common.ErrorCollector
	for _, s := range m.sinks {
		if closer, ok := s.Sink.(io.Closer); ok {
			ec.AddWithContext(closer.Close(), fmt.Sprintf("closing %s", s.Name))
		}
	}
	return ec.Error()
}
