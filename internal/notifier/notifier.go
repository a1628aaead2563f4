// Package notifier delivers notification records to their destinations.
package notifier

import (
	"context"

	"github.com/aleister1102/statuswatch/internal/models"
)

// Sink receives notification records one at a time, in delivery order.
type Sink interface {
	Deliver(ctx context.Context, record models.NotificationRecord) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, record models.NotificationRecord) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, record models.NotificationRecord) error {
	return f(ctx, record)
}
