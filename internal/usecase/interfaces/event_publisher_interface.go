package interfaces

import (
	"context"

	"b2bdesk/internal/domain/entities"
)

// IEventPublisher pushes order lifecycle events to downstream consumers
// (Kafka in production, a no-op when no brokers are configured).
//
// Publishing is best-effort: a failed publish never rolls back the committed
// transition.
type IEventPublisher interface {
	PublishStatusChanged(ctx context.Context, evt entities.StatusChangedEvent) error
}
