package sync

import (
	"context"

	"github.com/google/uuid"
)

type publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Notifier announces floor mutations on the shared change channel so
// push-mode terminals refetch.
type Notifier struct {
	pub     publisher
	channel string
}

// NewNotifier binds a publisher to the change channel.
func NewNotifier(pub publisher, channel string) *Notifier {
	return &Notifier{pub: pub, channel: channel}
}

// FloorChanged publishes the restaurant whose floor mutated.
func (n *Notifier) FloorChanged(ctx context.Context, restaurantID uuid.UUID) error {
	return n.pub.Publish(ctx, n.channel, restaurantID.String())
}
