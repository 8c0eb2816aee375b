package printing

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/mesalivre/pos-backend/internal/settlement"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

type messagePublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// Publisher pushes print jobs onto the print topic. Submission never
// blocks on the printer: a failed publish is the caller's warning, not
// its error.
type Publisher struct {
	pub messagePublisher
	log *logger.Logger
}

// NewPublisher wraps a Pub/Sub print-topic publisher.
func NewPublisher(pub messagePublisher, log *logger.Logger) *Publisher {
	return &Publisher{pub: pub, log: log}
}

// PublishOrderTicket sends the kitchen ticket for a submitted order.
func (p *Publisher) PublishOrderTicket(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, NewOrderJob(order))
}

// PublishReceipt sends the cashier receipt for a settled bill.
func (p *Publisher) PublishReceipt(ctx context.Context, restaurantID uuid.UUID, st *settlement.Settlement) error {
	return p.publish(ctx, NewReceiptJob(restaurantID, st))
}

func (p *Publisher) publish(ctx context.Context, job Job) error {
	if p == nil || p.pub == nil {
		return nil
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding print job: %w", err)
	}

	result := p.pub.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"kind":          string(job.Kind),
			"restaurant_id": job.RestaurantID.String(),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing print job: %w", err)
	}
	return nil
}
