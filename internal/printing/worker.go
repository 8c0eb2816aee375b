package printing

import (
	"context"
	"encoding/json"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/mesalivre/pos-backend/pkg/logger"
)

type subscriber interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

// TicketWriter delivers the rendered ticket text to a physical printer.
type TicketWriter interface {
	Write(ctx context.Context, restaurantID string, ticket string) error
}

// Worker consumes print jobs and writes rendered tickets. Malformed
// payloads are acked and dropped; writer failures nack for redelivery.
type Worker struct {
	sub    subscriber
	writer TicketWriter
	log    *logger.Logger
}

// NewWorker builds a print worker over the print subscription.
func NewWorker(sub subscriber, writer TicketWriter, log *logger.Logger) *Worker {
	return &Worker{sub: sub, writer: writer, log: log}
}

// Run blocks consuming jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info(ctx, "print worker started")
	return w.sub.Receive(ctx, w.handle)
}

func (w *Worker) handle(ctx context.Context, msg *pubsub.Message) {
	var job Job
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		w.log.Warn(ctx, "dropping malformed print job")
		msg.Ack()
		return
	}

	ctx = w.log.WithRestaurantID(ctx, job.RestaurantID.String())
	rendered := RenderTicket(job)
	if job.Kind == KindReceipt {
		rendered = RenderReceipt(job)
	}
	if err := w.writer.Write(ctx, job.RestaurantID.String(), rendered); err != nil {
		w.log.Error(ctx, "writing ticket failed", err)
		msg.Nack()
		return
	}
	w.log.Info(w.log.WithField(ctx, "order_number", job.OrderNumber), "ticket printed")
	msg.Ack()
}
