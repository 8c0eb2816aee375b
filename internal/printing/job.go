// Package printing carries kitchen tickets from order submission to the
// station printers through Pub/Sub.
package printing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/internal/settlement"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
)

// JobKind names the document being printed.
type JobKind string

const (
	KindOrderTicket JobKind = "order_ticket"
	KindReceipt     JobKind = "receipt"
)

// Job is the wire payload published per print request. Ticket jobs fill
// the order fields; receipt jobs fill the settlement fields.
type Job struct {
	Kind         JobKind   `json:"kind"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	OrderID      uuid.UUID `json:"order_id,omitempty"`
	OrderNumber  int       `json:"order_number,omitempty"`
	OrderType    string    `json:"order_type,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Items        []JobItem `json:"items,omitempty"`

	Total    decimal.Decimal `json:"total,omitempty"`
	Mode     string          `json:"mode,omitempty"`
	Change   decimal.Decimal `json:"change,omitempty"`
	Payments []JobPayment    `json:"payments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// JobItem is one printed line.
type JobItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// JobPayment is one tender line on a receipt.
type JobPayment struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	PaidBy string          `json:"paid_by,omitempty"`
}

// NewOrderJob snapshots an order into a print job.
func NewOrderJob(order *models.Order) Job {
	job := Job{
		Kind:         KindOrderTicket,
		RestaurantID: order.RestaurantID,
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		OrderType:    string(order.OrderType),
		CreatedAt:    time.Now(),
	}
	if order.Notes != nil {
		job.Notes = *order.Notes
	}
	for _, item := range order.Items {
		line := JobItem{Name: item.ProductName, Quantity: item.Quantity}
		if item.Notes != nil {
			line.Notes = *item.Notes
		}
		job.Items = append(job.Items, line)
	}
	return job
}

// NewReceiptJob snapshots a confirmed settlement into a receipt job.
func NewReceiptJob(restaurantID uuid.UUID, st *settlement.Settlement) Job {
	job := Job{
		Kind:         KindReceipt,
		RestaurantID: restaurantID,
		Total:        st.Total,
		Mode:         string(st.Mode),
		CreatedAt:    time.Now(),
	}
	switch st.Mode {
	case settlement.ModeMixed:
		for _, entry := range st.Entries {
			job.Payments = append(job.Payments, JobPayment{
				Method: string(entry.Method),
				Amount: entry.Amount,
				PaidBy: entry.PaidBy,
			})
		}
	default:
		payment := JobPayment{Method: string(st.Method), Amount: st.Total}
		job.Payments = append(job.Payments, payment)
		job.Change = st.Change()
	}
	return job
}

// RenderTicket formats the job as the plain text sent to the printer.
func RenderTicket(job Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PEDIDO #%d\n", job.OrderNumber)
	if job.OrderType == string(enums.OrderTypeDelivery) {
		b.WriteString("** ENTREGA **\n")
	}
	b.WriteString(strings.Repeat("-", 32) + "\n")
	for _, item := range job.Items {
		fmt.Fprintf(&b, "%dx %s\n", item.Quantity, item.Name)
		if item.Notes != "" {
			fmt.Fprintf(&b, "   %s\n", item.Notes)
		}
	}
	if job.Notes != "" {
		b.WriteString(strings.Repeat("-", 32) + "\n")
		fmt.Fprintf(&b, "Obs: %s\n", job.Notes)
	}
	return b.String()
}

// RenderReceipt formats a settlement receipt for the cashier printer.
func RenderReceipt(job Job) string {
	var b strings.Builder
	b.WriteString("RECIBO\n")
	b.WriteString(strings.Repeat("-", 32) + "\n")
	fmt.Fprintf(&b, "TOTAL  R$ %s\n", job.Total.StringFixed(2))
	for _, payment := range job.Payments {
		fmt.Fprintf(&b, "%-8s R$ %s", strings.ToUpper(payment.Method), payment.Amount.StringFixed(2))
		if payment.PaidBy != "" {
			fmt.Fprintf(&b, " (%s)", payment.PaidBy)
		}
		b.WriteString("\n")
	}
	if job.Change.IsPositive() {
		fmt.Fprintf(&b, "TROCO  R$ %s\n", job.Change.StringFixed(2))
	}
	return b.String()
}
