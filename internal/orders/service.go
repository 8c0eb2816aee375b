// Package orders turns carts into kitchen orders and settles bills.
package orders

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/internal/cart"
	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/internal/pricing"
	"github.com/mesalivre/pos-backend/internal/settlement"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
	"github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/logger"
	"github.com/mesalivre/pos-backend/pkg/metrics"
	"github.com/mesalivre/pos-backend/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ChangeNotifier announces floor mutations so push-mode terminals refetch.
type ChangeNotifier interface {
	FloorChanged(ctx context.Context, restaurantID uuid.UUID) error
}

// TicketPublisher hands kitchen tickets and settlement receipts to the
// print pipeline.
type TicketPublisher interface {
	PublishOrderTicket(ctx context.Context, order *models.Order) error
	PublishReceipt(ctx context.Context, restaurantID uuid.UUID, st *settlement.Settlement) error
}

type service struct {
	repo      Repository
	floorRepo floor.Repository
	tx        txRunner
	notifier  ChangeNotifier
	printer   TicketPublisher
	metrics   *metrics.POSMetrics
	log       *logger.Logger
}

// NewService builds the order lifecycle service. Notifier and printer may
// be nil in poll-only or printerless deployments.
func NewService(repo Repository, floorRepo floor.Repository, tx txRunner, notifier ChangeNotifier, printer TicketPublisher, m *metrics.POSMetrics, log *logger.Logger) Service {
	return &service{
		repo:      repo,
		floorRepo: floorRepo,
		tx:        tx,
		notifier:  notifier,
		printer:   printer,
		metrics:   m,
		log:       log,
	}
}

// Submit persists the cart as an order, snapshotting names and prices so
// later catalog edits never rewrite the ticket, and flips the unit to
// occupied in the same transaction.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Order, error) {
	if err := validateSubmit(input); err != nil {
		return nil, err
	}

	order := buildOrder(input)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		number, err := repo.NextOrderNumber(ctx, input.RestaurantID)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		if _, err := repo.Create(ctx, order); err != nil {
			return err
		}
		return s.occupyUnit(ctx, tx, input)
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeSubmission, err, "submitting order")
	}

	s.metrics.IncOrderSubmitted(string(input.OrderType))
	s.notifyFloorChanged(ctx, input.RestaurantID)
	s.publishTicket(ctx, order)
	return order, nil
}

// BillFor returns the open orders and running total for a service unit.
func (s *service) BillFor(ctx context.Context, restaurantID uuid.UUID, unit floor.UnitKey) (*Bill, error) {
	open, err := s.repo.ListOpenByUnit(ctx, restaurantID, unit)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading open orders")
	}

	bill := &Bill{Unit: unit, Total: decimal.Zero}
	for _, order := range open {
		bill.Orders = append(bill.Orders, BillOrder{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			Total:       order.Total,
		})
		bill.Total = bill.Total.Add(order.Total)
	}
	return bill, nil
}

// AdvanceStatus moves an order along the kitchen workflow. Closing is
// reserved for settlement and terminal orders never move again.
func (s *service) AdvanceStatus(ctx context.Context, restaurantID, orderID uuid.UUID, status enums.OrderStatus) error {
	if status == enums.OrderStatusClosed {
		return errors.New(errors.CodeStateConflict, "orders close through bill settlement")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New(errors.CodeNotFound, "order not found")
		}
		return errors.Wrap(errors.CodeDependency, err, "loading order")
	}
	if order.RestaurantID != restaurantID {
		return errors.New(errors.CodeNotFound, "order not found")
	}
	if order.Status.IsTerminal() {
		return errors.New(errors.CodeStateConflict, "order already finished").
			WithDetails(map[string]string{"status": string(order.Status)})
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "updating order status")
	}
	s.notifyFloorChanged(ctx, restaurantID)
	return nil
}

// Close settles every open order on the unit under the given settlement,
// records mixed tender rows, frees the unit, and clears any tab customer.
func (s *service) Close(ctx context.Context, input CloseInput) error {
	started := time.Now()
	if input.Settlement == nil {
		return errors.New(errors.CodeValidation, "settlement state is required")
	}
	if err := input.Settlement.Validate(); err != nil {
		return err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		closed, err := repo.CloseOpenByUnit(ctx, input.RestaurantID, input.Unit, closeUpdates(input))
		if err != nil {
			return err
		}
		if closed == 0 {
			return errors.New(errors.CodeStateConflict, "no open orders on this unit")
		}
		if input.Settlement.Mode == settlement.ModeMixed {
			if err := repo.CreateSettlementPayments(ctx, paymentRows(input)); err != nil {
				return err
			}
		}
		return s.releaseUnit(ctx, tx, input.Unit)
	})
	if err != nil {
		if typed := errors.As(err); typed != nil {
			return typed
		}
		return errors.Wrap(errors.CodeSettlement, err, "closing bill")
	}

	s.metrics.IncBillClosed(string(input.Settlement.Mode))
	s.metrics.ObserveSettlement(string(input.Settlement.Mode), time.Since(started))
	s.notifyFloorChanged(ctx, input.RestaurantID)
	s.publishReceipt(ctx, input.RestaurantID, input.Settlement)
	return nil
}

func validateSubmit(input SubmitInput) error {
	if len(input.Lines) == 0 {
		return errors.New(errors.CodeValidation, "cannot submit an empty cart")
	}
	switch input.OrderType {
	case enums.OrderTypeTable:
		if input.Unit == nil {
			return errors.New(errors.CodeValidation, "table orders need a service unit")
		}
	case enums.OrderTypeDelivery:
		if strings.TrimSpace(input.CustomerName) == "" || strings.TrimSpace(input.DeliveryAddress) == "" {
			return errors.New(errors.CodeValidation, "delivery orders need a customer name and address")
		}
	case enums.OrderTypeTakeaway:
		if strings.TrimSpace(input.CustomerName) == "" {
			return errors.New(errors.CodeValidation, "takeaway orders need a customer name")
		}
	default:
		return errors.New(errors.CodeValidation, "unknown order type").
			WithDetails(map[string]string{"order_type": string(input.OrderType)})
	}
	return nil
}

func buildOrder(input SubmitInput) *models.Order {
	order := &models.Order{
		RestaurantID: input.RestaurantID,
		WaiterID:     input.WaiterID,
		OrderType:    input.OrderType,
		Status:       enums.OrderStatusPending,
		Notes:        optional(input.OrderNotes),
		CustomerID:   input.CustomerID,
		CustomerName: optional(input.CustomerName),
		DeliveryFee:  money.Round(input.DeliveryFee),
	}
	if input.Unit != nil {
		id := input.Unit.ID
		if input.Unit.Kind == floor.KindTab {
			order.TabID = &id
		} else {
			order.TableID = &id
		}
	}
	if input.OrderType == enums.OrderTypeDelivery {
		order.DeliveryAddress = optional(input.DeliveryAddress)
		order.DeliveryPhone = optional(input.DeliveryPhone)
	}

	total := decimal.Zero
	for _, line := range input.Lines {
		item := models.OrderItem{
			RestaurantID: input.RestaurantID,
			ProductID:    line.ProductID,
			CategoryID:   line.CategoryID,
			ProductName:  line.DisplayName(),
			ProductPrice: line.UnitPrice.Add(pricing.AddonTotal(line.Addons)),
			ProductSize:  line.Size,
			Quantity:     line.Quantity,
			Notes:        optional(itemNotes(line)),
		}
		order.Items = append(order.Items, item)
		total = total.Add(line.Total())
	}
	order.Total = money.Round(total.Add(order.DeliveryFee))
	return order
}

// itemNotes folds the selected addons into the free-text note so the
// kitchen ticket carries them without a dedicated addon table.
func itemNotes(line cart.Line) string {
	parts := make([]string, 0, len(line.Addons)+1)
	for _, addon := range line.Addons {
		if addon.Quantity <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("+ %dx %s", addon.Quantity, addon.Name))
	}
	if line.Notes != "" {
		parts = append(parts, line.Notes)
	}
	return strings.Join(parts, "; ")
}

func closeUpdates(input CloseInput) map[string]any {
	now := time.Now()
	updates := map[string]any{
		"status":    enums.OrderStatusClosed,
		"closed_at": now,
	}
	st := input.Settlement
	switch st.Mode {
	case settlement.ModeSimple, settlement.ModeEqualSplit:
		updates["payment_method"] = st.Method
		if st.Mode == settlement.ModeEqualSplit {
			updates["split_people"] = st.SplitCount
		}
		if st.Method == enums.PaymentCash && st.CashReceived.IsPositive() {
			updates["cash_received"] = st.CashReceived
			updates["change_given"] = st.Change()
		}
	}
	return updates
}

func paymentRows(input CloseInput) []models.SettlementPayment {
	rows := make([]models.SettlementPayment, 0, len(input.Settlement.Entries))
	for _, entry := range input.Settlement.Entries {
		row := models.SettlementPayment{
			RestaurantID: input.RestaurantID,
			Method:       entry.Method,
			Amount:       entry.Amount,
			PaidBy:       optional(entry.PaidBy),
		}
		id := input.Unit.ID
		if input.Unit.Kind == floor.KindTab {
			row.TabID = &id
		} else {
			row.TableID = &id
		}
		rows = append(rows, row)
	}
	return rows
}

// occupyUnit flips the unit to occupied. The opening order on a tab
// also binds the customer contact taken at the terminal.
func (s *service) occupyUnit(ctx context.Context, tx *gorm.DB, input SubmitInput) error {
	if input.Unit == nil {
		return nil
	}
	repo := s.floorRepo.WithTx(tx)
	if input.Unit.Kind == floor.KindTab {
		if err := repo.UpdateTabStatus(ctx, input.Unit.ID, enums.UnitStatusOccupied); err != nil {
			return err
		}
		name := strings.TrimSpace(input.CustomerName)
		phone := strings.TrimSpace(input.CustomerPhone)
		if name != "" || phone != "" {
			return repo.BindTabCustomer(ctx, input.Unit.ID, name, phone)
		}
		return nil
	}
	return repo.UpdateTableStatus(ctx, input.Unit.ID, enums.UnitStatusOccupied)
}

func (s *service) releaseUnit(ctx context.Context, tx *gorm.DB, unit floor.UnitKey) error {
	repo := s.floorRepo.WithTx(tx)
	if unit.Kind == floor.KindTab {
		if err := repo.UpdateTabStatus(ctx, unit.ID, enums.UnitStatusAvailable); err != nil {
			return err
		}
		return repo.ClearTabCustomer(ctx, unit.ID)
	}
	return repo.UpdateTableStatus(ctx, unit.ID, enums.UnitStatusAvailable)
}

func (s *service) notifyFloorChanged(ctx context.Context, restaurantID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.FloorChanged(ctx, restaurantID); err != nil {
		s.log.Warn(s.log.WithRestaurantID(ctx, restaurantID.String()), "floor change notification failed")
	}
}

func (s *service) publishTicket(ctx context.Context, order *models.Order) {
	if s.printer == nil {
		return
	}
	if err := s.printer.PublishOrderTicket(ctx, order); err != nil {
		s.metrics.IncPrintJob("order", "error")
		s.log.Warn(s.log.WithRestaurantID(ctx, order.RestaurantID.String()), "print job publish failed")
		return
	}
	s.metrics.IncPrintJob("order", "ok")
}

func (s *service) publishReceipt(ctx context.Context, restaurantID uuid.UUID, st *settlement.Settlement) {
	if s.printer == nil {
		return
	}
	if err := s.printer.PublishReceipt(ctx, restaurantID, st); err != nil {
		s.metrics.IncPrintJob("receipt", "error")
		s.log.Warn(s.log.WithRestaurantID(ctx, restaurantID.String()), "receipt publish failed")
		return
	}
	s.metrics.IncPrintJob("receipt", "ok")
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
