package orders

import (
	"context"
	"io"
	"testing"

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
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func sizePtr(s enums.ProductSize) *enums.ProductSize { return &s }

type stubOrdersRepo struct {
	Repository
	nextNumber int
	created    []*models.Order
	open       []models.Order
	closed     int64
	updates    map[string]any
	payments   []models.SettlementPayment
	statusSet  map[uuid.UUID]enums.OrderStatus
	byID       map[uuid.UUID]*models.Order
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		nextNumber: 1,
		statusSet:  map[uuid.UUID]enums.OrderStatus{},
		byID:       map[uuid.UUID]*models.Order{},
	}
}

func (s *stubOrdersRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) NextOrderNumber(_ context.Context, _ uuid.UUID) (int, error) {
	return s.nextNumber, nil
}

func (s *stubOrdersRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	s.created = append(s.created, order)
	s.byID[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.byID[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListOpenByUnit(_ context.Context, _ uuid.UUID, _ floor.UnitKey) ([]models.Order, error) {
	return s.open, nil
}

func (s *stubOrdersRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.OrderStatus) error {
	s.statusSet[id] = status
	return nil
}

func (s *stubOrdersRepo) CloseOpenByUnit(_ context.Context, _ uuid.UUID, _ floor.UnitKey, updates map[string]any) (int64, error) {
	s.updates = updates
	return s.closed, nil
}

func (s *stubOrdersRepo) CreateSettlementPayments(_ context.Context, payments []models.SettlementPayment) error {
	s.payments = append(s.payments, payments...)
	return nil
}

type boundTabCustomer struct {
	tabID uuid.UUID
	name  string
	phone string
}

type stubFloorRepo struct {
	floor.Repository
	tableStatus map[uuid.UUID]enums.UnitStatus
	tabStatus   map[uuid.UUID]enums.UnitStatus
	clearedTabs []uuid.UUID
	bound       []boundTabCustomer
}

func newStubFloorRepo() *stubFloorRepo {
	return &stubFloorRepo{
		tableStatus: map[uuid.UUID]enums.UnitStatus{},
		tabStatus:   map[uuid.UUID]enums.UnitStatus{},
	}
}

func (s *stubFloorRepo) WithTx(_ *gorm.DB) floor.Repository { return s }

func (s *stubFloorRepo) UpdateTableStatus(_ context.Context, id uuid.UUID, status enums.UnitStatus) error {
	s.tableStatus[id] = status
	return nil
}

func (s *stubFloorRepo) UpdateTabStatus(_ context.Context, id uuid.UUID, status enums.UnitStatus) error {
	s.tabStatus[id] = status
	return nil
}

func (s *stubFloorRepo) BindTabCustomer(_ context.Context, id uuid.UUID, name, phone string) error {
	s.bound = append(s.bound, boundTabCustomer{tabID: id, name: name, phone: phone})
	return nil
}

func (s *stubFloorRepo) ClearTabCustomer(_ context.Context, id uuid.UUID) error {
	s.clearedTabs = append(s.clearedTabs, id)
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type stubNotifier struct{ calls int }

func (s *stubNotifier) FloorChanged(_ context.Context, _ uuid.UUID) error {
	s.calls++
	return nil
}

type stubPrinter struct {
	orders   []*models.Order
	receipts []*settlement.Settlement
}

func (s *stubPrinter) PublishOrderTicket(_ context.Context, order *models.Order) error {
	s.orders = append(s.orders, order)
	return nil
}

func (s *stubPrinter) PublishReceipt(_ context.Context, _ uuid.UUID, st *settlement.Settlement) error {
	s.receipts = append(s.receipts, st)
	return nil
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(repo *stubOrdersRepo, floorRepo *stubFloorRepo, notifier *stubNotifier, printer *stubPrinter) Service {
	return NewService(repo, floorRepo, stubTx{}, notifier, printer, metrics.NewPOSMetrics(nil), quietLogger())
}

func tableLines() []cart.Line {
	return []cart.Line{
		{
			ProductID:   uuid.New(),
			ProductName: "Pizza Calabresa",
			Size:        sizePtr(enums.SizeLarge),
			UnitPrice:   dec(40),
			Quantity:    2,
			Addons: []pricing.SelectedAddon{
				{Name: "borda recheada", Price: dec(8), Quantity: 1},
			},
		},
		{
			ProductID:   uuid.New(),
			ProductName: "Guaraná",
			UnitPrice:   dec(6),
			Quantity:    3,
			Notes:       "bem gelado",
		},
	}
}

func TestSubmitBuildsSnapshotAndOccupiesTable(t *testing.T) {
	repo := newStubOrdersRepo()
	repo.nextNumber = 42
	floorRepo := newStubFloorRepo()
	notifier := &stubNotifier{}
	printer := &stubPrinter{}
	svc := newTestService(repo, floorRepo, notifier, printer)

	tableID := uuid.New()
	unit := floor.TableKey(tableID)
	waiterID := uuid.New()

	order, err := svc.Submit(context.Background(), SubmitInput{
		RestaurantID: uuid.New(),
		WaiterID:     &waiterID,
		OrderType:    enums.OrderTypeTable,
		Unit:         &unit,
		Lines:        tableLines(),
		OrderNotes:   "cliente com pressa",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if order.OrderNumber != 42 {
		t.Errorf("order number = %d, want 42", order.OrderNumber)
	}
	// (40+8)*2 + 6*3 = 114
	if !order.Total.Equal(dec(114)) {
		t.Errorf("total = %s, want 114", order.Total)
	}
	if order.TableID == nil || *order.TableID != tableID {
		t.Errorf("table id = %v", order.TableID)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}
	if order.Items[0].ProductName != "Pizza Calabresa (G)" {
		t.Errorf("item name = %q, want size suffix", order.Items[0].ProductName)
	}
	if !order.Items[0].ProductPrice.Equal(dec(48)) {
		t.Errorf("item price = %s, want 48 with addons folded in", order.Items[0].ProductPrice)
	}
	if order.Items[0].Notes == nil || *order.Items[0].Notes != "+ 1x borda recheada" {
		t.Errorf("item notes = %v", order.Items[0].Notes)
	}
	if order.Items[1].Notes == nil || *order.Items[1].Notes != "bem gelado" {
		t.Errorf("item notes = %v", order.Items[1].Notes)
	}

	if got := floorRepo.tableStatus[tableID]; got != enums.UnitStatusOccupied {
		t.Errorf("table status = %s, want occupied", got)
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.calls)
	}
	if len(printer.orders) != 1 {
		t.Errorf("print jobs = %d, want 1", len(printer.orders))
	}
}

func TestSubmitTabOrderBindsCustomer(t *testing.T) {
	repo := newStubOrdersRepo()
	floorRepo := newStubFloorRepo()
	svc := newTestService(repo, floorRepo, &stubNotifier{}, &stubPrinter{})

	tabID := uuid.New()
	unit := floor.TabKey(tabID)

	order, err := svc.Submit(context.Background(), SubmitInput{
		RestaurantID:  uuid.New(),
		OrderType:     enums.OrderTypeTable,
		Unit:          &unit,
		Lines:         []cart.Line{{ProductID: uuid.New(), ProductName: "Chopp", UnitPrice: dec(12), Quantity: 2}},
		CustomerName:  "Renato",
		CustomerPhone: "11 97777-1234",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if order.TabID == nil || *order.TabID != tabID {
		t.Errorf("tab id = %v", order.TabID)
	}
	if got := floorRepo.tabStatus[tabID]; got != enums.UnitStatusOccupied {
		t.Errorf("tab status = %s, want occupied", got)
	}
	if len(floorRepo.bound) != 1 {
		t.Fatalf("bound contacts = %d, want 1", len(floorRepo.bound))
	}
	if b := floorRepo.bound[0]; b.tabID != tabID || b.name != "Renato" || b.phone != "11 97777-1234" {
		t.Errorf("bound contact = %+v", floorRepo.bound[0])
	}
}

func TestSubmitTabOrderWithoutContactSkipsBinding(t *testing.T) {
	floorRepo := newStubFloorRepo()
	svc := newTestService(newStubOrdersRepo(), floorRepo, &stubNotifier{}, &stubPrinter{})

	unit := floor.TabKey(uuid.New())
	_, err := svc.Submit(context.Background(), SubmitInput{
		RestaurantID: uuid.New(),
		OrderType:    enums.OrderTypeTable,
		Unit:         &unit,
		Lines:        []cart.Line{{ProductID: uuid.New(), ProductName: "Chopp", UnitPrice: dec(12), Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(floorRepo.bound) != 0 {
		t.Errorf("bound contacts = %d, want none without a contact", len(floorRepo.bound))
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	svc := newTestService(newStubOrdersRepo(), newStubFloorRepo(), &stubNotifier{}, &stubPrinter{})
	unit := floor.TableKey(uuid.New())

	_, err := svc.Submit(context.Background(), SubmitInput{
		RestaurantID: uuid.New(),
		OrderType:    enums.OrderTypeTable,
		Unit:         &unit,
	})
	if !errors.IsCode(err, errors.CodeValidation) {
		t.Errorf("Submit = %v, want validation error", err)
	}
}

func TestSubmitDeliveryAddsFee(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newTestService(repo, newStubFloorRepo(), &stubNotifier{}, &stubPrinter{})

	order, err := svc.Submit(context.Background(), SubmitInput{
		RestaurantID:    uuid.New(),
		OrderType:       enums.OrderTypeDelivery,
		Lines:           []cart.Line{{ProductID: uuid.New(), ProductName: "Marmita", UnitPrice: dec(25), Quantity: 1}},
		CustomerName:    "Marcos",
		DeliveryAddress: "Rua B, 45",
		DeliveryPhone:   "11 95555-0000",
		DeliveryFee:     dec(8),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !order.Total.Equal(dec(33)) {
		t.Errorf("total = %s, want 33 with delivery fee", order.Total)
	}
	if order.DeliveryAddress == nil || *order.DeliveryAddress != "Rua B, 45" {
		t.Errorf("address = %v", order.DeliveryAddress)
	}
}

func TestSubmitDeliveryWithoutAddress(t *testing.T) {
	svc := newTestService(newStubOrdersRepo(), newStubFloorRepo(), &stubNotifier{}, &stubPrinter{})
	_, err := svc.Submit(context.Background(), SubmitInput{
		RestaurantID: uuid.New(),
		OrderType:    enums.OrderTypeDelivery,
		Lines:        []cart.Line{{ProductID: uuid.New(), UnitPrice: dec(10), Quantity: 1}},
		CustomerName: "Nina",
	})
	if !errors.IsCode(err, errors.CodeValidation) {
		t.Errorf("Submit = %v, want validation error", err)
	}
}

func TestBillForSumsOpenOrders(t *testing.T) {
	repo := newStubOrdersRepo()
	repo.open = []models.Order{
		{ID: uuid.New(), OrderNumber: 1, Status: enums.OrderStatusServed, Total: dec(30)},
		{ID: uuid.New(), OrderNumber: 2, Status: enums.OrderStatusPending, Total: dec(45.50)},
	}
	svc := newTestService(repo, newStubFloorRepo(), &stubNotifier{}, &stubPrinter{})

	bill, err := svc.BillFor(context.Background(), uuid.New(), floor.TableKey(uuid.New()))
	if err != nil {
		t.Fatalf("BillFor: %v", err)
	}
	if len(bill.Orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(bill.Orders))
	}
	if !bill.Total.Equal(dec(75.50)) {
		t.Errorf("total = %s, want 75.50", bill.Total)
	}
}

func TestAdvanceStatusGuards(t *testing.T) {
	repo := newStubOrdersRepo()
	restaurantID := uuid.New()
	order := &models.Order{ID: uuid.New(), RestaurantID: restaurantID, Status: enums.OrderStatusClosed}
	repo.byID[order.ID] = order
	svc := newTestService(repo, newStubFloorRepo(), &stubNotifier{}, &stubPrinter{})

	err := svc.AdvanceStatus(context.Background(), restaurantID, order.ID, enums.OrderStatusClosed)
	if !errors.IsCode(err, errors.CodeStateConflict) {
		t.Errorf("closing directly = %v, want state conflict", err)
	}

	err = svc.AdvanceStatus(context.Background(), restaurantID, order.ID, enums.OrderStatusReady)
	if !errors.IsCode(err, errors.CodeStateConflict) {
		t.Errorf("moving a closed order = %v, want state conflict", err)
	}

	err = svc.AdvanceStatus(context.Background(), restaurantID, uuid.New(), enums.OrderStatusReady)
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Errorf("unknown order = %v, want not found", err)
	}
}

func TestCloseSimpleCashRecordsTender(t *testing.T) {
	repo := newStubOrdersRepo()
	repo.closed = 2
	floorRepo := newStubFloorRepo()
	notifier := &stubNotifier{}
	printer := &stubPrinter{}
	svc := newTestService(repo, floorRepo, notifier, printer)

	tableID := uuid.New()
	st := settlement.New(dec(75.50))
	if err := st.SetCashReceived(dec(100)); err != nil {
		t.Fatalf("SetCashReceived: %v", err)
	}

	err := svc.Close(context.Background(), CloseInput{
		RestaurantID: uuid.New(),
		Unit:         floor.TableKey(tableID),
		Settlement:   st,
	})
	if err != nil {
		t.Fatalf("Close: %v", err)
	}

	if repo.updates["status"] != enums.OrderStatusClosed {
		t.Errorf("status update = %v", repo.updates["status"])
	}
	if repo.updates["payment_method"] != enums.PaymentCash {
		t.Errorf("payment method = %v", repo.updates["payment_method"])
	}
	change, ok := repo.updates["change_given"].(decimal.Decimal)
	if !ok || !change.Equal(dec(24.50)) {
		t.Errorf("change = %v, want 24.50", repo.updates["change_given"])
	}
	if got := floorRepo.tableStatus[tableID]; got != enums.UnitStatusAvailable {
		t.Errorf("table status = %s, want available", got)
	}
	if len(repo.payments) != 0 {
		t.Errorf("payment rows = %d, want none for simple mode", len(repo.payments))
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.calls)
	}
	if len(printer.receipts) != 1 {
		t.Errorf("receipts = %d, want 1", len(printer.receipts))
	}
}

func TestCloseMixedWritesPaymentRows(t *testing.T) {
	repo := newStubOrdersRepo()
	repo.closed = 1
	floorRepo := newStubFloorRepo()
	svc := newTestService(repo, floorRepo, &stubNotifier{}, &stubPrinter{})

	tabID := uuid.New()
	st := settlement.New(dec(90))
	if err := st.SetMode(settlement.ModeMixed); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if _, err := st.AddEntry(enums.PaymentCredit, dec(50), "Otto"); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := st.AddEntry(enums.PaymentPix, dec(40), "Paula"); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	err := svc.Close(context.Background(), CloseInput{
		RestaurantID: uuid.New(),
		Unit:         floor.TabKey(tabID),
		Settlement:   st,
	})
	if err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(repo.payments) != 2 {
		t.Fatalf("payment rows = %d, want 2", len(repo.payments))
	}
	if repo.payments[0].TabID == nil || *repo.payments[0].TabID != tabID {
		t.Errorf("payment tab id = %v", repo.payments[0].TabID)
	}
	if repo.payments[0].PaidBy == nil || *repo.payments[0].PaidBy != "Otto" {
		t.Errorf("paid by = %v", repo.payments[0].PaidBy)
	}
	if _, ok := repo.updates["payment_method"]; ok {
		t.Error("mixed close should not set a single payment method")
	}
	if got := floorRepo.tabStatus[tabID]; got != enums.UnitStatusAvailable {
		t.Errorf("tab status = %s, want available", got)
	}
	if len(floorRepo.clearedTabs) != 1 || floorRepo.clearedTabs[0] != tabID {
		t.Errorf("cleared tabs = %v, want customer unbound", floorRepo.clearedTabs)
	}
}

func TestCloseWithUncoveredMixedBill(t *testing.T) {
	svc := newTestService(newStubOrdersRepo(), newStubFloorRepo(), &stubNotifier{}, &stubPrinter{})

	st := settlement.New(dec(100))
	if err := st.SetMode(settlement.ModeMixed); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if _, err := st.AddEntry(enums.PaymentCash, dec(60), ""); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	err := svc.Close(context.Background(), CloseInput{
		RestaurantID: uuid.New(),
		Unit:         floor.TableKey(uuid.New()),
		Settlement:   st,
	})
	if !errors.IsCode(err, errors.CodeValidation) {
		t.Errorf("Close = %v, want validation error", err)
	}
}

func TestCloseWithoutOpenOrders(t *testing.T) {
	repo := newStubOrdersRepo()
	repo.closed = 0
	svc := newTestService(repo, newStubFloorRepo(), &stubNotifier{}, &stubPrinter{})

	err := svc.Close(context.Background(), CloseInput{
		RestaurantID: uuid.New(),
		Unit:         floor.TableKey(uuid.New()),
		Settlement:   settlement.New(dec(10)),
	})
	if !errors.IsCode(err, errors.CodeStateConflict) {
		t.Errorf("Close = %v, want state conflict", err)
	}
}
