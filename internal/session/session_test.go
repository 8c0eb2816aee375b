package session

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
	"github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestSession() *Session {
	return newSession(uuid.NewString(), uuid.New(), uuid.New())
}

func TestSessionStartsOnFloor(t *testing.T) {
	s := newTestSession()
	if s.View() != ViewFloor {
		t.Errorf("view = %s, want floor", s.View())
	}
	if s.Unit() != nil {
		t.Errorf("unit = %v, want nil", s.Unit())
	}
}

func TestOpenOrderBuilderClearsCart(t *testing.T) {
	s := newTestSession()
	unit := floor.TableKey(uuid.New())

	if err := s.OpenOrderBuilder(unit); err != nil {
		t.Fatalf("OpenOrderBuilder: %v", err)
	}
	c, err := s.Cart()
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	c.SetOrderNotes("leftover")

	s.BackToFloor()
	if err := s.OpenOrderBuilder(unit); err != nil {
		t.Fatalf("OpenOrderBuilder: %v", err)
	}
	c, err = s.Cart()
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	if !c.IsEmpty() || c.OrderNotes() != "" {
		t.Error("cart should start empty on every builder entry")
	}
}

func TestOrderBuilderRequiresFloor(t *testing.T) {
	s := newTestSession()
	unit := floor.TableKey(uuid.New())
	if err := s.OpenOrderBuilder(unit); err != nil {
		t.Fatalf("OpenOrderBuilder: %v", err)
	}

	err := s.OpenOrderBuilder(floor.TableKey(uuid.New()))
	if !errors.IsCode(err, errors.CodeStateConflict) {
		t.Errorf("double open = %v, want state conflict", err)
	}
}

func TestDeliveryIntakeFlow(t *testing.T) {
	s := newTestSession()
	if err := s.OpenDeliveryIntake(enums.OrderTypeDelivery); err != nil {
		t.Fatalf("OpenDeliveryIntake: %v", err)
	}
	if s.View() != ViewDeliveryIntake {
		t.Fatalf("view = %s", s.View())
	}
	if s.OrderType() != enums.OrderTypeDelivery {
		t.Errorf("order type = %s", s.OrderType())
	}
	info := DeliveryInfo{CustomerID: uuid.New(), Name: "Rita", Phone: "11 94444-2222", Address: "Rua C, 3", Fee: decimal.NewFromInt(7)}
	if err := s.ConfirmDeliveryIntake(info); err != nil {
		t.Fatalf("ConfirmDeliveryIntake: %v", err)
	}
	if s.View() != ViewOrderBuilder {
		t.Errorf("view = %s, want order builder", s.View())
	}
	got := s.DeliveryInfo()
	if got == nil || got.Name != "Rita" || !got.Fee.Equal(decimal.NewFromInt(7)) {
		t.Errorf("delivery info = %+v", got)
	}

	s.BackToFloor()
	if s.DeliveryInfo() != nil {
		t.Error("delivery info should clear on return to floor")
	}
}

func TestConfirmDeliveryIntakeRequiresIntake(t *testing.T) {
	s := newTestSession()
	err := s.ConfirmDeliveryIntake(DeliveryInfo{})
	if !errors.IsCode(err, errors.CodeStateConflict) {
		t.Errorf("ConfirmDeliveryIntake from floor = %v, want state conflict", err)
	}
}

func TestIntakeRejectsTableOrders(t *testing.T) {
	s := newTestSession()
	if err := s.OpenDeliveryIntake(enums.OrderTypeTable); !errors.IsCode(err, errors.CodeValidation) {
		t.Errorf("OpenDeliveryIntake(table) = %v, want validation error", err)
	}
	if err := s.OpenDeliveryIntake(enums.OrderTypeTakeaway); err != nil {
		t.Fatalf("OpenDeliveryIntake(takeaway): %v", err)
	}
	if s.OrderType() != enums.OrderTypeTakeaway {
		t.Errorf("order type = %s", s.OrderType())
	}
}

func TestSetTabCustomerOnTabBuilder(t *testing.T) {
	s := newTestSession()
	if err := s.OpenOrderBuilder(floor.TabKey(uuid.New())); err != nil {
		t.Fatalf("OpenOrderBuilder: %v", err)
	}
	if err := s.SetTabCustomer(" Renato ", "11 97777-1234"); err != nil {
		t.Fatalf("SetTabCustomer: %v", err)
	}
	contact := s.TabCustomer()
	if contact == nil || contact.Name != "Renato" || contact.Phone != "11 97777-1234" {
		t.Errorf("contact = %+v", contact)
	}

	s.BackToFloor()
	if s.TabCustomer() != nil {
		t.Error("tab contact should clear on return to floor")
	}
}

func TestSetTabCustomerGuards(t *testing.T) {
	s := newTestSession()
	if err := s.SetTabCustomer("Renato", ""); !errors.IsCode(err, errors.CodeStateConflict) {
		t.Errorf("SetTabCustomer on floor = %v, want state conflict", err)
	}

	if err := s.OpenOrderBuilder(floor.TableKey(uuid.New())); err != nil {
		t.Fatalf("OpenOrderBuilder: %v", err)
	}
	if err := s.SetTabCustomer("Renato", ""); !errors.IsCode(err, errors.CodeStateConflict) {
		t.Errorf("SetTabCustomer on a table = %v, want state conflict", err)
	}
	s.BackToFloor()

	if err := s.OpenOrderBuilder(floor.TabKey(uuid.New())); err != nil {
		t.Fatalf("OpenOrderBuilder: %v", err)
	}
	if err := s.SetTabCustomer("  ", ""); !errors.IsCode(err, errors.CodeValidation) {
		t.Errorf("SetTabCustomer(blank) = %v, want validation error", err)
	}
}

func TestCartUnavailableOnFloor(t *testing.T) {
	s := newTestSession()
	if _, err := s.Cart(); !errors.IsCode(err, errors.CodeStateConflict) {
		t.Errorf("Cart on floor = %v, want state conflict", err)
	}
}

func TestSettlementRequiresReviewScreen(t *testing.T) {
	s := newTestSession()
	if _, err := s.StartSettlement(decimal.NewFromInt(50)); !errors.IsCode(err, errors.CodeStateConflict) {
		t.Errorf("StartSettlement on floor = %v, want state conflict", err)
	}

	if err := s.OpenOrderReview(floor.TabKey(uuid.New())); err != nil {
		t.Fatalf("OpenOrderReview: %v", err)
	}
	st, err := s.StartSettlement(decimal.NewFromInt(50))
	if err != nil || st == nil {
		t.Fatalf("StartSettlement: %v", err)
	}
	got, err := s.Settlement()
	if err != nil || got != st {
		t.Errorf("Settlement = %v, %v", got, err)
	}
}

func TestInFlightGuard(t *testing.T) {
	s := newTestSession()
	gen, err := s.BeginMutation()
	if err != nil {
		t.Fatalf("BeginMutation: %v", err)
	}
	if _, err := s.BeginMutation(); !errors.IsCode(err, errors.CodeConflict) {
		t.Errorf("second BeginMutation = %v, want conflict", err)
	}
	if !s.EndMutation(gen) {
		t.Error("result should still be current")
	}
	if _, err := s.BeginMutation(); err != nil {
		t.Errorf("BeginMutation after release = %v", err)
	}
}

func TestForceFloorInvalidatesInFlightResult(t *testing.T) {
	s := newTestSession()
	if err := s.OpenOrderReview(floor.TableKey(uuid.New())); err != nil {
		t.Fatalf("OpenOrderReview: %v", err)
	}
	gen, err := s.BeginMutation()
	if err != nil {
		t.Fatalf("BeginMutation: %v", err)
	}

	// the server spotted a conflict while the close was in flight
	s.ForceFloor()
	if s.View() != ViewFloor {
		t.Fatalf("view = %s, want floor", s.View())
	}
	if s.EndMutation(gen) {
		t.Error("late response should be discarded after ForceFloor")
	}
}

func TestManagerLifecycle(t *testing.T) {
	started := 0
	manager := NewManager(func(_ context.Context, _ uuid.UUID, _ *floor.Registry) {
		started++
	}, quietLogger())
	defer manager.Close()

	restaurantID := uuid.New()
	sess := manager.Create(context.Background(), restaurantID, uuid.New())
	if _, err := manager.Get(sess.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// second session on the same restaurant reuses the registry
	manager.Create(context.Background(), restaurantID, uuid.New())
	if started != 1 {
		t.Errorf("sync started %d times, want once per restaurant", started)
	}
	if manager.Registry(restaurantID) == nil {
		t.Fatal("registry missing")
	}

	manager.Delete(sess.ID)
	if _, err := manager.Get(sess.ID); !errors.IsCode(err, errors.CodeUnauthorized) {
		t.Errorf("Get after delete = %v, want unauthorized", err)
	}
}

func TestFloorRefreshEvictsStaleReview(t *testing.T) {
	manager := NewManager(nil, quietLogger())
	defer manager.Close()

	restaurantID := uuid.New()
	sess := manager.Create(context.Background(), restaurantID, uuid.New())
	registry := manager.Registry(restaurantID)

	tableID := uuid.New()
	registry.Replace([]models.Table{{ID: tableID, Number: 9, Status: enums.UnitStatusOccupied}}, nil)

	if err := sess.OpenOrderReview(floor.TableKey(tableID)); err != nil {
		t.Fatalf("OpenOrderReview: %v", err)
	}
	if _, err := sess.StartSettlement(decimal.NewFromInt(80)); err != nil {
		t.Fatalf("StartSettlement: %v", err)
	}
	gen, err := sess.BeginMutation()
	if err != nil {
		t.Fatalf("BeginMutation: %v", err)
	}

	// another terminal settled the bill; the next refresh reports the
	// table free
	registry.Replace([]models.Table{{ID: tableID, Number: 9, Status: enums.UnitStatusAvailable}}, nil)

	if sess.View() != ViewFloor {
		t.Fatalf("view = %s, want floor after eviction", sess.View())
	}
	if _, err := sess.Settlement(); !errors.IsCode(err, errors.CodeStateConflict) {
		t.Errorf("Settlement = %v, want state conflict after eviction", err)
	}
	if sess.EndMutation(gen) {
		t.Error("in-flight close should be discarded after eviction")
	}
	if sess.TakeNotice() == "" {
		t.Error("evicted session should carry a notice")
	}
	if sess.TakeNotice() != "" {
		t.Error("notice should surface once")
	}
}

func TestFloorRefreshKeepsOccupiedReview(t *testing.T) {
	manager := NewManager(nil, quietLogger())
	defer manager.Close()

	restaurantID := uuid.New()
	sess := manager.Create(context.Background(), restaurantID, uuid.New())
	registry := manager.Registry(restaurantID)

	tableID := uuid.New()
	registry.Replace([]models.Table{{ID: tableID, Number: 4, Status: enums.UnitStatusOccupied}}, nil)
	if err := sess.OpenOrderReview(floor.TableKey(tableID)); err != nil {
		t.Fatalf("OpenOrderReview: %v", err)
	}

	registry.Replace([]models.Table{{ID: tableID, Number: 4, Status: enums.UnitStatusOccupied}}, nil)

	if sess.View() != ViewOrderReview {
		t.Errorf("view = %s, want review kept while the unit stays occupied", sess.View())
	}
	if sess.TakeNotice() != "" {
		t.Error("no notice expected while the unit stays occupied")
	}
}

func TestFloorRefreshIgnoresOtherScreens(t *testing.T) {
	manager := NewManager(nil, quietLogger())
	defer manager.Close()

	restaurantID := uuid.New()
	sess := manager.Create(context.Background(), restaurantID, uuid.New())
	registry := manager.Registry(restaurantID)

	tableID := uuid.New()
	registry.Replace([]models.Table{{ID: tableID, Number: 2, Status: enums.UnitStatusAvailable}}, nil)
	if err := sess.OpenOrderBuilder(floor.TableKey(tableID)); err != nil {
		t.Fatalf("OpenOrderBuilder: %v", err)
	}

	// an in-progress cart is not review state; the refresh leaves it be
	registry.Replace([]models.Table{{ID: tableID, Number: 2, Status: enums.UnitStatusAvailable}}, nil)

	if sess.View() != ViewOrderBuilder {
		t.Errorf("view = %s, want builder untouched", sess.View())
	}
}

func TestManagerSweep(t *testing.T) {
	manager := NewManager(nil, quietLogger())
	defer manager.Close()

	sess := manager.Create(context.Background(), uuid.New(), uuid.New())
	sess.mu.Lock()
	sess.lastSeen = time.Now().Add(-time.Hour)
	sess.mu.Unlock()
	fresh := manager.Create(context.Background(), uuid.New(), uuid.New())

	if dropped := manager.Sweep(30 * time.Minute); dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if _, err := manager.Get(fresh.ID); err != nil {
		t.Errorf("fresh session dropped: %v", err)
	}
}
