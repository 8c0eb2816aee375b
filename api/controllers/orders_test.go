package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/internal/orders"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
)

type stubOrdersService struct {
	order     *models.Order
	submitErr error
	submitted []orders.SubmitInput

	bill    *orders.Bill
	billErr error

	advanceErr error

	closeErr error
	closed   []orders.CloseInput
}

func (s *stubOrdersService) Submit(_ context.Context, input orders.SubmitInput) (*models.Order, error) {
	s.submitted = append(s.submitted, input)
	return s.order, s.submitErr
}

func (s *stubOrdersService) BillFor(_ context.Context, _ uuid.UUID, unit floor.UnitKey) (*orders.Bill, error) {
	if s.bill != nil {
		s.bill.Unit = unit
	}
	return s.bill, s.billErr
}

func (s *stubOrdersService) AdvanceStatus(_ context.Context, _, _ uuid.UUID, _ enums.OrderStatus) error {
	return s.advanceErr
}

func (s *stubOrdersService) Close(_ context.Context, input orders.CloseInput) error {
	s.closed = append(s.closed, input)
	return s.closeErr
}

func builderFixtureWithItem(t *testing.T) (*terminalFixture, floor.UnitKey) {
	t.Helper()
	fixture := newTerminalFixture(t)
	unit := fixture.seedTable(12)
	if err := fixture.sess.OpenOrderBuilder(unit); err != nil {
		t.Fatalf("OpenOrderBuilder: %v", err)
	}
	store, err := fixture.sess.Cart()
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	store.AddItem(burgerProduct(fixture.restaurantID), nil, nil)
	return fixture, unit
}

func TestOrderSubmitReturnsToFloor(t *testing.T) {
	fixture, unit := builderFixtureWithItem(t)

	svc := &stubOrdersService{order: &models.Order{
		ID:          uuid.New(),
		OrderNumber: 41,
		OrderType:   enums.OrderTypeTable,
		Status:      enums.OrderStatusPending,
		Total:       decimal.RequireFromString("25.50"),
	}}
	handler := OrderSubmit(fixture.manager, svc, testLogger())

	req := fixture.authorize(httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data orderResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != 41 {
		t.Errorf("order number = %d, want 41", envelope.Data.OrderNumber)
	}

	if fixture.sess.View() != session.ViewFloor {
		t.Errorf("view = %s, want floor after submit", fixture.sess.View())
	}
	rendered := fixture.manager.Registry(fixture.restaurantID).Find(unit)
	if rendered == nil || rendered.Status != enums.UnitStatusOccupied {
		t.Errorf("unit after submit = %+v, want occupied override", rendered)
	}
}

func TestOrderSubmitCarriesTabContact(t *testing.T) {
	fixture := newTerminalFixture(t)
	unit := fixture.seedTab(5)
	if err := fixture.sess.OpenOrderBuilder(unit); err != nil {
		t.Fatalf("OpenOrderBuilder: %v", err)
	}
	if err := fixture.sess.SetTabCustomer("Renato", "11 97777-1234"); err != nil {
		t.Fatalf("SetTabCustomer: %v", err)
	}
	store, err := fixture.sess.Cart()
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	store.AddItem(burgerProduct(fixture.restaurantID), nil, nil)

	svc := &stubOrdersService{order: &models.Order{
		ID:          uuid.New(),
		OrderNumber: 8,
		OrderType:   enums.OrderTypeTable,
		Status:      enums.OrderStatusPending,
		Total:       decimal.RequireFromString("25.50"),
	}}
	handler := OrderSubmit(fixture.manager, svc, testLogger())

	req := fixture.authorize(httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.submitted) != 1 {
		t.Fatalf("submits = %d, want 1", len(svc.submitted))
	}
	got := svc.submitted[0]
	if got.CustomerName != "Renato" || got.CustomerPhone != "11 97777-1234" {
		t.Errorf("contact = %q / %q, want the tab customer", got.CustomerName, got.CustomerPhone)
	}
	if got.Unit == nil || got.Unit.Kind != floor.KindTab {
		t.Errorf("unit = %+v, want the tab", got.Unit)
	}
}

func TestOrderSubmitRefusesDoubleTap(t *testing.T) {
	fixture, _ := builderFixtureWithItem(t)
	if _, err := fixture.sess.BeginMutation(); err != nil {
		t.Fatalf("BeginMutation: %v", err)
	}

	handler := OrderSubmit(fixture.manager, &stubOrdersService{}, testLogger())
	req := fixture.authorize(httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestOrderReviewBillRequiresUnit(t *testing.T) {
	fixture := newTerminalFixture(t)
	handler := OrderReviewBill(fixture.manager, &stubOrdersService{}, testLogger())

	req := fixture.authorize(httptest.NewRequest(http.MethodGet, "/api/v1/orders/bill", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestOrderReviewBillRendersOrders(t *testing.T) {
	fixture := newTerminalFixture(t)
	unit := fixture.seedTable(13)
	if err := fixture.sess.OpenOrderReview(unit); err != nil {
		t.Fatalf("OpenOrderReview: %v", err)
	}

	svc := &stubOrdersService{bill: &orders.Bill{
		Orders: []orders.BillOrder{{
			ID:          uuid.New(),
			OrderNumber: 7,
			Status:      enums.OrderStatusServed,
			Total:       decimal.RequireFromString("62.00"),
		}},
		Total: decimal.RequireFromString("62.00"),
	}}
	handler := OrderReviewBill(fixture.manager, svc, testLogger())

	req := fixture.authorize(httptest.NewRequest(http.MethodGet, "/api/v1/orders/bill", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data billResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(envelope.Data.Orders))
	}
	if want := decimal.RequireFromString("62.00"); !envelope.Data.Total.Equal(want) {
		t.Errorf("total = %s, want %s", envelope.Data.Total, want)
	}
	if envelope.Data.Unit.ID != unit.ID {
		t.Errorf("unit = %s, want %s", envelope.Data.Unit.ID, unit.ID)
	}
}

func TestOrderAdvanceStatusValidatesTarget(t *testing.T) {
	fixture := newTerminalFixture(t)
	handler := OrderAdvanceStatus(fixture.manager, &stubOrdersService{}, testLogger())

	orderID := uuid.NewString()
	req := fixture.authorize(httptest.NewRequest(
		http.MethodPost,
		"/api/v1/orders/"+orderID+"/status",
		strings.NewReader(`{"status":"pending"}`),
	))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderID", orderID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderAdvanceStatusForwardsToService(t *testing.T) {
	fixture := newTerminalFixture(t)
	handler := OrderAdvanceStatus(fixture.manager, &stubOrdersService{}, testLogger())

	orderID := uuid.NewString()
	req := fixture.authorize(httptest.NewRequest(
		http.MethodPost,
		"/api/v1/orders/"+orderID+"/status",
		strings.NewReader(`{"status":"ready"}`),
	))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderID", orderID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
