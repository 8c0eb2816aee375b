package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/api/responses"
	"github.com/mesalivre/pos-backend/api/validators"
	"github.com/mesalivre/pos-backend/internal/orders"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
	pkgerrors "github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

type orderResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber int             `json:"order_number"`
	OrderType   string          `json:"order_type"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		OrderType:   string(order.OrderType),
		Status:      string(order.Status),
		Total:       order.Total,
	}
}

// OrderSubmit turns the session's cart into a persisted order. The
// in-flight guard refuses a double tap; a response arriving after the
// session was forced back to the floor is not allowed to navigate.
func OrderSubmit(manager *session.Manager, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := term.sess.Cart()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.SubmitInput{
			RestaurantID: term.restaurantID,
			WaiterID:     &term.waiterID,
			OrderType:    term.sess.OrderType(),
			Unit:         term.sess.Unit(),
			Lines:        store.Lines(),
			OrderNotes:   store.OrderNotes(),
		}
		if info := term.sess.DeliveryInfo(); info != nil {
			if info.CustomerID != uuid.Nil {
				id := info.CustomerID
				input.CustomerID = &id
			}
			input.CustomerName = info.Name
			input.DeliveryAddress = info.Address
			input.DeliveryPhone = info.Phone
			input.DeliveryFee = info.Fee
		}
		if contact := term.sess.TabCustomer(); contact != nil {
			input.CustomerName = contact.Name
			input.CustomerPhone = contact.Phone
		}

		generation, err := term.sess.BeginMutation()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), input)
		current := term.sess.EndMutation(generation)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if current {
			if unit := term.sess.Unit(); unit != nil {
				manager.Registry(term.restaurantID).SetOverride(*unit, enums.UnitStatusOccupied)
			}
			term.sess.BackToFloor()
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

type billResponse struct {
	Unit   unitKeyResponse     `json:"unit"`
	Orders []billOrderResponse `json:"orders"`
	Total  decimal.Decimal     `json:"total"`
}

type billOrderResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber int             `json:"order_number"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
}

func newBillResponse(bill *orders.Bill) billResponse {
	resp := billResponse{
		Unit:   unitKeyResponse{Kind: string(bill.Unit.Kind), ID: bill.Unit.ID},
		Orders: make([]billOrderResponse, 0, len(bill.Orders)),
		Total:  bill.Total,
	}
	for _, order := range bill.Orders {
		resp.Orders = append(resp.Orders, billOrderResponse{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			Status:      string(order.Status),
			Total:       order.Total,
		})
	}
	return resp
}

// OrderReviewBill returns the open orders and running total for the unit
// the terminal is reviewing.
func OrderReviewBill(manager *session.Manager, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unit := term.sess.Unit()
		if unit == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "no unit under review"))
			return
		}

		bill, err := svc.BillFor(r.Context(), term.restaurantID, *unit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBillResponse(bill))
	}
}

type advanceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=preparing ready served delivered cancelled"`
}

// OrderAdvanceStatus moves one order along the kitchen workflow.
func OrderAdvanceStatus(manager *session.Manager, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var body advanceStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AdvanceStatus(r.Context(), term.restaurantID, orderID, enums.OrderStatus(body.Status)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": body.Status})
	}
}
