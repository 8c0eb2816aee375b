package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/api/responses"
	"github.com/mesalivre/pos-backend/api/validators"
	"github.com/mesalivre/pos-backend/internal/customers"
	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
	pkgerrors "github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

type unitKeyPayload struct {
	UnitKind string `json:"unit_kind" validate:"required,oneof=table tab"`
	UnitID   string `json:"unit_id" validate:"required,uuid"`
}

type openBuilderRequest struct {
	unitKeyPayload
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

type sessionStateResponse struct {
	View      string            `json:"view"`
	OrderType string            `json:"order_type,omitempty"`
	Unit      *unitKeyResponse  `json:"unit,omitempty"`
	Delivery  *deliveryResponse `json:"delivery,omitempty"`
	Notice    string            `json:"notice,omitempty"`
}

type unitKeyResponse struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

type deliveryResponse struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"`
	Fee        decimal.Decimal `json:"fee"`
}

func newSessionStateResponse(sess *session.Session) sessionStateResponse {
	resp := sessionStateResponse{
		View:      string(sess.View()),
		OrderType: string(sess.OrderType()),
		Notice:    sess.TakeNotice(),
	}
	if unit := sess.Unit(); unit != nil {
		resp.Unit = &unitKeyResponse{Kind: string(unit.Kind), ID: unit.ID}
	}
	if info := sess.DeliveryInfo(); info != nil {
		resp.Delivery = &deliveryResponse{
			CustomerID: info.CustomerID,
			Name:       info.Name,
			Phone:      info.Phone,
			Address:    info.Address,
			Fee:        info.Fee,
		}
	}
	return resp
}

// SessionState returns the terminal's current screen and bindings.
func SessionState(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionStateResponse(term.sess))
	}
}

// OpenOrderBuilder moves the terminal from the floor into order building
// for one service unit. Opening a tab may carry the customer contact it
// is being opened under.
func OpenOrderBuilder(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body openBuilderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unit, err := parseUnitKey(body.UnitKind, body.UnitID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		name := strings.TrimSpace(body.CustomerName)
		phone := strings.TrimSpace(body.CustomerPhone)
		if (name != "" || phone != "") && unit.Kind != floor.KindTab {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer contact only applies to tab orders"))
			return
		}
		if manager.Registry(term.restaurantID).Find(unit) == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "service unit not found"))
			return
		}

		if err := term.sess.OpenOrderBuilder(unit); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if name != "" || phone != "" {
			if err := term.sess.SetTabCustomer(name, phone); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, newSessionStateResponse(term.sess))
	}
}

type openIntakeRequest struct {
	OrderType string `json:"order_type" validate:"omitempty,oneof=delivery takeaway"`
}

// OpenDeliveryIntake moves the terminal into the contact form for a
// delivery or takeaway order.
func OpenDeliveryIntake(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body openIntakeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderType := enums.OrderType(body.OrderType)
		if orderType == "" {
			orderType = enums.OrderTypeDelivery
		}

		if err := term.sess.OpenDeliveryIntake(orderType); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionStateResponse(term.sess))
	}
}

type confirmDeliveryRequest struct {
	CustomerID   *uuid.UUID `json:"customer_id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	Number       string     `json:"number"`
	Complement   string     `json:"complement"`
	Neighborhood string     `json:"neighborhood"`
	City         string     `json:"city"`
	CEP          string     `json:"cep"`
}

// ConfirmDeliveryIntake resolves the customer and delivery fee, then moves
// the terminal into order building. Takeaway orders skip the customer
// record and fee lookup when no phone was taken.
func ConfirmDeliveryIntake(manager *session.Manager, svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		var body confirmDeliveryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if term.sess.OrderType() == enums.OrderTypeTakeaway && body.CustomerID == nil && strings.TrimSpace(body.Phone) == "" {
			name := strings.TrimSpace(body.Name)
			if name == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "takeaway orders need a customer name"))
				return
			}
			if err := term.sess.ConfirmDeliveryIntake(session.DeliveryInfo{Name: name, Fee: decimal.Zero}); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, newSessionStateResponse(term.sess))
			return
		}

		customer, err := svc.Resolve(r.Context(), customers.ResolveInput{
			RestaurantID: term.restaurantID,
			CustomerID:   body.CustomerID,
			Name:         body.Name,
			Phone:        body.Phone,
			Address:      body.Address,
			Number:       body.Number,
			Complement:   body.Complement,
			Neighborhood: body.Neighborhood,
			City:         body.City,
			CEP:          body.CEP,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fee := decimal.Zero
		if term.sess.OrderType() == enums.OrderTypeDelivery {
			neighborhood := body.Neighborhood
			if neighborhood == "" && customer.Neighborhood != nil {
				neighborhood = *customer.Neighborhood
			}
			feeRow, err := svc.FeeFor(r.Context(), term.restaurantID, neighborhood)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if feeRow != nil {
				fee = feeRow.Fee
			}
		}

		info := session.DeliveryInfo{
			CustomerID: customer.ID,
			Name:       customer.Name,
			Phone:      customer.Phone,
			Address:    deliveryAddress(customer, body.Address),
			Fee:        fee,
		}
		if err := term.sess.ConfirmDeliveryIntake(info); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionStateResponse(term.sess))
	}
}

// deliveryAddress prefers the address typed on the intake form, falling
// back to the customer's stored address line.
func deliveryAddress(customer *models.Customer, typed string) string {
	typed = strings.TrimSpace(typed)
	if typed != "" {
		return typed
	}
	parts := make([]string, 0, 3)
	for _, field := range []*string{customer.Address, customer.Number, customer.Neighborhood} {
		if field != nil && *field != "" {
			parts = append(parts, *field)
		}
	}
	return strings.Join(parts, ", ")
}

// OpenOrderReview moves the terminal into bill review for a unit.
func OpenOrderReview(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body unitKeyPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unit, err := parseUnitKey(body.UnitKind, body.UnitID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if manager.Registry(term.restaurantID).Find(unit) == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "service unit not found"))
			return
		}

		if err := term.sess.OpenOrderReview(unit); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionStateResponse(term.sess))
	}
}

// BackToFloor returns the terminal to the floor list from any screen.
func BackToFloor(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		term.sess.BackToFloor()
		responses.WriteSuccess(w, newSessionStateResponse(term.sess))
	}
}
