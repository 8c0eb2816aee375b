package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/api/responses"
	"github.com/mesalivre/pos-backend/internal/customers"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

type customerResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Address      *string   `json:"address,omitempty"`
	Number       *string   `json:"number,omitempty"`
	Complement   *string   `json:"complement,omitempty"`
	Neighborhood *string   `json:"neighborhood,omitempty"`
	City         *string   `json:"city,omitempty"`
	CEP          *string   `json:"cep,omitempty"`
}

func newCustomerResponse(customer models.Customer) customerResponse {
	return customerResponse{
		ID:           customer.ID,
		Name:         customer.Name,
		Phone:        customer.Phone,
		Address:      customer.Address,
		Number:       customer.Number,
		Complement:   customer.Complement,
		Neighborhood: customer.Neighborhood,
		City:         customer.City,
		CEP:          customer.CEP,
	}
}

// CustomerSearch finds delivery customers by phone or name fragment for
// the intake form's autocomplete.
func CustomerSearch(manager *session.Manager, svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.Search(r.Context(), term.restaurantID, r.URL.Query().Get("q"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results := make([]customerResponse, 0, len(found))
		for _, customer := range found {
			results = append(results, newCustomerResponse(customer))
		}
		responses.WriteSuccess(w, results)
	}
}

type deliveryFeeResponse struct {
	Neighborhood string          `json:"neighborhood"`
	Fee          decimal.Decimal `json:"fee"`
}

// DeliveryFees lists the neighborhood fee table the intake form offers.
func DeliveryFees(manager *session.Manager, svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fees, err := svc.ListFees(r.Context(), term.restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results := make([]deliveryFeeResponse, 0, len(fees))
		for _, fee := range fees {
			results = append(results, deliveryFeeResponse{Neighborhood: fee.Neighborhood, Fee: fee.Fee})
		}
		responses.WriteSuccess(w, results)
	}
}
