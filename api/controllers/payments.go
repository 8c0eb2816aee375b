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
	"github.com/mesalivre/pos-backend/internal/settlement"
	"github.com/mesalivre/pos-backend/pkg/enums"
	pkgerrors "github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

type settlementResponse struct {
	Total        decimal.Decimal           `json:"total"`
	Mode         string                    `json:"mode"`
	Method       string                    `json:"method,omitempty"`
	CashReceived decimal.Decimal           `json:"cash_received"`
	Change       decimal.Decimal           `json:"change"`
	SplitCount   int                       `json:"split_count,omitempty"`
	PerPerson    decimal.Decimal           `json:"per_person"`
	Entries      []settlementEntryResponse `json:"entries,omitempty"`
	Paid         decimal.Decimal           `json:"paid"`
	Remaining    decimal.Decimal           `json:"remaining"`
	CanConfirm   bool                      `json:"can_confirm"`
}

type settlementEntryResponse struct {
	ID     uuid.UUID       `json:"id"`
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	PaidBy string          `json:"paid_by,omitempty"`
}

func newSettlementResponse(st *settlement.Settlement) settlementResponse {
	resp := settlementResponse{
		Total:        st.Total,
		Mode:         string(st.Mode),
		Method:       string(st.Method),
		CashReceived: st.CashReceived,
		Change:       st.Change(),
		SplitCount:   st.SplitCount,
		PerPerson:    st.PerPerson(),
		Paid:         st.Paid(),
		Remaining:    st.Remaining(),
		CanConfirm:   st.CanConfirm(),
	}
	for _, entry := range st.Entries {
		resp.Entries = append(resp.Entries, settlementEntryResponse{
			ID:     entry.ID,
			Method: string(entry.Method),
			Amount: entry.Amount,
			PaidBy: entry.PaidBy,
		})
	}
	return resp
}

// withSettlement loads the terminal and its settlement in progress, then
// hands both to fn. Every settlement mutation endpoint shares this shape.
func withSettlement(manager *session.Manager, logg *logger.Logger, fn func(r *http.Request, term *terminalContext, st *settlement.Settlement) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st, err := term.sess.Settlement()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := fn(r, term, st); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSettlementResponse(st))
	}
}

// SettlementStart opens settlement over the reviewed unit's bill total.
func SettlementStart(manager *session.Manager, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
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
		if len(bill.Orders) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "no open orders on this unit"))
			return
		}

		st, err := term.sess.StartSettlement(bill.Total)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSettlementResponse(st))
	}
}

// SettlementState returns the settlement in progress.
func SettlementState(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return withSettlement(manager, logg, func(_ *http.Request, _ *terminalContext, _ *settlement.Settlement) error {
		return nil
	})
}

type setModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=simple equal_split mixed"`
}

// SettlementSetMode switches between simple, equal split, and mixed.
func SettlementSetMode(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return withSettlement(manager, logg, func(r *http.Request, _ *terminalContext, st *settlement.Settlement) error {
		var body setModeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return st.SetMode(settlement.Mode(body.Mode))
	})
}

type setMethodRequest struct {
	Method string `json:"method" validate:"required,oneof=cash credit debit pix"`
}

// SettlementSetMethod picks the tender for simple and equal-split modes.
func SettlementSetMethod(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return withSettlement(manager, logg, func(r *http.Request, _ *terminalContext, st *settlement.Settlement) error {
		var body setMethodRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return st.SetMethod(enums.PaymentMethod(body.Method))
	})
}

type setCashRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SettlementSetCash records the cash handed over.
func SettlementSetCash(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return withSettlement(manager, logg, func(r *http.Request, _ *terminalContext, st *settlement.Settlement) error {
		var body setCashRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return st.SetCashReceived(body.Amount)
	})
}

type setSplitRequest struct {
	Count int `json:"count" validate:"required,min=2"`
}

// SettlementSetSplit sets how many people share an equal split.
func SettlementSetSplit(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return withSettlement(manager, logg, func(r *http.Request, _ *terminalContext, st *settlement.Settlement) error {
		var body setSplitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return st.SetSplitCount(body.Count)
	})
}

type addEntryRequest struct {
	Method string          `json:"method" validate:"required,oneof=cash credit debit pix"`
	Amount decimal.Decimal `json:"amount"`
	PaidBy string          `json:"paid_by" validate:"max=80"`
}

// SettlementAddEntry appends a tender to a mixed settlement.
func SettlementAddEntry(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return withSettlement(manager, logg, func(r *http.Request, _ *terminalContext, st *settlement.Settlement) error {
		var body addEntryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		_, err := st.AddEntry(enums.PaymentMethod(body.Method), body.Amount, body.PaidBy)
		return err
	})
}

// SettlementRemoveEntry drops an unconfirmed tender entry.
func SettlementRemoveEntry(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return withSettlement(manager, logg, func(r *http.Request, _ *terminalContext, st *settlement.Settlement) error {
		entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entry id")
		}
		return st.RemoveEntry(entryID)
	})
}

// BillClose confirms the settlement and closes every open order on the
// unit. A conflict detected server-side forces the terminal back to the
// floor and discards the in-flight result.
func BillClose(manager *session.Manager, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st, err := term.sess.Settlement()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unit := term.sess.Unit()
		if unit == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "no unit under review"))
			return
		}

		generation, err := term.sess.BeginMutation()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		closeErr := svc.Close(r.Context(), orders.CloseInput{
			RestaurantID: term.restaurantID,
			WaiterID:     &term.waiterID,
			Unit:         *unit,
			Settlement:   st,
		})
		current := term.sess.EndMutation(generation)
		if closeErr != nil {
			if pkgerrors.IsCode(closeErr, pkgerrors.CodeStateConflict) {
				term.sess.ForceFloor()
			}
			responses.WriteError(r.Context(), logg, w, closeErr)
			return
		}

		if current {
			manager.Registry(term.restaurantID).SetOverride(*unit, enums.UnitStatusAvailable)
			term.sess.BackToFloor()
		}
		responses.WriteSuccess(w, map[string]string{"status": "closed"})
	}
}
