// Package settlement models how an open bill gets paid: a single tender,
// an equal split across people, or a list of mixed tender entries that
// together cover the total.
package settlement

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/pkg/enums"
	"github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/money"
)

// Mode selects the settlement shape for a bill.
type Mode string

const (
	ModeSimple     Mode = "simple"
	ModeEqualSplit Mode = "equal_split"
	ModeMixed      Mode = "mixed"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeSimple, ModeEqualSplit, ModeMixed:
		return true
	}
	return false
}

// Entry is one tender in a mixed settlement. Entries live on the session
// only; they are persisted as payment rows when the bill closes.
type Entry struct {
	ID     uuid.UUID
	Method enums.PaymentMethod
	Amount decimal.Decimal
	PaidBy string
}

// Settlement is the in-progress payment state for one bill. It is owned
// by the terminal session and recomputed after every mutation.
type Settlement struct {
	Total        decimal.Decimal
	Mode         Mode
	Method       enums.PaymentMethod
	CashReceived decimal.Decimal
	SplitCount   int
	Entries      []Entry
}

// New starts a settlement over the given bill total, defaulting to the
// simple cash tender.
func New(total decimal.Decimal) *Settlement {
	return &Settlement{
		Total:  money.Round(total),
		Mode:   ModeSimple,
		Method: enums.PaymentCash,
	}
}

// SetMode switches the settlement shape, resetting the state that does
// not carry across modes.
func (s *Settlement) SetMode(mode Mode) error {
	if !mode.Valid() {
		return errors.New(errors.CodeValidation, "unknown settlement mode").
			WithDetails(map[string]string{"mode": string(mode)})
	}
	s.Mode = mode
	s.CashReceived = decimal.Zero
	s.Entries = nil
	switch mode {
	case ModeEqualSplit:
		if s.SplitCount < 2 {
			s.SplitCount = 2
		}
	default:
		s.SplitCount = 0
	}
	return nil
}

// SetMethod picks the tender for the simple mode. Switching away from
// cash discards any received amount.
func (s *Settlement) SetMethod(method enums.PaymentMethod) error {
	if !method.Valid() {
		return errors.New(errors.CodeValidation, "unknown payment method").
			WithDetails(map[string]string{"method": string(method)})
	}
	s.Method = method
	if method != enums.PaymentCash {
		s.CashReceived = decimal.Zero
	}
	return nil
}

// SetCashReceived records the cash handed over in simple mode.
func (s *Settlement) SetCashReceived(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.New(errors.CodeValidation, "cash received cannot be negative")
	}
	s.CashReceived = money.Round(amount)
	return nil
}

// SetSplitCount sets how many people share an equal split.
func (s *Settlement) SetSplitCount(count int) error {
	if count < 2 {
		return errors.New(errors.CodeValidation, "split requires at least two people")
	}
	s.SplitCount = count
	return nil
}

// PerPerson returns the rounded per-person share of an equal split. The
// split is display-only guidance; the bill still settles as one tender.
func (s *Settlement) PerPerson() decimal.Decimal {
	if s.SplitCount < 2 {
		return s.Total
	}
	return s.Total.DivRound(decimal.NewFromInt(int64(s.SplitCount)), 2)
}

// Change returns the cash change owed in simple mode. Non-cash tenders
// never owe change.
func (s *Settlement) Change() decimal.Decimal {
	if s.Method != enums.PaymentCash {
		return decimal.Zero
	}
	return money.FloorZero(s.CashReceived.Sub(s.Total))
}

// AddEntry appends a tender to a mixed settlement. An entry may exceed
// the remaining balance by at most the rounding epsilon.
func (s *Settlement) AddEntry(method enums.PaymentMethod, amount decimal.Decimal, paidBy string) (*Entry, error) {
	if s.Mode != ModeMixed {
		return nil, errors.New(errors.CodeStateConflict, "tender entries require mixed mode")
	}
	if !method.Valid() {
		return nil, errors.New(errors.CodeValidation, "unknown payment method").
			WithDetails(map[string]string{"method": string(method)})
	}
	if !amount.IsPositive() {
		return nil, errors.New(errors.CodeValidation, "tender amount must be positive")
	}
	if amount.Sub(s.Remaining()).GreaterThan(money.Epsilon) {
		return nil, errors.New(errors.CodeValidation, "tender exceeds the remaining balance").
			WithDetails(map[string]string{
				"amount":    money.Round(amount).StringFixed(2),
				"remaining": s.Remaining().StringFixed(2),
			})
	}
	entry := Entry{
		ID:     uuid.New(),
		Method: method,
		Amount: money.Round(amount),
		PaidBy: strings.TrimSpace(paidBy),
	}
	s.Entries = append(s.Entries, entry)
	return &entry, nil
}

// RemoveEntry drops a tender that has not been confirmed yet.
func (s *Settlement) RemoveEntry(id uuid.UUID) error {
	for i, entry := range s.Entries {
		if entry.ID == id {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.CodeNotFound, "tender entry not found")
}

// Paid sums the mixed tender entries.
func (s *Settlement) Paid() decimal.Decimal {
	paid := decimal.Zero
	for _, entry := range s.Entries {
		paid = paid.Add(entry.Amount)
	}
	return paid
}

// Remaining is the uncovered portion of the bill in mixed mode, floored
// at zero so overpayment never shows a negative balance.
func (s *Settlement) Remaining() decimal.Decimal {
	return money.FloorZero(s.Total.Sub(s.Paid()))
}

// CanConfirm reports whether the bill may close under the current state.
func (s *Settlement) CanConfirm() bool {
	switch s.Mode {
	case ModeSimple, ModeEqualSplit:
		if s.Method == enums.PaymentCash && s.CashReceived.IsPositive() {
			return s.CashReceived.GreaterThanOrEqual(s.Total)
		}
		return true
	case ModeMixed:
		return len(s.Entries) > 0 && s.Remaining().LessThanOrEqual(money.Epsilon)
	}
	return false
}

// Validate returns the reason the settlement cannot confirm, or nil.
func (s *Settlement) Validate() error {
	switch s.Mode {
	case ModeSimple, ModeEqualSplit:
		if s.Mode == ModeEqualSplit && s.SplitCount < 2 {
			return errors.New(errors.CodeValidation, "split requires at least two people")
		}
		if s.Method == enums.PaymentCash && s.CashReceived.IsPositive() &&
			s.CashReceived.LessThan(s.Total) {
			return errors.New(errors.CodeValidation, "cash received is below the bill total").
				WithDetails(map[string]string{
					"total":    s.Total.StringFixed(2),
					"received": s.CashReceived.StringFixed(2),
				})
		}
		return nil
	case ModeMixed:
		if len(s.Entries) == 0 {
			return errors.New(errors.CodeValidation, "mixed settlement needs at least one tender")
		}
		if remaining := s.Remaining(); remaining.GreaterThan(money.Epsilon) {
			return errors.New(errors.CodeValidation, "tenders do not cover the bill").
				WithDetails(map[string]string{"remaining": remaining.StringFixed(2)})
		}
		return nil
	}
	return errors.New(errors.CodeValidation, "unknown settlement mode")
}
