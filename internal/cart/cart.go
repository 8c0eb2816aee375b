// Package cart holds the in-progress order for one terminal session.
// The store is owned exclusively by its session and is not safe for
// concurrent use; the session manager serializes access.
package cart

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/internal/pricing"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
)

// Line is one cart entry, keyed by (product, size). The unit price is
// resolved once at add time and frozen for the session, so catalog edits
// mid-session never reprice a cart.
type Line struct {
	ProductID   uuid.UUID
	ProductName string
	CategoryID  *uuid.UUID
	Size        *enums.ProductSize
	UnitPrice   decimal.Decimal
	Quantity    int
	Notes       string
	Addons      []pricing.SelectedAddon
}

// Total returns the line's price including addons.
func (l Line) Total() decimal.Decimal {
	return pricing.LineTotal(l.UnitPrice, l.Addons, l.Quantity)
}

// DisplayName is the product name with the size label suffix used on
// kitchen tickets, e.g. "Pizza Calabresa (G)".
func (l Line) DisplayName() string {
	if l.Size == nil {
		return l.ProductName
	}
	label := l.Size.Label()
	if label == "" {
		return l.ProductName
	}
	return l.ProductName + " (" + label + ")"
}

// Store accumulates lines and order-level notes for one order-building
// session.
type Store struct {
	lines      []Line
	orderNotes string
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{}
}

// AddItem merges one unit of (product, size) into the cart. A line with
// the same key has its quantity incremented; otherwise a new line is
// appended with quantity 1 and the price resolved now.
func (s *Store) AddItem(product *models.Product, size *enums.ProductSize, addons []pricing.SelectedAddon) {
	if product == nil {
		return
	}
	if idx := s.find(product.ID, size); idx >= 0 {
		s.lines[idx].Quantity++
		return
	}
	s.lines = append(s.lines, Line{
		ProductID:   product.ID,
		ProductName: product.Name,
		CategoryID:  product.CategoryID,
		Size:        copySize(size),
		UnitPrice:   pricing.UnitPrice(product, size),
		Quantity:    1,
		Addons:      addons,
	})
}

// UpdateQuantity applies a delta to the line's quantity. A result of zero
// or below removes the line. Unknown keys are a no-op.
func (s *Store) UpdateQuantity(productID uuid.UUID, size *enums.ProductSize, delta int) {
	idx := s.find(productID, size)
	if idx < 0 {
		return
	}
	next := s.lines[idx].Quantity + delta
	if next <= 0 {
		s.removeAt(idx)
		return
	}
	s.lines[idx].Quantity = next
}

// RemoveItem drops the line for (productID, size) if present.
func (s *Store) RemoveItem(productID uuid.UUID, size *enums.ProductSize) {
	if idx := s.find(productID, size); idx >= 0 {
		s.removeAt(idx)
	}
}

// SetItemNotes replaces the free-text note on a line.
func (s *Store) SetItemNotes(productID uuid.UUID, size *enums.ProductSize, notes string) {
	if idx := s.find(productID, size); idx >= 0 {
		s.lines[idx].Notes = strings.TrimSpace(notes)
	}
}

// SetOrderNotes replaces the order-level note.
func (s *Store) SetOrderNotes(notes string) {
	s.orderNotes = strings.TrimSpace(notes)
}

// OrderNotes returns the order-level note.
func (s *Store) OrderNotes() string {
	return s.orderNotes
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total sums every line total.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Total())
	}
	return total
}

// ItemCount sums quantities across lines.
func (s *Store) ItemCount() int {
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no lines.
func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

// Clear discards all lines and notes.
func (s *Store) Clear() {
	s.lines = nil
	s.orderNotes = ""
}

func (s *Store) find(productID uuid.UUID, size *enums.ProductSize) int {
	for i, line := range s.lines {
		if line.ProductID == productID && sameSize(line.Size, size) {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(idx int) {
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
}

func sameSize(a, b *enums.ProductSize) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copySize(size *enums.ProductSize) *enums.ProductSize {
	if size == nil {
		return nil
	}
	s := *size
	return &s
}
