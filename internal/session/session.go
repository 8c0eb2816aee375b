// Package session holds per-terminal state: the current view, the unit
// being served, the cart under construction, and the settlement in
// progress. One waiter terminal maps to one session.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/internal/cart"
	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/internal/settlement"
	"github.com/mesalivre/pos-backend/pkg/enums"
	"github.com/mesalivre/pos-backend/pkg/errors"
)

// View names a terminal screen. Transitions are guarded: a terminal
// cannot, say, mutate a cart while sitting on the floor list.
type View string

const (
	ViewFloor          View = "floor"
	ViewOrderBuilder   View = "order_builder"
	ViewDeliveryIntake View = "delivery_intake"
	ViewOrderReview    View = "order_review"
)

// DeliveryInfo is the resolved contact a delivery order ships to.
type DeliveryInfo struct {
	CustomerID uuid.UUID
	Name       string
	Phone      string
	Address    string
	Fee        decimal.Decimal
}

// TabCustomer is the contact a tab is being opened under.
type TabCustomer struct {
	Name  string
	Phone string
}

// Session is one authenticated terminal. All methods are safe for
// concurrent use; the session serializes its own mutations.
type Session struct {
	ID           string
	RestaurantID uuid.UUID
	WaiterID     uuid.UUID

	mu         sync.Mutex
	view       View
	unit       *floor.UnitKey
	orderType  enums.OrderType
	cart       *cart.Store
	settle     *settlement.Settlement
	delivery   *DeliveryInfo
	tabContact *TabCustomer
	generation uint64
	inFlight   bool
	notice     string
	lastSeen   time.Time
}

func newSession(id string, restaurantID, waiterID uuid.UUID) *Session {
	return &Session{
		ID:           id,
		RestaurantID: restaurantID,
		WaiterID:     waiterID,
		view:         ViewFloor,
		cart:         cart.NewStore(),
		lastSeen:     time.Now(),
	}
}

// View returns the current screen.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Unit returns the service unit the terminal is working, if any.
func (s *Session) Unit() *floor.UnitKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unit == nil {
		return nil
	}
	u := *s.unit
	return &u
}

// OrderType returns the type of the order being built.
func (s *Session) OrderType() enums.OrderType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderType
}

// Touch records terminal activity for idle sweeping.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

// IdleSince reports the last activity time.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// OpenOrderBuilder enters order building for a floor unit. The cart
// always starts empty; whatever a previous visit left behind is gone.
func (s *Session) OpenOrderBuilder(unit floor.UnitKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewFloor {
		return s.transitionError(ViewOrderBuilder)
	}
	s.view = ViewOrderBuilder
	s.unit = &unit
	s.orderType = enums.OrderTypeTable
	s.cart.Clear()
	s.settle = nil
	s.delivery = nil
	s.tabContact = nil
	return nil
}

// OpenDeliveryIntake enters the contact form for an order without a
// service unit: delivery or takeaway.
func (s *Session) OpenDeliveryIntake(orderType enums.OrderType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if orderType != enums.OrderTypeDelivery && orderType != enums.OrderTypeTakeaway {
		return errors.New(errors.CodeValidation, "intake requires a delivery or takeaway order").
			WithDetails(map[string]string{"order_type": string(orderType)})
	}
	if s.view != ViewFloor {
		return s.transitionError(ViewDeliveryIntake)
	}
	s.view = ViewDeliveryIntake
	s.unit = nil
	s.orderType = orderType
	s.cart.Clear()
	s.settle = nil
	s.delivery = nil
	s.tabContact = nil
	return nil
}

// ConfirmDeliveryIntake stores the resolved contact and moves from the
// contact form into order building.
func (s *Session) ConfirmDeliveryIntake(info DeliveryInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewDeliveryIntake {
		return s.transitionError(ViewOrderBuilder)
	}
	s.delivery = &info
	s.view = ViewOrderBuilder
	return nil
}

// DeliveryInfo returns the contact captured on the intake form, if any.
func (s *Session) DeliveryInfo() *DeliveryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delivery == nil {
		return nil
	}
	info := *s.delivery
	return &info
}

// OpenOrderReview enters the bill review for an occupied unit.
func (s *Session) OpenOrderReview(unit floor.UnitKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewFloor {
		return s.transitionError(ViewOrderReview)
	}
	s.view = ViewOrderReview
	s.unit = &unit
	s.settle = nil
	return nil
}

// BackToFloor returns to the floor list from any screen, dropping the
// unit binding and any settlement in progress.
func (s *Session) BackToFloor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetToFloor()
}

// ForceFloor is BackToFloor for server-detected conflicts: when the
// authoritative state contradicts what the terminal is doing, it lands
// back on the floor list with clean state.
func (s *Session) ForceFloor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetToFloor()
	s.generation++
}

// EvictIfStale pushes a review terminal back to the floor when the
// refreshed state reports its unit free or gone: another device settled
// the bill, and the last refresh wins. Any in-flight close is
// invalidated by the generation bump.
func (s *Session) EvictIfStale(lookup func(floor.UnitKey) *floor.Unit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewOrderReview || s.unit == nil {
		return false
	}
	if unit := lookup(*s.unit); unit != nil && unit.Status != enums.UnitStatusAvailable {
		return false
	}
	s.resetToFloor()
	s.generation++
	s.notice = "bill settled on another terminal"
	return true
}

// TakeNotice returns the pending conflict notice and clears it, so the
// terminal surfaces it once.
func (s *Session) TakeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	notice := s.notice
	s.notice = ""
	return notice
}

func (s *Session) resetToFloor() {
	s.view = ViewFloor
	s.unit = nil
	s.orderType = ""
	s.cart.Clear()
	s.settle = nil
	s.delivery = nil
	s.tabContact = nil
}

// SetTabCustomer records the contact a tab order is being opened under.
// It is bound to the tab row when the order submits.
func (s *Session) SetTabCustomer(name, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewOrderBuilder || s.unit == nil || s.unit.Kind != floor.KindTab {
		return errors.New(errors.CodeStateConflict, "tab contact requires building a tab order").
			WithDetails(map[string]string{"view": string(s.view)})
	}
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" && phone == "" {
		return errors.New(errors.CodeValidation, "tab contact needs a name or phone")
	}
	s.tabContact = &TabCustomer{Name: name, Phone: phone}
	return nil
}

// TabCustomer returns the contact captured for the tab being opened.
func (s *Session) TabCustomer() *TabCustomer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tabContact == nil {
		return nil
	}
	contact := *s.tabContact
	return &contact
}

// Cart exposes the session's cart. Callers must hold no session locks;
// cart access is only valid on the order builder screen.
func (s *Session) Cart() (*cart.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewOrderBuilder && s.view != ViewDeliveryIntake {
		return nil, errors.New(errors.CodeStateConflict, "no cart on this screen").
			WithDetails(map[string]string{"view": string(s.view)})
	}
	return s.cart, nil
}

// StartSettlement opens settlement over the given bill total. Only the
// review screen settles bills.
func (s *Session) StartSettlement(total decimal.Decimal) (*settlement.Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != ViewOrderReview {
		return nil, errors.New(errors.CodeStateConflict, "settlement requires the order review screen").
			WithDetails(map[string]string{"view": string(s.view)})
	}
	s.settle = settlement.New(total)
	return s.settle, nil
}

// Settlement returns the settlement in progress.
func (s *Session) Settlement() (*settlement.Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settle == nil {
		return nil, errors.New(errors.CodeStateConflict, "no settlement in progress")
	}
	return s.settle, nil
}

// BeginMutation reserves the session for one submit/close round trip.
// A second mutation while one is in flight is refused, mirroring a
// double-tapped button.
func (s *Session) BeginMutation() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return 0, errors.New(errors.CodeConflict, "another operation is in flight")
	}
	s.inFlight = true
	s.generation++
	return s.generation, nil
}

// EndMutation releases the in-flight guard. It reports whether the
// result is still current: a response from before a ForceFloor carries a
// stale generation and must be discarded.
func (s *Session) EndMutation(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	return generation == s.generation
}

func (s *Session) transitionError(target View) error {
	return errors.New(errors.CodeStateConflict, "view transition not allowed").
		WithDetails(map[string]string{"from": string(s.view), "to": string(target)})
}
