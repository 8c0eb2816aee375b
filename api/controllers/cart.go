package controllers

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/api/responses"
	"github.com/mesalivre/pos-backend/api/validators"
	cartpkg "github.com/mesalivre/pos-backend/internal/cart"
	"github.com/mesalivre/pos-backend/internal/catalog"
	"github.com/mesalivre/pos-backend/internal/pricing"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	pkgerrors "github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

type cartResponse struct {
	Lines      []cartLineResponse `json:"lines"`
	OrderNotes string             `json:"order_notes,omitempty"`
	ItemCount  int                `json:"item_count"`
	Total      decimal.Decimal    `json:"total"`
}

type cartLineResponse struct {
	ProductID   uuid.UUID           `json:"product_id"`
	DisplayName string              `json:"display_name"`
	Size        *string             `json:"size,omitempty"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	Quantity    int                 `json:"quantity"`
	Notes       string              `json:"notes,omitempty"`
	Addons      []cartAddonResponse `json:"addons,omitempty"`
	Total       decimal.Decimal     `json:"total"`
}

type cartAddonResponse struct {
	AddonID  string          `json:"addon_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func newCartResponse(store *cartpkg.Store) cartResponse {
	lines := store.Lines()
	resp := cartResponse{
		Lines:      make([]cartLineResponse, 0, len(lines)),
		OrderNotes: store.OrderNotes(),
		ItemCount:  store.ItemCount(),
		Total:      store.Total(),
	}
	for _, line := range lines {
		lr := cartLineResponse{
			ProductID:   line.ProductID,
			DisplayName: line.DisplayName(),
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Notes:       line.Notes,
			Total:       line.Total(),
		}
		if line.Size != nil {
			size := string(*line.Size)
			lr.Size = &size
		}
		for _, addon := range line.Addons {
			lr.Addons = append(lr.Addons, cartAddonResponse{
				AddonID:  addon.AddonID,
				Name:     addon.Name,
				Price:    addon.Price,
				Quantity: addon.Quantity,
			})
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp
}

// CartGet returns the session's in-progress cart.
func CartGet(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
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
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type addItemRequest struct {
	ProductID uuid.UUID             `json:"product_id" validate:"required"`
	Size      *string               `json:"size"`
	Addons    []addonSelectionInput `json:"addons" validate:"dive"`
}

type addonSelectionInput struct {
	AddonID  uuid.UUID `json:"addon_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

// CartAddItem resolves the product and its selected addons from the
// catalog and merges one unit into the cart. The price is frozen here.
func CartAddItem(manager *session.Manager, catalogRepo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
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

		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := parseSize(body.Size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalogRepo.FindProduct(r.Context(), body.ProductID)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product"))
			return
		}
		if product.RestaurantID != term.restaurantID || !product.IsAvailable {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		addons, err := resolveAddons(product, body.Addons)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.AddItem(product, size, addons)
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// resolveAddons maps selected addon ids to the product's linked addons,
// rejecting any addon the product does not offer.
func resolveAddons(product *models.Product, selections []addonSelectionInput) ([]pricing.SelectedAddon, error) {
	if len(selections) == 0 {
		return nil, nil
	}
	resolved := make([]pricing.SelectedAddon, 0, len(selections))
	for _, selection := range selections {
		found := false
		for _, group := range product.AddonGroups {
			for _, addon := range group.Addons {
				if addon.ID != selection.AddonID {
					continue
				}
				resolved = append(resolved, pricing.SelectedAddon{
					AddonID:   addon.ID.String(),
					Name:      addon.Name,
					Price:     addon.Price,
					Quantity:  selection.Quantity,
					GroupName: group.Name,
				})
				found = true
			}
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "addon not offered for this product").
				WithDetails(map[string]string{"addon_id": selection.AddonID.String()})
		}
	}
	return resolved, nil
}

type updateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      *string   `json:"size"`
	Delta     int       `json:"delta" validate:"required"`
}

// CartUpdateQuantity applies a +/- delta to a line; reaching zero removes it.
func CartUpdateQuantity(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
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

		var body updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := parseSize(body.Size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.UpdateQuantity(body.ProductID, size, body.Delta)
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type removeItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      *string   `json:"size"`
}

// CartRemoveItem drops a line regardless of quantity.
func CartRemoveItem(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
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

		var body removeItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := parseSize(body.Size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.RemoveItem(body.ProductID, size)
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type itemNotesRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      *string   `json:"size"`
	Notes     string    `json:"notes" validate:"max=500"`
}

// CartSetItemNotes replaces the kitchen note on one line.
func CartSetItemNotes(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
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

		var body itemNotesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := parseSize(body.Size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.SetItemNotes(body.ProductID, size, body.Notes)
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type orderNotesRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// CartSetOrderNotes replaces the order-level note.
func CartSetOrderNotes(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
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

		var body orderNotesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.SetOrderNotes(body.Notes)
		responses.WriteSuccess(w, newCartResponse(store))
	}
}
