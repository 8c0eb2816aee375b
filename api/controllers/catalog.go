package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/api/responses"
	"github.com/mesalivre/pos-backend/internal/catalog"
	"github.com/mesalivre/pos-backend/internal/pricing"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/pkg/db/models"
	pkgerrors "github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

type categoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Icon      *string   `json:"icon,omitempty"`
	SortOrder int       `json:"sort_order"`
}

type productResponse struct {
	ID           uuid.UUID            `json:"id"`
	CategoryID   *uuid.UUID           `json:"category_id,omitempty"`
	Name         string               `json:"name"`
	Description  *string              `json:"description,omitempty"`
	Price        decimal.Decimal      `json:"price"`
	DisplayPrice decimal.Decimal      `json:"display_price"`
	HasSizes     bool                 `json:"has_sizes"`
	PriceSmall   *decimal.Decimal     `json:"price_small,omitempty"`
	PriceMedium  *decimal.Decimal     `json:"price_medium,omitempty"`
	PriceLarge   *decimal.Decimal     `json:"price_large,omitempty"`
	AddonGroups  []addonGroupResponse `json:"addon_groups,omitempty"`
}

type addonGroupResponse struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Addons []addonResponse `json:"addons"`
}

type addonResponse struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func newProductResponse(product models.Product) productResponse {
	resp := productResponse{
		ID:           product.ID,
		CategoryID:   product.CategoryID,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		DisplayPrice: pricing.UnitPrice(&product, nil),
		HasSizes:     product.HasSizes,
		PriceSmall:   product.PriceSmall,
		PriceMedium:  product.PriceMedium,
		PriceLarge:   product.PriceLarge,
	}
	for _, group := range product.AddonGroups {
		gr := addonGroupResponse{ID: group.ID, Name: group.Name}
		for _, addon := range group.Addons {
			gr.Addons = append(gr.Addons, addonResponse{ID: addon.ID, Name: addon.Name, Price: addon.Price})
		}
		resp.AddonGroups = append(resp.AddonGroups, gr)
	}
	return resp
}

// CatalogCategories lists the order builder's category tabs.
func CatalogCategories(manager *session.Manager, repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories, err := repo.ListCategories(r.Context(), term.restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing categories"))
			return
		}

		results := make([]categoryResponse, 0, len(categories))
		for _, category := range categories {
			results = append(results, categoryResponse{
				ID:        category.ID,
				Name:      category.Name,
				Icon:      category.Icon,
				SortOrder: category.SortOrder,
			})
		}
		responses.WriteSuccess(w, results)
	}
}

// CatalogProducts lists available products, optionally scoped to one
// category via ?category_id=.
func CatalogProducts(manager *session.Manager, repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var products []models.Product
		if raw := r.URL.Query().Get("category_id"); raw != "" {
			categoryID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
				return
			}
			products, err = repo.ListProductsByCategory(r.Context(), term.restaurantID, categoryID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products"))
				return
			}
		} else {
			products, err = repo.ListAvailableProducts(r.Context(), term.restaurantID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products"))
				return
			}
		}

		results := make([]productResponse, 0, len(products))
		for _, product := range products {
			results = append(results, newProductResponse(product))
		}
		responses.WriteSuccess(w, results)
	}
}
