// Package pricing computes unit and line prices for catalog products.
// Every function is pure: absent or inconsistent inputs resolve to a
// documented fallback, never an error.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
)

// SelectedAddon is one chosen extra on a cart line.
type SelectedAddon struct {
	AddonID   string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	GroupName string
}

// UnitPrice resolves the price of one unit of product for the given size.
//
// Products without size variants always price at the base price. With size
// variants, a supplied size resolves to that size's price, falling back to
// the base price when the size price is undefined. With variants but no
// size ("starting at" display), the minimum defined size price wins, else
// the base price.
func UnitPrice(product *models.Product, size *enums.ProductSize) decimal.Decimal {
	if product == nil {
		return decimal.Zero
	}
	if !product.HasSizes {
		return product.Price
	}
	if size != nil {
		if p := sizePrice(product, *size); p != nil {
			return *p
		}
		return product.Price
	}
	return minSizePrice(product)
}

// LineTotal computes (unit + addons per unit) x quantity.
func LineTotal(unitPrice decimal.Decimal, addons []SelectedAddon, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	perUnit := unitPrice.Add(AddonTotal(addons))
	return perUnit.Mul(decimal.NewFromInt(int64(quantity)))
}

// AddonTotal sums the selected addons for a single unit.
func AddonTotal(addons []SelectedAddon) decimal.Decimal {
	total := decimal.Zero
	for _, addon := range addons {
		qty := addon.Quantity
		if qty <= 0 {
			continue
		}
		total = total.Add(addon.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

func sizePrice(product *models.Product, size enums.ProductSize) *decimal.Decimal {
	var p *decimal.Decimal
	switch size {
	case enums.SizeSmall:
		p = product.PriceSmall
	case enums.SizeMedium:
		p = product.PriceMedium
	case enums.SizeLarge:
		p = product.PriceLarge
	}
	if p == nil || !p.IsPositive() {
		return nil
	}
	return p
}

func minSizePrice(product *models.Product) decimal.Decimal {
	var min *decimal.Decimal
	for _, size := range []enums.ProductSize{enums.SizeSmall, enums.SizeMedium, enums.SizeLarge} {
		p := sizePrice(product, size)
		if p == nil {
			continue
		}
		if min == nil || p.LessThan(*min) {
			min = p
		}
	}
	if min == nil {
		return product.Price
	}
	return *min
}
