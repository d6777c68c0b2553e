package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joestump/catalog-core/internal/store"
)

const (
	maxSKULength   = 100
	maxBrandLength = 100
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// checkProductFields normalizes and checks the commercial fields of p: SKU,
// brand, currency, stock levels and approval status. An empty currency or
// approval status takes the column default.
func checkProductFields(p *store.Product) error {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Brand = strings.TrimSpace(p.Brand)

	switch {
	case p.SKU == "":
		return inputErr("sku", "sku is required")
	case len(p.SKU) > maxSKULength:
		return inputErr("sku", fmt.Sprintf("sku must be at most %d characters", maxSKULength))
	case p.Brand == "":
		return inputErr("brand", "brand is required")
	case len(p.Brand) > maxBrandLength:
		return inputErr("brand", fmt.Sprintf("brand must be at most %d characters", maxBrandLength))
	}

	if p.Currency == "" {
		p.Currency = store.DefaultCurrency
	}
	if !currencyPattern.MatchString(p.Currency) {
		return inputErr("currency", "currency must be a three-letter uppercase ISO 4217 code")
	}
	if p.StockQuantity < 0 {
		return inputErr("stock_quantity", "stock_quantity must not be negative")
	}
	if p.StockThreshold < 0 {
		return inputErr("stock_threshold", "stock_threshold must not be negative")
	}

	if p.ApprovalStatus == "" {
		p.ApprovalStatus = store.ApprovalPending
	}
	if !p.ApprovalStatus.Valid() {
		names := make([]string, len(store.ApprovalStatuses))
		for i, s := range store.ApprovalStatuses {
			names[i] = string(s)
		}
		return inputErr("approval_status", "approval_status must be one of "+strings.Join(names, ", "))
	}
	return nil
}
