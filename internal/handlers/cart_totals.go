package handlers

import (
	"math"

	"storefront/internal/models"
)

// Fixed checkout policy: flat 8% tax, shipping always free.
const taxRate = 0.08

// cartItemCount sums quantities across all lines, including lines
// whose product no longer resolves.
func cartItemCount(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// cartSubtotal sums price*quantity across lines with a resolvable
// product. Lines whose product was deleted contribute zero.
func cartSubtotal(items []models.CartItem) float64 {
	total := 0.0
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// orderTotal applies the tax rate to a subtotal and rounds to cents.
func orderTotal(subtotal float64) float64 {
	return math.Round(subtotal*(1+taxRate)*100) / 100
}
