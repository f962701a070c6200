package handlers

import (
	"testing"

	"storefront/internal/models"
)

func TestCartItemCountIncludesUnresolvedLines(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 2, Product: &models.Product{Price: 10}},
		{Quantity: 1, Product: nil}, // product deleted since it was added
		{Quantity: 3, Product: &models.Product{Price: 5}},
	}
	if got := cartItemCount(items); got != 6 {
		t.Fatalf("cartItemCount = %d, want 6", got)
	}
}

func TestCartSubtotal(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 2, Product: &models.Product{Price: 10}},
		{Quantity: 1, Product: &models.Product{Price: 5}},
	}
	if got := cartSubtotal(items); got != 25 {
		t.Fatalf("cartSubtotal = %v, want 25", got)
	}

	// The 5.00 product gets deleted: its line stops contributing.
	items[1].Product = nil
	if got := cartSubtotal(items); got != 20 {
		t.Fatalf("cartSubtotal after deletion = %v, want 20", got)
	}
	if got := cartItemCount(items); got != 3 {
		t.Fatalf("cartItemCount after deletion = %d, want 3", got)
	}
}

func TestCartSubtotalEmptyCart(t *testing.T) {
	if got := cartSubtotal(nil); got != 0 {
		t.Fatalf("cartSubtotal(nil) = %v, want 0", got)
	}
}

func TestOrderTotal(t *testing.T) {
	tests := []struct {
		subtotal float64
		want     float64
	}{
		{0, 0},
		{100, 108},     // flat 8% tax, free shipping
		{19.99, 21.59}, // 21.5892 rounds to cents
		{10, 10.80},
		{0.01, 0.01}, // 0.0108 rounds down
	}
	for _, tt := range tests {
		if got := orderTotal(tt.subtotal); got != tt.want {
			t.Errorf("orderTotal(%v) = %v, want %v", tt.subtotal, got, tt.want)
		}
	}
}
