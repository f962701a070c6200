package models

import "time"

// CartItem defines the struct for the 'cart_items' table.
// The table carries a UNIQUE(user_id, product_id) key: a user has at
// most one row per product, adds increment the quantity instead.
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joined product data. Nil when the referenced product has been
	// deleted; such lines still count toward the item total but
	// contribute nothing to the price total.
	Product *Product `json:"product,omitempty" db:"-"`
}
