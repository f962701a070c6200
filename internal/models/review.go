package models

import "time"

// Review defines the struct for the 'reviews' table
type Review struct {
	ID               int64   `json:"id" db:"id"`
	UserID           int64   `json:"userId" db:"user_id"`
	ProductID        int64   `json:"productId" db:"product_id"`
	Rating           int     `json:"rating" db:"rating"` // 1..5
	Title            *string `json:"title,omitempty" db:"title"`
	Comment          *string `json:"comment,omitempty" db:"comment"`
	VerifiedPurchase bool    `json:"verifiedPurchase" db:"verified_purchase"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joined from profiles for display
	ReviewerName *string `json:"reviewerName,omitempty" db:"-"`
}
