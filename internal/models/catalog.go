package models

import "time"

// Category defines the struct for the 'categories' table
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description,omitempty" db:"description"`
	ImageURL    *string   `json:"imageUrl,omitempty" db:"image_url"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Dimensions is stored as a JSON column on products.
type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Product is the model for the 'products' table.
type Product struct {
	ID            int64       `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	Slug          string      `json:"slug" db:"slug"`
	Description   *string     `json:"description,omitempty" db:"description"`
	Price         float64     `json:"price" db:"price"`
	CategoryID    *int64      `json:"categoryId,omitempty" db:"category_id"`
	StockQuantity int         `json:"stockQuantity" db:"stock_quantity"`
	ImageURLs     []string    `json:"imageUrls" db:"image_urls"` // JSON column
	IsActive      bool        `json:"isActive" db:"is_active"`
	Featured      bool        `json:"featured" db:"featured"`
	Weight        *float64    `json:"weight,omitempty" db:"weight"`
	Dimensions    *Dimensions `json:"dimensions,omitempty" db:"dimensions"` // JSON column

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Join (populated manually, not a table column)
	Category *Category `json:"category,omitempty" db:"-"`
}

// FirstImage returns the lead image URL, or nil when the product has none.
func (p *Product) FirstImage() *string {
	if len(p.ImageURLs) == 0 {
		return nil
	}
	return &p.ImageURLs[0]
}
