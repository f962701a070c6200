package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

//
// --- Public Catalog Handlers ---
//

// productColumns is the canonical select list for the products table.
const productColumns = `id, name, slug, description, price, category_id, stock_quantity,
	image_urls, is_active, featured, weight, dimensions, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct maps one products row (productColumns order) into a model,
// decoding the JSON columns.
func scanProduct(s rowScanner) (models.Product, error) {
	var (
		p         models.Product
		rawImages sql.NullString
		rawDims   sql.NullString
	)
	err := s.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CategoryID,
		&p.StockQuantity, &rawImages, &p.IsActive, &p.Featured, &p.Weight,
		&rawDims, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}
	if rawImages.Valid && rawImages.String != "" {
		_ = json.Unmarshal([]byte(rawImages.String), &p.ImageURLs)
	}
	if rawDims.Valid && rawDims.String != "" {
		var dims models.Dimensions
		if json.Unmarshal([]byte(rawDims.String), &dims) == nil {
			p.Dimensions = &dims
		}
	}
	return p, nil
}

// sortColumns whitelists what ?sort_by= may reference.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"name":       "name",
}

// ListProducts is the handler for GET /v1/products
// Filters: category_id, price_min, price_max, search, featured, in_stock.
// Sorting: sort_by (created_at|price|name) + sort_order (asc|desc).
func (h *Handlers) ListProducts(c *gin.Context) {
	query := "SELECT " + productColumns + " FROM products WHERE is_active = TRUE"
	args := []interface{}{}

	if categoryID := c.Query("category_id"); categoryID != "" {
		query += " AND category_id = ?"
		args = append(args, categoryID)
	}
	if priceMin := c.Query("price_min"); priceMin != "" {
		query += " AND price >= ?"
		args = append(args, priceMin)
	}
	if priceMax := c.Query("price_max"); priceMax != "" {
		query += " AND price <= ?"
		args = append(args, priceMax)
	}
	if search := c.Query("search"); search != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+search+"%")
	}
	if c.Query("featured") == "true" {
		query += " AND featured = TRUE"
	}
	if c.Query("in_stock") == "true" {
		query += " AND stock_quantity > 0"
	}

	sortBy, ok := sortColumns[c.DefaultQuery("sort_by", "created_at")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort_by field"})
		return
	}
	direction := "DESC"
	if c.Query("sort_order") == "asc" {
		direction = "ASC"
	}
	query += " ORDER BY " + sortBy + " " + direction

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query products"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan product"})
			return
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProductBySlug is the handler for GET /v1/products/:slug
// Returns the active product plus its reviews, newest first.
func (h *Handlers) GetProductBySlug(c *gin.Context) {
	productSlug := c.Param("slug")

	row := h.DB.QueryRow(
		"SELECT "+productColumns+" FROM products WHERE slug = ? AND is_active = TRUE",
		productSlug,
	)
	product, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	reviews, err := h.loadProductReviews(product.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"reviews": reviews,
	})
}

func (h *Handlers) loadProductReviews(productID int64) ([]models.Review, error) {
	query := `
		SELECT r.id, r.user_id, r.product_id, r.rating, r.title, r.comment,
			r.verified_purchase, r.created_at, r.updated_at, p.full_name
		FROM reviews r
		LEFT JOIN profiles p ON p.id = r.user_id
		WHERE r.product_id = ?
		ORDER BY r.created_at DESC`

	rows, err := h.DB.Query(query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.Title, &r.Comment,
			&r.VerifiedPurchase, &r.CreatedAt, &r.UpdatedAt, &r.ReviewerName,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// ListCategories is the handler for GET /v1/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, name, slug, description, image_url, is_active, created_at, updated_at
		FROM categories
		WHERE is_active = TRUE
		ORDER BY name ASC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query categories"})
		return
	}
	defer rows.Close()

	categories, err := scanCategories(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func scanCategories(rows *sql.Rows) ([]models.Category, error) {
	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(
			&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.ImageURL,
			&cat.IsActive, &cat.CreatedAt, &cat.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// Home is the handler for GET /v1/home — the storefront landing data:
// up to 8 featured products and 6 categories.
func (h *Handlers) Home(c *gin.Context) {
	rows, err := h.DB.Query(
		"SELECT " + productColumns + " FROM products WHERE is_active = TRUE AND featured = TRUE LIMIT 8")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query featured products"})
		return
	}
	defer rows.Close()

	featured := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan product"})
			return
		}
		featured = append(featured, p)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating products"})
		return
	}

	catRows, err := h.DB.Query(`
		SELECT id, name, slug, description, image_url, is_active, created_at, updated_at
		FROM categories
		WHERE is_active = TRUE
		ORDER BY name ASC
		LIMIT 6`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query categories"})
		return
	}
	defer catRows.Close()

	categories, err := scanCategories(catRows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"featured_products": featured,
		"categories":        categories,
	})
}
