package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"

	"storefront/internal/models"
)

//
// --- Admin: Product & Category Management ---
//

// deriveSlug builds the URL-safe slug a new product or category gets
// from its name. Only creation derives slugs; editing never rewrites
// an existing one.
func deriveSlug(name string) string {
	return slug.Make(name)
}

// requireDeleteConfirmation enforces the two-step delete: without
// ?confirm=true nothing is removed and the response names the target
// so the client can prompt. Returns true when the delete may proceed.
func (h *Handlers) requireDeleteConfirmation(c *gin.Context, table, id string) bool {
	if c.Query("confirm") == "true" {
		return true
	}

	var name string
	err := h.DB.QueryRow("SELECT name FROM "+table+" WHERE id = ?", id).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return false
	}

	c.JSON(http.StatusPreconditionRequired, gin.H{
		"error": "Confirmation required: re-issue the request with confirm=true to delete '" + name + "'",
		"name":  name,
	})
	return false
}

// AdminListProducts is the handler for GET /v1/admin/products
// Unlike the public catalog this includes inactive products. Search
// matches the name; ?is_active= filters.
func (h *Handlers) AdminListProducts(c *gin.Context) {
	rows, err := h.DB.Query(
		"SELECT " + productColumns + " FROM products ORDER BY created_at DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	defer rows.Close()

	all := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan product"})
			return
		}
		all = append(all, p)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating products"})
		return
	}

	search := c.Query("search")
	activeFilter := c.Query("is_active")
	filtered := []models.Product{}
	for _, p := range all {
		if !containsFold(p.Name, search) {
			continue
		}
		if activeFilter == "true" && !p.IsActive {
			continue
		}
		if activeFilter == "false" && p.IsActive {
			continue
		}
		filtered = append(filtered, p)
	}

	page := parsePage(c.Query("page"))
	pageItems, totalPages := paginate(filtered, page)

	c.JSON(http.StatusOK, gin.H{
		"products":    pageItems,
		"total":       len(filtered),
		"page":        page,
		"total_pages": totalPages,
	})
}

// ProductForm is the JSON body for creating or updating a product.
type ProductForm struct {
	Name          string             `json:"name" binding:"required"`
	Description   string             `json:"description"`
	Price         *float64           `json:"price" binding:"required,gte=0"`
	CategoryID    *int64             `json:"category_id"`
	StockQuantity int                `json:"stock_quantity" binding:"gte=0"`
	ImageURLs     []string           `json:"image_urls"`
	IsActive      *bool              `json:"is_active"`
	Featured      bool               `json:"featured"`
	Weight        *float64           `json:"weight" binding:"omitempty,gt=0"`
	Dimensions    *models.Dimensions `json:"dimensions"`
}

// productJSONColumns encodes the image list and dimensions for storage,
// leaving the column NULL when there is nothing to store.
func productJSONColumns(form ProductForm) (imagesJSON, dimsJSON interface{}) {
	if len(form.ImageURLs) > 0 {
		imagesJSON, _ = json.Marshal(form.ImageURLs)
	}
	if form.Dimensions != nil {
		dimsJSON, _ = json.Marshal(form.Dimensions)
	}
	return imagesJSON, dimsJSON
}

// AdminCreateProduct is the handler for POST /v1/admin/products
func (h *Handlers) AdminCreateProduct(c *gin.Context) {
	var form ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	productSlug := deriveSlug(form.Name)
	isActive := true
	if form.IsActive != nil {
		isActive = *form.IsActive
	}

	imagesJSON, dimsJSON := productJSONColumns(form)

	now := time.Now()
	query := `
		INSERT INTO products (name, slug, description, price, category_id, stock_quantity,
			image_urls, is_active, featured, weight, dimensions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := h.DB.Exec(query,
		form.Name, productSlug, form.Description, *form.Price, form.CategoryID,
		form.StockQuantity, imagesJSON, isActive, form.Featured, form.Weight, dimsJSON,
		now, now)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			c.JSON(http.StatusConflict, gin.H{"error": "A product with this slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created",
		"id":      id,
		"slug":    productSlug,
	})
}

// AdminUpdateProduct is the handler for PUT /v1/admin/products/:id
// The stored slug is preserved: a renamed product keeps its URL.
func (h *Handlers) AdminUpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var form ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isActive := true
	if form.IsActive != nil {
		isActive = *form.IsActive
	}
	imagesJSON, dimsJSON := productJSONColumns(form)

	query := `
		UPDATE products
		SET name = ?, description = ?, price = ?, category_id = ?, stock_quantity = ?,
			image_urls = ?, is_active = ?, featured = ?, weight = ?, dimensions = ?, updated_at = ?
		WHERE id = ?`
	result, err := h.DB.Exec(query,
		form.Name, form.Description, *form.Price, form.CategoryID, form.StockQuantity,
		imagesJSON, isActive, form.Featured, form.Weight, dimsJSON, time.Now(), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// AdminDeleteProduct is the handler for DELETE /v1/admin/products/:id
func (h *Handlers) AdminDeleteProduct(c *gin.Context) {
	productID := c.Param("id")
	if !h.requireDeleteConfirmation(c, "products", productID) {
		return
	}

	result, err := h.DB.Exec("DELETE FROM products WHERE id = ?", productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// AdminListCategories is the handler for GET /v1/admin/categories
func (h *Handlers) AdminListCategories(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, name, slug, description, image_url, is_active, created_at, updated_at
		FROM categories
		ORDER BY name ASC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	defer rows.Close()

	all, err := scanCategories(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan categories"})
		return
	}

	search := c.Query("search")
	activeFilter := c.Query("is_active")
	filtered := []models.Category{}
	for _, cat := range all {
		if !containsFold(cat.Name, search) {
			continue
		}
		if activeFilter == "true" && !cat.IsActive {
			continue
		}
		if activeFilter == "false" && cat.IsActive {
			continue
		}
		filtered = append(filtered, cat)
	}

	page := parsePage(c.Query("page"))
	pageItems, totalPages := paginate(filtered, page)

	c.JSON(http.StatusOK, gin.H{
		"categories":  pageItems,
		"total":       len(filtered),
		"page":        page,
		"total_pages": totalPages,
	})
}

// CategoryForm is the JSON body for creating or updating a category.
type CategoryForm struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

// AdminCreateCategory is the handler for POST /v1/admin/categories
func (h *Handlers) AdminCreateCategory(c *gin.Context) {
	var form CategoryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categorySlug := deriveSlug(form.Name)
	isActive := true
	if form.IsActive != nil {
		isActive = *form.IsActive
	}

	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO categories (name, slug, description, image_url, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		form.Name, categorySlug, form.Description, form.ImageURL, isActive, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			c.JSON(http.StatusConflict, gin.H{"error": "A category with this slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Category created",
		"category": models.Category{
			ID:          id,
			Name:        form.Name,
			Slug:        categorySlug,
			Description: form.Description,
			ImageURL:    form.ImageURL,
			IsActive:    isActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	})
}

// AdminUpdateCategory is the handler for PUT /v1/admin/categories/:id
// As with products, the stored slug is never re-derived on edit.
func (h *Handlers) AdminUpdateCategory(c *gin.Context) {
	categoryID := c.Param("id")

	var form CategoryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isActive := true
	if form.IsActive != nil {
		isActive = *form.IsActive
	}

	result, err := h.DB.Exec(`
		UPDATE categories
		SET name = ?, description = ?, image_url = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		form.Name, form.Description, form.ImageURL, isActive, time.Now(), categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

// AdminDeleteCategory is the handler for DELETE /v1/admin/categories/:id
// Deleting a category never cascades: referencing products are pointed
// at no category and live on.
func (h *Handlers) AdminDeleteCategory(c *gin.Context) {
	categoryID := c.Param("id")
	if !h.requireDeleteConfirmation(c, "categories", categoryID) {
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"UPDATE products SET category_id = NULL WHERE category_id = ?", categoryID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach products"})
		return
	}

	result, err := tx.Exec("DELETE FROM categories WHERE id = ?", categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Commit failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
