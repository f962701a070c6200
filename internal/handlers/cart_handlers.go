package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

//
// --- Cart Handlers ---
//

// loadCartItems fetches the user's cart lines joined with current
// product data. LEFT JOIN: a line whose product has been deleted still
// comes back, with Product left nil.
func loadCartItems(db *sql.DB, userID int64) ([]models.CartItem, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			p.id, p.name, p.slug, p.price, p.stock_quantity, p.image_urls, p.is_active
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.created_at ASC`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var (
			item      models.CartItem
			pID       sql.NullInt64
			pName     sql.NullString
			pSlug     sql.NullString
			pPrice    sql.NullFloat64
			pStock    sql.NullInt64
			pImages   sql.NullString
			pIsActive sql.NullBool
		)
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt,
			&pID, &pName, &pSlug, &pPrice, &pStock, &pImages, &pIsActive,
		); err != nil {
			return nil, err
		}
		if pID.Valid {
			product := &models.Product{
				ID:            pID.Int64,
				Name:          pName.String,
				Slug:          pSlug.String,
				Price:         pPrice.Float64,
				StockQuantity: int(pStock.Int64),
				IsActive:      pIsActive.Bool,
			}
			if pImages.Valid && pImages.String != "" {
				_ = json.Unmarshal([]byte(pImages.String), &product.ImageURLs)
			}
			item.Product = product
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// respondWithCart reloads the cart and writes the standard cart
// envelope. Every mutation ends here so the client always sees a
// consistent joined view.
func (h *Handlers) respondWithCart(c *gin.Context, userID int64, status int) {
	items, err := loadCartItems(h.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	c.JSON(status, gin.H{
		"items":      items,
		"totalItems": cartItemCount(items),
		"subtotal":   cartSubtotal(items),
	})
}

// GetCart is the handler for GET /v1/cart
func (h *Handlers) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to view your cart"})
		return
	}
	h.respondWithCart(c, userID, http.StatusOK)
}

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"omitempty,gt=0"`
}

// AddToCart is the handler for POST /v1/cart/items
// Adding a product already in the cart increments its quantity. The
// increment happens in a single upsert so concurrent adds for the same
// product cannot lose updates.
func (h *Handlers) AddToCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to add items to cart"})
		return
	}

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	// The product must exist and be active to enter a cart.
	var stock int
	err := h.DB.QueryRow(
		"SELECT stock_quantity FROM products WHERE id = ? AND is_active = TRUE",
		input.ProductID,
	).Scan(&stock)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or not active"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	_, err = h.DB.Exec(`
		INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			quantity = quantity + VALUES(quantity),
			updated_at = NOW()`,
		userID, input.ProductID, input.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	h.respondWithCart(c, userID, http.StatusCreated)
}

// UpdateCartItemInput defines the JSON for updating an item's quantity.
// Pointer so that an explicit zero survives binding.
type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateCartItem is the handler for PUT /v1/cart/items/:id
// A quantity of zero or less removes the line.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to update your cart"})
		return
	}
	itemID := c.Param("id")

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if *input.Quantity <= 0 {
		h.deleteCartItem(c, userID, itemID)
		return
	}

	result, err := h.DB.Exec(
		"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		*input.Quantity, time.Now(), itemID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
		return
	}

	h.respondWithCart(c, userID, http.StatusOK)
}

// DeleteCartItem is the handler for DELETE /v1/cart/items/:id
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to update your cart"})
		return
	}
	h.deleteCartItem(c, userID, c.Param("id"))
}

// deleteCartItem removes one line, checking ownership via user_id.
func (h *Handlers) deleteCartItem(c *gin.Context, userID int64, itemID string) {
	result, err := h.DB.Exec(
		"DELETE FROM cart_items WHERE id = ? AND user_id = ?", itemID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
		return
	}

	h.respondWithCart(c, userID, http.StatusOK)
}

// ClearCart is the handler for DELETE /v1/cart
// No reload round-trip needed: the cart is empty by definition.
func (h *Handlers) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to update your cart"})
		return
	}

	if _, err := h.DB.Exec("DELETE FROM cart_items WHERE user_id = ?", userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      []models.CartItem{},
		"totalItems": 0,
		"subtotal":   0.0,
	})
}
