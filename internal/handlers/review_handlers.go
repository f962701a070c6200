package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//
// --- Review Handlers ---
//

// CreateReviewInput is the JSON body for posting a product review.
type CreateReviewInput struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Title   *string `json:"title"`
	Comment *string `json:"comment"`
}

// CreateReview is the handler for POST /v1/products/:slug/reviews
// A review is flagged verified when the reviewer has a paid order
// containing the product.
func (h *Handlers) CreateReview(c *gin.Context) {
	// 1. Get authenticated user
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	// 2. Validate input
	var input CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 3. Resolve the product from its slug
	var productID int64
	err := h.DB.QueryRow(
		"SELECT id FROM products WHERE slug = ? AND is_active = TRUE",
		c.Param("slug")).Scan(&productID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// 4. Check for a paid order containing this product
	var verified bool
	err = h.DB.QueryRow(`
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = ? AND oi.product_id = ? AND o.payment_status = 'paid'
		)`, userID, productID).Scan(&verified)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// 5. Insert the review
	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO reviews (user_id, product_id, rating, title, comment, verified_purchase, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, productID, input.Rating, input.Title, input.Comment, verified, now, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"message":           "Review submitted",
		"id":                id,
		"verified_purchase": verified,
	})
}
