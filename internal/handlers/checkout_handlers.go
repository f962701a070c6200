package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/internal/models"
)

//
// --- Checkout Orchestration ---
//

// paymentProcessingDelay simulates the settlement round-trip to a
// payment gateway. Settlement is deterministic: it always succeeds.
var paymentProcessingDelay = 2 * time.Second

// checkoutLine is one cart line as read inside the checkout
// transaction. Product columns are nullable: the product may have been
// deleted since it entered the cart.
type checkoutLine struct {
	ProductID int64
	Quantity  int
	Name      sql.NullString
	Price     sql.NullFloat64
	Stock     sql.NullInt64
	Images    sql.NullString
}

func (l checkoutLine) resolved() bool { return l.Name.Valid }

func (l checkoutLine) firstImage() *string {
	if !l.Images.Valid || l.Images.String == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(l.Images.String), &urls); err != nil || len(urls) == 0 {
		return nil
	}
	return &urls[0]
}

// Checkout is the handler for POST /v1/checkout
// Converts the caller's cart into an order. The order header, the item
// snapshots, the stock decrements and the cart clear all commit in one
// transaction; payment settlement runs afterwards as a separate,
// idempotent step keyed by the order id.
func (h *Handlers) Checkout(c *gin.Context) {
	// 1. --- Preconditions ---
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to checkout"})
		return
	}

	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	// 2. --- Validate before any write ---
	if missing := validateCheckoutInput(input); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Please fill in all required fields",
			"missing": missing,
		})
		return
	}

	shippingAddress := input.ShippingAddress
	billingAddress := resolveBillingAddress(input)
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "credit_card"
	}

	// 3. --- Begin Transaction ---
	tx, err := h.DB.BeginTx(c, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback() // no-op after Commit

	// 4. --- Read the cart and lock the product rows ---
	query := `
		SELECT ci.product_id, ci.quantity, p.name, p.price, p.stock_quantity, p.image_urls
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		FOR UPDATE`

	rows, err := tx.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
		return
	}

	var lines []checkoutLine
	subtotal := 0.0
	for rows.Next() {
		var line checkoutLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.Name, &line.Price, &line.Stock, &line.Images); err != nil {
			rows.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan cart line"})
			return
		}
		if line.resolved() {
			subtotal += line.Price.Float64 * float64(line.Quantity)
		}
		lines = append(lines, line)
	}
	rows.Close()
	// A driver error mid-iteration truncates rows.Next() silently;
	// ordering a partial cart is worse than ordering nothing.
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading cart"})
		return
	}

	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}

	totalAmount := orderTotal(subtotal)

	// 5. --- Insert the order header (pending/pending) ---
	shippingJSON, err := json.Marshal(shippingAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode address"})
		return
	}
	billingJSON, err := json.Marshal(billingAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode address"})
		return
	}

	var notes *string
	if input.Notes != "" {
		notes = &input.Notes
	}

	now := time.Now()
	orderNumber := uuid.NewString()
	orderQuery := `
		INSERT INTO orders (order_number, user_id, status, payment_status, total_amount,
			shipping_address, billing_address, payment_method, notes, created_at, updated_at)
		VALUES (?, ?, 'pending', 'pending', ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.Exec(orderQuery,
		orderNumber, userID, totalAmount, shippingJSON, billingJSON, paymentMethod, notes, now, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	// 6. --- Snapshot every cart line into order_items ---
	// Name, image and price are captured now so later product edits or
	// deletion never change what this order shows.
	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, price, product_name, product_image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	stockQuery := `
		UPDATE products
		SET stock_quantity = GREATEST(stock_quantity - ?, 0), updated_at = ?
		WHERE id = ?`

	for _, line := range lines {
		if _, err := tx.Exec(itemQuery,
			orderID, line.ProductID, line.Quantity, line.Price.Float64,
			line.Name.String, line.firstImage(), now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}

		// 7. --- Decrement stock, floored at zero, for lines whose
		// product still exists ---
		if line.resolved() {
			if _, err := tx.Exec(stockQuery, line.Quantity, now, line.ProductID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
				return
			}
		}
	}

	// 8. --- Clear the cart ---
	if _, err := tx.Exec("DELETE FROM cart_items WHERE user_id = ?", userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	// 9. --- Commit ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	// 10. --- Settle payment (separate, idempotent step) ---
	// If this fails the order legitimately stays pending/pending and
	// the background sweeper will cancel it and restore stock.
	status, paymentStatus := models.OrderPending, models.PaymentPending
	if err := h.settleOrderPayment(orderID); err == nil {
		status, paymentStatus = models.OrderProcessing, models.PaymentPaid
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Order placed successfully",
		"order_id":       orderID,
		"order_number":   orderNumber,
		"total_amount":   totalAmount,
		"status":         status,
		"payment_status": paymentStatus,
	})
}

// settleOrderPayment simulates payment processing and marks the order
// paid. The WHERE guard makes it safe to call more than once for the
// same order: only a pending payment ever transitions.
func (h *Handlers) settleOrderPayment(orderID int64) error {
	time.Sleep(paymentProcessingDelay)

	_, err := h.DB.Exec(`
		UPDATE orders
		SET payment_status = 'paid', status = 'processing', updated_at = ?
		WHERE id = ? AND payment_status = 'pending'`,
		time.Now(), orderID)
	return err
}

//
// --- Order Retrieval ---
//

// orderColumns is the canonical select list for the orders table.
const orderColumns = `id, order_number, user_id, status, payment_status, total_amount,
	shipping_address, billing_address, payment_method, tracking_number, notes, created_at, updated_at`

func scanOrder(s rowScanner) (models.Order, error) {
	var (
		o           models.Order
		rawShipping sql.NullString
		rawBilling  sql.NullString
	)
	err := s.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.PaymentStatus, &o.TotalAmount,
		&rawShipping, &rawBilling, &o.PaymentMethod, &o.TrackingNumber, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}
	if rawShipping.Valid && rawShipping.String != "" {
		_ = json.Unmarshal([]byte(rawShipping.String), &o.ShippingAddress)
	}
	if rawBilling.Valid && rawBilling.String != "" {
		var billing models.Address
		if json.Unmarshal([]byte(rawBilling.String), &billing) == nil {
			o.BillingAddress = &billing
		}
	}
	return o, nil
}

func (h *Handlers) loadOrderItems(orderID int64) ([]models.OrderItem, error) {
	rows, err := h.DB.Query(`
		SELECT id, order_id, product_id, quantity, price, product_name, product_image_url, created_at
		FROM order_items
		WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.Price, &item.ProductName, &item.ProductImageURL, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetMyOrders is the handler for GET /v1/orders
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to view your orders"})
		return
	}

	rows, err := h.DB.Query(
		"SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC",
		userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating orders"})
		return
	}

	for i := range orders {
		items, err := h.loadOrderItems(orders[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
			return
		}
		orders[i].Items = items
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderDetails is the handler for GET /v1/orders/:id
// Ownership is enforced in the WHERE clause.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to view your orders"})
		return
	}
	orderID := c.Param("id")

	row := h.DB.QueryRow(
		"SELECT "+orderColumns+" FROM orders WHERE id = ? AND user_id = ?",
		orderID, userID)
	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	items, err := h.loadOrderItems(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
		return
	}
	order.Items = items

	c.JSON(http.StatusOK, gin.H{"order": order})
}
