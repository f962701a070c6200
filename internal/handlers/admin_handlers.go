package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

//
// --- Admin: Dashboard Stats ---
//

type AdminStats struct {
	TotalProducts int            `json:"totalProducts"`
	TotalOrders   int            `json:"totalOrders"`
	TotalUsers    int            `json:"totalUsers"`
	TotalRevenue  float64        `json:"totalRevenue"`
	RecentOrders  []models.Order `json:"recentOrders"`
}

// GetAdminStats is the handler for GET /v1/admin/stats
func (h *Handlers) GetAdminStats(c *gin.Context) {
	stats := AdminStats{}

	if err := h.DB.QueryRow("SELECT COUNT(*) FROM products").Scan(&stats.TotalProducts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
		return
	}
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM orders").Scan(&stats.TotalOrders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&stats.TotalUsers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}
	if err := h.DB.QueryRow("SELECT COALESCE(SUM(total_amount), 0) FROM orders").Scan(&stats.TotalRevenue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum revenue"})
		return
	}

	rows, err := h.DB.Query(
		"SELECT " + orderColumns + " FROM orders ORDER BY created_at DESC LIMIT 5")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent orders"})
		return
	}
	defer rows.Close()

	stats.RecentOrders = []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}
		stats.RecentOrders = append(stats.RecentOrders, o)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating orders"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

//
// --- Admin: Orders (list + update only; orders are never created or
// deleted from the admin panel) ---
//

// AdminListOrders is the handler for GET /v1/admin/orders
// Search matches the order number or numeric id; ?status= filters; the
// result pages at ten rows over the filtered set.
func (h *Handlers) AdminListOrders(c *gin.Context) {
	rows, err := h.DB.Query(
		"SELECT " + orderColumns + " FROM orders ORDER BY created_at DESC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	all := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}
		all = append(all, o)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating orders"})
		return
	}

	search := c.Query("search")
	statusFilter := c.Query("status")
	filtered := []models.Order{}
	for _, o := range all {
		if !containsFold(o.OrderNumber, search) && !containsFold(strconv.FormatInt(o.ID, 10), search) {
			continue
		}
		if statusFilter != "" && o.Status != statusFilter {
			continue
		}
		filtered = append(filtered, o)
	}

	page := parsePage(c.Query("page"))
	pageItems, totalPages := paginate(filtered, page)

	c.JSON(http.StatusOK, gin.H{
		"orders":      pageItems,
		"total":       len(filtered),
		"page":        page,
		"total_pages": totalPages,
	})
}

// AdminUpdateOrderInput carries the admin-editable order fields.
type AdminUpdateOrderInput struct {
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"payment_status"`
	TrackingNumber *string `json:"tracking_number"`
	Notes          *string `json:"notes"`
}

// AdminUpdateOrder is the handler for PUT /v1/admin/orders/:id
// Status changes are checked against the allowed transition graph.
func (h *Handlers) AdminUpdateOrder(c *gin.Context) {
	orderID := c.Param("id")

	var input AdminUpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var currentStatus, currentPayment string
	err := h.DB.QueryRow("SELECT status, payment_status FROM orders WHERE id = ?", orderID).
		Scan(&currentStatus, &currentPayment)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	if input.Status != nil {
		if !models.ValidOrderStatus(*input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status: " + *input.Status})
			return
		}
		if !models.CanTransitionOrder(currentStatus, *input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cannot move order from '" + currentStatus + "' to '" + *input.Status + "'",
			})
			return
		}
	}
	if input.PaymentStatus != nil {
		if !models.ValidPaymentStatus(*input.PaymentStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment status: " + *input.PaymentStatus})
			return
		}
		if !models.CanTransitionPayment(currentPayment, *input.PaymentStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cannot move payment from '" + currentPayment + "' to '" + *input.PaymentStatus + "'",
			})
			return
		}
	}

	query := "UPDATE orders SET updated_at = ?"
	args := []interface{}{time.Now()}
	if input.Status != nil {
		query += ", status = ?"
		args = append(args, *input.Status)
	}
	if input.PaymentStatus != nil {
		query += ", payment_status = ?"
		args = append(args, *input.PaymentStatus)
	}
	if input.TrackingNumber != nil {
		query += ", tracking_number = ?"
		args = append(args, *input.TrackingNumber)
	}
	if input.Notes != nil {
		query += ", notes = ?"
		args = append(args, *input.Notes)
	}
	query += " WHERE id = ?"
	args = append(args, orderID)

	if _, err := h.DB.Exec(query, args...); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
}

//
// --- Admin: Users (list + update only) ---
//

// AdminListUsers is the handler for GET /v1/admin/users
// Search matches name or email; ?role= filters.
func (h *Handlers) AdminListUsers(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, email, full_name, role, phone, avatar_url, created_at, updated_at
		FROM profiles
		ORDER BY created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	defer rows.Close()

	all := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(
			&p.ID, &p.Email, &p.FullName, &p.Role, &p.Phone, &p.AvatarURL,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan user"})
			return
		}
		all = append(all, p)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating users"})
		return
	}

	search := c.Query("search")
	roleFilter := c.Query("role")
	filtered := []models.Profile{}
	for _, p := range all {
		if !containsFold(p.FullName, search) && !containsFold(p.Email, search) {
			continue
		}
		if roleFilter != "" && p.Role != roleFilter {
			continue
		}
		filtered = append(filtered, p)
	}

	page := parsePage(c.Query("page"))
	pageItems, totalPages := paginate(filtered, page)

	c.JSON(http.StatusOK, gin.H{
		"users":       pageItems,
		"total":       len(filtered),
		"page":        page,
		"total_pages": totalPages,
	})
}

// AdminUpdateUserInput carries the admin-editable profile fields.
type AdminUpdateUserInput struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
}

// AdminUpdateUser is the handler for PUT /v1/admin/users/:id
func (h *Handlers) AdminUpdateUser(c *gin.Context) {
	userID := c.Param("id")

	var input AdminUpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := "UPDATE profiles SET updated_at = ?"
	args := []interface{}{time.Now()}
	if input.FullName != nil {
		query += ", full_name = ?"
		args = append(args, *input.FullName)
	}
	if input.Phone != nil {
		query += ", phone = ?"
		args = append(args, *input.Phone)
	}
	if input.Role != nil {
		query += ", role = ?"
		args = append(args, *input.Role)
	}
	query += " WHERE id = ?"
	args = append(args, userID)

	result, err := h.DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}
