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
// --- Profile Handlers ---
//

// GetProfile is the handler for GET /v1/profile
func (h *Handlers) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var (
		profile models.Profile
		rawAddr sql.NullString
	)
	query := `
		SELECT id, email, full_name, role, phone, avatar_url, address, created_at, updated_at
		FROM profiles
		WHERE id = ?`
	err := h.DB.QueryRow(query, userID).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.Role,
		&profile.Phone, &profile.AvatarURL, &rawAddr,
		&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}
	if rawAddr.Valid && rawAddr.String != "" {
		var addr models.Address
		if err := json.Unmarshal([]byte(rawAddr.String), &addr); err == nil {
			profile.Address = &addr
		}
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfileInput only carries the fields a user may edit about
// themselves. Email and role changes go through other paths.
type UpdateProfileInput struct {
	FullName  *string         `json:"full_name"`
	Phone     *string         `json:"phone"`
	AvatarURL *string         `json:"avatar_url"`
	Address   *models.Address `json:"address"`
}

// UpdateProfile is the handler for PUT /v1/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var input UpdateProfileInput
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
	if input.AvatarURL != nil {
		query += ", avatar_url = ?"
		args = append(args, *input.AvatarURL)
	}
	if input.Address != nil {
		addrJSON, err := json.Marshal(input.Address)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
			return
		}
		query += ", address = ?"
		args = append(args, addrJSON)
	}

	query += " WHERE id = ?"
	args = append(args, userID)

	if _, err := h.DB.Exec(query, args...); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}
