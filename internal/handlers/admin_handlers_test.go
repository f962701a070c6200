package handlers

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestAdminUpdateOrderValidTransition(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT status, payment_status FROM orders WHERE id = ?")).
		WithArgs("9").
		WillReturnRows(sqlmock.NewRows([]string{"status", "payment_status"}).
			AddRow("processing", "paid"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET updated_at = ?, status = ?, tracking_number = ?")).
		WithArgs(sqlmock.AnyArg(), "shipped", "TRACK-123", "9").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := newTestContext("PUT", "/v1/admin/orders/9",
		`{"status": "shipped", "tracking_number": "TRACK-123"}`, true)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "9"})
	h.AdminUpdateOrder(c)

	require.Equal(t, http.StatusOK, w.Code)
	expectationsMet(t, mock)
}

func TestAdminUpdateOrderRejectsIllegalTransition(t *testing.T) {
	h, mock := newMockDB(t)

	// Delivered is terminal: no update statement may run.
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT status, payment_status FROM orders WHERE id = ?")).
		WithArgs("9").
		WillReturnRows(sqlmock.NewRows([]string{"status", "payment_status"}).
			AddRow("delivered", "paid"))

	c, w := newTestContext("PUT", "/v1/admin/orders/9", `{"status": "processing"}`, true)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "9"})
	h.AdminUpdateOrder(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	expectationsMet(t, mock)
}

func TestAdminUpdateOrderRejectsUnknownStatus(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT status, payment_status FROM orders WHERE id = ?")).
		WithArgs("9").
		WillReturnRows(sqlmock.NewRows([]string{"status", "payment_status"}).
			AddRow("pending", "pending"))

	c, w := newTestContext("PUT", "/v1/admin/orders/9", `{"status": "teleported"}`, true)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "9"})
	h.AdminUpdateOrder(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	expectationsMet(t, mock)
}

func TestAdminUpdateOrderNotFound(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT status, payment_status FROM orders WHERE id = ?")).
		WithArgs("404").
		WillReturnRows(sqlmock.NewRows([]string{"status", "payment_status"}))

	c, w := newTestContext("PUT", "/v1/admin/orders/404", `{"status": "processing"}`, true)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "404"})
	h.AdminUpdateOrder(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	expectationsMet(t, mock)
}

func TestAdminUpdateUserRejectsUnknownRole(t *testing.T) {
	h, mock := newMockDB(t)

	c, w := newTestContext("PUT", "/v1/admin/users/2", `{"role": "superuser"}`, true)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "2"})
	h.AdminUpdateUser(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	expectationsMet(t, mock)
}

func TestAdminUpdateUserChangesRole(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET updated_at = ?, role = ? WHERE id = ?")).
		WithArgs(sqlmock.AnyArg(), "admin", "2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := newTestContext("PUT", "/v1/admin/users/2", `{"role": "admin"}`, true)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "2"})
	h.AdminUpdateUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	expectationsMet(t, mock)
}
