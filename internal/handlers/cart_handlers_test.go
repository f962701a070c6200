package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var cartColumns = []string{
	"ci.id", "ci.user_id", "ci.product_id", "ci.quantity", "ci.created_at", "ci.updated_at",
	"p.id", "p.name", "p.slug", "p.price", "p.stock_quantity", "p.image_urls", "p.is_active",
}

const cartSelect = "FROM cart_items ci LEFT JOIN products p ON p.id = ci.product_id WHERE ci.user_id = ?"

func TestGetCartCountsDeletedProducts(t *testing.T) {
	h, mock := newMockDB(t)
	now := time.Now()

	// Two lines: a live product (2 x 10.00) and one whose product is
	// gone. Deleted lines still count toward totalItems but add nothing
	// to the subtotal.
	rows := sqlmock.NewRows(cartColumns).
		AddRow(1, 1, 7, 2, now, now, 7, "Widget", "widget", 10.0, 50, `["http://img/widget.png"]`, true).
		AddRow(2, 1, 99, 1, now, now, nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta(cartSelect)).WithArgs(int64(1)).WillReturnRows(rows)

	c, w := newTestContext("GET", "/v1/cart", "", true)
	h.GetCart(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalItems int     `json:"totalItems"`
		Subtotal   float64 `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.TotalItems)
	require.Equal(t, 20.0, resp.Subtotal)
	expectationsMet(t, mock)
}

func TestGetCartRequiresAuth(t *testing.T) {
	h, mock := newMockDB(t)

	c, w := newTestContext("GET", "/v1/cart", "", false)
	h.GetCart(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	expectationsMet(t, mock)
}

func TestAddToCartUpsertsQuantity(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT stock_quantity FROM products WHERE id = ? AND is_active = TRUE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(50))

	// The increment is a single upsert keyed on (user_id, product_id).
	mock.ExpectExec(regexp.QuoteMeta(
		"ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)")).
		WithArgs(int64(1), int64(7), 2).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery(regexp.QuoteMeta(cartSelect)).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cartColumns))

	c, w := newTestContext("POST", "/v1/cart/items", `{"product_id": 7, "quantity": 2}`, true)
	h.AddToCart(c)

	require.Equal(t, http.StatusCreated, w.Code)
	expectationsMet(t, mock)
}

func TestAddToCartDefaultsQuantityToOne(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT stock_quantity FROM products WHERE id = ? AND is_active = TRUE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(50))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cart_items")).
		WithArgs(int64(1), int64(7), 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(cartSelect)).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cartColumns))

	c, w := newTestContext("POST", "/v1/cart/items", `{"product_id": 7}`, true)
	h.AddToCart(c)

	require.Equal(t, http.StatusCreated, w.Code)
	expectationsMet(t, mock)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT stock_quantity FROM products WHERE id = ? AND is_active = TRUE")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}))

	c, w := newTestContext("POST", "/v1/cart/items", `{"product_id": 404}`, true)
	h.AddToCart(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	expectationsMet(t, mock)
}

func TestUpdateCartItemSetsQuantity(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ? AND user_id = ?")).
		WithArgs(5, sqlmock.AnyArg(), "3", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(cartSelect)).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cartColumns))

	c, w := newTestContext("PUT", "/v1/cart/items/3", `{"quantity": 5}`, true)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "3"})
	h.UpdateCartItem(c)

	require.Equal(t, http.StatusOK, w.Code)
	expectationsMet(t, mock)
}

func TestUpdateCartItemZeroQuantityDeletesLine(t *testing.T) {
	h, mock := newMockDB(t)

	// Quantity <= 0 is a removal, not an update.
	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM cart_items WHERE id = ? AND user_id = ?")).
		WithArgs("3", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(cartSelect)).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cartColumns))

	c, w := newTestContext("PUT", "/v1/cart/items/3", `{"quantity": 0}`, true)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "3"})
	h.UpdateCartItem(c)

	require.Equal(t, http.StatusOK, w.Code)
	expectationsMet(t, mock)
}

func TestUpdateCartItemNotOwned(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ? AND user_id = ?")).
		WithArgs(2, sqlmock.AnyArg(), "3", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, w := newTestContext("PUT", "/v1/cart/items/3", `{"quantity": 2}`, true)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "3"})
	h.UpdateCartItem(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	expectationsMet(t, mock)
}

func TestClearCart(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id = ?")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	c, w := newTestContext("DELETE", "/v1/cart", "", true)
	h.ClearCart(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalItems int     `json:"totalItems"`
		Subtotal   float64 `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Zero(t, resp.TotalItems)
	require.Zero(t, resp.Subtotal)
	expectationsMet(t, mock)
}
