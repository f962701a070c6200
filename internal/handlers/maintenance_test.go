package handlers

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestReleaseStalePendingOrdersCancelsAndRestocks(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE status = 'pending' AND payment_status = 'pending' AND created_at < ?")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"SET status = 'cancelled', payment_status = 'failed'")).
		WithArgs(sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM order_items WHERE order_id = ? AND product_id IS NOT NULL")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
			AddRow(7, 2).
			AddRow(8, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE products SET stock_quantity = stock_quantity + ?")).
		WithArgs(2, sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE products SET stock_quantity = stock_quantity + ?")).
		WithArgs(1, sqlmock.AnyArg(), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h.ReleaseStalePendingOrders(time.Hour)
	expectationsMet(t, mock)
}

func TestReleaseStalePendingOrdersLeavesSettledOrdersAlone(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE status = 'pending' AND payment_status = 'pending' AND created_at < ?")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	// The order settled between the listing and the cancel: the guarded
	// update matches nothing and no stock may be restored.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"SET status = 'cancelled', payment_status = 'failed'")).
		WithArgs(sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	h.ReleaseStalePendingOrders(time.Hour)
	expectationsMet(t, mock)
}

func TestReleaseStalePendingOrdersRollsBackOnTruncatedItemRead(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE status = 'pending' AND payment_status = 'pending' AND created_at < ?")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	// The item read fails mid-stream: restoring stock for only the
	// lines we managed to read would leave the rest lost for good, so
	// the whole cancellation must roll back.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"SET status = 'cancelled', payment_status = 'failed'")).
		WithArgs(sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM order_items WHERE order_id = ? AND product_id IS NOT NULL")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
			AddRow(7, 2).
			AddRow(8, 1).
			RowError(1, errors.New("driver: bad connection")))
	mock.ExpectRollback()

	h.ReleaseStalePendingOrders(time.Hour)
	expectationsMet(t, mock)
}

func TestReleaseStalePendingOrdersNothingStale(t *testing.T) {
	h, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE status = 'pending' AND payment_status = 'pending' AND created_at < ?")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	h.ReleaseStalePendingOrders(time.Hour)
	expectationsMet(t, mock)
}
