package handlers

import (
	"log"
	"time"
)

//
// --- Background Maintenance ---
//

// ReleaseStalePendingOrders cancels orders that never settled: still
// pending/pending after olderThan. Each cancellation restores the
// stock its checkout decremented, in one transaction per order. Run
// periodically from main.
func (h *Handlers) ReleaseStalePendingOrders(olderThan time.Duration) {
	cutoff := time.Now().Add(-olderThan)

	rows, err := h.DB.Query(`
		SELECT id
		FROM orders
		WHERE status = 'pending' AND payment_status = 'pending' AND created_at < ?`,
		cutoff)
	if err != nil {
		log.Printf("sweeper: failed to list stale orders: %v", err)
		return
	}

	var staleIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			log.Printf("sweeper: failed to scan order id: %v", err)
			return
		}
		staleIDs = append(staleIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		log.Printf("sweeper: failed to list stale orders: %v", err)
		return
	}

	for _, orderID := range staleIDs {
		if err := h.cancelStaleOrder(orderID); err != nil {
			log.Printf("sweeper: failed to cancel order %d: %v", orderID, err)
			continue
		}
		log.Printf("sweeper: cancelled stale order %d and restored stock", orderID)
	}
}

// cancelStaleOrder marks the order cancelled/failed, then restores
// stock for every line still pointing at a product. The status guards
// on the UPDATE mean a concurrently settled order is left alone: zero
// rows affected, nothing restored.
func (h *Handlers) cancelStaleOrder(orderID int64) error {
	tx, err := h.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.Exec(`
		UPDATE orders
		SET status = 'cancelled', payment_status = 'failed', updated_at = ?
		WHERE id = ? AND status = 'pending' AND payment_status = 'pending'`,
		now, orderID)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		// Settled (or already cancelled) since we listed it.
		return nil
	}

	itemRows, err := tx.Query(`
		SELECT product_id, quantity
		FROM order_items
		WHERE order_id = ? AND product_id IS NOT NULL`, orderID)
	if err != nil {
		return err
	}

	type restock struct {
		productID int64
		quantity  int
	}
	var restocks []restock
	for itemRows.Next() {
		var r restock
		if err := itemRows.Scan(&r.productID, &r.quantity); err != nil {
			itemRows.Close()
			return err
		}
		restocks = append(restocks, r)
	}
	itemRows.Close()
	if err := itemRows.Err(); err != nil {
		return err
	}

	for _, r := range restocks {
		if _, err := tx.Exec(
			"UPDATE products SET stock_quantity = stock_quantity + ?, updated_at = ? WHERE id = ?",
			r.quantity, now, r.productID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
