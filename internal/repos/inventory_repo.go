package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"milkcart/internal/domain"
)

// InventoryRepo owns stock movements and their audit trail. All stock
// writes outside admin absolute-set go through the conditional decrement
// so a concurrent check-then-write can never drive stock negative.
type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// ErrNoStock signals the conditional decrement matched no row.
var ErrNoStock = fmt.Errorf("insufficient stock")

// decrementTx subtracts qty within an open transaction. Zero rows affected
// means the product had fewer than qty units left.
func decrementTx(tx *sqlx.Tx, productID int64, qty int) error {
	res, err := tx.Exec(`
		UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?`, qty, productID, qty)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNoStock
	}
	return nil
}

func logChangeTx(tx *sqlx.Tx, productID int64, changeType string, qty int, actorID int64) error {
	_, err := tx.Exec(`
		INSERT INTO inventory_logs(product_id, change_type, quantity, actor_id)
		VALUES(?, ?, ?, ?)`, productID, changeType, qty, actorID)
	return err
}

// Log records a stock movement outside a transaction (admin absolute sets).
func (r *InventoryRepo) Log(productID int64, changeType string, qty int, actorID int64) error {
	_, err := r.db.Exec(`
		INSERT INTO inventory_logs(product_id, change_type, quantity, actor_id)
		VALUES(?, ?, ?, ?)`, productID, changeType, qty, actorID)
	return err
}

func (r *InventoryRepo) ListByProduct(productID int64) ([]domain.InventoryLog, error) {
	out := []domain.InventoryLog{}
	err := r.db.Select(&out, `
		SELECT id, product_id, change_type, quantity, actor_id, created_at
		FROM inventory_logs
		WHERE product_id = ?
		ORDER BY id DESC`, productID)
	return out, err
}
