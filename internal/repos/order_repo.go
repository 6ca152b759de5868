package repos

import (
	"milkcart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  o.id, o.user_id, o.product_id, p.name AS product_name, o.quantity,
  o.unit_price, o.total, o.status, o.payment_status,
  o.created_at, COALESCE(o.updated_at,'') AS updated_at`

// Place writes the stock decrement, the order row and the Sold inventory
// log in one transaction. A failed decrement commits nothing and returns
// ErrNoStock. unit_price is copied from the product, never referenced live.
func (r *OrderRepo) Place(userID int64, p domain.Product, qty int, status string) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := decrementTx(tx, p.ID, qty); err != nil {
		return 0, err
	}
	total := p.Price * float64(qty)
	res, err := tx.Exec(`
		INSERT INTO orders(user_id, product_id, quantity, unit_price, total, status, payment_status)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		userID, p.ID, qty, p.Price, total, status, domain.PaymentPending)
	if err != nil {
		return 0, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := logChangeTx(tx, p.ID, domain.StockSold, qty, userID); err != nil {
		return 0, err
	}
	return orderID, tx.Commit()
}

// PlaceSubscribed is Place plus the subscription row, still one transaction:
// a duplicate-subscription failure upstream can never leave a dangling
// order or a lost stock decrement.
func (r *OrderRepo) PlaceSubscribed(userID int64, p domain.Product, qty int, startsOn, endsOn string) (orderID, subID int64, err error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := decrementTx(tx, p.ID, qty); err != nil {
		return 0, 0, err
	}
	total := p.Price * float64(qty)
	res, err := tx.Exec(`
		INSERT INTO orders(user_id, product_id, quantity, unit_price, total, status, payment_status)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		userID, p.ID, qty, p.Price, total, domain.OrderSubscribed, domain.PaymentPending)
	if err != nil {
		return 0, 0, err
	}
	orderID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}
	if err := logChangeTx(tx, p.ID, domain.StockSold, qty, userID); err != nil {
		return 0, 0, err
	}
	res, err = tx.Exec(`
		INSERT INTO subscriptions(user_id, order_id, product_id, quantity, starts_on, ends_on, status)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		userID, orderID, p.ID, qty, startsOn, endsOn, domain.SubscriptionActive)
	if err != nil {
		return 0, 0, err
	}
	subID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}
	return orderID, subID, tx.Commit()
}

func (r *OrderRepo) ByID(id int64) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+`
		FROM orders o JOIN products p ON p.id = o.product_id
		WHERE o.id = ?`, id)
	return o, err
}

func (r *OrderRepo) ListByUser(userID int64) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `SELECT `+orderCols+`
		FROM orders o JOIN products p ON p.id = o.product_id
		WHERE o.user_id = ?
		ORDER BY o.id DESC`, userID)
	return out, err
}

func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `SELECT `+orderCols+`
		FROM orders o JOIN products p ON p.id = o.product_id
		ORDER BY o.id DESC`)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id int64, status string) (bool, error) {
	res, err := r.db.Exec(`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *OrderRepo) UpdatePaymentStatus(id int64, status string) (bool, error) {
	res, err := r.db.Exec(`UPDATE orders SET payment_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteForUser removes an order only when it belongs to the given user.
func (r *OrderRepo) DeleteForUser(id, userID int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM orders WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Archive moves a delivered order into order_history (copy + delete in one
// transaction). Delivered is terminal; there is no path back from history.
func (r *OrderRepo) Archive(id int64) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO order_history(id, user_id, product_id, quantity, unit_price, total, status, payment_status, created_at)
		SELECT id, user_id, product_id, quantity, unit_price, total, ?, payment_status, created_at
		FROM orders WHERE id = ?`, domain.OrderDelivered, id)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}
	if _, err := tx.Exec(`DELETE FROM orders WHERE id = ?`, id); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *OrderRepo) HistoryByID(id int64) (domain.ArchivedOrder, error) {
	var o domain.ArchivedOrder
	err := r.db.Get(&o, `
		SELECT id, user_id, product_id, quantity, unit_price, total, status, payment_status,
		       COALESCE(created_at,'') AS created_at, COALESCE(delivered_at,'') AS delivered_at
		FROM order_history WHERE id = ?`, id)
	return o, err
}

func (r *OrderRepo) HistoryByUser(userID int64) ([]domain.ArchivedOrder, error) {
	out := []domain.ArchivedOrder{}
	err := r.db.Select(&out, `
		SELECT id, user_id, product_id, quantity, unit_price, total, status, payment_status,
		       COALESCE(created_at,'') AS created_at, COALESCE(delivered_at,'') AS delivered_at
		FROM order_history WHERE user_id = ?
		ORDER BY id DESC`, userID)
	return out, err
}
