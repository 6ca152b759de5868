package repos

import (
	"milkcart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type SubscriptionRepo struct{ db *sqlx.DB }

func NewSubscriptionRepo(db *sqlx.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

const subCols = `
  id, user_id, order_id, product_id, quantity, starts_on, ends_on, status,
  created_at, COALESCE(updated_at,'') AS updated_at`

// ActiveForUserProduct reports whether an Active subscription already
// exists for (user, product). Checked before any order side effects.
func (r *SubscriptionRepo) ActiveForUserProduct(userID, productID int64) (bool, error) {
	var n int
	err := r.db.Get(&n, `
		SELECT COUNT(*) FROM subscriptions
		WHERE user_id = ? AND product_id = ? AND status = ?`,
		userID, productID, domain.SubscriptionActive)
	return n > 0, err
}

func (r *SubscriptionRepo) ByID(id int64) (domain.Subscription, error) {
	var s domain.Subscription
	err := r.db.Get(&s, `SELECT `+subCols+` FROM subscriptions WHERE id = ?`, id)
	return s, err
}

func (r *SubscriptionRepo) ListByUser(userID int64) ([]domain.Subscription, error) {
	out := []domain.Subscription{}
	err := r.db.Select(&out, `SELECT `+subCols+`
		FROM subscriptions WHERE user_id = ? ORDER BY id DESC`, userID)
	return out, err
}

func (r *SubscriptionRepo) ListAll() ([]domain.Subscription, error) {
	out := []domain.Subscription{}
	err := r.db.Select(&out, `SELECT `+subCols+` FROM subscriptions ORDER BY id DESC`)
	return out, err
}

// CancelForUser marks a subscription Cancelled only when owned by userID.
func (r *SubscriptionRepo) CancelForUser(id, userID int64) (bool, error) {
	res, err := r.db.Exec(`UPDATE subscriptions
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ? AND status != ?`,
		domain.SubscriptionCancelled, id, userID, domain.SubscriptionCancelled)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
