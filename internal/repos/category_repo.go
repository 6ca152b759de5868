package repos

import (
	"milkcart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `
  id, name, COALESCE(description,'') AS description, active,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CategoryRepo) List() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `SELECT `+categoryCols+` FROM categories ORDER BY id`)
	return out, err
}

func (r *CategoryRepo) ByID(id int64) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	return c, err
}

func (r *CategoryRepo) ByName(name string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT `+categoryCols+` FROM categories WHERE LOWER(name) = LOWER(?)`, name)
	return c, err
}

func (r *CategoryRepo) Insert(name, description string) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO categories(name, description) VALUES(?, ?)`, name, description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update overwrites only the fields passed as non-empty.
func (r *CategoryRepo) Update(id int64, name, description string) (bool, error) {
	res, err := r.db.Exec(`UPDATE categories
		SET name = CASE WHEN ? != '' THEN ? ELSE name END,
		    description = CASE WHEN ? != '' THEN ? ELSE description END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, name, name, description, description, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CategoryRepo) Delete(id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
