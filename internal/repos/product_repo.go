package repos

import (
	"milkcart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, category_id, name, COALESCE(description,'') AS description, price, unit,
  stock, COALESCE(image_url,'') AS image_url, active,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) List() ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products WHERE active = 1 ORDER BY id`)
	return out, err
}

func (r *ProductRepo) ListByCategory(categoryID int64) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productCols+`
		FROM products WHERE category_id = ? AND active = 1 ORDER BY id`, categoryID)
	return out, err
}

func (r *ProductRepo) ByID(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) ByName(name string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE LOWER(name) = LOWER(?)`, name)
	return p, err
}

func (r *ProductRepo) Insert(p domain.Product) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO products(category_id, name, description, price, unit, stock, image_url)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.Name, p.Description, p.Price, p.Unit, p.Stock, p.ImageURL)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ProductRepo) Update(id int64, name, description, unit, imageURL string, price float64) (bool, error) {
	res, err := r.db.Exec(`UPDATE products
		SET name = CASE WHEN ? != '' THEN ? ELSE name END,
		    description = CASE WHEN ? != '' THEN ? ELSE description END,
		    unit = CASE WHEN ? != '' THEN ? ELSE unit END,
		    image_url = CASE WHEN ? != '' THEN ? ELSE image_url END,
		    price = CASE WHEN ? >= 0 THEN ? ELSE price END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		name, name, description, description, unit, unit, imageURL, imageURL, price, price, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetStock overwrites the absolute stock value (not a delta).
func (r *ProductRepo) SetStock(id int64, stock int) error {
	_, err := r.db.Exec(`UPDATE products SET stock = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, stock, id)
	return err
}

func (r *ProductRepo) Delete(id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
