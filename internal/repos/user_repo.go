package repos

import (
	"milkcart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `
  u.id, u.phone, u.name, u.role_id, r.name AS role_name,
  COALESCE(u.otp_hash,'') AS otp_hash, COALESCE(u.otp_expires_at,'') AS otp_expires_at,
  u.verified, u.address, u.active, u.created_at, COALESCE(u.updated_at,'') AS updated_at`

func (r *UserRepo) ByPhone(phone string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+`
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.phone = ?`, phone)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+`
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) RoleByName(name string) (*domain.Role, error) {
	var role domain.Role
	err := r.DB.Get(&role, `SELECT id, name, description FROM roles WHERE name = ?`, name)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Create inserts a new user and returns its id.
func (r *UserRepo) Create(phone, name string, roleID int64) (int64, error) {
	res, err := r.DB.Exec(`INSERT INTO users(phone, name, role_id) VALUES(?, ?, ?)`,
		phone, name, roleID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SetOTP stores a hashed one-time code and its expiry on the user.
func (r *UserRepo) SetOTP(id int64, otpHash, expiresAt string) error {
	_, err := r.DB.Exec(`UPDATE users
		SET otp_hash=?, otp_expires_at=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?`, otpHash, expiresAt, id)
	return err
}

// ClearOTP removes the stored code and marks the user verified. A second
// verification attempt with the same code has nothing left to compare.
func (r *UserRepo) ClearOTP(id int64) error {
	_, err := r.DB.Exec(`UPDATE users
		SET otp_hash='', otp_expires_at='', verified=1, updated_at=CURRENT_TIMESTAMP
		WHERE id=?`, id)
	return err
}

func (r *UserRepo) UpdateProfile(id int64, name, address string) error {
	_, err := r.DB.Exec(`UPDATE users
		SET name = CASE WHEN ? != '' THEN ? ELSE name END,
		    address = CASE WHEN ? != '' THEN ? ELSE address END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, name, name, address, address, id)
	return err
}

func (r *UserRepo) List() ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.Select(&out, `SELECT `+userCols+`
		FROM users u JOIN roles r ON r.id = u.role_id
		ORDER BY u.id`)
	return out, err
}

func (r *UserRepo) ListByRole(roleName string) ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.Select(&out, `SELECT `+userCols+`
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE r.name = ?
		ORDER BY u.id`, roleName)
	return out, err
}
