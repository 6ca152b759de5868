package domain

// Fixed role set seeded at startup. Role names are the closed enum the
// rest of the code compares against; no free-form role strings.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleSupplier = "supplier"
	RoleDelivery = "delivery"
)

// StaffRole reports whether a role may be created through the admin
// add-user endpoint. Admins and customers are never created that way.
func StaffRole(name string) bool {
	return name == RoleSupplier || name == RoleDelivery
}

type Role struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

type User struct {
	ID        int64  `db:"id" json:"id"`
	Phone     string `db:"phone" json:"phone"`
	Name      string `db:"name" json:"name"`
	RoleID    int64  `db:"role_id" json:"role_id"`
	RoleName  string `db:"role_name" json:"role"`
	OTPHash   string `db:"otp_hash" json:"-"`
	OTPExpiry string `db:"otp_expires_at" json:"-"`
	Verified  bool   `db:"verified" json:"verified"`
	Address   string `db:"address" json:"address"`
	Active    bool   `db:"active" json:"active"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

func (u *User) IsAdmin() bool { return u.RoleName == RoleAdmin }
