package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenDB opens (or creates) the SQLite database, applies the schema and
// seeds the fixed role set. The handle is built here once and injected
// into repositories; nothing binds a connection at import time.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedRoles(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Roles (fixed seed set)
CREATE TABLE IF NOT EXISTS roles(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT ''
);

-- Users: phone is the contact method and the unique login key.
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  phone TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  role_id INTEGER NOT NULL REFERENCES roles(id),
  otp_hash TEXT NOT NULL DEFAULT '',
  otp_expires_at TEXT NOT NULL DEFAULT '',
  verified INTEGER NOT NULL DEFAULT 0,
  address TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_users_role ON users(role_id);

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  unit TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  image_url TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_nocase ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);

-- Active orders. unit_price is copied from the product at placement time.
CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  product_id INTEGER NOT NULL REFERENCES products(id),
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  unit_price NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending'
    CHECK (status IN ('Pending','Processing','Out for Delivery','Delivered','Cancelled','Subscribed')),
  payment_status TEXT NOT NULL DEFAULT 'Pending'
    CHECK (payment_status IN ('Pending','Paid','Failed')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);

-- Delivered orders move here (copy + delete); the id is carried over.
CREATE TABLE IF NOT EXISTS order_history(
  id INTEGER PRIMARY KEY,
  user_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL,
  payment_status TEXT NOT NULL,
  created_at TEXT,
  delivered_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_order_history_user ON order_history(user_id);

-- Recurring delivery agreements tied to the originating order.
CREATE TABLE IF NOT EXISTS subscriptions(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  order_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL REFERENCES products(id),
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  starts_on TEXT NOT NULL,
  ends_on TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Active'
    CHECK (status IN ('Active','Inactive','Cancelled')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_subscriptions_user_product ON subscriptions(user_id, product_id);

-- Audit trail for every stock mutation.
CREATE TABLE IF NOT EXISTS inventory_logs(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id),
  change_type TEXT NOT NULL CHECK (change_type IN ('Added','Removed','Sold','Returned')),
  quantity INTEGER NOT NULL,
  actor_id INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_inventory_logs_product ON inventory_logs(product_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedRoles(db *sqlx.DB) error {
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	roles := []struct{ name, desc string }{
		{"admin", "full catalog, order and user management"},
		{"customer", "places orders and subscriptions"},
		{"supplier", "provides products"},
		{"delivery", "delivers orders"},
	}
	for _, r := range roles {
		if _, err := tx.Exec(`INSERT INTO roles(name, description) VALUES(?, ?)
			ON CONFLICT(name) DO NOTHING`, r.name, r.desc); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// EnsureAdmin creates (or promotes) the user owning the configured admin
// phone. Idempotent; safe to run every start.
func EnsureAdmin(db *sqlx.DB, phone string) error {
	if phone == "" {
		return nil
	}
	var roleID int64
	if err := db.Get(&roleID, `SELECT id FROM roles WHERE name='admin'`); err != nil {
		return err
	}
	res, err := db.Exec(`UPDATE users SET role_id=?, updated_at=CURRENT_TIMESTAMP WHERE phone=?`, roleID, phone)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	log.Printf("[seed] creating admin user for phone %s", phone)
	_, err = db.Exec(`INSERT INTO users(phone, name, role_id, verified) VALUES(?, 'Admin', ?, 1)`, phone, roleID)
	return err
}
