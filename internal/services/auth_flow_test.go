package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
	"golang.org/x/crypto/bcrypt"

	"milkcart/internal/domain"
	"milkcart/internal/repos"
	"milkcart/internal/services"
)

type captureSender struct {
	phone string
	code  string
	sent  int
}

func (s *captureSender) Send(phone, code string) error {
	s.phone, s.code = phone, code
	s.sent++
	return nil
}

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// in-memory SQLite: every pooled connection would get its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAuth(db *sqlx.DB, sender *captureSender) *services.AuthService {
	return services.NewAuthService(repos.NewUserRepo(db), sender, "test-secret", 10*time.Minute, time.Hour)
}

func TestRequestCodeCreatesCustomer(t *testing.T) {
	db := memdb(t)
	sender := &captureSender{}
	auth := newAuth(db, sender)

	if err := auth.RequestCode("9990001111"); err != nil {
		t.Fatal(err)
	}
	if sender.sent != 1 || len(sender.code) != 6 {
		t.Fatalf("expected one 6-digit code, got %q (sent=%d)", sender.code, sender.sent)
	}

	u, err := repos.NewUserRepo(db).ByPhone("9990001111")
	if err != nil {
		t.Fatal(err)
	}
	if u.RoleName != domain.RoleCustomer {
		t.Fatalf("new user role = %q, want customer", u.RoleName)
	}
	if u.Verified {
		t.Fatal("new user must start unverified")
	}
	if u.OTPHash == "" || u.OTPHash == sender.code {
		t.Fatalf("code must be stored hashed, got %q", u.OTPHash)
	}

	// A second request for the same phone must not create another user.
	if err := auth.RequestCode("9990001111"); err != nil {
		t.Fatal(err)
	}
	users, err := repos.NewUserRepo(db).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Fatalf("want 1 user, got %d", len(users))
	}
}

func TestVerifyCodeIssuesTokenOnce(t *testing.T) {
	db := memdb(t)
	sender := &captureSender{}
	auth := newAuth(db, sender)

	if err := auth.RequestCode("9990001111"); err != nil {
		t.Fatal(err)
	}

	// wrong code
	if _, _, err := auth.VerifyCode("9990001111", "000000"); !errors.Is(err, services.ErrInvalidCredential) {
		t.Fatalf("wrong code: got %v, want ErrInvalidCredential", err)
	}
	// unknown phone
	if _, _, err := auth.VerifyCode("1112223333", sender.code); !errors.Is(err, services.ErrInvalidCredential) {
		t.Fatalf("unknown phone: got %v, want ErrInvalidCredential", err)
	}

	token, u, err := auth.VerifyCode("9990001111", sender.code)
	if err != nil {
		t.Fatal(err)
	}
	if token == "" || !u.Verified {
		t.Fatalf("expected token and verified user, got token=%q verified=%v", token, u.Verified)
	}

	// Replay with the now-cleared code fails.
	if _, _, err := auth.VerifyCode("9990001111", sender.code); !errors.Is(err, services.ErrInvalidCredential) {
		t.Fatalf("replay: got %v, want ErrInvalidCredential", err)
	}

	got, err := auth.ResolveSession(token)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Fatalf("resolved user %d, want %d", got.ID, u.ID)
	}
}

func TestVerifyCodeExpired(t *testing.T) {
	db := memdb(t)
	sender := &captureSender{}
	auth := newAuth(db, sender)
	users := repos.NewUserRepo(db)

	if err := auth.RequestCode("9990001111"); err != nil {
		t.Fatal(err)
	}
	u, err := users.ByPhone("9990001111")
	if err != nil {
		t.Fatal(err)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(sender.code), bcrypt.MinCost)
	past := time.Now().UTC().Add(-time.Minute).Format(time.RFC3339)
	if err := users.SetOTP(u.ID, string(hash), past); err != nil {
		t.Fatal(err)
	}

	if _, _, err := auth.VerifyCode("9990001111", sender.code); !errors.Is(err, services.ErrInvalidCredential) {
		t.Fatalf("expired code: got %v, want ErrInvalidCredential", err)
	}
}

func TestResolveSessionRejects(t *testing.T) {
	db := memdb(t)
	sender := &captureSender{}
	auth := newAuth(db, sender)

	if _, err := auth.ResolveSession("not-a-token"); !errors.Is(err, services.ErrInvalidCredential) {
		t.Fatalf("garbage token: got %v, want ErrInvalidCredential", err)
	}

	// Token signed with a different secret.
	other := services.NewAuthService(repos.NewUserRepo(db), sender, "other-secret", 10*time.Minute, time.Hour)
	if err := other.RequestCode("9990001111"); err != nil {
		t.Fatal(err)
	}
	token, _, err := other.VerifyCode("9990001111", sender.code)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ResolveSession(token); !errors.Is(err, services.ErrInvalidCredential) {
		t.Fatalf("foreign signature: got %v, want ErrInvalidCredential", err)
	}

	// Valid token whose user no longer exists.
	if _, err := db.Exec(`DELETE FROM users`); err != nil {
		t.Fatal(err)
	}
	if _, err := other.ResolveSession(token); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("deleted user: got %v, want ErrNotFound", err)
	}
}
