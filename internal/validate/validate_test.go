package validate_test

import (
	"testing"

	"milkcart/internal/validate"
)

func TestPhone(t *testing.T) {
	good := []string{"8148530305", "+918148530305", " 1234567 "}
	for _, in := range good {
		if _, ok := validate.Phone(in); !ok {
			t.Errorf("Phone(%q) rejected", in)
		}
	}
	bad := []string{"", "abc", "123", "12345678901234567", "+12 34", "81-485-303"}
	for _, in := range bad {
		if _, ok := validate.Phone(in); ok {
			t.Errorf("Phone(%q) accepted", in)
		}
	}
}

func TestOTP(t *testing.T) {
	if _, ok := validate.OTP(" 123456 "); !ok {
		t.Error("OTP with surrounding whitespace rejected")
	}
	for _, in := range []string{"", "12345", "1234567", "12345a", "123 456"} {
		if _, ok := validate.OTP(in); ok {
			t.Errorf("OTP(%q) accepted", in)
		}
	}
}

func TestName(t *testing.T) {
	if got, ok := validate.Name("  Milk 1L  "); !ok || got != "Milk 1L" {
		t.Errorf("Name trim: got %q ok=%v", got, ok)
	}
	long := make([]byte, 61)
	for i := range long {
		long[i] = 'x'
	}
	if _, ok := validate.Name(string(long)); ok {
		t.Error("Name over 60 chars accepted")
	}
	if _, ok := validate.Name("   "); ok {
		t.Error("blank Name accepted")
	}
}

func TestQtyAndID(t *testing.T) {
	if validate.Qty("3") != 3 || validate.Qty(" 10 ") != 10 {
		t.Error("Qty parse failed on valid input")
	}
	for _, in := range []string{"0", "-2", "", "two", "1.5"} {
		if validate.Qty(in) != 0 {
			t.Errorf("Qty(%q) accepted", in)
		}
	}
	if id, ok := validate.ID("42"); !ok || id != 42 {
		t.Errorf("ID(42): got %d ok=%v", id, ok)
	}
	for _, in := range []string{"0", "-1", "abc", ""} {
		if _, ok := validate.ID(in); ok {
			t.Errorf("ID(%q) accepted", in)
		}
	}
}

func TestRole(t *testing.T) {
	if got, ok := validate.Role(" Supplier "); !ok || got != "supplier" {
		t.Errorf("Role normalize: got %q ok=%v", got, ok)
	}
	for _, in := range []string{"", "ab", "has space", "role-x"} {
		if _, ok := validate.Role(in); ok {
			t.Errorf("Role(%q) accepted", in)
		}
	}
}
