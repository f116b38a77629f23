package validate

import (
	"errors"
	"testing"

	"spacebook/internal/model"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return ve.Field
}

func TestEmail(t *testing.T) {
	valid := []string{"a@b.com", "first.last@sub.domain.org"}
	for _, e := range valid {
		if err := Email(e); err != nil {
			t.Errorf("%q: unexpected error %v", e, err)
		}
	}
	invalid := []string{"", "plain", "a@b", "a b@c.com", "@c.com"}
	for _, e := range invalid {
		if err := Email(e); err == nil {
			t.Errorf("%q: expected error", e)
		} else if fieldOf(t, err) != "email" {
			t.Errorf("%q: wrong field", e)
		}
	}
}

func TestPassword(t *testing.T) {
	if err := Password("secret"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := Password("short"); err == nil {
		t.Fatal("expected error for short password")
	} else if fieldOf(t, err) != "password" {
		t.Fatal("wrong field")
	}
}

func TestDraftText(t *testing.T) {
	if err := DraftText("hello"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	for _, s := range []string{"", "   ", "\n\t "} {
		if err := DraftText(s); err == nil {
			t.Errorf("%q: expected error", s)
		}
	}
}

func TestSignupGatesAllFields(t *testing.T) {
	if err := Signup("Ada", "Lovelace", "ada@x.com", "secret1"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	cases := []struct {
		first, last, email, pw string
		field                  string
	}{
		{"", "L", "a@b.com", "secret1", "first_name"},
		{"A", "", "a@b.com", "secret1", "last_name"},
		{"A", "L", "bad", "secret1", "email"},
		{"A", "L", "a@b.com", "pw", "password"},
	}
	for _, tc := range cases {
		err := Signup(tc.first, tc.last, tc.email, tc.pw)
		if err == nil {
			t.Errorf("expected %s error", tc.field)
			continue
		}
		if fieldOf(t, err) != tc.field {
			t.Errorf("expected field %s, got %s", tc.field, fieldOf(t, err))
		}
	}
}
