package guard

import (
	"context"
	"errors"
	"testing"

	"promptvault/internal/apperr"
	"promptvault/internal/checksum"
)

func TestDelegatedVerifierAllowList(t *testing.T) {
	v := NewDelegatedVerifier([]string{"Admin@Example.com", " second@example.com "})
	ctx := context.Background()

	if err := v.Verify(ctx, Credentials{Email: "admin@example.com"}); err != nil {
		t.Errorf("allowed email rejected: %v", err)
	}
	if err := v.Verify(ctx, Credentials{Email: "ADMIN@EXAMPLE.COM"}); err != nil {
		t.Errorf("case variant rejected: %v", err)
	}
	if err := v.Verify(ctx, Credentials{Email: "second@example.com"}); err != nil {
		t.Errorf("trimmed email rejected: %v", err)
	}
	if err := v.Verify(ctx, Credentials{Email: "other@example.com"}); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLocalVerifier(t *testing.T) {
	userHash := checksum.SumString("admin")
	passHash := checksum.SumString("admin123")
	v := NewLocalVerifier(func() string { return userHash }, func() string { return passHash })
	ctx := context.Background()

	if err := v.Verify(ctx, Credentials{Username: "admin", Password: "admin123"}); err != nil {
		t.Errorf("valid credentials rejected: %v", err)
	}

	cases := []Credentials{
		{Username: "admin", Password: "wrong"},
		{Username: "wrong", Password: "admin123"},
		{},
	}
	for _, cred := range cases {
		if err := v.Verify(ctx, cred); !errors.Is(err, apperr.ErrInvalidCredentials) {
			t.Errorf("Verify(%+v) = %v, want ErrInvalidCredentials", cred, err)
		}
	}
}
