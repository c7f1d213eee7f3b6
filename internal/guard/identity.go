package guard

import (
	"context"
	"strings"

	"promptvault/internal/apperr"
	"promptvault/internal/checksum"
)

// Identity modes.
const (
	ModeDelegated = "delegated"
	ModeLocal     = "local"
)

// Credentials carries whichever fields the active strategy needs: Email for
// delegated identity, Username/Password for local credentials.
type Credentials struct {
	Email    string
	Username string
	Password string
}

// Verifier is the identity pre-check that runs before the PIN machine. Every
// failure is the same generic apperr.ErrInvalidCredentials — callers must not
// learn which part was wrong.
type Verifier interface {
	Verify(ctx context.Context, cred Credentials) error
}

// DelegatedVerifier trusts an external identity provider and only answers
// "is this email on the allow-list". Comparison is case-insensitive.
type DelegatedVerifier struct {
	allowed map[string]struct{}
}

// NewDelegatedVerifier builds a verifier over a fixed email allow-list.
func NewDelegatedVerifier(emails []string) *DelegatedVerifier {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &DelegatedVerifier{allowed: allowed}
}

func (v *DelegatedVerifier) Verify(_ context.Context, cred Credentials) error {
	if _, ok := v.allowed[strings.ToLower(strings.TrimSpace(cred.Email))]; !ok {
		return apperr.ErrInvalidCredentials
	}
	return nil
}

// LocalVerifier compares SHA-256 hashes of the submitted username and
// password against the stored hashes. Both must match; the error never says
// which one did not.
type LocalVerifier struct {
	userHash func() string
	passHash func() string
}

// NewLocalVerifier builds a verifier over the current stored credential
// hashes. The funcs are read per call so credential updates take effect
// without rebuilding the verifier.
func NewLocalVerifier(userHash, passHash func() string) *LocalVerifier {
	return &LocalVerifier{userHash: userHash, passHash: passHash}
}

func (v *LocalVerifier) Verify(_ context.Context, cred Credentials) error {
	userOK := checksum.SumString(cred.Username) == v.userHash()
	passOK := checksum.SumString(cred.Password) == v.passHash()
	if !userOK || !passOK {
		return apperr.ErrInvalidCredentials
	}
	return nil
}
