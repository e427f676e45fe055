package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Kind selects the expiry window for an issued token.
type Kind string

const (
	// KindVerification covers self-service email verification
	KindVerification Kind = "VERIFICATION"
	// KindInvitation covers admin-created accounts awaiting a password
	KindInvitation Kind = "INVITATION"
	// KindPasswordReset covers forgot-password flows
	KindPasswordReset Kind = "PASSWORD_RESET"
)

// Token lifetimes per kind
const (
	VerificationTTL  = 24 * time.Hour
	InvitationTTL    = 24 * time.Hour
	PasswordResetTTL = 1 * time.Hour
)

const rawByteLen = 32

// Issued carries a freshly generated token. Raw is the value handed to
// the recipient; only Digest is ever persisted.
type Issued struct {
	Raw       string
	Digest    string
	ExpiresAt time.Time
}

// Issue generates a new random token of the given kind. The raw value is
// 32 bytes of entropy, hex encoded.
func Issue(kind Kind) (Issued, error) {
	buf := make([]byte, rawByteLen)
	if _, err := rand.Read(buf); err != nil {
		return Issued{}, fmt.Errorf("failed to generate token: %w", err)
	}

	raw := hex.EncodeToString(buf)

	return Issued{
		Raw:       raw,
		Digest:    Digest(raw),
		ExpiresAt: time.Now().Add(ttl(kind)),
	}, nil
}

// Digest returns the hex-encoded SHA-256 of a raw token. Lookups against
// stored tokens always go through this, never the raw value.
func Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func ttl(kind Kind) time.Duration {
	switch kind {
	case KindPasswordReset:
		return PasswordResetTTL
	case KindInvitation:
		return InvitationTTL
	default:
		return VerificationTTL
	}
}
