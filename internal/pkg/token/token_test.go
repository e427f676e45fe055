package token

import (
	"encoding/hex"
	"testing"
	"time"
)

func TestIssueProducesHexOfExpectedLength(t *testing.T) {
	issued, err := Issue(KindVerification)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if len(issued.Raw) != rawByteLen*2 {
		t.Fatalf("raw token length = %d, want %d", len(issued.Raw), rawByteLen*2)
	}
	if _, err := hex.DecodeString(issued.Raw); err != nil {
		t.Fatalf("raw token is not valid hex: %v", err)
	}
}

func TestIssueTokensAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		issued, err := Issue(KindInvitation)
		if err != nil {
			t.Fatalf("Issue returned error: %v", err)
		}
		if seen[issued.Raw] {
			t.Fatalf("duplicate token generated: %s", issued.Raw)
		}
		seen[issued.Raw] = true
	}
}

func TestIssueExpiryPerKind(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		ttl  time.Duration
	}{
		{"verification", KindVerification, VerificationTTL},
		{"invitation", KindInvitation, InvitationTTL},
		{"password reset", KindPasswordReset, PasswordResetTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := time.Now().Add(tt.ttl)
			issued, err := Issue(tt.kind)
			if err != nil {
				t.Fatalf("Issue returned error: %v", err)
			}
			after := time.Now().Add(tt.ttl)

			if issued.ExpiresAt.Before(before) || issued.ExpiresAt.After(after) {
				t.Fatalf("expiry %v outside expected window [%v, %v]", issued.ExpiresAt, before, after)
			}
		})
	}
}

func TestDigestIsDeterministicAndDiffersFromRaw(t *testing.T) {
	issued, err := Issue(KindPasswordReset)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if issued.Digest == issued.Raw {
		t.Fatal("digest must differ from the raw token")
	}
	if Digest(issued.Raw) != issued.Digest {
		t.Fatal("Digest is not deterministic for the same input")
	}
	if Digest("other") == issued.Digest {
		t.Fatal("different inputs produced the same digest")
	}
}
