package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	token, err := codec.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := codec.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != 42 {
		t.Fatalf("subject = %d, want 42", userID)
	}
}

func TestTokenExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	codec := NewTokenCodec("test-secret", time.Hour)
	codec.now = func() time.Time { return now }

	token, err := codec.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = now.Add(61 * time.Minute)
	if _, err := codec.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenCodec("secret-a", time.Hour).Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokenCodec("secret-b", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("forged token error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)
	for _, garbage := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Validate(garbage); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q) error = %v, want ErrInvalidToken", garbage, err)
		}
	}
}
