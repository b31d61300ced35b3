package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", 12345, "alice", "Alice", "Liddell")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.TelegramID != 12345 || claims.Username != "alice" {
		t.Fatalf("claims mangled: %+v", claims)
	}
	if claims.FirstName != "Alice" || claims.LastName != "Liddell" {
		t.Fatalf("name parts mangled: %+v", claims)
	}
}

func TestValidateRejects(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateToken("secret", 1, "", "", "")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, err := ValidateToken("other", token); err == nil {
			t.Fatalf("expected signature failure")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := ValidateToken("secret", "not.a.token"); err == nil {
			t.Fatalf("expected parse failure")
		}
	})

	t.Run("expired", func(t *testing.T) {
		claims := IdentityClaims{
			TelegramID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := tok.SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		_, err = ValidateToken("secret", signed)
		if err == nil || !strings.Contains(err.Error(), "expired") {
			t.Fatalf("expected expiry error, got %v", err)
		}
	})

	t.Run("missing identity", func(t *testing.T) {
		claims := IdentityClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := tok.SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := ValidateToken("secret", signed); err == nil {
			t.Fatalf("expected rejection of zero telegram id")
		}
	})
}
