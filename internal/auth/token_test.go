package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken("Alice@Example.com", domain.RoleAdmin, 7)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if remaining := time.Until(expiresAt); remaining < 59*time.Minute || remaining > 61*time.Minute {
		t.Fatalf("unexpected expiry, %v remaining", remaining)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Errorf("subject not normalized, got %q", claims.Subject)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("expected role ADMIN, got %q", claims.Role)
	}
	if claims.UserID != 7 {
		t.Errorf("expected uid 7, got %d", claims.UserID)
	}
}

func TestGenerateTokenIsUniquePerCall(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	// iat/exp only have second resolution; back-to-back logins land in the
	// same second, and the session registry's exact compare needs the two
	// tokens to differ so the earlier one stops validating.
	first, _, err := tm.GenerateToken("alice@example.com", domain.RoleClient, 1)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	second, _, err := tm.GenerateToken("alice@example.com", domain.RoleClient, 1)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if first == second {
		t.Fatal("two tokens for the same subject must never be byte-identical")
	}

	firstClaims, err := tm.ParseToken(first)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	secondClaims, err := tm.ParseToken(second)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if firstClaims.ID == "" || firstClaims.ID == secondClaims.ID {
		t.Fatalf("expected distinct non-empty token ids, got %q and %q", firstClaims.ID, secondClaims.ID)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	token, _, err := issuer.GenerateToken("bob@example.com", domain.RoleClient, 2)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	claims := &Claims{
		Role:   domain.RoleClient,
		UserID: 3,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "carol@example.com",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = tm.ParseToken(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTokenRejectsUnexpectedMethod(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	// alg=none tokens must never verify, whatever their claims say.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "dave@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := tm.ParseToken(unsigned); err == nil {
		t.Fatal("expected rejection of alg=none token")
	}
}

func TestDefaultTTL(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)
	if tm.TTL() != 24*time.Hour {
		t.Fatalf("expected 24h default TTL, got %v", tm.TTL())
	}
}
