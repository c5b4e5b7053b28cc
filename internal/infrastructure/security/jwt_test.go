package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

func TestJWTSigner_SignAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "contacts-service")
	tok, err := s.SignAccessToken("u1", time.Hour)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	claims, err := s.VerifyAccessToken(tok)
	if err != nil {
		t.Fatalf("verify err: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.TokenID == "" {
		t.Fatalf("expected jti to be set")
	}
	if d := time.Until(claims.Exp); d < 59*time.Minute || d > time.Hour {
		t.Fatalf("expected ~1h expiry, got %v", d)
	}
}

func TestJWTSigner_Sign_SameSecondTokensDiffer(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "contacts-service")
	a, err := s.SignAccessToken("u1", time.Hour)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}
	b, err := s.SignAccessToken("u1", time.Hour)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct tokens for consecutive sessions")
	}
}

func TestJWTSigner_Verify_Expired_ReturnsTokenExpired(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "contacts-service")
	tok, err := s.SignAccessToken("u1", -1*time.Second)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := s.VerifyAccessToken(tok)
	if !domain.Is(verr, "token_expired") {
		t.Fatalf("expected token_expired, got %v", verr)
	}
}

func TestJWTSigner_Verify_WrongSecret_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	s1 := NewJWTSigner("secret1", "contacts-service")
	s2 := NewJWTSigner("secret2", "contacts-service")

	tok, err := s1.SignAccessToken("u1", time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := s2.VerifyAccessToken(tok)
	if !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Verify_AlgNone_Rejected(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{
		"uid": "u1",
		"sub": "u1",
		"exp": time.Now().Add(time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("unexpected signing err: %v", err)
	}

	s := NewJWTSigner("secret", "contacts-service")
	if _, verr := s.VerifyAccessToken(unsigned); !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Verify_MissingUID_Rejected(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Minute).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	s := NewJWTSigner("secret", "contacts-service")
	if _, verr := s.VerifyAccessToken(tok); !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Verify_Garbage_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "contacts-service")
	if _, err := s.VerifyAccessToken("not.a.jwt"); !domain.Is(err, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", err)
	}
}

func TestJWTSigner_Verify_WrongIssuer_Rejected(t *testing.T) {
	t.Parallel()

	other := NewJWTSigner("secret", "someone-else")
	tok, err := other.SignAccessToken("u1", time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	s := NewJWTSigner("secret", "contacts-service")
	if _, verr := s.VerifyAccessToken(tok); !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Verify_MissingExp_Rejected(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{
		"uid": "u1",
		"sub": "u1",
		"iss": "contacts-service",
		"iat": time.Now().Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	s := NewJWTSigner("secret", "contacts-service")
	if _, verr := s.VerifyAccessToken(tok); !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}
