package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestService(t *testing.T, ttl time.Duration) *AuthService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return NewAuthServiceWithKeys(key, &key.PublicKey, ttl)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.GenerateToken(Identity{ID: 7, Username: "alice", Role: RoleRecruiter})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.Role != RoleRecruiter {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Fatalf("expected access token, got %q", claims.TokenType)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(t, time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken(Identity{ID: 1, Username: "bob", Role: RoleApplicant})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateToken_WrongKey(t *testing.T) {
	signer := newTestService(t, time.Hour)
	verifier := newTestService(t, time.Hour)

	token, err := signer.GenerateToken(Identity{ID: 1, Username: "bob", Role: RoleApplicant})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected token signed by another key to be rejected")
	}
}

func TestValidateToken_RejectsHS256(t *testing.T) {
	svc := newTestService(t, time.Hour)
	claims := TokenClaims{
		UserID:    1,
		Username:  "mallory",
		Role:      RoleAdmin,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ValidateToken(signed); err == nil {
		t.Fatal("expected HS256 token to be rejected")
	}
}

func TestNewAuthService_ParsesPEM(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	svc, err := NewAuthService(privPEM, pubPEM, time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if svc.TokenTTL() != time.Hour {
		t.Fatalf("unexpected ttl %s", svc.TokenTTL())
	}

	if _, err := NewAuthService(nil, pubPEM, time.Hour); err == nil {
		t.Fatal("expected error for missing private key")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("pw1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("pw1234", hash) {
		t.Fatal("expected password to match")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestDummyPasswordHash(t *testing.T) {
	hash := DummyPasswordHash()
	if hash == "" || hash != DummyPasswordHash() {
		t.Fatal("expected a stable non-empty dummy hash")
	}
	if CheckPasswordHash("pw1234", hash) {
		t.Fatal("dummy hash must not match user passwords")
	}
}
