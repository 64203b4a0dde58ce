package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTypeAccess = "access"

// AuthService 负责签发与校验访问令牌（RS256）。
type AuthService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	tokenTTL   time.Duration
	now        func() time.Time
}

// TokenClaims 表示 JWT 中的业务字段，便于中间件读取用户信息。
type TokenClaims struct {
	UserID    uint   `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Identity returns the caller identity carried by the claims.
func (c *TokenClaims) Identity() Identity {
	return Identity{ID: c.UserID, Username: c.Username, Role: c.Role}
}

// NewAuthService 解析 PEM 密钥并构造服务实例。
func NewAuthService(privateKeyPEM, publicKeyPEM []byte, tokenTTL time.Duration) (*AuthService, error) {
	if len(privateKeyPEM) == 0 {
		return nil, errors.New("private key pem is required")
	}
	if len(publicKeyPEM) == 0 {
		return nil, errors.New("public key pem is required")
	}
	if tokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse rsa private key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse rsa public key: %w", err)
	}

	return NewAuthServiceWithKeys(privateKey, publicKey, tokenTTL), nil
}

// NewAuthServiceWithKeys 使用已解析的密钥构造服务实例。
func NewAuthServiceWithKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		privateKey: privateKey,
		publicKey:  publicKey,
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// GenerateToken 为指定身份签发访问令牌。
func (s *AuthService) GenerateToken(id Identity) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID:    id.ID,
		Username:  id.Username,
		Role:      id.Role,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.ID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken 解析并验证 JWT，只接受访问令牌。
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.publicKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("unexpected token type %q", claims.TokenType)
	}
	if claims.UserID == 0 || !ValidRole(claims.Role) {
		return nil, errors.New("token identity incomplete")
	}

	return claims, nil
}

// Verify implements the middleware's verifier contract.
func (s *AuthService) Verify(tokenString string) (Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return Identity{}, err
	}
	return claims.Identity(), nil
}

// TokenTTL 暴露访问令牌有效期。
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
