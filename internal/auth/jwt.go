package auth

import (
	"time"

	"newsapi/internal/apperr"
	"newsapi/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService 签发和校验 HMAC 签名的 access/refresh token。
// 刷新时两个 token 一起轮换；旧的 refresh token 不做撤销（无状态 JWT）。
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessExpire(),
		refreshTTL: cfg.RefreshExpire(),
	}
}

func (s *TokenService) GenerateAccessToken(email string) (string, error) {
	return s.generate(email, s.accessTTL)
}

func (s *TokenService) GenerateRefreshToken(email string) (string, error) {
	return s.generate(email, s.refreshTTL)
}

func (s *TokenService) generate(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken 校验签名和有效期，返回 subject（邮箱）
func (s *TokenService) ParseToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperr.Unauthenticated("无效的token")
	}
	if claims.Subject == "" {
		return "", apperr.Unauthenticated("无效的token")
	}
	return claims.Subject, nil
}
