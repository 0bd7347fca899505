package auth

import (
	"testing"

	"newsapi/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(accessMinutes int) *TokenService {
	return NewTokenService(config.JWTConfig{
		Secret:               "test_secret",
		AccessExpireMinutes:  accessMinutes,
		RefreshExpireMinutes: 60,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestTokenService(30)

	token, err := s.GenerateAccessToken("user@example.com")
	require.NoError(t, err)

	email, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email, "解析出的邮箱应与签发时一致")
}

func TestParseTokenInvalid(t *testing.T) {
	s := newTestTokenService(30)

	_, err := s.ParseToken("not-a-token")
	assert.Error(t, err, "格式错误的token应解析失败")

	// 换密钥签发的 token 不能通过校验
	other := NewTokenService(config.JWTConfig{Secret: "other_secret", AccessExpireMinutes: 30, RefreshExpireMinutes: 60})
	token, err := other.GenerateAccessToken("user@example.com")
	require.NoError(t, err)

	_, err = s.ParseToken(token)
	assert.Error(t, err, "签名不匹配的token应解析失败")
}

func TestParseTokenExpired(t *testing.T) {
	s := newTestTokenService(-1)

	token, err := s.GenerateAccessToken("user@example.com")
	require.NoError(t, err)

	_, err = s.ParseToken(token)
	assert.Error(t, err, "过期token应解析失败")
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash, "密码不能明文存储")

	assert.True(t, CheckPasswordHash("password123", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}
