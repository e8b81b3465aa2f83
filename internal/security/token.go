package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired 查看者令牌已过期
var ErrTokenExpired = errors.New("security: token expired")

type identityClaims struct {
	Identity
	jwt.RegisteredClaims
}

// IssueToken 签发携带身份记录的 HS256 令牌（供工具与测试使用）
func IssueToken(secret []byte, id Identity, ttl time.Duration, now time.Time) (string, error) {
	claims := identityClaims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken 校验签名并取出身份记录
func ParseToken(secret []byte, raw string) (Identity, error) {
	var claims identityClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("security: invalid token: %w", err)
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims.Identity, nil
}

// ContextFromToken 解析令牌并直接得到安全上下文
func ContextFromToken(secret []byte, raw string) (Context, error) {
	id, err := ParseToken(secret, raw)
	if err != nil {
		return Context{}, err
	}
	return Resolve(id)
}
