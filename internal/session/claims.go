package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// userIDClaimKeys 按顺序尝试的用户标识字段
// userIDClaimKeys lists the user id claim names, tried in order
var userIDClaimKeys = []string{"LunBoWang", "user_id", "userId", "sub"}

// Claims 令牌中可展示的声明（未验签，仅用于显示）
// Claims are the displayable token claims (signature not verified, display only)
type Claims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Raw       map[string]any
}

// Expired 判断令牌在 now 时是否已过期；无 exp 时视为未过期
// Expired reports whether the token is expired at now; tokens without exp never expire
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// InspectToken 解析令牌声明但不校验签名；非 JWT 令牌返回错误
// InspectToken decodes token claims without verifying the signature; non-JWT tokens return an error
func InspectToken(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, fmt.Errorf("token is empty")
	}
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}

	out := Claims{Raw: map[string]any(mapClaims)}
	for _, key := range userIDClaimKeys {
		if v, ok := mapClaims[key]; ok {
			out.UserID = claimString(v)
			if out.UserID != "" {
				break
			}
		}
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return fmt.Sprintf("%.0f", t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
