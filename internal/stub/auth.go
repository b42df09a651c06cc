package stub

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// userIDClaim 用户 ID 所在的声明键，与线上后端一致
// userIDClaim is the claim key carrying the user id, as the production backend issues it
const userIDClaim = "LunBoWang"

type ctxKey int

const (
	uidKey ctxKey = iota
	tokenKey
)

// Identity 登录用户
// Identity is a logged-in demo user
type Identity struct {
	ID   string
	Name string
}

// userID 由用户名派生稳定 ID
// userID derives a stable id from the user name
func userID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("apiconsole:"+name)).String()
}

type issuer struct {
	secret []byte
	expire time.Duration
	now    func() time.Time
}

func (i issuer) issue(u Identity) (string, int64, error) {
	now := i.now()
	exp := now.Add(i.expire)
	claims := jwt.MapClaims{
		userIDClaim: u.ID,
		"sub":       u.ID,
		"name":      u.Name,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return tok, exp.Unix(), nil
}

func (i issuer) parse(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", unauthorized("token is empty")
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return "", unauthorized("invalid token")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	uid, _ := claims[userIDClaim].(string)
	if uid == "" {
		return "", unauthorized("token has no user")
	}
	return uid, nil
}

// bearer 接受 "Bearer x" 或裸令牌
// bearer accepts "Bearer x" or a bare token
func bearer(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearer(r.Header.Get("Authorization"))
		uid, err := s.issuer.parse(tok)
		if err != nil {
			s.logger.Debug("reject request", "path", r.URL.Path, "err", err)
			fail(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), uidKey, uid)
		ctx = context.WithValue(ctx, tokenKey, tok)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func uidFrom(ctx context.Context) string {
	uid, _ := ctx.Value(uidKey).(string)
	return uid
}
