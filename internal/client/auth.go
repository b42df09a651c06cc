package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const loginPath = "/v1/user/login"

// Role 登录入口；两个角色共用同一个令牌
// Role is the login entry point; both roles share one token
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

type Credentials struct {
	Name     string
	Password string
}

type LoginResult struct {
	Role  Role
	Token string
	Raw   any
}

// Login 以表单提交凭据；成功后令牌同时作用于两个角色
// Login posts credentials as a form; on success the token applies to both roles
func (c *Client) Login(ctx context.Context, role Role, cred Credentials) (LoginResult, error) {
	if strings.TrimSpace(cred.Name) == "" {
		return LoginResult{}, &ValidationError{Field: "name", Message: "name is required"}
	}
	form := url.Values{}
	form.Set("name", cred.Name)
	form.Set("password", cred.Password)

	resp, err := c.Request(ctx, loginPath, RequestOptions{
		Method:   http.MethodPost,
		Body:     form,
		SkipAuth: true,
	})
	if err != nil {
		return LoginResult{}, err
	}
	token := ExtractToken(resp)
	if token == "" {
		c.logger.Warn("login response without token", "role", string(role))
		return LoginResult{}, &AuthError{}
	}
	if err := c.sess.SetToken(token); err != nil {
		return LoginResult{}, fmt.Errorf("save token: %w", err)
	}
	c.logger.Info("login ok", "role", string(role))
	return LoginResult{Role: role, Token: token, Raw: resp}, nil
}

func (c *Client) Logout() error {
	return c.sess.ClearToken()
}
