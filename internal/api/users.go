package api

import (
	"context"
	"net/http"
)

// Register creates a new account and returns the bearer token issued for it.
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (string, error) {
	var resp envelope[struct{}]
	err := c.do(ctx, "Register", http.MethodPost, "/users/register", nil, payload, &resp,
		"Бүртгүүлэх үед алдаа гарлаа.")
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, payload LoginPayload) (string, error) {
	var resp envelope[struct{}]
	err := c.do(ctx, "Login", http.MethodPost, "/users/login", nil, payload, &resp,
		"Нэвтрэх үед алдаа гарлаа.")
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Me fetches the identity belonging to the currently held token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var resp envelope[User]
	err := c.do(ctx, "Me", http.MethodGet, "/users/me", nil, nil, &resp,
		"Хэрэглэгчийн мэдээллийг татаж чадсангүй.")
	if err != nil {
		return User{}, err
	}
	return resp.Data, nil
}

// UpdatePassword changes the account password and returns the fresh token the
// API issues in place of the old one.
func (c *Client) UpdatePassword(ctx context.Context, payload UpdatePasswordPayload) (string, error) {
	var resp envelope[struct{}]
	err := c.do(ctx, "UpdatePassword", http.MethodPut, "/users/updatepassword", nil, payload, &resp,
		"Нууц үг солих үед алдаа гарлаа.")
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}
