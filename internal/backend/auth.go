package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const (
	loginPath    = "auth/login"
	registerPath = "auth/register"
	guestPath    = "auth/guest"
	mePath       = "auth/me"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	IsGuest   bool      `json:"is_guest"`
	CreatedAt Timestamp `json:"created_at"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*Token, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, errors.New("email and password are required")
	}

	var token Token
	if err := c.doJSON(ctx, http.MethodPost, loginPath, creds, &token); err != nil {
		return nil, err
	}

	return &token, nil
}

func (c *Client) Register(ctx context.Context, r RegisterRequest) (*User, error) {
	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)
	if r.Email == "" || r.Username == "" || r.Password == "" {
		return nil, errors.New("email, username and password are required")
	}

	var user User
	if err := c.doJSON(ctx, http.MethodPost, registerPath, r, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Guest creates a temporary guest account. The guest email is only available
// inside the returned access token.
func (c *Client) Guest(ctx context.Context) (*Token, error) {
	var token Token
	if err := c.doJSON(ctx, http.MethodPost, guestPath, emptyBody, &token); err != nil {
		return nil, err
	}

	if strings.TrimSpace(token.AccessToken) == "" {
		return nil, errors.New("guest response has no access token")
	}

	return &token, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, mePath, nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
