package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/mapstructure"
)

type tokenClaims struct {
	Subject string `mapstructure:"sub"`
}

// EmailFromToken reads the "sub" claim of an access token without verifying
// the signature. The backend puts the account email there, which is the only
// way to learn a guest account's email.
func EmailFromToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("access token is empty")
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("parse access token: %w", err)
	}

	raw, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("access token has unexpected claims")
	}

	var claims tokenClaims
	if err := mapstructure.Decode(map[string]any(raw), &claims); err != nil {
		return "", fmt.Errorf("decode access token claims: %w", err)
	}

	email := strings.TrimSpace(claims.Subject)
	if email == "" {
		return "", errors.New("access token has no subject")
	}

	return email, nil
}
