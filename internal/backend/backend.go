package backend

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "http://localhost:8000/api/v1/"
	userAgent     = "spigell/mock-interview"
)

// IdentitySource returns the email used as the X-User-Email identity header.
// An empty value means the request is sent anonymously.
type IdentitySource interface {
	Email() string
}

type Client struct {
	identity   IdentitySource
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New creates a client for the interview backend. The returned client applies no
// request timeout unless HTTPClient is replaced by the caller.
func New(logger *zap.Logger, identity IdentitySource, apiURL string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		identity:   identity,
		logger:     logger,
		HTTPClient: &http.Client{},
		UserAgent:  userAgent,
		APIURL:     apiURL,
	}
}

func (c *Client) email() string {
	if c.identity == nil {
		return ""
	}
	return strings.TrimSpace(c.identity.Email())
}
