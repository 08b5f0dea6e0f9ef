package donationalerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the production DonationAlerts endpoint.
	DefaultBaseURL = "https://www.donationalerts.com"

	// OAuth scopes required for reading the user and storing custom alerts.
	ScopeUserShow         = "oauth-user-show"
	ScopeCustomAlertStore = "oauth-custom_alert-store"
)

// ErrTokenNotSet is returned by API calls before an access token is configured.
var ErrTokenNotSet = errors.New("donationalerts: access token not set")

// User is the authenticated DonationAlerts user.
type User struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type userResponse struct {
	Data User `json:"data"`
}

// Client is a DonationAlerts API client.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu          sync.RWMutex
	accessToken string
}

// NewClient creates a new DonationAlerts client. An empty baseURL falls
// back to the production endpoint.
func NewClient(baseURL, accessToken string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetAccessToken replaces the access token used for subsequent calls.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// AuthURL returns the OAuth implicit-grant authorization URL the operator
// must open in a browser.
func AuthURL(clientID, redirectURI string) string {
	params := url.Values{
		"client_id":     {clientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"token"},
		"scope":         {ScopeUserShow + " " + ScopeCustomAlertStore},
	}
	return DefaultBaseURL + "/oauth/authorize?" + params.Encode()
}

// User returns the authenticated user.
func (c *Client) User(ctx context.Context) (*User, error) {
	token := c.token()
	if token == "" {
		return nil, ErrTokenNotSet
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/user/oauth", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(data))
	}

	var ur userResponse
	if err := json.Unmarshal(data, &ur); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return &ur.Data, nil
}

// VerifyToken reports whether the given token is accepted by the API.
func (c *Client) VerifyToken(ctx context.Context, token string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/user/oauth", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// SendAlert stores a custom alert with the given header and message. The
// API answers 201 on success.
func (c *Client) SendAlert(ctx context.Context, header, message string) error {
	token := c.token()
	if token == "" {
		return ErrTokenNotSet
	}

	form := url.Values{"header": {header}}
	if message != "" {
		form.Set("message", message)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/v1/custom_alert",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(data))
	}

	return nil
}
