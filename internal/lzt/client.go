package lzt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the forum front used for OAuth authorization.
	DefaultBaseURL = "https://lolz.live"
	// DefaultMarketURL serves the payment ledger.
	DefaultMarketURL = "https://prod-api.lzt.market"
	// DefaultForumURL serves user info.
	DefaultForumURL = "https://prod-api.lolz.live"

	defaultUsername = "Неизвестно"
)

// ErrTokenNotSet is returned by API calls before an access token is configured.
var ErrTokenNotSet = errors.New("lzt: access token not set")

// Client is a LOLZTEAM API client covering the market payment ledger and
// the forum user endpoint.
type Client struct {
	marketURL  string
	forumURL   string
	httpClient *http.Client

	mu          sync.RWMutex
	accessToken string
}

// NewClient creates a new LOLZTEAM client. Empty URLs fall back to the
// production endpoints.
func NewClient(marketURL, forumURL, accessToken string) *Client {
	if marketURL == "" {
		marketURL = DefaultMarketURL
	}
	if forumURL == "" {
		forumURL = DefaultForumURL
	}

	return &Client{
		marketURL:   strings.TrimSuffix(marketURL, "/"),
		forumURL:    strings.TrimSuffix(forumURL, "/"),
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
func AuthURL(clientID string) string {
	params := url.Values{
		"client_id":     {clientID},
		"response_type": {"token"},
		"scope":         {"payment basic"},
	}
	return DefaultBaseURL + "/account/authorize?" + params.Encode()
}

func (c *Client) doRequest(ctx context.Context, rawURL string) ([]byte, error) {
	token := c.token()
	if token == "" {
		return nil, ErrTokenNotSet
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
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

	return data, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	data, err := c.doRequest(ctx, c.forumURL+"/users/me")
	if err != nil {
		return nil, err
	}

	var resp userResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return &resp.User, nil
}

// VerifyToken reports whether the given token is accepted by the API.
func (c *Client) VerifyToken(ctx context.Context, token string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.forumURL+"/users/me", nil)
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

// PaymentHistory returns received payments of at least minAmount, oldest
// first. The wire format keys payments by id in an object, so order is
// restored by sorting on the operation timestamp.
func (c *Client) PaymentHistory(ctx context.Context, minAmount int) ([]Payment, error) {
	params := url.Values{
		"type":               {"receiving_money"},
		"pmin":               {strconv.Itoa(minAmount)},
		"show_payment_stats": {"false"},
		"is_hold":            {"false"},
	}

	data, err := c.doRequest(ctx, c.marketURL+"/user/payments?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp paymentsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	payments := make([]Payment, 0, len(resp.Payments))
	for id, entry := range resp.Payments {
		var pd paymentData
		if len(entry.Data) > 0 {
			// Lenient: the data section is occasionally not an object.
			_ = json.Unmarshal(entry.Data, &pd)
		}

		username := pd.Username
		if username == "" {
			username = defaultUsername
		}

		ts := entry.OperationDate
		if ts == 0 {
			ts = time.Now().Unix()
		}

		payments = append(payments, Payment{
			ID:        id,
			Amount:    formatAmount(entry.IncomingSum),
			Username:  username,
			Comment:   pd.CommentPlain,
			Timestamp: ts,
		})
	}

	sort.Slice(payments, func(i, j int) bool {
		if payments[i].Timestamp != payments[j].Timestamp {
			return payments[i].Timestamp < payments[j].Timestamp
		}
		return payments[i].ID < payments[j].ID
	})

	return payments, nil
}

// formatAmount renders a payment sum without trailing zeros; integral
// amounts get no decimal point at all.
func formatAmount(sum float64) string {
	return strconv.FormatFloat(sum, 'f', -1, 64)
}
