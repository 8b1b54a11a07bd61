package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request made by a Client built with NewClient
const DefaultTimeout = 15 * time.Second

// Client represents a Supabase client
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a new Supabase client
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		URL:        strings.TrimRight(baseURL, "/"),
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Error is returned for any Supabase response with status >= 400
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("supabase error (status %d): %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying later may succeed
func (e *Error) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsTemporary reports whether err is a Supabase error worth retrying later
// or a transport failure
func IsTemporary(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Query executes a PostgREST read on a Supabase table
func (c *Client) Query(ctx context.Context, table string, query url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.ServiceKey))
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// VerifyToken verifies a user JWT with Supabase Auth
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	endpoint := fmt.Sprintf("%s/auth/v1/user", c.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("failed to verify token: no user in response")
	}

	return &user, nil
}

// User represents a Supabase user
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("apikey", c.ServiceKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
