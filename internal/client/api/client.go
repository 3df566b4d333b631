// Package api implements the HTTP client for the user service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// ErrServer is returned when the server answers with a non-success status
// and no parsable error message.
var ErrServer = errors.New("server error")

type registerRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type updateRequest struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type expiredResponse struct {
	Expired bool `json:"expired"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// User is the account projection returned by the list endpoint.
type User struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Client talks to the user service over HTTP. The refresh token travels in
// an HTTP-only cookie, so the client keeps a cookie jar between calls.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("empty base URL")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar init: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}, nil
}

// Ping checks server reachability.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/ping", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}
	return nil
}

// Register creates an account and returns the issued session token.
func (c *Client) Register(ctx context.Context, login string, password []byte, email string) (string, error) {
	return c.tokenCall(ctx, http.MethodPost, "/api/user/register", "",
		registerRequest{Login: login, Password: string(password), Email: email})
}

// Login authenticates and returns the issued session token. The refresh
// token cookie set by the server is stored in the client's jar.
func (c *Client) Login(ctx context.Context, login string, password []byte) (string, error) {
	return c.tokenCall(ctx, http.MethodPost, "/api/user/login", "",
		loginRequest{Login: login, Password: string(password)})
}

// Refresh exchanges the stored refresh cookie for a new token pair.
// The current session token identifies the account.
func (c *Client) Refresh(ctx context.Context, token string) (string, error) {
	return c.tokenCall(ctx, http.MethodPost, "/api/user/refresh", token, nil)
}

// Update changes the e-mail of the account with the given login and
// returns a re-issued session token.
func (c *Client) Update(ctx context.Context, login, email string) (string, error) {
	return c.tokenCall(ctx, http.MethodPut, "/api/user", "",
		updateRequest{Login: login, Email: email})
}

// Delete removes the account with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/user/"+id, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return c.statusError(resp)
	}
	return nil
}

// Claims decodes the given session token on the server and returns its
// claims in issue order.
func (c *Client) Claims(ctx context.Context, token string) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/user/claims", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var claims map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decoding claims: %w", err)
	}
	return claims, nil
}

// HasExpired asks the server whether the given token's validity day has
// passed.
func (c *Client) HasExpired(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/user/hasExpired", nil)
	if err != nil {
		return false, err
	}
	q := req.URL.Query()
	q.Set("token", token)
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, c.statusError(resp)
	}

	var er expiredResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return false, fmt.Errorf("decoding response: %w", err)
	}
	return er.Expired, nil
}

// List returns all accounts known to the server.
func (c *Client) List(ctx context.Context) ([]User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/user", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var list []User
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decoding user list: %w", err)
	}
	return list, nil
}

func (c *Client) tokenCall(ctx context.Context, method, path, auth string, body any) (string, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", c.statusError(resp)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	return tr.Token, nil
}

func (c *Client) statusError(resp *http.Response) error {
	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
		return fmt.Errorf("%w: %s (%s)", ErrServer, er.Error, resp.Status)
	}
	return fmt.Errorf("%w: %s", ErrServer, resp.Status)
}
