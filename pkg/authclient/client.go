// Package authclient talks to the backend auth API. The storefront only
// consumes the resulting identity pair; tokens are not managed here.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(backendURL string) *Client {
	return &Client{
		baseURL: backendURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// User is the identity pair consumed by the session store.
type User struct {
	Email string
	Name  string
}

// APIError carries the server-provided message for a failed auth call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth request failed with status: %d", e.Status)
}

func ValidEmail(email string) bool {
	return strings.Contains(email, "@")
}

func ValidPassword(password string) bool {
	return len(password) >= 6
}

// Login exchanges credentials for the account's display name.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	return c.post(ctx, "login", map[string]string{
		"email":    email,
		"password": password,
	}, email, "")
}

// Register creates the account and returns its identity. The submitted name
// is the fallback when the server response omits one.
func (c *Client) Register(ctx context.Context, email, password, name string) (*User, error) {
	return c.post(ctx, "register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, email, name)
}

func (c *Client) post(ctx context.Context, endpoint string, payload map[string]string, email, fallbackName string) (*User, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/auth/"+endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var server struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&server); err == nil {
			apiErr.Message = server.Message
		}
		return nil, apiErr
	}

	var result struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	name := result.User.Name
	if name == "" {
		name = fallbackName
	}
	return &User{Email: email, Name: name}, nil
}
