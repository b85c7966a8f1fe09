// Package orderclient talks to the backend order API.
package orderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
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

// Order is the payload sent once at checkout confirmation.
type Order struct {
	Phone      string      `json:"phone"`
	Address    string      `json:"address"`
	Items      []OrderItem `json:"items"`
	TotalPrice int64       `json:"totalPrice"`
	Comment    string      `json:"comment,omitempty"`
}

type OrderItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

// Result carries whatever the server chose to return; the id is optional.
type Result struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// APIError is a non-2xx response. Message holds the server-provided text when
// the body was a parseable {message}, and is empty otherwise.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("order request failed with status: %d", e.Status)
}

// Create submits the order. Any 2xx status is success.
func (c *Client) Create(ctx context.Context, order Order) (*Result, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/orders",
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

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// the server-assigned id is optional, an empty or odd body is fine
		return &Result{}, nil
	}
	return &result, nil
}
