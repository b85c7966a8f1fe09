// Package menuclient fetches the menu from the backend catalog API.
package menuclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
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

// Item mirrors the catalog payload. Cart line items carry the id, title and
// price subset of this shape.
type Item struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

// Items fetches the full menu.
func (c *Client) Items(ctx context.Context) ([]Item, error) {
	return c.fetchItems(ctx, c.baseURL+"/api/items")
}

// ItemsByCategory fetches the menu filtered server-side by category.
func (c *Client) ItemsByCategory(ctx context.Context, category string) ([]Item, error) {
	return c.fetchItems(ctx, c.baseURL+"/api/items?category="+url.QueryEscape(category))
}

// Categories fetches the category list in backend order, with blank entries
// dropped and the rest trimmed.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/items/categories", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("categories request failed with status: %d", resp.StatusCode)
	}

	var raw []string
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	categories := make([]string, 0, len(raw))
	for _, c := range raw {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		categories = append(categories, trimmed)
	}
	return categories, nil
}

func (c *Client) fetchItems(ctx context.Context, endpoint string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("items request failed with status: %d", resp.StatusCode)
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return items, nil
}
