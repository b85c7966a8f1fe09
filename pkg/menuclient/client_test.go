package menuclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/items", r.URL.Path)
		require.Empty(t, r.URL.RawQuery)
		_ = json.NewEncoder(w).Encode([]Item{
			{ID: 1, Title: "Филадельфия", Price: 450, Category: "Роллы"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	items, err := client.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Филадельфия", items[0].Title)
}

func TestItemsByCategoryEscapesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Горячие роллы", r.URL.Query().Get("category"))
		_ = json.NewEncoder(w).Encode([]Item{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	items, err := client.ItemsByCategory(context.Background(), "Горячие роллы")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCategoriesNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/items/categories", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]string{" Роллы ", "", "Пицца", "   "})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Роллы", "Пицца"}, categories)
}

func TestItemsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Items(context.Background())
	require.Error(t, err)
}
