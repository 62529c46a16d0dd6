package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nws", r.URL.Query().Get("tbm"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"news_results":[
			{"title":"Summit concludes","snippet":"Talks ended.","source":"Example Wire","link":"https://example.com/a","thumbnail":"https://cdn.example.com/t.jpg"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	results, err := client.SearchNews(context.Background(), "doha summit", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Summit concludes", results[0].Title)
	assert.Equal(t, "Example Wire", results[0].Source)
}

func TestSearchNewsUnconfigured(t *testing.T) {
	client := NewClient("http://example.com", "")
	results, err := client.SearchNews(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.False(t, client.Configured())
}

func TestSearchImagesSkipsGoogleHosted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"images_results":[
			{"original":"https://encrypted-tbn0.gstatic.com/one.jpg"},
			{"original":"https://lens.google.com/two.jpg"},
			{"original":"https://news.example.com/three.jpg"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	url, err := client.SearchImages(context.Background(), "doha summit")
	require.NoError(t, err)
	assert.Equal(t, "https://news.example.com/three.jpg", url)
}

func TestSearchImagesFallsBackToThumbnail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"images_results":[{"thumbnail":"https://cdn.example.com/thumb.jpg"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	url, err := client.SearchImages(context.Background(), "doha summit")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/thumb.jpg", url)
}

func TestSearchProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.SearchNews(context.Background(), "q", 5)
	assert.Error(t, err)
}
