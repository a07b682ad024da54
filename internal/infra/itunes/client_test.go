package itunes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	// Mock server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Heartless Kanye West", r.URL.Query().Get("term"))
		assert.Equal(t, "music", r.URL.Query().Get("media"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		response := `{
			"resultCount": 2,
			"results": [
				{
					"trackName": "Heartless",
					"artistName": "Kanye West",
					"collectionName": "808s & Heartbreak",
					"previewUrl": "https://audio.example.com/heartless.m4a"
				},
				{
					"trackName": "Heartless (Remix)",
					"artistName": "Kanye West",
					"previewUrl": "https://audio.example.com/heartless-remix.m4a"
				}
			]
		}`
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Timeout: time.Second})

	results, err := client.Search(context.Background(), "Heartless Kanye West", 5)
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "Heartless", results[0].TrackName)
	assert.Equal(t, "https://audio.example.com/heartless.m4a", results[0].PreviewURL)
	assert.Equal(t, "808s & Heartbreak", results[0].CollectionName)
}

func TestSearch_LimitClamped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"resultCount": 0, "results": []}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Timeout: time.Second})

	results, err := client.Search(context.Background(), "anything", 50)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyTerm(t *testing.T) {
	client := New(Config{BaseURL: "http://unused.example.com", Timeout: time.Second})

	_, err := client.Search(context.Background(), "", 5)
	assert.Error(t, err)
}

func TestSearch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Timeout: time.Second})

	_, err := client.Search(context.Background(), "Heartless", 5)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearch_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Timeout: time.Second})

	_, err := client.Search(context.Background(), "Heartless", 5)
	assert.Error(t, err)
}
