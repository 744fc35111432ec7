package direct

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"subclip"
)

func TestDirectFindsVideo(t *testing.T) {
	assert := assert_.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(r.URL.Query().Get("url"), "instagram.com/reel/ABC123")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title": "a post", "video_url": "https://cdn.example/v.mp4", "thumbnail_width": 640}`))
	}))
	defer server.Close()

	s := New(Config{Client: server.Client(), Endpoint: server.URL})
	assert.Equal("direct", s.Name)

	ref := subclip.ContentReference{
		SourceURL: "https://www.instagram.com/reel/ABC123/",
		ContentID: "ABC123",
		Kind:      subclip.KindVideo,
	}
	outcome, err := s.Attempt(context.Background(), ref, nil)
	assert.NoError(err)
	assert.Len(outcome.Candidates, 1)
	assert.Equal("https://cdn.example/v.mp4", outcome.Candidates[0].URL)
}

func TestDirectNothingFound(t *testing.T) {
	assert := assert_.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": "a post", "thumbnail_url": "https://cdn.example/t.jpg"}`))
	}))
	defer server.Close()

	s := New(Config{Client: server.Client(), Endpoint: server.URL})
	outcome, err := s.Attempt(context.Background(), subclip.ContentReference{ContentID: "ABC123"}, nil)
	assert.NoError(err)
	assert.True(outcome.Empty())
}

func TestDirectEndpointFailure(t *testing.T) {
	assert := assert_.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := New(Config{Client: server.Client(), Endpoint: server.URL})
	_, err := s.Attempt(context.Background(), subclip.ContentReference{ContentID: "ABC123"}, nil)
	assert.ErrorIs(err, subclip.ErrStrategyFailed)
}
