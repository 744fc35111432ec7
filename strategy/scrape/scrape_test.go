package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"subclip"
)

func videoRef(contentID string) subclip.ContentReference {
	return subclip.ContentReference{
		SourceURL: "https://www.instagram.com/reel/" + contentID + "/",
		ContentID: contentID,
		Kind:      subclip.KindVideo,
	}
}

func TestScrapeEmbedPage(t *testing.T) {
	assert := assert_.New(t)

	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/p/ABC123/embed/captioned" {
			w.Write([]byte(`<html><script>{"video_url":"https:\/\/cdn.example\/v.mp4"}</script></html>`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	s := New(Config{Client: server.Client(), BaseURL: server.URL})
	assert.Equal("scrape", s.Name)

	outcome, err := s.Attempt(context.Background(), videoRef("ABC123"), nil)
	assert.NoError(err)
	assert.Len(outcome.Candidates, 1)
	assert.Equal("https://cdn.example/v.mp4", outcome.Candidates[0].URL)
	// The embed page resolved, so no further pages were fetched.
	assert.Equal([]string{"/p/ABC123/embed/captioned"}, paths)
}

func TestScrapeMetaTagsPreferred(t *testing.T) {
	assert := assert_.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<meta property="og:video" content="https://cdn.example/og.mp4" />
			<meta property="og:video:width" content="720" />
			<meta property="og:video:height" content="1280" />
		</head><body>https://cdn.example/text.mp4</body></html>`))
	}))
	defer server.Close()

	s := New(Config{Client: server.Client(), BaseURL: server.URL})
	outcome, err := s.Attempt(context.Background(), videoRef("ABC123"), nil)
	assert.NoError(err)
	assert.Equal("https://cdn.example/og.mp4", outcome.Candidates[0].URL)
	assert.Equal(720, outcome.Candidates[0].Width)
	assert.Equal(1280, outcome.Candidates[0].Height)
	assert.Equal("og_meta", outcome.Candidates[0].SourceMethod)
}

func TestScrapeFallsBackToGraphQL(t *testing.T) {
	assert := assert_.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/graphql/query/" {
			assert.Equal(queryHash, r.URL.Query().Get("query_hash"))
			assert.Contains(r.URL.Query().Get("variables"), "ABC123")
			w.Write([]byte(`{"data": {"shortcode_media": {"shortcode": "ABC123",
				"video_url": "https://cdn.example/gql.mp4",
				"dimensions": {"width": 720, "height": 1280}}}}`))
			return
		}
		// Pages load fine but contain nothing useful.
		w.Write([]byte(`<html><body>log in to continue</body></html>`))
	}))
	defer server.Close()

	s := New(Config{Client: server.Client(), BaseURL: server.URL})
	outcome, err := s.Attempt(context.Background(), videoRef("ABC123"), nil)
	assert.NoError(err)
	assert.Len(outcome.Candidates, 1)
	assert.Equal("https://cdn.example/gql.mp4", outcome.Candidates[0].URL)
	assert.Equal(720, outcome.Candidates[0].Width)
}

func TestScrapeNothingAnywhere(t *testing.T) {
	assert := assert_.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/graphql/query/" {
			w.Write([]byte(`{"data": {}}`))
			return
		}
		w.Write([]byte(`<html><body>nothing here</body></html>`))
	}))
	defer server.Close()

	s := New(Config{Client: server.Client(), BaseURL: server.URL})
	outcome, err := s.Attempt(context.Background(), videoRef("ABC123"), nil)
	assert.NoError(err)
	assert.True(outcome.Empty())
}

func TestScrapeTotalFetchFailure(t *testing.T) {
	assert := assert_.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	s := New(Config{Client: server.Client(), BaseURL: server.URL})
	_, err := s.Attempt(context.Background(), videoRef("ABC123"), nil)
	assert.ErrorIs(err, subclip.ErrStrategyFailed)
}

func TestScrapeSkipsWithoutContentID(t *testing.T) {
	assert := assert_.New(t)

	s := New(Config{BaseURL: "http://127.0.0.1:1"})
	outcome, err := s.Attempt(context.Background(), subclip.ContentReference{Kind: subclip.KindVideo}, nil)
	assert.NoError(err)
	assert.True(outcome.Empty())
}
