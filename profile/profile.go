// Package profile resolves a user's profile picture URL. Profile URLs take a
// different path through the pipeline than post URLs: there is exactly one
// way to get the picture, so no strategy chain is involved.
package profile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"subclip/internal/httpx"
)

const DefaultBaseURL = "https://www.instagram.com"

// Picture URL fields in preference order; the _hd variant is larger.
var pictureKeys = []string{"profile_pic_url_hd", "profile_pic_url"}

type Config struct {
	Client *http.Client
	// BaseURL overrides the site root, primarily for tests.
	BaseURL string
}

// Fetcher resolves profile pictures through the web profile endpoint.
type Fetcher struct {
	cfg Config
	log *zap.SugaredLogger
}

func NewFetcher(cfg Config) *Fetcher {
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Fetcher{cfg: cfg, log: zap.S().Named("profile")}
}

// ProfilePictureURL returns the direct URL of the user's profile picture.
func (f *Fetcher) ProfilePictureURL(ctx context.Context, username string) (string, error) {
	endpoint := f.cfg.BaseURL + "/api/v1/users/web_profile_info/?username=" + url.QueryEscape(username)
	blob, err := httpx.GetJSON(ctx, f.cfg.Client, endpoint, map[string]string{
		"X-Requested-With": "XMLHttpRequest",
	})
	if err != nil {
		return "", fmt.Errorf("fetch profile %q: %w", username, err)
	}
	// Try each field everywhere in the response before falling back to the
	// next; the endpoint nests the user object at varying depths.
	for _, key := range pictureKeys {
		if u := findString(blob, key); u != "" {
			f.log.Debugw("profile picture found", "username", username, "field", key)
			return u, nil
		}
	}
	return "", fmt.Errorf("no profile picture for %q", username)
}

func findString(v any, key string) string {
	switch node := v.(type) {
	case map[string]any:
		if s, ok := node[key].(string); ok && s != "" {
			return s
		}
		for _, child := range node {
			if s := findString(child, key); s != "" {
				return s
			}
		}
	case []any:
		for _, child := range node {
			if s := findString(child, key); s != "" {
				return s
			}
		}
	}
	return ""
}
