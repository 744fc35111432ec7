// Package resolver delegates URL resolution to an external download API.
// It only runs when the user has configured an API key, and it retries a
// fixed number of times because the upstream service is flaky by reputation.
package resolver

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"subclip"
	"subclip/extract"
	"subclip/generic"
	"subclip/internal/httpx"
	"subclip/internal/retry"
)

const (
	DefaultEndpoint = "https://instagram-downloader-download-instagram-videos-stories.p.rapidapi.com/index"
	DefaultAPIHost  = "instagram-downloader-download-instagram-videos-stories.p.rapidapi.com"

	attempts       = 3
	defaultBackoff = 2 * time.Second
)

// Credentials supplies the API key. An empty key means the strategy is
// skipped without error.
type Credentials interface {
	ResolverAPIKey() (string, error)
}

type Config struct {
	Client      *http.Client
	Credentials Credentials
	// Endpoint and APIHost override the upstream service, primarily for tests.
	Endpoint string
	APIHost  string
	// Backoff is the fixed delay between retry attempts.
	Backoff time.Duration
}

func New(cfg Config) subclip.Strategy {
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.APIHost == "" {
		cfg.APIHost = DefaultAPIHost
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}
	s := &strategy{cfg: cfg, log: zap.S().Named("strategy.resolver")}
	return subclip.Strategy{Name: "resolver", Attempt: s.attempt, Priority: 30}
}

type strategy struct {
	cfg Config
	log *zap.SugaredLogger
}

func (s *strategy) attempt(ctx context.Context, ref subclip.ContentReference, report subclip.ProgressFunc) (subclip.Outcome, error) {
	key, err := s.cfg.Credentials.ResolverAPIKey()
	if err != nil {
		return subclip.Outcome{}, subclip.FailStrategy(err)
	}
	if key == "" {
		s.log.Debug("no API key configured, skipping")
		return subclip.Outcome{}, nil
	}
	report.Report(subclip.Progress{Stage: subclip.StageLoading, Message: "querying resolver service"})

	endpoint := s.cfg.Endpoint + "?url=" + url.QueryEscape(ref.SourceURL)
	headers := map[string]string{
		"X-RapidAPI-Key":  key,
		"X-RapidAPI-Host": s.cfg.APIHost,
	}
	result, err := retry.Do(ctx, attempts, s.cfg.Backoff, func(ctx context.Context) (generic.Option[[]subclip.CandidateMedia], error) {
		blob, err := httpx.GetJSON(ctx, s.cfg.Client, endpoint, headers)
		if err != nil {
			return generic.None[[]subclip.CandidateMedia](), err
		}
		if candidates := resolve(blob); len(candidates) > 0 {
			return generic.Some(candidates), nil
		}
		return generic.None[[]subclip.CandidateMedia](), nil
	})
	if err != nil {
		return subclip.Outcome{}, subclip.FailStrategy(err)
	}
	return subclip.Outcome{Candidates: result.UnwrapOrDefault()}, nil
}

// resolve probes the known response shapes of resolver services in order,
// then falls back to a generic recursive scan. Services of this kind change
// their response format without notice, so none of the shapes is load-bearing
// on its own.
func resolve(blob any) []subclip.CandidateMedia {
	if s, ok := blob.(string); ok && s != "" {
		return []subclip.CandidateMedia{{URL: s, SourceMethod: "resolver"}}
	}
	node, ok := blob.(map[string]any)
	if !ok {
		return nil
	}
	if u := probeShapes(node); u != "" {
		return []subclip.CandidateMedia{{URL: extract.UnescapeURL(u), SourceMethod: "resolver"}}
	}
	return extract.FromJSON(blob, "")
}

func probeShapes(node map[string]any) string {
	// {"video": [{"url": ...}]} or {"video": [url, ...]} or {"video": url}
	switch video := node["video"].(type) {
	case []any:
		if len(video) > 0 {
			switch first := video[0].(type) {
			case map[string]any:
				if u, ok := first["url"].(string); ok {
					return u
				}
			case string:
				return first
			}
		}
	case string:
		return video
	}
	for _, key := range []string{"video_url", "url", "download_url"} {
		if u, ok := node[key].(string); ok && u != "" {
			return u
		}
	}
	// {"media": [{"url": ...}]}
	if media, ok := node["media"].([]any); ok && len(media) > 0 {
		if first, ok := media[0].(map[string]any); ok {
			if u, ok := first["url"].(string); ok {
				return u
			}
		}
	}
	// {"result": {"video": ...}}
	if result, ok := node["result"].(map[string]any); ok {
		if u, ok := result["video"].(string); ok {
			return u
		}
	}
	return ""
}
