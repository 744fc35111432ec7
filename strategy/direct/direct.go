// Package direct resolves media through the official oEmbed endpoint. It is
// the cheapest strategy, a single unauthenticated GET, so it runs first even
// though the endpoint rarely exposes more than a thumbnail these days.
package direct

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"subclip"
	"subclip/extract"
	"subclip/internal/httpx"
)

const DefaultEndpoint = "https://graph.facebook.com/v12.0/instagram_oembed"

type Config struct {
	Client *http.Client
	// Endpoint overrides the oEmbed URL, primarily for tests.
	Endpoint string
}

func New(cfg Config) subclip.Strategy {
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	s := &strategy{cfg: cfg, log: zap.S().Named("strategy.direct")}
	return subclip.Strategy{Name: "direct", Attempt: s.attempt, Priority: 10}
}

type strategy struct {
	cfg Config
	log *zap.SugaredLogger
}

func (s *strategy) attempt(ctx context.Context, ref subclip.ContentReference, report subclip.ProgressFunc) (subclip.Outcome, error) {
	report.Report(subclip.Progress{Stage: subclip.StageLoading, Message: "querying oEmbed"})
	endpoint := s.cfg.Endpoint + "?url=" + url.QueryEscape(ref.SourceURL)
	blob, err := httpx.GetJSON(ctx, s.cfg.Client, endpoint, nil)
	if err != nil {
		return subclip.Outcome{}, subclip.FailStrategy(err)
	}
	candidates := extract.FromJSON(blob, ref.ContentID)
	s.log.Debugw("oEmbed response scanned", "candidates", len(candidates))
	return subclip.Outcome{Candidates: candidates}, nil
}
