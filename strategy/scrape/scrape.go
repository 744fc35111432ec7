// Package scrape pulls candidate media out of the content's public pages:
// the embed page first (lighter, fewer login walls), then the canonical post
// page, then the GraphQL query endpoint as a structured fallback.
package scrape

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"subclip"
	"subclip/extract"
	"subclip/internal/httpx"
)

// queryHash identifies the shortcode_media GraphQL query.
const queryHash = "2b0673e0dc4580674a88d426fe00ea90"

const DefaultBaseURL = "https://www.instagram.com"

type Config struct {
	Client *http.Client
	// BaseURL overrides the site root, primarily for tests.
	BaseURL string
}

func New(cfg Config) subclip.Strategy {
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	s := &strategy{cfg: cfg, log: zap.S().Named("strategy.scrape")}
	return subclip.Strategy{Name: "scrape", Attempt: s.attempt, Priority: 20}
}

type strategy struct {
	cfg Config
	log *zap.SugaredLogger
}

func (s *strategy) attempt(ctx context.Context, ref subclip.ContentReference, report subclip.ProgressFunc) (subclip.Outcome, error) {
	if ref.ContentID == "" {
		// Story URLs etc. have no shortcode to build page URLs from.
		return subclip.Outcome{}, nil
	}
	report.Report(subclip.Progress{Stage: subclip.StageLoading, Message: "scraping pages"})

	pages := []struct {
		name string
		url  string
	}{
		{"embed", s.cfg.BaseURL + "/p/" + ref.ContentID + "/embed/captioned"},
		{"canonical", s.cfg.BaseURL + "/p/" + ref.ContentID + "/"},
	}
	var lastErr error
	fetches := 0
	for _, page := range pages {
		html, err := httpx.GetText(ctx, s.cfg.Client, page.url, map[string]string{"Accept": "text/html"})
		if err != nil {
			if ctx.Err() != nil {
				return subclip.Outcome{}, ctx.Err()
			}
			s.log.Debugw("page fetch failed", "page", page.name, "error", err)
			lastErr = err
			continue
		}
		fetches++
		if candidates := scanPage(html, ref.ContentID); len(candidates) > 0 {
			s.log.Debugw("page yielded candidates", "page", page.name, "candidates", len(candidates))
			return subclip.Outcome{Candidates: candidates}, nil
		}
	}

	blob, err := httpx.GetJSON(ctx, s.cfg.Client, s.graphqlURL(ref.ContentID), map[string]string{
		"X-Requested-With": "XMLHttpRequest",
	})
	if err != nil {
		if ctx.Err() != nil {
			return subclip.Outcome{}, ctx.Err()
		}
		s.log.Debugw("graphql fetch failed", "error", err)
		lastErr = err
	} else {
		fetches++
		if candidates := extract.FromJSON(blob, ref.ContentID); len(candidates) > 0 {
			return subclip.Outcome{Candidates: candidates}, nil
		}
	}

	// Only a total fetch failure is a hard error; pages that loaded but
	// contained no media mean "nothing here", and the next strategy runs.
	if fetches == 0 && lastErr != nil {
		return subclip.Outcome{}, subclip.FailStrategy(lastErr)
	}
	return subclip.Outcome{}, nil
}

func (s *strategy) graphqlURL(contentID string) string {
	variables := `{"shortcode":` + strconv.Quote(contentID) + `}`
	return s.cfg.BaseURL + "/graphql/query/?query_hash=" + queryHash + "&variables=" + url.QueryEscape(variables)
}

// scanPage runs the structured meta-tag scan first, falling back to raw text
// pattern matching when the markup carries no usable og: tags.
func scanPage(html string, contentID string) []subclip.CandidateMedia {
	if candidates := scanMetaTags(html); len(candidates) > 0 {
		return candidates
	}
	return extract.FromText(html)
}
