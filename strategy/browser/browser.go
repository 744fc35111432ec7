// Package browser holds the strategies that need a live page: DOM scanning,
// network interception, media buffer harvesting, and playback capture. They
// share one embedded browser through webview.Browser's exclusive sessions.
package browser

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"subclip"
	"subclip/webview"
)

const DefaultTimeout = 20 * time.Second

type Config struct {
	Browser *webview.Browser
	// Timeout bounds how long a session waits for page scripts to report.
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// NewDOMScan polls the loaded page for a video element with a usable src.
func NewDOMScan(cfg Config) subclip.Strategy {
	s := newStrategy("domscan", cfg, func(ref subclip.ContentReference) string {
		return webview.DOMScanScript
	})
	return subclip.Strategy{Name: "domscan", Attempt: s.attempt, Priority: 40}
}

// NewNetIntercept wraps the page's fetch and XHR to harvest API responses.
func NewNetIntercept(cfg Config) subclip.Strategy {
	s := newStrategy("netintercept", cfg, func(ref subclip.ContentReference) string {
		return webview.WithShortcode(webview.NetInterceptScript, ref.ContentID)
	})
	return subclip.Strategy{Name: "netintercept", Attempt: s.attempt, Priority: 50}
}

// NewMediaBuffer harvests the bytes the page itself feeds into MediaSource.
func NewMediaBuffer(cfg Config) subclip.Strategy {
	s := newStrategy("mediabuffer", cfg, func(ref subclip.ContentReference) string {
		return webview.MediaBufferScript
	})
	s.stage = subclip.StageCapturing
	return subclip.Strategy{Name: "mediabuffer", Attempt: s.attempt, Priority: 60}
}

// NewCapture re-records the playing video via MediaRecorder. Lossy and slow,
// it is the strategy of last resort.
func NewCapture(cfg Config) subclip.Strategy {
	s := newStrategy("capture", cfg, func(ref subclip.ContentReference) string {
		return webview.CaptureScript
	})
	s.stage = subclip.StageCapturing
	return subclip.Strategy{Name: "capture", Attempt: s.attempt, Priority: 70}
}

type strategy struct {
	name   string
	cfg    Config
	script func(subclip.ContentReference) string
	stage  subclip.Stage
	log    *zap.SugaredLogger
}

func newStrategy(name string, cfg Config, script func(subclip.ContentReference) string) *strategy {
	return &strategy{
		name:   name,
		cfg:    cfg,
		script: script,
		stage:  subclip.StageLoading,
		log:    zap.S().Named("strategy." + name),
	}
}

func (s *strategy) attempt(ctx context.Context, ref subclip.ContentReference, report subclip.ProgressFunc) (subclip.Outcome, error) {
	session, err := s.cfg.Browser.Acquire(ctx)
	if err != nil {
		return subclip.Outcome{}, subclip.FailStrategy(err)
	}
	defer session.Close()

	report.Report(subclip.Progress{Stage: s.stage, Message: "loading page in browser"})
	if err := session.Load(ctx, ref.SourceURL, s.script(ref)); err != nil {
		return subclip.Outcome{}, subclip.FailStrategy(err)
	}
	result, err := session.Await(ctx, s.cfg.timeout())
	if err != nil {
		return subclip.Outcome{}, subclip.FailStrategy(err)
	}
	return s.outcome(result), nil
}

// outcome converts a session result, discarding blob: URLs, which are only
// valid inside the page that created them.
func (s *strategy) outcome(result webview.Result) subclip.Outcome {
	if len(result.Bytes) > 0 {
		return subclip.Outcome{Payload: &subclip.Payload{
			Data:       result.Bytes,
			MIMEType:   result.Meta.MIMEType,
			Resolution: result.Meta.Resolution,
		}}
	}
	var candidates []subclip.CandidateMedia
	for _, v := range result.Candidates {
		if strings.HasPrefix(v.URL, "blob:") {
			s.log.Debugw("discarding blob URL", "url", v.URL)
			continue
		}
		method := v.Method
		if method == "" {
			method = s.name
		}
		candidates = append(candidates, subclip.CandidateMedia{
			URL:          v.URL,
			Width:        v.Width,
			Height:       v.Height,
			SourceMethod: method,
		})
	}
	subclip.SortCandidates(candidates)
	return subclip.Outcome{Candidates: candidates}
}
