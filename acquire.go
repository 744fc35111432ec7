package subclip

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"subclip/cache"
)

// A ProfileFetcher resolves a username to a profile picture URL.
type ProfileFetcher interface {
	ProfilePictureURL(ctx context.Context, username string) (string, error)
}

type AcquirerConfig struct {
	Registry     *StrategyRegistry
	Materializer *Materializer
	// Cache of previously resolved media URLs. Optional.
	Cache *cache.Cache
	// Profile handles profile-picture URLs. Optional; profile URLs fail
	// cleanly when absent.
	Profile ProfileFetcher
}

// An Acquirer runs the whole pipeline: classify the URL, find media via the
// strategy chain (or the cache, or the profile fetcher), and materialize it
// into the local store.
type Acquirer struct {
	cfg AcquirerConfig
	log *zap.SugaredLogger
}

func NewAcquirer(cfg AcquirerConfig) *Acquirer {
	return &Acquirer{cfg: cfg, log: zap.S().Named("acquire")}
}

// Acquire obtains the content behind rawURL as a verified local file.
// Strategies run one at a time in priority order; a strategy that finds
// nothing or fails moves the search along rather than aborting it. When every
// strategy is exhausted the returned error wraps ErrExhausted together with
// each hard failure encountered along the way.
func (a *Acquirer) Acquire(ctx context.Context, rawURL string, report ProgressFunc) (AcquisitionResult, error) {
	ref, err := Classify(rawURL)
	if err != nil {
		return AcquisitionResult{}, err
	}
	switch ref.Kind {
	case KindProfile:
		return a.acquireProfile(ctx, ref, report)
	case KindVideo:
		return a.acquireVideo(ctx, ref, report)
	default:
		return AcquisitionResult{}, fmt.Errorf("%w: unrecognized content path in %q", ErrInvalidURL, rawURL)
	}
}

func (a *Acquirer) acquireProfile(ctx context.Context, ref ContentReference, report ProgressFunc) (AcquisitionResult, error) {
	if a.cfg.Profile == nil {
		return AcquisitionResult{}, fmt.Errorf("%w: profile acquisition not available", ErrInvalidURL)
	}
	report.Report(Progress{Stage: StageLoading, Message: "resolving profile picture"})
	picURL, err := a.cfg.Profile.ProfilePictureURL(ctx, ref.Username)
	if err != nil {
		return AcquisitionResult{}, err
	}
	candidate := CandidateMedia{URL: picURL, SourceMethod: "profile"}
	result, err := a.cfg.Materializer.SaveURL(ctx, ref, candidate, "jpg", report)
	if err != nil {
		return AcquisitionResult{}, err
	}
	report.Report(Progress{Stage: StageCompleted, Message: result.FileName, Percent: 100})
	return result, nil
}

func (a *Acquirer) acquireVideo(ctx context.Context, ref ContentReference, report ProgressFunc) (AcquisitionResult, error) {
	// A cached resolution gets one shot; if the URL has gone stale the entry
	// is evicted and the full strategy search runs as normal.
	if a.cfg.Cache != nil {
		if mediaURL, ok := a.cfg.Cache.Get(ref.SourceURL); ok {
			a.log.Debugw("trying cached media URL", "source_url", ref.SourceURL)
			candidate := CandidateMedia{URL: mediaURL, SourceMethod: "cache"}
			result, err := a.cfg.Materializer.SaveURL(ctx, ref, candidate, "", report)
			if err == nil {
				report.Report(Progress{Stage: StageCompleted, Message: result.FileName, Percent: 100})
				return result, nil
			}
			if ctx.Err() != nil {
				return AcquisitionResult{}, ctx.Err()
			}
			a.log.Infow("cached media URL no longer works, evicting", "source_url", ref.SourceURL, "error", err)
			a.evict(ref.SourceURL)
		}
	}

	var errs *multierror.Error
	for _, s := range a.cfg.Registry.Ordered() {
		if ctx.Err() != nil {
			return AcquisitionResult{}, ctx.Err()
		}
		a.log.Infow("attempting strategy", "strategy", s.Name, "content_id", ref.ContentID)
		outcome, err := s.Attempt(ctx, ref, report)
		if err != nil {
			if ctx.Err() != nil {
				return AcquisitionResult{}, ctx.Err()
			}
			a.log.Warnw("strategy failed", "strategy", s.Name, "error", err)
			errs = multierror.Append(errs, fmt.Errorf("%v: %w", s.Name, err))
			continue
		}
		if outcome.Empty() {
			a.log.Debugw("strategy found nothing", "strategy", s.Name)
			continue
		}
		result, err := a.materialize(ctx, ref, outcome, report)
		if err != nil {
			if ctx.Err() != nil {
				return AcquisitionResult{}, ctx.Err()
			}
			a.log.Warnw("materialization failed", "strategy", s.Name, "error", err)
			errs = multierror.Append(errs, fmt.Errorf("%v: %w", s.Name, err))
			continue
		}
		a.log.Infow("acquisition complete", "strategy", s.Name, "file", result.FileName)
		report.Report(Progress{Stage: StageCompleted, Message: result.FileName, Percent: 100})
		return result, nil
	}
	return AcquisitionResult{}, multierror.Append(ErrExhausted, errs.WrappedErrors()...)
}

// materialize stores whatever a strategy produced. Candidate URLs are cached
// before the download so later requests can skip the search; a download
// failure takes the entry straight back out.
func (a *Acquirer) materialize(ctx context.Context, ref ContentReference, outcome Outcome, report ProgressFunc) (AcquisitionResult, error) {
	if outcome.Payload != nil {
		return a.cfg.Materializer.SaveBytes(ctx, ref, outcome.Payload, report)
	}
	best, ok := BestCandidate(outcome.Candidates)
	if !ok {
		return AcquisitionResult{}, fmt.Errorf("%w: no usable candidate", ErrStrategyFailed)
	}
	if a.cfg.Cache != nil {
		if err := a.cfg.Cache.Put(ref.SourceURL, best.URL); err != nil {
			a.log.Warnw("failed to cache resolved URL", "error", err)
		}
	}
	result, err := a.cfg.Materializer.SaveURL(ctx, ref, best, "", report)
	if err != nil {
		a.evict(ref.SourceURL)
		return AcquisitionResult{}, err
	}
	return result, nil
}

func (a *Acquirer) evict(sourceURL string) {
	if a.cfg.Cache == nil {
		return
	}
	if err := a.cfg.Cache.Evict(sourceURL); err != nil {
		a.log.Warnw("failed to evict cache entry", "source_url", sourceURL, "error", err)
	}
}
