package webview

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"subclip/internal/pubsub"
	sync_ "subclip/internal/sync"
)

// ErrBrowserClosed is returned by Acquire after the Browser is closed.
var ErrBrowserClosed = errors.New("browser is closed")

// Host abstracts an embeddable browser surface. Implementations wrap a real
// browser engine; tests substitute a fake that replays scripted messages.
type Host interface {
	// Load navigates to url. If script is non-empty it is installed to run
	// at document start, before the page's own scripts.
	Load(ctx context.Context, url string, script string) error
	// Inject evaluates script in the currently loaded page.
	Inject(ctx context.Context, script string) error
	// Messages returns the receiver for messages posted by page scripts.
	Messages() pubsub.Receiver[Message]
	// Close releases the surface. Messages() is closed as a side effect.
	Close() error
}

// Browser serializes access to a single Host. Browser engines are expensive
// and stateful, so at most one session drives the host at a time; everyone
// else waits in Acquire.
type Browser struct {
	host   Host
	sem    chan struct{}
	closed sync_.Event
	log    *zap.SugaredLogger
}

func NewBrowser(host Host) *Browser {
	return &Browser{
		host: host,
		sem:  make(chan struct{}, 1),
		log:  zap.S().Named("webview"),
	}
}

// Acquire blocks until the host is free, then returns a Session owning it.
// The caller must Close the session to let the next waiter in.
func (b *Browser) Acquire(ctx context.Context) (*Session, error) {
	select {
	case b.sem <- struct{}{}:
	case <-b.closed.Wait():
		return nil, ErrBrowserClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if b.closed.IsSet() {
		<-b.sem
		return nil, ErrBrowserClosed
	}
	s := newSession(b.host, b.log, func() { <-b.sem })
	b.log.Debugw("session acquired", "session_id", s.ID())
	return s, nil
}

// Close closes the underlying host and fails all current and future Acquire
// calls. Sessions already running observe the host's message channel closing.
func (b *Browser) Close() error {
	b.closed.Set()
	return b.host.Close()
}

func newSessionID() string {
	return uuid.NewString()
}
