package webview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Result is what a session collected: either direct candidate URLs or a
// captured binary payload, never both.
type Result struct {
	Candidates []Video
	Bytes      []byte
	Meta       TransferMeta
}

// Empty reports that the session found nothing.
func (r Result) Empty() bool {
	return len(r.Candidates) == 0 && len(r.Bytes) == 0
}

// Session is exclusive use of a browser host, from Acquire until Close.
type Session struct {
	id      string
	host    Host
	log     *zap.SugaredLogger
	release func()
	once    sync.Once
}

func newSession(host Host, log *zap.SugaredLogger, release func()) *Session {
	id := newSessionID()
	return &Session{
		id:      id,
		host:    host,
		log:     log.With("session_id", id),
		release: release,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Load navigates the host, optionally installing a document-start script.
func (s *Session) Load(ctx context.Context, url string, script string) error {
	return s.host.Load(ctx, url, script)
}

// Inject evaluates a script in the loaded page.
func (s *Session) Inject(ctx context.Context, script string) error {
	return s.host.Inject(ctx, script)
}

// Close releases the host for the next session. Safe to call more than once.
func (s *Session) Close() {
	s.once.Do(s.release)
}

// Await consumes script messages until one of them resolves the session. An
// expired timeout is not an error, it resolves as found-nothing; so does the
// host shutting down mid-session. The timeout restarts on every transfer
// message so a slow chunked upload is not cut off mid-stream.
func (s *Session) Await(ctx context.Context, timeout time.Duration) (Result, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var transfer Transfer
	msgs := s.host.Messages().Receive()
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
			s.log.Debugw("session timed out", "transfer_active", transfer.Active())
			return Result{}, nil
		case msg, ok := <-msgs:
			if !ok {
				s.log.Debug("host closed during session")
				return Result{}, nil
			}
			done, result, err := s.handle(msg, &transfer)
			if err != nil {
				return Result{}, err
			}
			if done {
				return result, nil
			}
			if transfer.Active() {
				resetTimer(timer, timeout)
			}
		}
	}
}

// handle processes one message. done is true when the session is resolved.
func (s *Session) handle(msg Message, transfer *Transfer) (done bool, result Result, err error) {
	switch msg.Type {
	case TypeDebug:
		s.log.Debugw("page script", "message", msg.Text)
	case TypeError:
		return false, Result{}, fmt.Errorf("page script error: %s", msg.Text)
	case TypeVideoURLFound, TypeVideoFound, TypeMultipleVideosFound:
		candidates := msg.Candidates()
		if len(candidates) == 0 {
			s.log.Debugw("found-message carried no candidates", "type", msg.Type)
			return false, Result{}, nil
		}
		return true, Result{Candidates: candidates}, nil
	case TypeBlobStart:
		transfer.Start(msg.TotalChunks, TransferMeta{
			MIMEType:   msg.MIMEType,
			Size:       msg.Size,
			Resolution: msg.Resolution,
		})
	case TypeBlobChunk:
		transfer.AddChunk(msg.ChunkIndex, msg.Fragment())
	case TypeBlobEnd:
		data, meta, err := transfer.Finish()
		if err != nil {
			return false, Result{}, err
		}
		return true, Result{Bytes: data, Meta: meta}, nil
	case TypeBlobData:
		// Single-message transfer used by scripts with small payloads.
		data, err := decodeBase64Payload(msg.Data)
		if err != nil {
			return false, Result{}, err
		}
		mime := msg.MIMEType
		if mime == "" {
			mime = "video/mp4"
		}
		return true, Result{Bytes: data, Meta: TransferMeta{
			MIMEType:   mime,
			Size:       int64(len(data)),
			Resolution: msg.Resolution,
		}}, nil
	default:
		s.log.Debugw("ignoring unknown message type", "type", msg.Type)
	}
	return false, Result{}, nil
}

// resetTimer restarts a timer that has not fired yet, draining it if it did.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
