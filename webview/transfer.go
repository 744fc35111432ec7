package webview

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteTransfer indicates a chunked transfer ended with missing
// chunks, or ended before it started.
var ErrIncompleteTransfer = errors.New("incomplete blob transfer")

// TransferMeta describes the binary payload a transfer carries.
type TransferMeta struct {
	MIMEType   string
	Size       int64
	Resolution string
}

// Transfer reassembles a chunked base64 payload delivered out of order.
// Chunks may arrive in any permutation; duplicates overwrite. Not safe for
// concurrent use, a Session feeds it from a single goroutine.
type Transfer struct {
	active bool
	meta   TransferMeta
	total  int
	chunks map[int]string
}

// Start begins a new transfer, discarding any transfer already in progress.
// A page script that restarts its capture simply starts over.
func (t *Transfer) Start(totalChunks int, meta TransferMeta) {
	t.active = true
	t.meta = meta
	t.total = totalChunks
	t.chunks = make(map[int]string, totalChunks)
}

// AddChunk records one chunk. Chunks for a transfer that was never started
// are dropped.
func (t *Transfer) AddChunk(index int, data string) {
	if !t.active || index < 0 || index >= t.total {
		return
	}
	t.chunks[index] = data
}

// Active reports whether a transfer is in progress.
func (t *Transfer) Active() bool {
	return t.active
}

// Abort discards the transfer in progress.
func (t *Transfer) Abort() {
	t.active = false
	t.total = 0
	t.chunks = nil
}

// Finish validates that every chunk arrived, concatenates them in index
// order, strips a data-URI prefix if present, and decodes the base64 body.
// The transfer is consumed whether or not it succeeds.
func (t *Transfer) Finish() ([]byte, TransferMeta, error) {
	defer t.Abort()
	if !t.active {
		return nil, TransferMeta{}, fmt.Errorf("%w: finish without start", ErrIncompleteTransfer)
	}
	if len(t.chunks) != t.total {
		return nil, TransferMeta{}, fmt.Errorf("%w: have %d of %d chunks", ErrIncompleteTransfer, len(t.chunks), t.total)
	}

	var sb strings.Builder
	for i := 0; i < t.total; i++ {
		sb.WriteString(t.chunks[i])
	}
	data, err := decodeBase64Payload(sb.String())
	if err != nil {
		return nil, TransferMeta{}, err
	}
	return data, t.meta, nil
}

// decodeBase64Payload decodes a base64 string that may carry a data-URI
// prefix ("data:video/mp4;base64,..."). The prefix is stripped at most once,
// from the start of the whole payload only.
func decodeBase64Payload(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ";base64,"); i >= 0 {
			s = s[i+len(";base64,"):]
		}
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode blob payload: %w", err)
	}
	return data, nil
}
