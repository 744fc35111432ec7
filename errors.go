package subclip

import (
	"errors"

	"subclip/webview"
)

var (
	// ErrInvalidURL means the input URL is not a recognized Instagram link, or matches no known path shape.
	ErrInvalidURL = errors.New("not a recognized Instagram URL")
	// ErrStrategyFailed wraps an internal error from a single strategy; the pipeline continues past it.
	ErrStrategyFailed = errors.New("strategy failed")
	// ErrExhausted means every strategy completed with no result.
	ErrExhausted = errors.New("every acquisition strategy was exhausted")
	// ErrDownloadFailed means a resolved media URL exists but the byte transfer failed or produced zero bytes.
	ErrDownloadFailed = errors.New("media download failed")
)

// ErrIncompleteTransfer is owned by the webview package, where chunked
// reassembly happens, but belongs to the same taxonomy as the errors above.
var ErrIncompleteTransfer = webview.ErrIncompleteTransfer

// FailStrategy marks err as a hard strategy failure. The returned error
// matches both ErrStrategyFailed and err with errors.Is.
func FailStrategy(err error) error {
	if err == nil {
		return nil
	}
	return &strategyError{err}
}

type strategyError struct {
	err error
}

func (e *strategyError) Error() string {
	return ErrStrategyFailed.Error() + ": " + e.err.Error()
}

func (e *strategyError) Unwrap() error {
	return e.err
}

func (e *strategyError) Is(target error) bool {
	return target == ErrStrategyFailed
}
