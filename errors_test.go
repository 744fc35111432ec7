package subclip

import (
	"errors"
	"fmt"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestFailStrategy(t *testing.T) {
	assert := assert_.New(t)

	cause := errors.New("connection reset")
	err := FailStrategy(cause)
	assert.ErrorIs(err, ErrStrategyFailed)
	assert.ErrorIs(err, cause)
	assert.ErrorContains(err, "connection reset")

	// Wrapping further up keeps both visible.
	wrapped := fmt.Errorf("scrape: %w", err)
	assert.ErrorIs(wrapped, ErrStrategyFailed)
	assert.ErrorIs(wrapped, cause)

	assert.NoError(FailStrategy(nil))
}
