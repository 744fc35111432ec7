// Package share is the share-sheet collaborator: it hands a materialized file
// off to the OS. The mobile shell provides the real implementation.
package share

import (
	"context"

	"go.uber.org/zap"
)

// Sheet hands a local file URI plus MIME type to the platform share targets.
type Sheet interface {
	Share(ctx context.Context, fileURI string, mimeType string) error
}

// LogSheet is the default implementation outside the app: it only records the
// hand-off. Used by the dev CLI and in tests.
type LogSheet struct {
	log *zap.SugaredLogger
}

func NewLogSheet() *LogSheet {
	return &LogSheet{log: zap.S().Named("share")}
}

func (s *LogSheet) Share(_ context.Context, fileURI string, mimeType string) error {
	s.log.Infow("share sheet requested", "uri", fileURI, "mime_type", mimeType)
	return nil
}
