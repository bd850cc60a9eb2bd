package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Writer exports rendered reports to any URL scheme afs understands
// (file://, mem://, s3:// and friends).
type Writer struct {
	fs afs.Service
}

// NewWriter creates a report writer
func NewWriter() *Writer {
	return &Writer{fs: afs.New()}
}

// Write stores content at the destination URL.
func (w *Writer) Write(ctx context.Context, URL string, content string) error {
	if err := w.fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", URL, err)
	}
	return nil
}
