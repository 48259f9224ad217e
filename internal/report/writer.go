// Package report writes rendered review reports to disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
	"github.com/sethjchalmers/code-whisperers/internal/service"
)

var formatExtensions = map[core.ReportFormat]string{
	core.ReportFormatStructured: "json",
	core.ReportFormatMarkdown:   "md",
	core.ReportFormatPlainText:  "txt",
}

// FileWriter implements core.ReportSink by writing one file per run into a
// reports directory. Writes are atomic so a crash never leaves a truncated
// report behind.
type FileWriter struct {
	dir       string
	assembler *service.ReportAssembler
}

// NewFileWriter creates a writer rooted at dir.
func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{dir: dir, assembler: service.NewReportAssembler()}
}

// Write renders the result and writes it to a timestamped file, returning
// the path written.
func (w *FileWriter) Write(result *core.ReviewResult, format core.ReportFormat) (string, error) {
	ext, ok := formatExtensions[format]
	if !ok {
		return "", core.ErrValidation("BAD_FORMAT", fmt.Sprintf("unknown report format %q", format))
	}

	content, err := w.assembler.RenderString(result, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}

	name := fmt.Sprintf("review_%s_%s.%s",
		result.GeneratedAt.Format("20060102_150405"), shortID(result.RunID), ext)
	path := filepath.Join(w.dir, name)

	if err := atomicWriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	if runID == "" {
		return time.Now().Format("150405")
	}
	return runID
}
