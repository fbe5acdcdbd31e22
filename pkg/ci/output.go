package ci

import (
	"fmt"
	"io"
	"os"
	"strings"

	errUtils "github.com/cloudposse/artifactor/errors"
	"github.com/cloudposse/artifactor/pkg/perf"
)

const defaultFileMode = 0o644

// FileOutputWriter writes outputs to a file (like $GITHUB_OUTPUT).
type FileOutputWriter struct {
	outputPath  string
	summaryPath string
}

// NewFileOutputWriter creates a new FileOutputWriter.
// Empty paths turn the corresponding write into a no-op.
func NewFileOutputWriter(outputPath, summaryPath string) *FileOutputWriter {
	defer perf.Track(nil, "ci.NewFileOutputWriter")()

	return &FileOutputWriter{
		outputPath:  outputPath,
		summaryPath: summaryPath,
	}
}

// WriteOutput writes a key-value pair to the output file.
// Format: key=value (single line) or key<<EOF\nvalue\nEOF (multiline).
func (w *FileOutputWriter) WriteOutput(key, value string) error {
	defer perf.Track(nil, "ci.FileOutputWriter.WriteOutput")()

	if w.outputPath == "" {
		return nil
	}

	return appendToFile(w.outputPath, FormatOutput(key, value))
}

// WriteSummary appends content to the job summary file.
func (w *FileOutputWriter) WriteSummary(content string) error {
	defer perf.Track(nil, "ci.FileOutputWriter.WriteSummary")()

	if w.summaryPath == "" {
		return nil
	}

	return appendToFile(w.summaryPath, content)
}

// StreamOutputWriter prints outputs as key=value lines, for runs outside CI.
type StreamOutputWriter struct {
	out io.Writer
}

// NewStreamOutputWriter creates a StreamOutputWriter; nil means stdout.
func NewStreamOutputWriter(out io.Writer) *StreamOutputWriter {
	if out == nil {
		out = os.Stdout
	}
	return &StreamOutputWriter{out: out}
}

// WriteOutput implements OutputWriter.
func (w *StreamOutputWriter) WriteOutput(key, value string) error {
	_, err := io.WriteString(w.out, FormatOutput(key, value))
	return err
}

// WriteSummary implements OutputWriter. Summaries are not shown outside CI.
func (w *StreamOutputWriter) WriteSummary(_ string) error {
	return nil
}

// FormatOutput renders one output in the $GITHUB_OUTPUT file format.
func FormatOutput(key, value string) string {
	if !strings.Contains(value, "\n") {
		return fmt.Sprintf("%s=%s\n", key, value)
	}

	delimiter := "EOF"
	for strings.Contains(value, delimiter) {
		delimiter += "_"
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter)
}

// appendToFile appends content to path, creating the file if needed.
func appendToFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return errUtils.Build(errUtils.ErrOpenFile).
			WithCause(err).
			WithContext("path", path).
			Err()
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return errUtils.Build(errUtils.ErrWriteFile).
			WithCause(err).
			WithContext("path", path).
			Err()
	}

	return nil
}
