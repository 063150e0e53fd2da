// File: pkg/combine/helpers.go
package combine

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// ErrClipboardUnavailable is returned when no clipboard utility is installed.
var ErrClipboardUnavailable = errors.New("clipboard is not available on this system")

// WriteReport writes the rendered report to w.
func WriteReport(w io.Writer, report string, logger *zap.Logger) error {
	writer := bufio.NewWriter(w)
	if _, err := writer.WriteString(report); err != nil {
		logger.Error("Failed to write report", zap.Error(err))
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := writer.Flush(); err != nil {
		logger.Error("Failed to flush report", zap.Error(err))
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

// copyToClipboard hands report to write, or to the system clipboard when
// write is nil.
func copyToClipboard(write func(string) error, report string, logger *zap.Logger) error {
	if write == nil {
		if clipboard.Unsupported {
			return ErrClipboardUnavailable
		}
		write = clipboard.WriteAll
	}
	if err := write(report); err != nil {
		logger.Error("Failed to copy report to clipboard", zap.Error(err))
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	logger.Debug("Copied report to clipboard", zap.Int("bytes", len(report)))
	return nil
}
