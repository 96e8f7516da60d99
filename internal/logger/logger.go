package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"uploadsim/internal/config"
	"uploadsim/pkg/fileutils"

	"github.com/charmbracelet/log"
)

var formatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// New builds the application logger. Output goes to the configured file when
// set, otherwise to fallback. The returned close function releases the file.
func New(cfg config.LogConfig, fallback io.Writer) (*log.Logger, func() error, error) {
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	formatter, ok := formatters[strings.ToLower(cfg.Format)]
	if !ok {
		formatter = log.TextFormatter
	}

	out := fallback
	closeFn := func() error { return nil }
	if cfg.File != "" {
		if err := fileutils.EnsureDirectoryExists(filepath.Dir(cfg.File)); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	l := log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          "uploadsim",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter,
	})
	return l, closeFn, nil
}
