package adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/neuro-vault/internal/logger"
)

// StdinPath selects standard input as a frame file.
const StdinPath = "-"

// SourceConfig selects a frame source. Command wins over File.
type SourceConfig struct {
	// Command is the capture program and its arguments.
	Command []string
	// File is a JSON-lines frame file, or "-" for stdin.
	File string
}

// Open returns the configured frame source.
func Open(ctx context.Context, cfg SourceConfig, log *logger.Logger) (FrameSource, error) {
	switch {
	case len(cfg.Command) > 0:
		return NewCommandSource(ctx, log, cfg.Command[0], cfg.Command[1:]...)
	case cfg.File == StdinPath:
		return NewStreamSource(openStdin()), nil
	case cfg.File != "":
		f, err := os.Open(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCaptureUnavailable, err)
		}
		return NewStreamSource(f), nil
	default:
		return nil, fmt.Errorf("%w: neither a capture command nor a frame file is configured", ErrCaptureUnavailable)
	}
}
