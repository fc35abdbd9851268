// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/MKhiriev/neuro-vault/internal/face"
	"github.com/MKhiriev/neuro-vault/internal/logger"
)

// CommandSource runs an external capture program and reads frames from its
// stdout. The program's stderr is passed through to ours.
type CommandSource struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stream *StreamSource
	logger *logger.Logger

	closeOnce sync.Once
	waitErr   error
}

// NewCommandSource starts name with args. The process is killed when ctx is
// done or Close is called.
func NewCommandSource(ctx context.Context, log *logger.Logger, name string, args ...string) (*CommandSource, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: no capture command configured", ErrCaptureUnavailable)
	}
	if log == nil {
		log = logger.Nop()
	}

	cmdCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(cmdCtx, name, args...)
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %w", ErrCaptureUnavailable, err)
	}
	if err = cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: start %s: %w", ErrCaptureUnavailable, name, err)
	}

	log.Debug().Str("command", name).Int("pid", cmd.Process.Pid).Msg("capture started")

	return &CommandSource{
		cmd:    cmd,
		cancel: cancel,
		stream: NewStreamSource(stdout),
		logger: log,
	}, nil
}

// Next implements [FrameSource]. When the program's output ends, Next waits
// for it and reports a non-zero exit as [ErrCaptureUnavailable].
func (c *CommandSource) Next(ctx context.Context) (face.Embedding, error) {
	e, err := c.stream.Next(ctx)
	if !errors.Is(err, io.EOF) {
		return e, err
	}

	if waitErr := c.wait(); waitErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureUnavailable, waitErr)
	}
	return nil, io.EOF
}

// Close implements [FrameSource]. It stops the program and reaps it.
func (c *CommandSource) Close() error {
	c.cancel()
	_ = c.wait()
	return nil
}

func (c *CommandSource) wait() error {
	c.closeOnce.Do(func() {
		c.waitErr = c.cmd.Wait()
		c.cancel()
		c.logger.Debug().Err(c.waitErr).Msg("capture stopped")
	})
	return c.waitErr
}
