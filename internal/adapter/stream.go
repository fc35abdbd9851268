package adapter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/MKhiriev/neuro-vault/internal/face"
)

// maxLineSize bounds one frame line; a 512-dimension float64 vector in JSON
// fits comfortably.
const maxLineSize = 1 << 20

// StreamSource reads frames as JSON lines from a reader. Blank lines are
// skipped.
type StreamSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int

	closeOnce sync.Once
	closeErr  error
}

// NewStreamSource reads frames from r. If r is an io.Closer it is closed by
// Close.
func NewStreamSource(r io.Reader) *StreamSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	s := &StreamSource{scanner: sc}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next implements [FrameSource].
func (s *StreamSource) Next(ctx context.Context) (face.Embedding, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("%w: read frame: %w", ErrCaptureUnavailable, err)
			}
			return nil, io.EOF
		}
		s.line++

		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return parseFrame(line, s.line)
	}
}

// Close implements [FrameSource].
func (s *StreamSource) Close() error {
	s.closeOnce.Do(func() {
		if s.closer != nil {
			s.closeErr = s.closer.Close()
		}
	})
	return s.closeErr
}

func parseFrame(line []byte, n int) (face.Embedding, error) {
	var values []float64
	if err := json.Unmarshal(line, &values); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedFrame, n, err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return face.Embedding(values), nil
}

// ReadEmbeddings drains r and returns every face embedding in it, skipping
// frames without a face. A stream with no face at all is
// [face.ErrNoFaceDetected].
func ReadEmbeddings(r io.Reader) ([]face.Embedding, error) {
	src := NewStreamSource(r)

	var out []face.Embedding
	for {
		e, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if e != nil {
			out = append(out, e)
		}
	}

	if len(out) == 0 {
		return nil, face.ErrNoFaceDetected
	}
	return out, nil
}
