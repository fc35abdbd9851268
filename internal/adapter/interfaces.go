// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter connects neuro-vault to the external face capture
// pipeline.
//
// Camera handling and the embedding model live outside this program. They
// reach it as a stream of JSON lines, one per frame: an array of floats for
// a detected face, null or [] for a frame without one. [StreamSource] reads
// such a stream from any reader and [CommandSource] runs the capture program
// and reads its stdout.
//
// Start failures and abnormal exits are reported as [ErrCaptureUnavailable]
// so that callers can use [errors.Is] regardless of the source.
package adapter

import (
	"context"

	"github.com/MKhiriev/neuro-vault/internal/face"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/frame_source_mock.go -package=mock

// FrameSource yields one embedding per captured frame.
type FrameSource interface {
	// Next blocks until the next frame is available. A nil embedding with a
	// nil error means the frame held no face. io.EOF means the source is
	// exhausted.
	Next(ctx context.Context) (face.Embedding, error)

	// Close releases the source. It is safe to call more than once.
	Close() error
}
