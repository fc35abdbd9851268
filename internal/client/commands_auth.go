package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/neuro-vault/internal/adapter"
	"github.com/MKhiriev/neuro-vault/internal/face"
)

func (a *App) enrollCommand() *cobra.Command {
	var (
		embeddingsPath string
		imagePath      string
		samples        int
	)

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Enroll the reference face",
		Long: "Enroll the reference face from a JSON-lines embeddings file (--embeddings, \"-\" for stdin) " +
			"or, without it, from the configured capture source. Replacing an enrolled face requires " +
			"face authentication against it first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := a.services.Enrollment.Reference(cmd.Context())
			if err != nil {
				return err
			}
			if ref.Enrolled {
				if err = a.authenticate(cmd); err != nil {
					return err
				}
			}

			var embeddings []face.Embedding
			if embeddingsPath != "" {
				embeddings, err = readEmbeddingsFile(cmd, embeddingsPath)
			} else {
				embeddings, err = a.captureEmbeddings(cmd.Context(), samples)
			}
			if err != nil {
				return err
			}

			info, err := a.services.Enrollment.Enroll(cmd.Context(), embeddings, imagePath)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "enrolled %d embedding(s) of dimension %d\n", info.Embeddings, info.Dimension)
			return nil
		},
	}
	cmd.Flags().StringVar(&embeddingsPath, "embeddings", "", `JSON-lines embeddings file, "-" for stdin`)
	cmd.Flags().StringVar(&imagePath, "image", "", "Enrollment photo to keep as the reference image")
	cmd.Flags().IntVar(&samples, "samples", 1, "Faces to collect from the capture source")

	return cmd
}

func readEmbeddingsFile(cmd *cobra.Command, path string) ([]face.Embedding, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != adapter.StdinPath {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open embeddings: %w", err)
		}
		defer f.Close()
		r = f
	}
	return adapter.ReadEmbeddings(r)
}

// captureEmbeddings collects samples face embeddings from the capture source
// within the authentication timeout.
func (a *App) captureEmbeddings(ctx context.Context, samples int) ([]face.Embedding, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Auth.Timeout)
	defer cancel()

	src, err := adapter.Open(ctx, adapter.SourceConfig{
		Command: a.cfg.Capture.CommandArgs(),
		File:    a.cfg.Capture.FramesFile,
	}, a.log)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var out []face.Embedding
	for len(out) < max(samples, 1) {
		e, err := src.Next(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, context.DeadlineExceeded) {
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

func (a *App) unlockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Run face authentication and report the decision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.authenticate(cmd)
		},
	}
}
