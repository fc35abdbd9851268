package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/MKhiriev/neuro-vault/internal/face"
	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/MKhiriev/neuro-vault/internal/store"
	"github.com/MKhiriev/neuro-vault/internal/utils"
	"github.com/MKhiriev/neuro-vault/internal/validators"
	"github.com/MKhiriev/neuro-vault/models"
)

type enrollmentService struct {
	refs           *face.ReferenceStore
	referenceImage string

	validator validators.Validator

	audit  auditor
	logger *logger.Logger
}

// NewEnrollmentService returns an EnrollmentService writing to refs and
// copying enrollment photos to referenceImage. An empty referenceImage
// disables the copy.
func NewEnrollmentService(refs *face.ReferenceStore, referenceImage string, audit store.AuditRepository, log *logger.Logger) EnrollmentService {
	return &enrollmentService{
		refs:           refs,
		referenceImage: referenceImage,
		validator:      validators.NewInputValidator(),
		audit:          newAuditor(audit, log),
		logger:         log,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, embeddings []face.Embedding, imagePath string) (info face.ReferenceInfo, err error) {
	defer func() {
		s.audit.result(ctx, models.OpEnroll, err, "embeddings="+strconv.Itoa(info.Embeddings))
	}()

	if err = ctx.Err(); err != nil {
		return face.ReferenceInfo{}, err
	}

	if err = s.validator.Validate(ctx, embeddings); err != nil {
		return face.ReferenceInfo{}, err
	}

	if err = s.refs.Enroll(embeddings...); err != nil {
		return face.ReferenceInfo{}, fmt.Errorf("enroll reference face: %w", err)
	}

	if imagePath != "" && s.referenceImage != "" {
		if err = s.storeImage(imagePath); err != nil {
			return face.ReferenceInfo{}, err
		}
	}

	return s.refs.Info()
}

func (s *enrollmentService) Reference(ctx context.Context) (face.ReferenceInfo, error) {
	if err := ctx.Err(); err != nil {
		return face.ReferenceInfo{}, err
	}
	return s.refs.Info()
}

// storeImage copies src over the reference image, keeping the previous image
// as <image>.backup.
func (s *enrollmentService) storeImage(src string) error {
	data, err := utils.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read enrollment image: %w", err)
	}

	old, err := utils.ReadFile(s.referenceImage)
	switch {
	case err == nil:
		if err = utils.AtomicWriteFile(s.referenceImage+face.BackupSuffix, old, utils.OwnerOnly); err != nil {
			return err
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	if err = utils.AtomicWriteFile(s.referenceImage, data, utils.OwnerOnly); err != nil {
		return err
	}

	s.logger.Info().Str("path", s.referenceImage).Msg("reference image stored")
	return nil
}
