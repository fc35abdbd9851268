// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package face

import (
	"errors"
	"fmt"
	"os"

	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/MKhiriev/neuro-vault/internal/utils"
)

// BackupSuffix names the copy of the previous reference file kept on
// re-enrollment.
const BackupSuffix = ".backup"

// ReferenceStore persists the enrolled [EmbeddingSet] in a single file.
type ReferenceStore struct {
	path   string
	logger *logger.Logger
}

// NewReferenceStore returns a store for the file at path.
func NewReferenceStore(path string, log *logger.Logger) *ReferenceStore {
	if log == nil {
		log = logger.Nop()
	}
	return &ReferenceStore{path: path, logger: log}
}

// Path returns the reference file path.
func (s *ReferenceStore) Path() string { return s.path }

// Load reads the reference set. A missing file yields an empty set.
func (s *ReferenceStore) Load() (EmbeddingSet, error) {
	data, err := utils.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return EmbeddingSet{}, nil
	}
	if err != nil {
		return nil, err
	}

	var set EmbeddingSet
	if err = set.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return set, nil
}

// Save atomically writes set with owner-only permissions.
func (s *ReferenceStore) Save(set EmbeddingSet) error {
	data, err := set.MarshalBinary()
	if err != nil {
		return err
	}
	return utils.AtomicWriteFile(s.path, data, utils.OwnerOnly)
}

// Enroll replaces the reference set with embeddings. An existing reference
// file is first copied to <path>.backup, replacing an older backup.
func (s *ReferenceStore) Enroll(embeddings ...Embedding) error {
	set := make(EmbeddingSet, 0, len(embeddings))
	for _, e := range embeddings {
		if e != nil {
			set = append(set, e)
		}
	}
	if err := set.Validate(); err != nil {
		return err
	}

	if err := s.backupExisting(); err != nil {
		return err
	}
	if err := s.Save(set); err != nil {
		return err
	}

	s.logger.Info().
		Int("embeddings", len(set)).
		Int("dimension", set.Dimension()).
		Msg("reference face enrolled")
	return nil
}

func (s *ReferenceStore) backupExisting() error {
	exists, err := utils.Exists(s.path)
	if err != nil || !exists {
		return err
	}

	data, err := utils.ReadFile(s.path)
	if err != nil {
		return err
	}
	return utils.AtomicWriteFile(s.path+BackupSuffix, data, utils.OwnerOnly)
}

// ReferenceInfo summarises the enrolled set.
type ReferenceInfo struct {
	Path       string `json:"path"`
	Enrolled   bool   `json:"enrolled"`
	Embeddings int    `json:"embeddings"`
	Dimension  int    `json:"dimension"`
}

// Info loads the set and reports its shape.
func (s *ReferenceStore) Info() (ReferenceInfo, error) {
	set, err := s.Load()
	if err != nil {
		return ReferenceInfo{}, err
	}
	return ReferenceInfo{
		Path:       s.path,
		Enrolled:   len(set) > 0,
		Embeddings: len(set),
		Dimension:  set.Dimension(),
	}, nil
}
