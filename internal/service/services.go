package service

import (
	"fmt"

	"github.com/MKhiriev/neuro-vault/internal/config"
	"github.com/MKhiriev/neuro-vault/internal/crypto"
	"github.com/MKhiriev/neuro-vault/internal/face"
	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/MKhiriev/neuro-vault/internal/store"
	"github.com/MKhiriev/neuro-vault/internal/vault"
)

// Services aggregates the application services built from one config.
type Services struct {
	Authenticator Authenticator
	Enrollment    EnrollmentService
	Vault         VaultService

	// Keys is exposed for key generation, derivation and recovery.
	Keys *crypto.KeyManager
	// Audit lists recorded events.
	Audit store.AuditRepository
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	kdf, err := cfg.Security.KDFParams()
	if err != nil {
		return nil, err
	}

	keys, err := crypto.NewKeyManager(cfg.Paths.KeyFile, cfg.Paths.SaltFile, logger,
		crypto.WithKDF(kdf),
		crypto.WithShredPasses(cfg.Security.ShredPasses),
	)
	if err != nil {
		return nil, fmt.Errorf("init key manager: %w", err)
	}

	refs := face.NewReferenceStore(cfg.Paths.EncodingsFile, logger)
	v := vault.New(keys, cfg.Paths.DataFile,
		vault.WithShredPasses(cfg.Security.ShredPasses),
		vault.WithLogger(logger),
	)

	authenticator, err := NewAuthenticator(refs, storages.AuditRepository, cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("init authenticator: %w", err)
	}

	return &Services{
		Authenticator: authenticator,
		Enrollment:    NewEnrollmentService(refs, cfg.Paths.ReferenceImage, storages.AuditRepository, logger),
		Vault:         NewVaultService(v, keys, refs, cfg.Security.BackupRetention, storages.AuditRepository, logger),
		Keys:          keys,
		Audit:         storages.AuditRepository,
	}, nil
}
