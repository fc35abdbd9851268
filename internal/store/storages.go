package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/neuro-vault/internal/logger"
)

// Storages groups the repositories and owns their connection.
type Storages struct {
	AuditRepository AuditRepository

	db *DB
}

// NewStorages connects to the audit database at dsn and migrates it. An
// empty dsn disables auditing.
func NewStorages(ctx context.Context, dsn string, log *logger.Logger) (*Storages, error) {
	if dsn == "" {
		return &Storages{AuditRepository: NewNopAuditRepository()}, nil
	}

	db, err := NewConnectSQLite(ctx, dsn, log)
	if err != nil {
		return nil, err
	}
	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate audit database: %w", err)
	}

	return &Storages{
		AuditRepository: NewAuditRepository(db, log),
		db:              db,
	}, nil
}

// Close closes the database connection, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
