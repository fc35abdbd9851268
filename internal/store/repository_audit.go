// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/MKhiriev/neuro-vault/internal/utils"
	"github.com/MKhiriev/neuro-vault/models"
)

// auditRepository is the SQLite-backed implementation of [AuditRepository].
type auditRepository struct {
	*DB
	now    func() time.Time
	logger *logger.Logger
}

// NewAuditRepository constructs an [AuditRepository] over db.
func NewAuditRepository(db *DB, log *logger.Logger) AuditRepository {
	return &auditRepository{
		DB:     db,
		now:    time.Now,
		logger: log,
	}
}

// Record implements [AuditRepository].
func (a *auditRepository) Record(ctx context.Context, event models.AuditEvent) error {
	log := logger.FromContext(ctx)

	if event.ID == "" {
		event.ID = utils.NewID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = a.now()
	}

	query, args, err := buildInsertAuditEventQuery(event)
	if err != nil {
		log.Err(err).
			Str("func", "auditRepository.Record").
			Str("operation", event.Operation).
			Msg("failed to create query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := a.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "auditRepository.Record").
			Str("operation", event.Operation).
			Msg("failed to insert audit event")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrAuditEventNotSaved
	}

	return nil
}

// List implements [AuditRepository].
func (a *auditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditEvent, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListAuditEventsQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "auditRepository.List").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := a.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "auditRepository.List").
			Str("operation", filter.Operation).
			Msg("failed to execute query for listing audit events")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.AuditEvent, 0, 50)

	for rows.Next() {
		var (
			e         models.AuditEvent
			createdAt string
		)

		scanErr := rows.Scan(
			&e.ID,
			&e.SessionID,
			&e.Operation,
			&e.Outcome,
			&e.Reason,
			&e.Attempts,
			&e.Detail,
			&createdAt,
		)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "auditRepository.List").Msg("failed to scan audit event row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		if e.CreatedAt, scanErr = time.Parse(createdAtLayout, createdAt); scanErr != nil {
			return nil, fmt.Errorf("%w: created_at %q: %w", ErrScanningRow, createdAt, scanErr)
		}

		results = append(results, e)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "auditRepository.List").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// nopAuditRepository discards events. It is used when no audit database is
// configured.
type nopAuditRepository struct{}

// NewNopAuditRepository returns an [AuditRepository] that records nothing
// and lists no events.
func NewNopAuditRepository() AuditRepository {
	return nopAuditRepository{}
}

func (nopAuditRepository) Record(context.Context, models.AuditEvent) error { return nil }

func (nopAuditRepository) List(context.Context, models.AuditFilter) ([]models.AuditEvent, error) {
	return nil, nil
}
