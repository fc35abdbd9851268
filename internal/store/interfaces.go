// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store keeps the local audit trail of authentication decisions and
// vault operations in SQLite.
//
// The schema is managed by goose migrations embedded in the migrations
// package. Queries are built with squirrel using "?" placeholders.
package store

import (
	"context"

	"github.com/MKhiriev/neuro-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/audit_repository_mock.go -package=mock

// AuditRepository records and lists audit events.
type AuditRepository interface {
	// Record stores event. An empty ID and a zero CreatedAt are filled in.
	Record(ctx context.Context, event models.AuditEvent) error

	// List returns events matching filter, newest first.
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditEvent, error)
}
