package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/neuro-vault/models"
)

const auditEventsTable = "audit_events"

// createdAtLayout is fixed-width so that lexical order is time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

var auditEventColumns = []string{
	"id",
	"session_id",
	"operation",
	"outcome",
	"reason",
	"attempts",
	"detail",
	"created_at",
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func formatCreatedAt(t time.Time) string {
	return t.UTC().Format(createdAtLayout)
}

func buildInsertAuditEventQuery(e models.AuditEvent) (string, []any, error) {
	return builder.
		Insert(auditEventsTable).
		Columns(auditEventColumns...).
		Values(
			e.ID,
			e.SessionID,
			e.Operation,
			e.Outcome,
			e.Reason,
			e.Attempts,
			e.Detail,
			formatCreatedAt(e.CreatedAt),
		).
		ToSql()
}

func buildListAuditEventsQuery(f models.AuditFilter) (string, []any, error) {
	q := builder.
		Select(auditEventColumns...).
		From(auditEventsTable).
		OrderBy("created_at DESC", "id DESC")

	if f.Operation != "" {
		q = q.Where(sq.Eq{"operation": f.Operation})
	}
	if !f.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": formatCreatedAt(f.Since)})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	return q.ToSql()
}
