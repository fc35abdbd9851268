package service

import (
	"context"

	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/MKhiriev/neuro-vault/internal/store"
	"github.com/MKhiriev/neuro-vault/models"
)

// auditor writes audit events and swallows their failures.
type auditor struct {
	repo   store.AuditRepository
	logger *logger.Logger
}

func newAuditor(repo store.AuditRepository, log *logger.Logger) auditor {
	if repo == nil {
		repo = store.NewNopAuditRepository()
	}
	return auditor{repo: repo, logger: log}
}

func (a auditor) record(ctx context.Context, event models.AuditEvent) {
	// the operation may have been cut short by ctx; the trail should still
	// show the attempt
	if err := a.repo.Record(context.WithoutCancel(ctx), event); err != nil {
		a.logger.Warn().Err(err).
			Str("func", "auditor.record").
			Str("operation", event.Operation).
			Msg("audit event not recorded")
	}
}

// result records op with a success or failure outcome depending on err.
func (a auditor) result(ctx context.Context, op string, err error, detail string) {
	event := models.AuditEvent{Operation: op, Outcome: models.OutcomeSuccess, Detail: detail}
	if err != nil {
		event.Outcome = models.OutcomeFailure
		event.Reason = err.Error()
	}
	a.record(ctx, event)
}
