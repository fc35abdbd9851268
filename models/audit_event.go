package models

import "time"

// Audit operations.
const (
	OpAuthenticate = "authenticate"
	OpEnroll       = "enroll"
	OpNotesRead    = "notes_read"
	OpNotesSave    = "notes_save"
	OpBackup       = "backup"
	OpRestore      = "restore"
	OpRotateKey    = "rotate_key"
	OpVerify       = "verify"
	OpShred        = "shred"
)

// Audit outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// AuditEvent is one row of the local audit trail.
type AuditEvent struct {
	ID        string
	SessionID string
	Operation string
	Outcome   string
	Reason    string
	Attempts  int
	Detail    string
	CreatedAt time.Time
}

// AuditFilter narrows an audit listing. Zero values mean "no filter".
type AuditFilter struct {
	Operation string
	Since     time.Time
	Limit     uint64
}
