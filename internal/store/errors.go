package store

import "errors"

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan audit event row")

	// ErrScanningRows is returned when iterating a result set fails
	// mid-way.
	ErrScanningRows = errors.New("failed to scan audit event rows")

	// ErrAuditEventNotSaved is returned when an INSERT reports zero affected
	// rows.
	ErrAuditEventNotSaved = errors.New("audit event was not saved")
)
