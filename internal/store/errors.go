package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrCredentialNotFound is returned when a query, update, or delete
	// targets a credential (identified by id and owner_id) that does not
	// exist. Owner mismatches deliberately map to the same error so that a
	// caller cannot distinguish "someone else's entry" from "no entry".
	ErrCredentialNotFound = errors.New("credential was not found")

	// ErrVersionConflict is returned when a guarded update affects zero rows
	// because another writer modified the credential after the caller last
	// read it. The caller must re-read before retrying.
	ErrVersionConflict = errors.New("credential version conflict occurred")

	// ErrOwnerUnknown is returned when a credential insert references an
	// owner that has no users row yet.
	ErrOwnerUnknown = errors.New("owner is not registered")

	// ErrUserUnknown is returned when a preference write targets a user
	// that has no users row yet.
	ErrUserUnknown = errors.New("user is not registered")

	// ErrUnsupportedField is returned when an update names a column other
	// than the two editable ciphertext columns.
	ErrUnsupportedField = errors.New("unsupported field for update")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommittingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommittingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")
)
