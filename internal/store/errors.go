package store

import "errors"

// Sentinel errors surfaced by the record store. Callers match with
// errors.Is; wrapped variants carry the identifier or path involved.
var (
	// ErrNotFound means the database file does not exist.
	ErrNotFound = errors.New("database file not found")

	// ErrNotADatabase means the file exists but is not a SQLite database,
	// or lacks the CFS tables this editor needs.
	ErrNotADatabase = errors.New("not a CFS database")

	// ErrNoSuchTeam means no team row matches the given identifier.
	ErrNoSuchTeam = errors.New("no such team")

	// ErrNoSuchStaff means no staff row matches the given identifier.
	ErrNoSuchStaff = errors.New("no such staff")

	// ErrNoSuchField means the field is not editable in this database,
	// e.g. reputation on a save version without the TeamReputation column.
	ErrNoSuchField = errors.New("no such field")

	// ErrConstraint means SQLite rejected the update.
	ErrConstraint = errors.New("constraint violation")
)
