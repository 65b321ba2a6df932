// Package sqlerr normalizes low-level database errors.
//
// It converts pgx/pgconn errors (SQLSTATE codes, constraint
// violations) into application-level errors with machine-readable
// codes and user-friendly messages, so the service and handler layers
// never have to inspect driver errors directly.
package sqlerr
