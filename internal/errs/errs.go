// Package errs defines custom error types and utilities.
//
// Its purpose is to give API clients meaningful, actionable, and
// consistent error messages:
//
//   - Return consistent error shapes to API clients (JSON).
//   - Support field-level validation errors.
//   - Support "action hints" (like redirect) that frontends can interpret.
//   - Provide errors that play nicely with Go's standard errors package.
package errs
