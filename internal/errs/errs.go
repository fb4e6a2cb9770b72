// Package errs defines the error types the API returns to clients.
//
// Every failed request ends up serialized as an HTTPError, so clients
// always receive the same envelope: a machine-readable code, a human
// message, optional field-level validation errors, and an optional
// client action hint.
package errs
