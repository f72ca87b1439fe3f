// Package client contains the client side of the job tracker API.
//
// # Overview
//
// The package provides:
//  1. The Client contract: register, login, the four list queries, create,
//     update, delete and stats. Each call is a single request/response with
//     no retries.
//  2. HTTPClient, the JSON-over-HTTP implementation. Every job call carries
//     the acting user's id (X-User-Id header and userId parameter) and the
//     bearer token taken from a TokenSource.
//  3. HealthProbe, a gRPC health-check client used by the CLI to decide
//     whether it is online.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) wiring SQLite
//     and the embedded goose migrations.
//
// # Error Handling
//
// HTTP and gRPC failures are mapped onto sentinel errors that callers match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrConflict,
// ErrBadRequest.
package client
