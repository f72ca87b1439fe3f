// Package common contains shared constants and sentinel errors used across
// the job tracker client and server.
package common

// UserIDHeaderName carries the acting user's id on every job request.
const UserIDHeaderName = "X-User-Id"

// UserIDParamName is the query parameter twin of UserIDHeaderName.
const UserIDParamName = "userId"

// AuthorizationHeaderName carries the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// HealthServiceName is the service name registered with the gRPC health server.
const HealthServiceName = "jobtracker.Jobs"

// RequestIDHeaderName correlates a request with its server log line.
const RequestIDHeaderName = "X-Request-Id"
