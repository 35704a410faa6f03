// Package common contains shared constants and sentinel errors used across
// notekeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key carrying the access token.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName is the HTTP header echoing the per-request id.
const RequestIDHeaderName = "X-Request-ID"
