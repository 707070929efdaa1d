// Package middleware provides request-scoped plumbing shared by every
// route: request IDs, request-scoped loggers, and HTTP metrics.
package middleware

// contextKey is a private type for context keys to avoid collisions with
// other packages.
type contextKey string
