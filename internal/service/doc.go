// Package service contains the application use cases. It orchestrates the
// domain types, the store interfaces and the auth primitives to register and
// update users and to manage each user's tasks.
//
// Services receive their dependencies through constructor injection and never
// depend on a concrete store implementation. Expected failures are reported
// with the sentinel errors in errors.go; anything else is wrapped with %w so
// callers can still inspect it with errors.Is and errors.As.
package service
