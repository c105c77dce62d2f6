// Package domain contains the core business entities of the task manager:
// users with their public projection, and tasks owned by a single user.
// It has no knowledge of storage or transport.
package domain
