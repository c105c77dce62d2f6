// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// The store, not the application, is the final arbiter of email uniqueness
// and of task ownership: implementations must scope every task statement by
// owner and report unique violations as ErrEmailExists.
package store
