// Package postgres provides PostgreSQL implementations of the store
// interfaces. It owns the SQL: statements, error mapping from pgconn codes to
// store errors, the task listing query builder and the embedded goose
// migrations.
package postgres
