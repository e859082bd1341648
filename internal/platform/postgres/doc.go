// Package postgres provides PostgreSQL implementations of the store
// interfaces. Row-level authorization is enforced in SQL: every statement
// that touches user-owned data carries a user_id predicate.
package postgres
