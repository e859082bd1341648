// Package store defines the persistence interfaces and shared database
// abstractions. Implementations live under internal/platform.
package store
