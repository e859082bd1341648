// Package mocks provides mock implementations of the application's service
// and store interfaces for testing.
package mocks
