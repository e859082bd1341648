// Package domain defines the core business entities and their validation
// rules. Entities are plain structs; persistence and transport concerns
// live in the store and api packages.
package domain
