//go:build integration

// Package testdb provides helpers for database integration tests: locating
// the test database, applying the schema once, and running each test in a
// transaction that is always rolled back.
package testdb
