// Package store defines the persistence contracts for users, themes,
// sentences and progress. Implementations live under internal/platform.
package store
