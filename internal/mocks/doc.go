// Package mocks provides shared test doubles for the store and auth
// interfaces: stateful in-memory stores that honor the same contracts as
// the PostgreSQL implementations, a pass-through Transactor, and mocks for
// the credential services.
//
//	mem := mocks.NewMemory()
//	themes := mem.ThemeStore()
//	root := mem.AddTheme("Cases", nil)
package mocks
