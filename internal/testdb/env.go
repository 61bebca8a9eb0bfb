//go:build integration

package testdb

import (
	"net/url"
	"os"
)

// databaseURLVars are checked in order for a test database URL.
var databaseURLVars = []string{"DATABASE_URL", "GRAMMAR_TEST_DB_URL", "GRAMMAR_DATABASE_URL"}

// GetTestDatabaseURL returns the first non-empty test database URL.
func GetTestDatabaseURL() string {
	for _, name := range databaseURLVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsIntegrationTestEnvironment reports whether a test database is configured.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// maskDatabaseURL hides the password of a database URL for logging.
func maskDatabaseURL(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		return dbURL
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
