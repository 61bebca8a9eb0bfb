// Package redact strips credentials, personal data and storage internals
// from error text before it is logged. Client-facing messages never carry
// raw error text at all; this package protects the logs.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	Placeholder           = "[REDACTED]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	PathPlaceholder       = "[REDACTED_PATH]"
	StackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; earlier rules may leave text later rules rely on
// not matching.
var rules = []rule{
	// Postgres constraint detail, e.g. `Key (email)=(anna@example.com)`.
	{regexp.MustCompile(`(?i)(key \([^)]*\)=\()[^)]*(\))`), "${1}" + Placeholder + "${2}"},
	{regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mysql|mongodb)://[^@\s]+@`), "${1}://" + CredentialPlaceholder + "@"},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), JWTPlaceholder},
	{regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.~+/=]{8,}`), "Bearer " + TokenPlaceholder},
	{regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret)=\S+`), "${1}=" + CredentialPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), EmailPlaceholder},
	{regexp.MustCompile(`(?i)\b(?:SELECT|INSERT INTO|UPDATE|DELETE FROM)\b[^;]*`), SQLPlaceholder},
	{regexp.MustCompile(`goroutine \d+ \[[^\]]*\]:[\s\S]*`), StackPlaceholder},
	{regexp.MustCompile(`(?:/[\w.-]+){2,}`), PathPlaceholder},
}

// String redacts sensitive fragments of input.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.pattern.ReplaceAllString(input, r.replacement)
	}
	return input
}

// Error redacts the text of err. A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
