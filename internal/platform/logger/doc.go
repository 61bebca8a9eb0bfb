// Package logger provides structured JSON logging on top of log/slog, with
// request-scoped loggers carried through context.Context.
package logger
