// Package api is the HTTP edge of the service. Handlers decode and validate
// requests, call the services and translate their errors into status codes
// and safe client messages in one place (errors.go).
package api
