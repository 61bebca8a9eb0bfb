package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/grammar-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	first := GetTraceID(ctx)
	assert.Len(t, first, 36)
	assert.NotEqual(t, first, GetTraceID(SetTraceID(context.Background())))
}

func TestUserIDFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		want   int64
		wantOK bool
	}{
		{"missing", context.Background(), 0, false},
		{"set", WithUserID(context.Background(), 42), 42, true},
		{"zero", WithUserID(context.Background(), 0), 0, false},
		{"wrong type", context.WithValue(context.Background(), UserIDContextKey, "42"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := UserIDFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type loginBody struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		fails   bool
	}{
		{name: "valid", body: `{"email":"a@b.pl","password":"x"}`},
		{name: "empty", body: ``, wantErr: ErrEmptyBody, fails: true},
		{name: "malformed", body: `{"email":`, fails: true},
		{name: "unknown field", body: `{"email":"a@b.pl","role":"admin"}`, fails: true},
		{name: "trailing data", body: `{"email":"a@b.pl"}{}`, fails: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v loginBody
			err := DecodeJSON(httptest.NewRecorder(), r, &v)
			if !tt.fails {
				require.NoError(t, err)
				assert.Equal(t, "a@b.pl", v.Email)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(loginBody{Email: "a@b.pl", Password: "x"}))
	assert.Error(t, ValidateRequest(loginBody{Email: "not-an-email", Password: "x"}))
	assert.Error(t, ValidateRequest(loginBody{Email: "a@b.pl"}))
}

func TestRespondWithError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/themes/1", nil)
	r = r.WithContext(SetTraceID(r.Context()))
	w := httptest.NewRecorder()

	RespondWithError(w, r, http.StatusNotFound, "not_found", "Theme not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Error: "Theme not found", Kind: "not_found", TraceID: GetTraceID(r.Context())}, body)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"server error logged as error", http.StatusInternalServerError, "ERROR"},
		{"client error logged as debug", http.StatusConflict, "DEBUG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, buf := logger.NewLogCaptureContext(t)
			r := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil).WithContext(SetTraceID(ctx))
			w := httptest.NewRecorder()
			err := errors.New("Key (email)=(anna@example.com) already exists")

			RespondWithErrorAndLog(w, r, tt.status, "kind", "Something went wrong", err)

			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), "anna@example.com")
			assert.NotContains(t, buf.String(), "anna@example.com")

			entries, parseErr := buf.GetLogEntries()
			require.NoError(t, parseErr)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0]["level"])
			assert.Equal(t, GetTraceID(r.Context()), entries[0]["trace_id"])
			assert.Contains(t, entries[0]["error"], "[REDACTED]")
		})
	}
}
