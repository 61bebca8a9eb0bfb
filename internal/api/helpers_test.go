package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/grammar-api/internal/api/middleware"
	"github.com/phrazzld/grammar-api/internal/api/shared"
	"github.com/phrazzld/grammar-api/internal/config"
	"github.com/phrazzld/grammar-api/internal/mocks"
	"github.com/phrazzld/grammar-api/internal/platform/logger"
	"github.com/phrazzld/grammar-api/internal/service"
	"github.com/phrazzld/grammar-api/internal/service/auth"
	"github.com/phrazzld/grammar-api/internal/service/progress"
	"github.com/phrazzld/grammar-api/internal/service/sequencer"
	"github.com/stretchr/testify/require"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:                   "test-secret-that-is-at-least-32-characters",
	TokenLifetimeMinutes:        60,
	RefreshTokenLifetimeMinutes: 1440,
	BCryptCost:                  4,
}

// testEnv wires the handlers to in-memory stores behind a router shaped
// like the production one.
type testEnv struct {
	mem    *mocks.Memory
	jwt    auth.JWTService
	router chi.Router
}

func newTestEnv(t *testing.T, trackerOpts ...progress.Option) *testEnv {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	mem := mocks.NewMemory()
	tx := &mocks.MockTransactor{}
	hasher := &mocks.MockPasswordHasher{}

	jwtService, err := auth.NewJWTService(testAuthConfig)
	require.NoError(t, err)

	users := service.NewUserService(mem.UserStore(), hasher, hasher, tx, log)
	themes := service.NewThemeService(mem.ThemeStore(), mem.ProgressStore(), tx, log)
	sentences := service.NewSentenceService(mem.ThemeStore(), mem.SentenceStore(), tx, log)
	seq := sequencer.NewService(mem.ThemeStore(), mem.SentenceStore(), mem.ProgressStore(), log)
	tracker := progress.NewTracker(mem.ThemeStore(), mem.SentenceStore(), mem.ProgressStore(), tx, log, trackerOpts...)

	authHandler := NewAuthHandler(users, jwtService, &testAuthConfig, log)
	themeHandler := NewThemeHandler(themes, seq, tracker, log)
	sentenceHandler := NewSentenceHandler(sentences, seq, log)
	progressHandler := NewProgressHandler(tracker, log)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, mem.UserStore())

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(log))
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Get("/sentences/random", sentenceHandler.Random)
		r.Post("/sentences/verify", sentenceHandler.Verify)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/themes", themeHandler.ListRootThemes)
			r.Post("/themes", themeHandler.CreateTheme)
			r.Get("/themes/{id}/subthemes", themeHandler.ListSubthemes)
			r.Get("/themes/{id}/sentences", themeHandler.ListSentences)
			r.Get("/themes/{id}/next-sentence", themeHandler.NextSentence)
			r.Get("/themes/{id}/progress", themeHandler.GetProgress)
			r.Post("/themes/{id}/progress/reset", themeHandler.ResetProgress)
			r.Post("/sentences", sentenceHandler.Create)
			r.Get("/progress", progressHandler.ListProgress)
			r.Post("/progress", progressHandler.RecordCompletion)
		})
	})

	return &testEnv{mem: mem, jwt: jwtService, router: r}
}

// user stores a user and returns an access token for it.
func (e *testEnv) user(t *testing.T, email string) (int64, string) {
	t.Helper()
	u := e.mem.AddUser(email, "hashed:password123")
	token, err := e.jwt.GenerateToken(context.Background(), u.ID)
	require.NoError(t, err)
	return u.ID, token
}

// do sends a request with an optional JSON body and bearer token.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireErrorResponse(t *testing.T, rec *httptest.ResponseRecorder, status int, kind string) shared.ErrorResponse {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	resp := decodeBody[shared.ErrorResponse](t, rec)
	require.Equal(t, kind, resp.Kind)
	require.NotEmpty(t, resp.Error)
	require.NotEmpty(t, resp.TraceID)
	return resp
}

func ptr[T any](v T) *T { return &v }
