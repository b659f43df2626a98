package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alkime/notes/internal/config"
	"github.com/alkime/notes/internal/note"
	"github.com/alkime/notes/internal/server"
	"github.com/alkime/notes/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:        "test",
		Port:       "8080",
		HSTSMaxAge: 31536000,
		CSPMode:    "relaxed",
		LogLevel:   "info",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := server.New(testConfig(), testLogger(), store.NewMemory())

	w := do(t, srv.Router(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), "notes")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestNotesAPI(t *testing.T) {
	notes := store.NewMemory()
	h := server.New(testConfig(), testLogger(), notes).Router()

	t.Run("empty list", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/v1/notes", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"notes":[]}`, w.Body.String())
	})

	t.Run("create", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/v1/notes", `{"content":"buy milk"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var created note.Note
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "buy milk", created.Content)
		assert.False(t, created.CreatedAt.IsZero())

		w = do(t, h, http.MethodGet, "/api/v1/notes", "")
		require.Equal(t, http.StatusOK, w.Code)

		var list struct {
			Notes []note.Note `json:"notes"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list.Notes, 1)
		assert.Equal(t, created.ID, list.Notes[0].ID)
	})

	t.Run("empty note", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/v1/notes", `{"content":""}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"empty note"}`, w.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/v1/notes", `{"content":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>notes</h1>"), 0o600))

	cfg := testConfig()
	cfg.PublicDir = dir
	h := server.New(cfg, testLogger(), store.NewMemory()).Router()

	w := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>notes</h1>")

	w = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/missing.txt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
