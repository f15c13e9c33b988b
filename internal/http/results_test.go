package http

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsController_GetRecord(t *testing.T) {
	env := setupTestEnv(t)
	env.addSampleBook(t)
	router := newTestRouter(env.routerConfig())

	t.Run("serves a stored record", func(t *testing.T) {
		w := get(router, "/results/9780134757599.json")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.Contains(t, w.Body.String(), `"title": "Refactoring"`)
	})

	t.Run("unknown file", func(t *testing.T) {
		w := get(router, "/results/0000000000.json")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("refuses traversal", func(t *testing.T) {
		outside := filepath.Join(filepath.Dir(env.records.Dir), "secret.json")
		require.NoError(t, os.WriteFile(outside, []byte(`{"secret":true}`), 0644))

		w := get(router, "/results/..%2Fsecret.json")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotContains(t, w.Body.String(), "secret")
	})
}
