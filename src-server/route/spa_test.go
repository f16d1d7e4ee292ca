package route_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"calboard/src-server/route"
	"calboard/src-server/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSPAFallbackConcurrent(t *testing.T) {
	dir := t.TempDir()
	indexBody := "<!DOCTYPE html><title>calboard</title>"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(indexBody), 0o644))
	t.Setenv("STATIC_WEB_CLIENT_DIR", dir)

	as := &utils.AppState{Config: utils.NewConfig()}
	muxer := http.NewServeMux()
	route.SPA(muxer, as)

	// every unknown path must get the full index body, even when the
	// fallback is hit by many requests at once
	const workers = 16
	bodies := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/no-such-page-%d", i), nil)
			recorder := httptest.NewRecorder()
			muxer.ServeHTTP(recorder, req)
			bodies[i] = recorder.Body.String()
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		assert.Equal(t, indexBody, bodies[i])
	}
}

func TestSPAServesExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<!DOCTYPE html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.js"), []byte("// client"), 0o644))
	t.Setenv("STATIC_WEB_CLIENT_DIR", dir)

	as := &utils.AppState{Config: utils.NewConfig()}
	muxer := http.NewServeMux()
	route.SPA(muxer, as)

	recorder := httptest.NewRecorder()
	muxer.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/main.js", nil))
	assert.Equal(t, "// client", recorder.Body.String())
}
