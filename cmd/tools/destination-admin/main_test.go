package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStoreConfig writes a config holding only the sheety settings; no
// search, flight API or notification keys are present.
func writeStoreConfig(t *testing.T, baseURL string) string {
	t.Helper()
	content := fmt.Sprintf(`
sheety:
  base_url: %s
  username: user1
  project: flightDeals
`, baseURL)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_ListWithStoreOnlyConfig(t *testing.T) {
	t.Setenv("KIWI_API_KEY", "")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user1/flightDeals/prices", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prices":[{"id":2,"city":"Paris","lowestPrice":54,"iataCode":"PAR"}]}`))
	}))
	defer server.Close()

	code := run([]string{"list", "-config", writeStoreConfig(t, server.URL)})

	assert.Equal(t, 0, code)
}

func TestRun_Add(t *testing.T) {
	var (
		mu   sync.Mutex
		sent map[string]map[string]interface{}
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		mu.Lock()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"price":{"id":11,"city":"Tokyo","lowestPrice":485,"iataCode":""}}`))
	}))
	defer server.Close()

	code := run([]string{"add", "-config", writeStoreConfig(t, server.URL), "-city", "Tokyo", "-price", "485"})

	assert.Equal(t, 0, code)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Tokyo", sent["price"]["city"])
	assert.Equal(t, float64(485), sent["price"]["lowestPrice"])
}

func TestRun_Failures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	cfgPath := writeStoreConfig(t, server.URL)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"drop"}},
		{name: "add without city", args: []string{"add", "-config", cfgPath, "-price", "10"}},
		{name: "store error", args: []string{"list", "-config", cfgPath}},
		{name: "migrate on sheety", args: []string{"migrate", "-config", cfgPath}},
		{name: "missing config", args: []string{"list", "-config", filepath.Join(t.TempDir(), "missing.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 1, run(tt.args))
		})
	}
}
