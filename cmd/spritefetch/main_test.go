package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ligustah/spritefetch/internal/logger"
)

// spriteServer serves a fixed set of sprites and 404s everything else.
func spriteServer(t *testing.T, sprites map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := sprites[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// writeCSV writes a pokedex CSV where each row is name, type, sprite path on
// server. An empty path leaves the sprite column blank.
func writeCSV(t *testing.T, server *httptest.Server, rows [][3]string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Pokemon,Type1,Sprite\n")
	for _, row := range rows {
		sprite := ""
		if row[2] != "" {
			sprite = server.URL + row[2]
		}
		fmt.Fprintf(&b, "%s,%s,%s\n", row[0], row[1], sprite)
	}
	path := filepath.Join(t.TempDir(), "pokedex.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestRunUsage(t *testing.T) {
	logger.ConfigureTestLogging(t)

	tests := []struct {
		args []string
		want int
	}{
		{nil, ExitInvalidArgs},
		{[]string{"help"}, ExitSuccess},
		{[]string{"--help"}, ExitSuccess},
		{[]string{"upload"}, ExitInvalidArgs},
		{[]string{"pool"}, ExitInvalidArgs},
		{[]string{"pool", "-h"}, ExitSuccess},
		{[]string{"pool", "-no-such-flag", "out", "in.csv"}, ExitInvalidArgs},
		{[]string{"validate", "out"}, ExitInvalidArgs},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%q) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}
