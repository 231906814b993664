package profilescraper

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scraper.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestCommandScraper_Scrape(t *testing.T) {
	script := writeScript(t, `cat <<JSON
{"username":"$1","ranking":1200,"total_problems_solved":310,"contribution_points":55,
 "acceptance_rate":61.5,"country":"India","languages":[{"name":"Go","solved":120}],
 "badges":[],"profile_info":{"avatar":"a.png","name":"Asha","company":"","school":"NIT","websites":[]}}
JSON`)

	s := NewCommandScraper("sh", []string{script}, 5*time.Second)
	p, err := s.Scrape(context.Background(), "asha_codes")
	require.NoError(t, err)

	assert.Equal(t, "asha_codes", p.Username)
	assert.Equal(t, 310, p.TotalProblemsSolved)
	assert.Equal(t, []Language{{Name: "Go", Solved: 120}}, p.Languages)
	assert.Equal(t, "NIT", p.ProfileInfo.School)
}

func TestCommandScraper_Errors(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		username string
		timeout  time.Duration
		wantErr  error
	}{
		{name: "user missing", script: `echo '{"error":"User not found"}'`, username: "ghost", wantErr: ErrProfileNotFound},
		{name: "non-zero exit", script: `echo boom >&2; exit 3`, username: "asha", wantErr: ErrScraperFailed},
		{name: "garbage output", script: `echo not-json`, username: "asha", wantErr: ErrScraperFailed},
		{name: "timeout", script: `exec sleep 5`, username: "asha", timeout: 100 * time.Millisecond, wantErr: ErrScraperFailed},
		{name: "flag injection", script: `echo '{}'`, username: "--help", wantErr: ErrInvalidUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeout := tt.timeout
			if timeout == 0 {
				timeout = 5 * time.Second
			}
			s := NewCommandScraper("sh", []string{writeScript(t, tt.script)}, timeout)

			_, err := s.Scrape(context.Background(), tt.username)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
