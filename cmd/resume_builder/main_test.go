package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/store"
)

// startAPI serves the REST API over in-memory stores.
func startAPI(t *testing.T) string {
	t.Helper()
	logger, _ := test.NewNullLogger()
	limiter := ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	t.Cleanup(limiter.Stop)
	s, err := server.New(config.ServerConfig{ShutdownTimeout: time.Second}, server.Deps{
		Users:     server.NewMemoryUsers(),
		Resumes:   store.NewMemory(),
		JWT:       &config.JWTConfig{Secret: "cli-test-secret-cli-test-secret", ExpirationHours: 1},
		Passwords: &config.PasswordConfig{BcryptCost: bcrypt.MinCost},
		Limiter:   limiter,
		Logger:    logger,
	})
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return strings.TrimSpace(buf.String()), err
}

func TestClientCommands(t *testing.T) {
	t.Setenv("RESUME_TOKEN", "")
	t.Setenv("RESUME_PASSWORD", "")
	api := startAPI(t)

	token, err := run(t, "--api", api, "--token", "", "register",
		"--name", "Grace Hopper", "--email", "grace@example.com", "--password", "cobol-forever")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Setenv("RESUME_PASSWORD", "cobol-forever")
	loginToken, err := run(t, "--api", api, "login", "--email", "grace@example.com", "--password", "")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)

	out, err := run(t, "--api", api, "--token", token, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Grace Hopper <grace@example.com>")

	id, err := run(t, "--api", api, "--token", token, "create", "--title", "Navy CV", "--template", "Classic")
	require.NoError(t, err)
	_, err = parseResumeID(id)
	require.NoError(t, err)

	out, err = run(t, "--api", api, "--token", token, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Grace Hopper: 1 resumes, 0 downloads, 0 completed, 1 in progress")
	assert.Contains(t, out, "Navy CV")
	assert.Contains(t, out, "Classic")

	dir := t.TempDir()
	out, err = run(t, "--api", api, "--token", token, "export", id, "--format", "json", "--out", dir)
	require.NoError(t, err)
	path := filepath.Join(dir, "my-resume.json")
	assert.Equal(t, path, out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"personal"`)

	out, err = run(t, "--api", api, "--token", token, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 downloads")

	out, err = run(t, "--api", api, "--token", token, "delete", id)
	require.NoError(t, err)
	assert.Equal(t, "deleted "+id, out)

	_, err = run(t, "--api", api, "--token", token, "export", id, "--format", "txt", "--out", dir)
	assert.ErrorContains(t, err, "resume not found")

	_, err = run(t, "--api", api, "--token", token, "password", "--current", "cobol-forever", "--new", "fortran-forever")
	require.NoError(t, err)
	_, err = run(t, "--api", api, "login", "--email", "grace@example.com", "--password", "cobol-forever")
	assert.ErrorContains(t, err, "failed to log in")
}

func TestClientCommandErrors(t *testing.T) {
	t.Setenv("RESUME_TOKEN", "")
	t.Setenv("RESUME_PASSWORD", "")
	api := startAPI(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no token", []string{"--api", api, "--token", "", "list"}, "not signed in"},
		{"bad id", []string{"--api", api, "--token", "t", "delete", "nope"}, `invalid resume id "nope"`},
		{"bad format", []string{"--api", api, "--token", "t", "export", "8b9c4f0e-7a51-4b8a-9f55-2f3f0f1f6a10", "--format", "odt"}, "unsupported export format"},
		{"short password", []string{"--api", api, "register", "--name", "A", "--email", "a@example.com", "--password", "short"}, "invalid registration"},
		{"missing password", []string{"--api", api, "login", "--email", "a@example.com", "--password", ""}, "a password is required"},
		{"bad api url", []string{"--api", "localhost", "--token", "t", "list"}, "invalid API URL"},
		{"rejected token", []string{"--api", api, "--token", "forged", "list"}, "401"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
