package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/hcl_adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../../testdata/lifecareplus"

func newTestApp(t *testing.T, cfg Config) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	return NewApp(out, logs, appConfig, hcl_adapter.NewLoader()), out, logs
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		expectedErr string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			cfg:  Config{Paths: []string{"."}},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "text", cfg.LogFormat)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "text", cfg.Format)
			},
		},
		{
			name:  "normalizes case",
			cfg:   Config{Paths: []string{"."}, LogFormat: "JSON", LogLevel: "Debug", Format: "YML"},
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "yaml", cfg.Format) },
		},
		{name: "no paths", cfg: Config{}, expectedErr: "at least one configuration path"},
		{name: "blank path", cfg: Config{Paths: []string{" "}}, expectedErr: "cannot be empty"},
		{name: "bad log format", cfg: Config{Paths: []string{"."}, LogFormat: "xml"}, expectedErr: "invalid log-format"},
		{name: "bad log level", cfg: Config{Paths: []string{"."}, LogLevel: "trace"}, expectedErr: "invalid log-level"},
		{name: "bad output format", cfg: Config{Paths: []string{"."}, Format: "toml"}, expectedErr: "unknown output format"},
		{name: "negative delay", cfg: Config{Paths: []string{"."}, WatchDelay: -time.Second}, expectedErr: "must not be negative"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestRun_Validate(t *testing.T) {
	t.Run("warnings pass", func(t *testing.T) {
		a, out, _ := newTestApp(t, Config{Paths: []string{fixtureDir}})
		require.NoError(t, a.Run(context.Background(), CommandValidate))
		assert.Contains(t, out.String(), "SIGN001")
		assert.Contains(t, out.String(), "0 errors, 2 warnings")
	})

	t.Run("dot falls back to text", func(t *testing.T) {
		a, out, _ := newTestApp(t, Config{Paths: []string{fixtureDir}, Format: "dot"})
		require.NoError(t, a.Run(context.Background(), CommandValidate))
		assert.Contains(t, out.String(), "Warning: SIGN001")
		assert.Contains(t, out.String(), "0 errors, 2 warnings")
	})

	t.Run("strict fails", func(t *testing.T) {
		a, out, _ := newTestApp(t, Config{Paths: []string{fixtureDir}, Strict: true})
		err := a.Run(context.Background(), CommandValidate)
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, out.String(), "2 errors, 0 warnings")
	})
}

func TestRun_Resolve(t *testing.T) {
	a, out, logs := newTestApp(t, Config{Paths: []string{fixtureDir}, Format: "json", LogLevel: "debug"})
	require.NoError(t, a.Run(context.Background(), CommandResolve))
	assert.Contains(t, out.String(), `"evaluation_order"`)
	assert.Contains(t, logs.String(), "code=SIGN001", "warnings are logged when resolving")
	assert.Contains(t, logs.String(), "app=buildcheck")
}

func TestRun_GraphDefaultsToDOT(t *testing.T) {
	a, out, _ := newTestApp(t, Config{Paths: []string{fixtureDir}})
	require.NoError(t, a.Run(context.Background(), CommandGraph))
	assert.Contains(t, out.String(), "digraph evaluation {")
	assert.Contains(t, out.String(), `":" -> ":app";`)
}

func TestRun_ResolveStopsOnErrors(t *testing.T) {
	a, out, _ := newTestApp(t, Config{Paths: []string{fixtureDir}, Strict: true, Format: "dot"})
	err := a.Run(context.Background(), CommandGraph)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.NotContains(t, out.String(), "digraph")
	assert.Contains(t, out.String(), "Error: SIGN001")
}

func TestRun_LoadError(t *testing.T) {
	a, _, _ := newTestApp(t, Config{Paths: []string{filepath.Join(t.TempDir(), "missing")}})
	err := a.Run(context.Background(), CommandValidate)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrValidationFailed))
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRun_UnknownCommand(t *testing.T) {
	a, _, _ := newTestApp(t, Config{Paths: []string{fixtureDir}})
	assert.ErrorContains(t, a.Run(context.Background(), Command("build")), "unknown command")
}

// stubLoader returns a fixed model and has no source files.
type stubLoader struct {
	model *config.Model
	calls int
}

func (s *stubLoader) Load(context.Context, ...string) (*config.Model, error) {
	s.calls++
	return s.model, nil
}

func TestRun_LoaderWithoutSources(t *testing.T) {
	cfg, err := NewConfig(Config{Paths: []string{"."}})
	require.NoError(t, err)
	loader := &stubLoader{model: &config.Model{RootDir: t.TempDir(), Coordinator: &config.Coordinator{}}}
	out := &bytes.Buffer{}
	a := NewApp(out, &bytes.Buffer{}, cfg, loader)

	require.NoError(t, a.Run(context.Background(), CommandValidate))
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, "0 errors, 0 warnings\n", out.String())
}

func TestWatch_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "build.hcl")
	require.NoError(t, os.WriteFile(root, []byte("project {}\n"), 0o600))

	appConfig, err := NewConfig(Config{Paths: []string{dir}, WatchDelay: 50 * time.Millisecond})
	require.NoError(t, err)
	out := &syncBuffer{}
	a := NewApp(out, &syncBuffer{}, appConfig, hcl_adapter.NewLoader())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, CommandValidate) }()

	require.Eventually(t, func() bool { return countSummaries(out.String()) >= 1 }, 5*time.Second, 20*time.Millisecond)
	require.NoError(t, os.WriteFile(root, []byte("project {}\nallprojects {\n  repositories = [\"jcenter\"]\n}\n"), 0o600))
	require.Eventually(t, func() bool { return countSummaries(out.String()) >= 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, out.String(), "REPO001")
}
