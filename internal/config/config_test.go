package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func isolated(env map[string]string) LoadOptions {
	return LoadOptions{GlobalPath: "-", LocalPath: "-", EnvFile: "-", Environ: env}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(isolated(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434", cfg.ModelURL)
	assert.Equal(t, "mistral", cfg.Model)
	assert.Equal(t, BackendNative, cfg.Backend)
	assert.Equal(t, 3, cfg.MaxSteps)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"openai_chat", "openai_completion", "ollama_chat", "ollama_generate"}, cfg.Dialects)
	assert.True(t, cfg.FastPath)
	assert.False(t, cfg.Mock)
	assert.Equal(t, "127.0.0.1:8000", cfg.Addr())
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global.yaml", "model: llama3\nmodel_url: http://global:11434\nmax_steps: 5\n")
	local := writeFile(t, dir, "local.yaml", "model_url: http://local:11434\ntimeout: 10s\nfast_path: false\n")
	envFile := writeFile(t, dir, ".env", "OLLAMA_MODEL=from-dotenv\nMOCK_AGENT=1\nPORT=9000\n")

	cfg, err := Load(LoadOptions{
		GlobalPath: global,
		LocalPath:  local,
		EnvFile:    envFile,
		Environ:    map[string]string{"PORT": "9100", "MODEL_DIALECTS": "ollama_generate, openai_chat"},
		Overrides:  func(c *Config) { c.MaxSteps = 7 },
	})
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.Model)
	assert.Equal(t, "http://local:11434", cfg.ModelURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.False(t, cfg.FastPath)
	assert.True(t, cfg.Mock)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 7, cfg.MaxSteps)
	assert.Equal(t, []string{"ollama_generate", "openai_chat"}, cfg.Dialects)
}

func TestLoadExternalURLAndMCPServers(t *testing.T) {
	dir := t.TempDir()
	local := writeFile(t, dir, "local.yaml", "external_url: http://file:4000\nmcp_servers:\n  - calc-server --stdio\n  - units\n")

	cfg, err := Load(LoadOptions{GlobalPath: "-", LocalPath: local, EnvFile: "-", Environ: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, "http://file:4000", cfg.ExternalURL)
	assert.Equal(t, []string{"calc-server --stdio", "units"}, cfg.MCPServers)

	cfg, err = Load(LoadOptions{
		GlobalPath: "-",
		LocalPath:  local,
		EnvFile:    "-",
		Environ:    map[string]string{"EXTERNAL_URL": "http://env:5000"},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://env:5000", cfg.ExternalURL)
}

func TestLoadDoesNotTouchProcessEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "MATHAGENT_TEST_ONLY=1\n")

	_, err := Load(LoadOptions{GlobalPath: "-", LocalPath: "-", EnvFile: envFile, Environ: map[string]string{}})
	require.NoError(t, err)

	_, set := os.LookupEnv("MATHAGENT_TEST_ONLY")
	assert.False(t, set)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{"backend", map[string]string{"AGENT_BACKEND": "strands"}, `invalid backend "strands"`},
		{"provider", map[string]string{"EXTERNAL_PROVIDER": "cohere"}, `invalid external provider "cohere"`},
		{"steps", map[string]string{"MAX_STEPS": "0"}, "max steps must be positive"},
		{"steps syntax", map[string]string{"MAX_STEPS": "three"}, "MAX_STEPS"},
		{"dialect", map[string]string{"MODEL_DIALECTS": "openai_chat,carrier_pigeon"}, "unknown dialect: carrier_pigeon"},
		{"timeout", map[string]string{"MODEL_TIMEOUT": "soon"}, "MODEL_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(isolated(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(LoadOptions{GlobalPath: "-", LocalPath: "-", EnvFile: filepath.Join(t.TempDir(), "missing.env"), Environ: map[string]string{}})
	assert.NoError(t, err)
}

func TestEffectiveBackend(t *testing.T) {
	cfg := Default()
	cfg.Backend = BackendExternal
	assert.Equal(t, BackendExternal, cfg.EffectiveBackend())

	cfg.Mock = true
	assert.Equal(t, BackendNative, cfg.EffectiveBackend())
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mathagent.yaml")
	mock := true
	require.NoError(t, WriteFile(path, &FileConfig{Model: "phi3", Mock: &mock, Dialects: []string{"ollama_chat"}}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	fc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "phi3", fc.Model)
	require.NotNil(t, fc.Mock)
	assert.True(t, *fc.Mock)

	empty, err := ReadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &FileConfig{}, empty)
}

func TestHelpers(t *testing.T) {
	assert.True(t, ParseBool("YES"))
	assert.True(t, ParseBool("1"))
	assert.False(t, ParseBool("0"))
	assert.False(t, ParseBool("maybe"))

	d, err := ParseDuration("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, d)

	assert.Equal(t, []string{"a", "b"}, SplitList(" a,,b ,"))
	assert.Equal(t, "sk-1...cdef", MaskKey("sk-1234567890abcdef"))
	assert.Equal(t, "****", MaskKey("short"))
	assert.Equal(t, "(not set)", MaskKey(""))
}
