// Package config builds the single configuration value used by every
// component. It is loaded once at start and passed down; nothing else reads
// the process environment.
package config

import (
	"fmt"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"Mathagent/internal/agent"

	"github.com/joho/godotenv"
)

const (
	BackendNative   = "native"
	BackendExternal = "external"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the process configuration. Treat it as read-only once loaded.
type Config struct {
	ModelURL         string
	Model            string
	APIKey           string
	Backend          string
	ExternalProvider string
	ExternalURL      string
	MCPServers       []string
	Mock             bool
	MaxSteps         int
	Timeout          time.Duration
	Dialects         []string
	FastPath         bool
	Host             string
	Port             int
	LogLevel         string
	LogFormat        string
	LogFile          string
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ModelURL:         "http://localhost:11434",
		Model:            "mistral",
		Backend:          BackendNative,
		ExternalProvider: ProviderOpenAI,
		MaxSteps:         3,
		Timeout:          agent.DefaultTimeout,
		Dialects:         slices.Clone(agent.DefaultDialectNames),
		FastPath:         true,
		Host:             "127.0.0.1",
		Port:             8000,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// LoadOptions selects the configuration sources. Empty paths use the
// defaults; "-" skips a source.
type LoadOptions struct {
	GlobalPath string
	LocalPath  string
	EnvFile    string

	// Environ replaces the process environment when non-nil
	Environ map[string]string

	// Overrides is applied last, typically from command-line flags
	Overrides func(*Config)
}

// Load merges defaults, the global and local YAML files, the .env file, the
// environment and overrides, in that order, and validates the result.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	globalPath, err := resolvePath(opts.GlobalPath, GlobalPath)
	if err != nil {
		return Config{}, err
	}
	localPath, err := resolvePath(opts.LocalPath, LocalPath)
	if err != nil {
		return Config{}, err
	}

	for _, path := range []string{globalPath, localPath} {
		if path == "" {
			continue
		}
		fc, err := ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := fc.apply(&cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	env, err := environment(opts)
	if err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}

	if opts.Overrides != nil {
		opts.Overrides(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func resolvePath(path string, fallback func() (string, error)) (string, error) {
	switch path {
	case "-":
		return "", nil
	case "":
		return fallback()
	default:
		return path, nil
	}
}

// environment merges the .env file under the real environment; variables
// already set always win
func environment(opts LoadOptions) (map[string]string, error) {
	env := opts.Environ
	if env == nil {
		env = make(map[string]string)
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env[k] = v
			}
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if envFile == "-" {
		return env, nil
	}

	fileEnv, err := godotenv.Read(envFile)
	if err != nil {
		if os.IsNotExist(err) || opts.EnvFile == "" {
			return env, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	merged := make(map[string]string, len(env)+len(fileEnv))
	for k, v := range fileEnv {
		merged[k] = v
	}
	for k, v := range env {
		merged[k] = v
	}
	return merged, nil
}

func applyEnv(cfg *Config, env map[string]string) error {
	str := func(key string, dst *string) {
		if v, ok := env[key]; ok && v != "" {
			*dst = v
		}
	}
	str("OLLAMA_URL", &cfg.ModelURL)
	str("OLLAMA_MODEL", &cfg.Model)
	str("MODEL_API_KEY", &cfg.APIKey)
	str("AGENT_BACKEND", &cfg.Backend)
	str("EXTERNAL_PROVIDER", &cfg.ExternalProvider)
	str("EXTERNAL_URL", &cfg.ExternalURL)
	str("HOST", &cfg.Host)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("LOG_FILE", &cfg.LogFile)

	if v := env["MOCK_AGENT"]; v != "" {
		cfg.Mock = ParseBool(v)
	}
	if v := env["FAST_PATH"]; v != "" {
		cfg.FastPath = ParseBool(v)
	}
	if v := env["MODEL_DIALECTS"]; v != "" {
		cfg.Dialects = SplitList(v)
	}
	if v := env["MAX_STEPS"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_STEPS: %w", err)
		}
		cfg.MaxSteps = n
	}
	if v := env["PORT"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		cfg.Port = n
	}
	if v := env["MODEL_TIMEOUT"]; v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MODEL_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNative, BackendExternal:
	default:
		return fmt.Errorf("invalid backend %q: want %s or %s", c.Backend, BackendNative, BackendExternal)
	}
	switch c.ExternalProvider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("invalid external provider %q: want %s or %s", c.ExternalProvider, ProviderOpenAI, ProviderAnthropic)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", c.MaxSteps)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if len(c.Dialects) == 0 {
		return fmt.Errorf("at least one dialect is required")
	}
	if err := agent.KnownDialects(c.Dialects); err != nil {
		return err
	}
	if c.ModelURL == "" && c.Backend == BackendNative && !c.Mock {
		return fmt.Errorf("model URL is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// EffectiveBackend is the backend actually used; mock mode forces native
func (c Config) EffectiveBackend() string {
	if c.Mock {
		return BackendNative
	}
	return c.Backend
}

// Addr is the HTTP listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ParseBool accepts 1, true, yes and on (any case) as true
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// ParseDuration accepts Go durations ("30s") or plain seconds ("30", "2.5")
func ParseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
}

// SplitList splits a comma separated list, dropping empty entries
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
