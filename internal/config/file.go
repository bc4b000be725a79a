package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = ".mathagent.yaml"

// FileConfig is the on-disk form of the configuration. Unset fields leave
// lower-precedence values in place.
type FileConfig struct {
	ModelURL         string   `yaml:"model_url,omitempty"`
	Model            string   `yaml:"model,omitempty"`
	APIKey           string   `yaml:"api_key,omitempty"`
	Backend          string   `yaml:"backend,omitempty"`
	ExternalProvider string   `yaml:"external_provider,omitempty"`
	ExternalURL      string   `yaml:"external_url,omitempty"`
	MCPServers       []string `yaml:"mcp_servers,omitempty"`
	Mock             *bool    `yaml:"mock,omitempty"`
	MaxSteps         int      `yaml:"max_steps,omitempty"`
	Timeout          string   `yaml:"timeout,omitempty"`
	Dialects         []string `yaml:"dialects,omitempty"`
	FastPath         *bool    `yaml:"fast_path,omitempty"`
	Host             string   `yaml:"host,omitempty"`
	Port             int      `yaml:"port,omitempty"`
	LogLevel         string   `yaml:"log_level,omitempty"`
	LogFormat        string   `yaml:"log_format,omitempty"`
	LogFile          string   `yaml:"log_file,omitempty"`
}

// GlobalPath returns ~/.mathagent.yaml
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, fileName), nil
}

// LocalPath returns ./.mathagent.yaml
func LocalPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return filepath.Join(cwd, fileName), nil
}

// ReadFile loads a config file; a missing file yields an empty config
func ReadFile(path string) (*FileConfig, error) {
	fc := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	return fc, nil
}

// WriteFile saves a config file readable only by the owner
func WriteFile(path string, fc *FileConfig) error {
	data, err := yaml.Marshal(fc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func (fc *FileConfig) apply(cfg *Config) error {
	set := func(v string, dst *string) {
		if v != "" {
			*dst = v
		}
	}
	set(fc.ModelURL, &cfg.ModelURL)
	set(fc.Model, &cfg.Model)
	set(fc.APIKey, &cfg.APIKey)
	set(fc.Backend, &cfg.Backend)
	set(fc.ExternalProvider, &cfg.ExternalProvider)
	set(fc.ExternalURL, &cfg.ExternalURL)
	set(fc.Host, &cfg.Host)
	set(fc.LogLevel, &cfg.LogLevel)
	set(fc.LogFormat, &cfg.LogFormat)
	set(fc.LogFile, &cfg.LogFile)

	if fc.Mock != nil {
		cfg.Mock = *fc.Mock
	}
	if fc.FastPath != nil {
		cfg.FastPath = *fc.FastPath
	}
	if fc.MaxSteps != 0 {
		cfg.MaxSteps = fc.MaxSteps
	}
	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
	if len(fc.Dialects) > 0 {
		cfg.Dialects = append([]string(nil), fc.Dialects...)
	}
	if len(fc.MCPServers) > 0 {
		cfg.MCPServers = append([]string(nil), fc.MCPServers...)
	}
	if fc.Timeout != "" {
		d, err := ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}

// MaskKey hides all but the edges of an API key
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
