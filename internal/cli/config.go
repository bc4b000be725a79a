/*
Copyright © 2026 Mathagent Authors
*/
package cli

import (
	"fmt"
	"io"
	"strings"

	"Mathagent/internal/config"

	"github.com/spf13/cobra"
)

var (
	setURL      string
	setModel    string
	setAPIKey   string
	setBackend  string
	setProvider string
	setDialects string
	setSteps    int
	show        bool
	global      bool
	local       bool
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure mathagent settings",
	Long: `Configure mathagent settings like the model server, model, API key and backend.

Configuration can be stored globally or locally:
  --global    Save to ~/.mathagent.yaml (user-wide, default)
  --local     Save to ./.mathagent.yaml (project-specific)

Local config takes precedence over global config. Environment variables
and flags take precedence over both.

Examples:
  mathagent config --url http://localhost:11434 --model llama3
  mathagent config --backend external --provider anthropic --api "sk-xxx"
  mathagent config --dialects ollama_generate,ollama_chat --local
  mathagent config --show                Show the effective configuration
  mathagent config --show --local        Show the local project file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		path, err := configPathWithScope()
		if err != nil {
			return err
		}

		if show {
			return showConfig(cmd, w, path)
		}

		flags := cmd.Flags()
		if !flags.Changed("url") && !flags.Changed("model") && !flags.Changed("api") &&
			!flags.Changed("backend") && !flags.Changed("provider") &&
			!flags.Changed("dialects") && !flags.Changed("steps") {
			return fmt.Errorf("no configuration option provided; see mathagent config --help")
		}

		fc, err := config.ReadFile(path)
		if err != nil {
			return err
		}

		if flags.Changed("url") {
			fc.ModelURL = setURL
			fmt.Fprintf(w, "✓ Model URL set to: %s\n", setURL)
		}
		if flags.Changed("model") {
			fc.Model = setModel
			fmt.Fprintf(w, "✓ Model set to: %s\n", setModel)
		}
		if flags.Changed("api") {
			fc.APIKey = setAPIKey
			fmt.Fprintln(w, "✓ API key set")
		}
		if flags.Changed("backend") {
			fc.Backend = setBackend
			fmt.Fprintf(w, "✓ Backend set to: %s\n", setBackend)
		}
		if flags.Changed("provider") {
			fc.ExternalProvider = setProvider
			fmt.Fprintf(w, "✓ External provider set to: %s\n", setProvider)
		}
		if flags.Changed("dialects") {
			fc.Dialects = config.SplitList(setDialects)
			fmt.Fprintf(w, "✓ Dialects set to: %s\n", strings.Join(fc.Dialects, ", "))
		}
		if flags.Changed("steps") {
			fc.MaxSteps = setSteps
			fmt.Fprintf(w, "✓ Step budget set to: %d\n", setSteps)
		}

		if err := checkFile(fc); err != nil {
			return err
		}
		if err := config.WriteFile(path, fc); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		scope := "global"
		if local {
			scope = "local"
		}
		fmt.Fprintf(w, "\nConfiguration saved to: %s (%s)\n", path, scope)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	// these shadow the persistent model flags: values are saved, not applied
	configCmd.Flags().StringVar(&setURL, "url", "", "model server base URL")
	configCmd.Flags().StringVar(&setModel, "model", "", "model name")
	configCmd.Flags().StringVar(&setAPIKey, "api", "", "API key for the model server or provider")
	configCmd.Flags().StringVar(&setBackend, "backend", "", "agent backend (native or external)")
	configCmd.Flags().StringVar(&setProvider, "provider", "", "external provider (openai or anthropic)")
	configCmd.Flags().StringVar(&setDialects, "dialects", "", "comma separated dialect order")
	configCmd.Flags().IntVar(&setSteps, "steps", 0, "step budget per request")
	configCmd.Flags().BoolVar(&show, "show", false, "Show current configuration")
	configCmd.Flags().BoolVar(&global, "global", false, "Use global config (~/.mathagent.yaml)")
	configCmd.Flags().BoolVar(&local, "local", false, "Use local config (./.mathagent.yaml)")
}

func configPathWithScope() (string, error) {
	if local {
		return config.LocalPath()
	}
	return config.GlobalPath()
}

// checkFile rejects values that would make every later load fail
func checkFile(fc *config.FileConfig) error {
	cfg := config.Default()
	if fc.Backend != "" {
		cfg.Backend = fc.Backend
	}
	if fc.ExternalProvider != "" {
		cfg.ExternalProvider = fc.ExternalProvider
	}
	if len(fc.Dialects) > 0 {
		cfg.Dialects = fc.Dialects
	}
	if fc.MaxSteps != 0 {
		cfg.MaxSteps = fc.MaxSteps
	}
	return cfg.Validate()
}

func showConfig(cmd *cobra.Command, w io.Writer, path string) error {
	if local || global {
		scope := "Global"
		if local {
			scope = "Local"
		}
		fc, err := config.ReadFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "=== %s Configuration ===\n", scope)
		fmt.Fprintf(w, "Config file: %s\n\n", path)
		printFile(w, fc)
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "=== Effective Configuration ===")
	printConfig(w, cfg)
	return nil
}

func printFile(w io.Writer, fc *config.FileConfig) {
	fmt.Fprintf(w, "Model URL: %s\n", orNotSet(fc.ModelURL))
	fmt.Fprintf(w, "Model:     %s\n", orNotSet(fc.Model))
	fmt.Fprintf(w, "API Key:   %s\n", config.MaskKey(fc.APIKey))
	fmt.Fprintf(w, "Backend:   %s\n", orNotSet(fc.Backend))
	fmt.Fprintf(w, "Provider:  %s\n", orNotSet(fc.ExternalProvider))
	fmt.Fprintf(w, "Dialects:  %s\n", orNotSet(strings.Join(fc.Dialects, ", ")))
	if fc.MaxSteps != 0 {
		fmt.Fprintf(w, "Steps:     %d\n", fc.MaxSteps)
	} else {
		fmt.Fprintln(w, "Steps:     (not set)")
	}
}

func printConfig(w io.Writer, cfg config.Config) {
	fmt.Fprintf(w, "Model URL: %s\n", cfg.ModelURL)
	fmt.Fprintf(w, "Model:     %s\n", cfg.Model)
	fmt.Fprintf(w, "API Key:   %s\n", config.MaskKey(cfg.APIKey))
	fmt.Fprintf(w, "Backend:   %s\n", cfg.EffectiveBackend())
	fmt.Fprintf(w, "Provider:  %s\n", cfg.ExternalProvider)
	fmt.Fprintf(w, "Mock:      %t\n", cfg.Mock)
	fmt.Fprintf(w, "Dialects:  %s\n", strings.Join(cfg.Dialects, ", "))
	fmt.Fprintf(w, "Steps:     %d\n", cfg.MaxSteps)
	fmt.Fprintf(w, "Timeout:   %s\n", cfg.Timeout)
	fmt.Fprintf(w, "Fast path: %t\n", cfg.FastPath)
	fmt.Fprintf(w, "Listen:    %s\n", cfg.Addr())
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
