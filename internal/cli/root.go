/*
Copyright © 2026 Mathagent Authors
*/
package cli

import (
	"errors"
	"fmt"
	"os"

	"Mathagent/internal/config"
	"Mathagent/internal/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	mockMode  bool
	modelURL  string
	modelName string
	backendID string
	maxSteps  int
	logFile   string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mathagent",
	Short: "A tool-using math assistant",
	Long: `Mathagent answers questions with a language model that can call a
sandboxed math evaluator. Plain arithmetic is answered directly without
calling the model.

Examples:
  mathagent ask "quanto é 12 * (3 + 4)"   Answer one question
  mathagent eval "sqrt(16) + 2**10"      Evaluate an expression
  mathagent serve                        Start the HTTP endpoint
  mathagent mcp                          Serve the tools over MCP (stdio)
  mathagent --help                       Show this help message`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// failed answers are already on stdout
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.mathagent.yaml over $HOME/.mathagent.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&mockMode, "mock", false, "use the offline mock model")
	rootCmd.PersistentFlags().StringVar(&modelURL, "url", "", "model server base URL")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "model name")
	rootCmd.PersistentFlags().StringVar(&backendID, "backend", "", "agent backend (native or external)")
	rootCmd.PersistentFlags().IntVar(&maxSteps, "max-steps", 0, "step budget per request")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "also write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text or json)")
}

// loadConfig builds the configuration for a command; flags win over every
// other source
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	opts := config.LoadOptions{}
	if cfgFile != "" {
		// an explicit file replaces both YAML layers
		opts.GlobalPath = "-"
		opts.LocalPath = cfgFile
	}

	flags := cmd.Flags()
	opts.Overrides = func(c *config.Config) {
		if flags.Changed("mock") {
			c.Mock = mockMode
		}
		if flags.Changed("url") {
			c.ModelURL = modelURL
		}
		if flags.Changed("model") {
			c.Model = modelName
		}
		if flags.Changed("backend") {
			c.Backend = backendID
		}
		if flags.Changed("max-steps") {
			c.MaxSteps = maxSteps
		}
		if flags.Changed("log") {
			c.LogFile = logFile
		}
		if flags.Changed("log-level") {
			c.LogLevel = logLevel
		}
		if flags.Changed("log-format") {
			c.LogFormat = logFormat
		}
		if flags.Changed("mcp-server") {
			c.MCPServers = mcpServers
		}
		if verbose && !flags.Changed("log-level") {
			c.LogLevel = "debug"
		}
	}

	return config.Load(opts)
}

func newLogger(cmd *cobra.Command, cfg config.Config) (*logging.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Writer: cmd.ErrOrStderr(),
	})
}
