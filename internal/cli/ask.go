/*
Copyright © 2026 Mathagent Authors
*/
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"Mathagent/internal/backend"
	"Mathagent/internal/engine"
	"Mathagent/pkg/types"

	"github.com/spf13/cobra"
)

var jsonOutput bool

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer a question",
	Long: `Ask sends one question through the configured backend and prints the
answer. Without arguments it reads questions from stdin, one per line.

Output:
  --json    Print the outcome envelope {"ok": ..., "response"|"error": ...}

Examples:
  mathagent ask "quanto é 5 mais 3"
  mathagent ask --mock "hello"
  mathagent ask --json "raiz quadrada de 16"
  echo "2 + 2" | mathagent ask`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}
		defer logger.Close()

		registry, closeTools, err := toolRegistry(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeTools()

		runner, err := backend.New(cfg, registry, logger)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			return answer(cmd.Context(), cmd.OutOrStdout(), runner, strings.Join(args, " "), cfg.MaxSteps)
		}
		return answerLines(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), runner, cfg.MaxSteps)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringArrayVar(&mcpServers, "mcp-server", nil, "MCP server command whose tools are added (repeatable)")
	askCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the outcome as JSON")
}

// errRunFailed marks a failed outcome that was already printed
var errRunFailed = errors.New("request failed")

func answer(ctx context.Context, w io.Writer, runner backend.Runner, text string, steps int) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var out types.Outcome
	// the report is plain text, so it never follows JSON output
	if o, ok := runner.(*engine.Orchestrator); ok && verbose && !jsonOutput {
		res := o.Execute(ctx, text, steps)
		out = res.Outcome
		defer printReport(w, res)
	} else {
		out = runner.Run(ctx, text, steps)
	}

	if jsonOutput {
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	} else if out.OK {
		fmt.Fprintln(w, out.Response)
	} else {
		fmt.Fprintln(w, ColorText("Error: "+out.Error, ColorRed))
	}

	if !out.OK {
		return fmt.Errorf("%w: %s", errRunFailed, out.Error)
	}
	return nil
}

// answerLines answers every non-empty stdin line; failures are printed and
// do not stop the loop
func answerLines(ctx context.Context, r io.Reader, w io.Writer, runner backend.Runner, steps int) error {
	scanner := bufio.NewScanner(r)
	failed := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := answer(ctx, w, runner, line, steps); err != nil {
			if !errors.Is(err, errRunFailed) {
				return err
			}
			failed++
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d question(s)", errRunFailed, failed)
	}
	return nil
}

func printReport(w io.Writer, res *engine.Result) {
	states := make([]string, 0, len(res.State.History))
	for _, s := range res.State.History {
		states = append(states, s.String())
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ColorText("Run "+res.RunID, ColorDim))
	fmt.Fprintf(w, "  States:      %s\n", strings.Join(states, " -> "))
	fmt.Fprintf(w, "  Model calls: %d (%s)\n", res.Stats.ModelCalls, FormatDuration(res.Stats.ModelTime.Seconds()))
	fmt.Fprintf(w, "  Tool calls:  %d\n", res.Stats.ToolCalls)
	fmt.Fprintf(w, "  Fast path:   %t\n", res.Stats.FastPath)
	fmt.Fprintf(w, "  Time:        %s\n", FormatDuration(res.Stats.GetElapsedTime().Round(time.Millisecond).Seconds()))
}
