/*
Copyright © 2026 Mathagent Authors
*/
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"Mathagent/internal/mathexpr"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression...>",
	Short: "Evaluate an arithmetic expression",
	Long: `Eval runs the sandboxed evaluator on an expression without any model.

Supported: + - * / % ** ^, parentheses and the functions
` + strings.Join(mathexpr.Functions(), ", ") + `.

Examples:
  mathagent eval "2 + 2"
  mathagent eval "sqrt(16) * pi"
  mathagent eval --json "10 / 0"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := mathexpr.Evaluate(strings.Join(args, " "))
		w := cmd.OutOrStdout()

		if jsonOutput {
			data, err := json.Marshal(result)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(data))
		} else if result.OK {
			fmt.Fprintln(w, result.Result)
		} else {
			fmt.Fprintln(w, ColorText("Error: "+result.Error, ColorRed))
		}

		if !result.OK {
			return fmt.Errorf("%w: %s", errRunFailed, result.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the tool result as JSON")
}
