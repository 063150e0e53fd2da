// File: cmd/rules.go
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"treeflat/pkg/filter"
)

// rulesCmd groups the filter rule helpers.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect filter rules",
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Compile a rule file and report every invalid line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read rules file: %w", err)
		}
		out := cmd.OutOrStdout()
		rules, err := filter.ParseRules(string(content))
		if err != nil {
			for _, e := range multierr.Errors(err) {
				var re *filter.RuleError
				if errors.As(e, &re) {
					fmt.Fprintf(out, "%d: invalid %q: %v\n", re.LineNo, re.Line, re.Err)
				}
			}
			return fmt.Errorf("%s: %d invalid rule(s)", args[0], len(multierr.Errors(err)))
		}
		for _, r := range rules {
			fmt.Fprintf(out, "%d: %s\n", r.LineNo, r.Line)
		}
		fmt.Fprintf(out, "%d rule(s) OK\n", len(rules))
		return nil
	},
}

var rulesDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in filter rules",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, r := range filter.DefaultRules() {
			fmt.Fprintln(cmd.OutOrStdout(), r.Line)
		}
	},
}

func init() {
	rulesCmd.AddCommand(rulesCheckCmd, rulesDefaultsCmd)
	RootCmd.AddCommand(rulesCmd)
}
