// File: cmd/combine.go
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"treeflat/pkg/combine"
	"treeflat/pkg/logging"
	"treeflat/pkg/tree"
)

var combineArgs combine.Arguments

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// combineCmd builds the report for the given paths.
var combineCmd = &cobra.Command{
	Use:   "combine [paths...]",
	Short: "Combine files and folders into a tree report",
	Long: `Walk each path in order and print every folder, file and error as a tree,
followed by the text of each visible file. Binary formats are listed
without content. Documents, spreadsheets and PDFs are converted to text.

Filter rules are regular expressions tested against bare file and folder
names. A matching file is listed without its content. A matching folder only
has its own entry hidden; the files inside it are still printed unless a
rule matches them too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		combineArgs.Paths = args

		errOut := cmd.ErrOrStderr()
		env := combine.Env{Stdout: cmd.OutOrStdout()}
		if combineArgs.Progress && isTerminal(errOut) {
			env.OnProgress = func(p tree.Progress) {
				fmt.Fprintf(errOut, "\r\033[KProcessing %s", p.CurrentFile)
			}
		}

		stats, err := combine.RunCombine(combineArgs, cfg, env, logging.Logger)
		if env.OnProgress != nil {
			fmt.Fprint(errOut, "\r\033[K")
		}
		if err != nil {
			return err
		}
		if combineArgs.Output != "" {
			fmt.Fprintf(errOut, "Wrote %s: %d folders, %d files (%d with text), %d errors\n",
				combineArgs.Output, stats.Folders, stats.Files, stats.FilesWithText, stats.Errors)
		}
		return nil
	},
}

func init() {
	f := combineCmd.Flags()
	f.StringVarP(&combineArgs.Output, "output", "o", "", "Write the report to this file instead of stdout")
	f.StringVarP(&combineArgs.RulesFile, "rules", "r", "", "File of filter rules, one regular expression per line")
	f.StringArrayVar(&combineArgs.Rules, "rule", nil, "Filter rule matched against bare file and folder names (repeatable)")
	f.BoolVar(&combineArgs.NoDefaultRules, "no-default-rules", false, "Do not use the built-in filter rules")
	f.BoolVar(&combineArgs.NoFilter, "no-filter", false, "Do not hide anything automatically")
	f.BoolVarP(&combineArgs.Clipboard, "clipboard", "b", false, "Also copy the report to the clipboard")
	f.IntVar(&combineArgs.MaxDepth, "max-depth", 0, "Maximum folder nesting below each path (0 uses the config)")
	f.BoolVar(&combineArgs.Progress, "progress", false, "Show the file being processed on stderr")
	f.BoolVarP(&combineArgs.Verbose, "verbose", "v", false, "Log every processed file at debug level")

	RootCmd.AddCommand(combineCmd)
}
