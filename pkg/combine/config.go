// File: pkg/combine/config.go
package combine

// Arguments holds the options for a single combine run. Zero values defer to
// the loaded configuration.
type Arguments struct {
	Paths          []string // Files or directories to combine, in output order.
	Output         string   // Destination file for the report; empty writes to the Stdout writer.
	RulesFile      string   // Optional file of newline-separated filter rules.
	Rules          []string // Additional inline filter rules, appended after the rules file.
	NoDefaultRules bool     // If true, the built-in default rules are not used.
	NoFilter       bool     // If true, rules are not applied automatically after loading.
	Clipboard      bool     // If true, the report is also copied to the system clipboard.
	MaxDepth       int      // Maximum folder nesting below each root; 0 defers to the config.
	Progress       bool     // If true, the current file is reported while traversing.
	Verbose        bool     // If true, per-file progress is also logged at debug level.
}
