// File: pkg/combine/execute.go
package combine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"treeflat/pkg/config"
	"treeflat/pkg/extract"
	"treeflat/pkg/filter"
	"treeflat/pkg/tree"
)

// Env carries the process-level collaborators of a run.
type Env struct {
	Stdout     io.Writer         // Receives the report when Arguments.Output is empty.
	OnProgress tree.ProgressFunc // Optional progress sink, used when Arguments.Progress is set.
	Clipboard  func(string) error
}

// RunCombine builds the report described by args and cfg and writes it to the
// output file or env.Stdout, and optionally to the clipboard.
func RunCombine(args Arguments, cfg config.Config, env Env, logger *zap.Logger) (tree.Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(args.Paths) == 0 {
		return tree.Stats{}, ErrNoPaths
	}
	logger.Debug("Starting combine process", zap.Strings("paths", args.Paths))

	rules, err := buildRuleSet(args, cfg, logger)
	if err != nil {
		return tree.Stats{}, err
	}

	cacheEntries := extract.DefaultCacheEntries
	if cfg.CacheEntries != nil {
		cacheEntries = *cfg.CacheEntries
	}
	extractor, err := extract.New(extract.WithLogger(logger), extract.WithCache(cacheEntries))
	if err != nil {
		return tree.Stats{}, fmt.Errorf("failed to create extractor: %w", err)
	}

	maxDepth := cfg.MaxDepth
	if args.MaxDepth > 0 {
		maxDepth = args.MaxDepth
	}
	autoFilter := cfg.AutoFilter == nil || *cfg.AutoFilter
	if args.NoFilter {
		autoFilter = false
	}

	opts := []SessionOption{
		WithLogger(logger),
		WithAutoFilter(autoFilter),
		WithMaxDepth(maxDepth),
	}
	if progress := progressSink(args, env, logger); progress != nil {
		opts = append(opts, WithProgress(progress))
	}
	session := NewSession(extractor, rules, opts...)

	if _, err := session.Load(args.Paths); err != nil {
		return tree.Stats{}, fmt.Errorf("failed to load paths: %w", err)
	}
	stats := session.Stats()
	report := session.Render()

	if args.Output != "" {
		if err := ensureDirectory(filepath.Dir(args.Output), logger); err != nil {
			return stats, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := writeToFile(args.Output, []byte(report), 0644, logger); err != nil {
			return stats, fmt.Errorf("failed to write report: %w", err)
		}
	} else if env.Stdout != nil {
		if err := WriteReport(env.Stdout, report, logger); err != nil {
			return stats, err
		}
	}

	if args.Clipboard {
		if err := copyToClipboard(env.Clipboard, report, logger); err != nil {
			return stats, err
		}
	}

	logger.Info("Successfully combined files",
		zap.String("outputFile", args.Output),
		zap.Int("totalFiles", stats.Files),
		zap.Int("filesWithText", stats.FilesWithText),
		zap.Int("errors", stats.Errors),
	)
	return stats, nil
}

// buildRuleSet assembles the rule set from the config and the arguments. Rule
// text is gathered from the config's inline rules, the rules file (argument
// over config) and the inline argument rules, and parsed as one list.
func buildRuleSet(args Arguments, cfg config.Config, logger *zap.Logger) (*filter.RuleSet, error) {
	useDefaults := cfg.UseDefaultRules == nil || *cfg.UseDefaultRules
	if args.NoDefaultRules {
		useDefaults = false
	}
	rules := filter.NewRuleSet(useDefaults, logger)

	var parts []string
	if text := cfg.RulesText(); text != "" {
		parts = append(parts, text)
	}
	rulesFile := cfg.RulesFile
	if args.RulesFile != "" {
		rulesFile = args.RulesFile
	}
	if rulesFile != "" {
		content, err := os.ReadFile(rulesFile)
		if err != nil {
			logger.Error("Failed to read rules file", zap.String("filePath", rulesFile), zap.Error(err))
			return nil, fmt.Errorf("failed to read rules file: %w", err)
		}
		parts = append(parts, string(content))
	}
	parts = append(parts, args.Rules...)

	if err := rules.SetCustomText(strings.Join(parts, "\n")); err != nil {
		return nil, fmt.Errorf("invalid filter rules: %w", err)
	}
	logger.Debug("Prepared filter rules",
		zap.Bool("defaults", useDefaults),
		zap.Int("customRules", len(rules.Custom())))
	return rules, nil
}

func progressSink(args Arguments, env Env, logger *zap.Logger) tree.ProgressFunc {
	show := args.Progress && env.OnProgress != nil
	if !show && !args.Verbose {
		return nil
	}
	return func(p tree.Progress) {
		if args.Verbose {
			logger.Debug("Processing file", zap.String("filePath", p.CurrentPath))
		}
		if show {
			env.OnProgress(p)
		}
	}
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}

// writeToFile writes data to a file and logs the operation.
func writeToFile(path string, data []byte, perm os.FileMode, logger *zap.Logger) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		logger.Error("Failed to write file", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Successfully wrote file", zap.String("path", path))
	return nil
}
