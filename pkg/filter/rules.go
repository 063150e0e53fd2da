// Package filter hides tree nodes whose bare name matches a regular expression.
package filter

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrInvalidRule is wrapped by every rule that fails to compile.
var ErrInvalidRule = errors.New("invalid filter rule")

// Rule is a compiled pattern and the source line it came from.
type Rule struct {
	Pattern *regexp.Regexp // Compiled regular expression, tested against bare names.
	Line    string         // Original rule text.
	LineNo  int            // Line number in the source text (1-based); 0 for built-ins.
}

// RuleError describes a rule line that does not compile.
type RuleError struct {
	LineNo int
	Line   string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.LineNo, e.Line, e.Err)
}

// Unwrap exposes both ErrInvalidRule and the regexp error.
func (e *RuleError) Unwrap() []error {
	return []error{ErrInvalidRule, e.Err}
}

// defaultPatterns match file names: OS metadata, lockfiles, minified bundles,
// source maps and key material. A folder match only sets the folder's own
// entry, so folder names are not listed.
var defaultPatterns = []string{
	`^(\.DS_Store|Thumbs\.db|desktop\.ini)$`,
	`^(package-lock\.json|yarn\.lock|pnpm-lock\.yaml|go\.sum|Cargo\.lock|poetry\.lock|composer\.lock|Gemfile\.lock)$`,
	`\.min\.(js|css)$`,
	`\.(js|css)\.map$`,
	`\.(pem|key|p12|pfx)$`,
}

// DefaultRules returns the built-in rule list.
func DefaultRules() []*Rule {
	rules := make([]*Rule, 0, len(defaultPatterns))
	for _, p := range defaultPatterns {
		rules = append(rules, &Rule{Pattern: regexp.MustCompile(p), Line: p})
	}
	return rules
}

// ParseRules compiles newline-separated rule text. Blank lines and lines
// starting with '#' are skipped. If any line fails to compile, no rules are
// returned and the error lists every bad line as a *RuleError.
func ParseRules(text string) ([]*Rule, error) {
	var (
		rules []*Rule
		errs  error
	)
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		re, err := regexp.Compile(trimmed)
		if err != nil {
			errs = multierr.Append(errs, &RuleError{LineNo: i + 1, Line: trimmed, Err: err})
			continue
		}
		rules = append(rules, &Rule{Pattern: re, Line: trimmed, LineNo: i + 1})
	}
	if errs != nil {
		return nil, errs
	}
	return rules, nil
}

// RuleSet is the two-tier rule list: built-in defaults followed by user rules.
type RuleSet struct {
	mu       sync.RWMutex
	defaults []*Rule
	custom   []*Rule
	logger   *zap.Logger
}

// NewRuleSet returns a rule set, optionally seeded with DefaultRules.
func NewRuleSet(useDefaults bool, logger *zap.Logger) *RuleSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	rs := &RuleSet{logger: logger}
	if useDefaults {
		rs.defaults = DefaultRules()
	}
	return rs
}

// SetCustomText replaces the user rules with the rules parsed from text.
// On error the previous user rules stay in effect.
func (rs *RuleSet) SetCustomText(text string) error {
	rules, err := ParseRules(text)
	if err != nil {
		rs.logger.Warn("Rejected custom filter rules", zap.Error(err))
		return err
	}
	rs.SetCustom(rules)
	return nil
}

// SetCustom replaces the user rules.
func (rs *RuleSet) SetCustom(rules []*Rule) {
	rs.mu.Lock()
	rs.custom = append([]*Rule(nil), rules...)
	rs.mu.Unlock()
	rs.logger.Debug("Replaced custom filter rules", zap.Int("ruleCount", len(rules)))
}

// LoadCustomFile reads rule text from path and replaces the user rules with it.
func (rs *RuleSet) LoadCustomFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		rs.logger.Error("Failed to read rules file", zap.String("filePath", path), zap.Error(err))
		return fmt.Errorf("read rules file: %w", err)
	}
	if err := rs.SetCustomText(string(content)); err != nil {
		return fmt.Errorf("rules file %s: %w", path, err)
	}
	rs.logger.Info("Loaded custom filter rules", zap.String("filePath", path))
	return nil
}

// Defaults returns a copy of the built-in rules in effect.
func (rs *RuleSet) Defaults() []*Rule {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return append([]*Rule(nil), rs.defaults...)
}

// Custom returns a copy of the user rules.
func (rs *RuleSet) Custom() []*Rule {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return append([]*Rule(nil), rs.custom...)
}

// CustomText renders the user rules back to newline-separated text.
func (rs *RuleSet) CustomText() string {
	rules := rs.Custom()
	lines := make([]string, len(rules))
	for i, r := range rules {
		lines[i] = r.Line
	}
	return strings.Join(lines, "\n")
}

// Match tests name against the defaults and then the user rules and returns
// the first rule that matches.
func (rs *RuleSet) Match(name string) (bool, *Rule) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	for _, tier := range [][]*Rule{rs.defaults, rs.custom} {
		for _, r := range tier {
			if r.Pattern.MatchString(name) {
				return true, r
			}
		}
	}
	return false, nil
}
