package filter

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"treeflat/pkg/tree"
	"treeflat/pkg/visibility"
)

func str(s string) *string { return &s }

func ruleLines(rules []*Rule) []string {
	lines := make([]string, len(rules))
	for i, r := range rules {
		lines[i] = r.Line
	}
	return lines
}

func TestParseRules_SkipsBlankAndComments(t *testing.T) {
	rules, err := ParseRules("# hide tests\n\n_test\\.go$\n   \n  # indented comment\n\\.md$\r\n")
	require.NoError(t, err)
	assert.Equal(t, []string{`_test\.go$`, `\.md$`}, ruleLines(rules))
	assert.Equal(t, 3, rules[0].LineNo)
	assert.Equal(t, 6, rules[1].LineNo)
}

func TestParseRules_ReportsEveryBadLine(t *testing.T) {
	rules, err := ParseRules("ok$\n(unclosed\n[z-a]\nfine")
	assert.Nil(t, rules)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRule)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	var first *RuleError
	require.True(t, errors.As(errs[0], &first))
	assert.Equal(t, 2, first.LineNo)
	assert.Equal(t, "(unclosed", first.Line)
	var second *RuleError
	require.True(t, errors.As(errs[1], &second))
	assert.Equal(t, 3, second.LineNo)
}

func TestSetCustomText_AtomicReplacement(t *testing.T) {
	rs := NewRuleSet(false, nil)
	require.NoError(t, rs.SetCustomText("\\.md$"))

	err := rs.SetCustomText("\\.txt$\n*bad")
	require.Error(t, err)
	assert.Equal(t, []string{`\.md$`}, ruleLines(rs.Custom()))

	require.NoError(t, rs.SetCustomText("\\.txt$\n\\.log$"))
	assert.Equal(t, "\\.txt$\n\\.log$", rs.CustomText())
}

func TestLoadCustomFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "rules.txt")
	require.NoError(t, os.WriteFile(p, []byte("# generated\n^vendor$\n"), 0644))

	rs := NewRuleSet(true, nil)
	require.NoError(t, rs.LoadCustomFile(p))
	assert.Equal(t, []string{"^vendor$"}, ruleLines(rs.Custom()))

	assert.Error(t, rs.LoadCustomFile(filepath.Join(dir, "missing.txt")))
	assert.Equal(t, []string{"^vendor$"}, ruleLines(rs.Custom()))
}

func TestMatch_DefaultsThenCustom(t *testing.T) {
	rs := NewRuleSet(true, nil)
	rs.SetCustom([]*Rule{{Pattern: regexp.MustCompile(`^build$`), Line: `^build$`, LineNo: 1}})

	matched, rule := rs.Match("yarn.lock")
	assert.True(t, matched)
	assert.Zero(t, rule.LineNo)
	assert.Contains(t, rule.Line, `yarn\.lock`)

	matched, rule = rs.Match("build")
	assert.True(t, matched)
	assert.Equal(t, 1, rule.LineNo)

	matched, _ = rs.Match("src")
	assert.False(t, matched)

	assert.Len(t, NewRuleSet(false, nil).Defaults(), 0)
	assert.Len(t, rs.Defaults(), len(defaultPatterns))
}

// sample is /p/docs/{guide.md, sub/notes.txt} plus /p/readme.md and an error node.
func sample() *tree.Node {
	sub := tree.NewFolder("sub", "/p/docs/sub")
	sub.Children = []*tree.Node{tree.NewFile("notes.txt", "/p/docs/sub/notes.txt", str("n"))}
	docs := tree.NewFolder("docs", "/p/docs")
	docs.Children = []*tree.Node{sub, tree.NewFile("guide.md", "/p/docs/guide.md", str("g"))}
	root := tree.NewFolder("p", "/p")
	root.Children = []*tree.Node{
		docs,
		tree.NewFile("readme.md", "/p/readme.md", str("r")),
		tree.NewError("docs.md", "/p/docs.md", "permission denied"),
	}
	return root
}

func TestApply_HidesMatchesOnly(t *testing.T) {
	roots := []*tree.Node{sample()}
	m := visibility.New()
	m.Initialize(roots)

	rs := NewRuleSet(false, nil)
	require.NoError(t, rs.SetCustomText(`\.md$`))
	hidden := rs.Apply(roots, m)

	assert.Equal(t, 2, hidden)
	assert.False(t, m.FileVisible("/p/docs/guide.md"))
	assert.False(t, m.FileVisible("/p/readme.md"))
	assert.True(t, m.FileVisible("/p/docs/sub/notes.txt"))
	assert.True(t, m.FolderVisible("/p/docs"))
}

func TestApply_FolderMatchDoesNotCascade(t *testing.T) {
	roots := []*tree.Node{sample()}
	m := visibility.New()
	m.Initialize(roots)

	rs := NewRuleSet(false, nil)
	require.NoError(t, rs.SetCustomText(`^docs$`))
	rs.Apply(roots, m)

	assert.False(t, m.FolderVisible("/p/docs"))
	assert.True(t, m.FolderVisible("/p/docs/sub"))
	assert.True(t, m.FileVisible("/p/docs/guide.md"))
	assert.True(t, m.FileVisible("/p/docs/sub/notes.txt"))
}

func TestApply_BareNameOnly(t *testing.T) {
	roots := []*tree.Node{sample()}
	m := visibility.New()
	m.Initialize(roots)

	// "docs" appears in the child paths but not in the child names.
	rs := NewRuleSet(false, nil)
	require.NoError(t, rs.SetCustomText(`docs/`))
	assert.Zero(t, rs.Apply(roots, m))
	assert.True(t, m.FileVisible("/p/docs/guide.md"))
}

func TestDefaultRules_HideFileContent(t *testing.T) {
	lib := tree.NewFolder("node_modules", "/p/node_modules")
	lib.Children = []*tree.Node{
		tree.NewFile("app.min.js", "/p/node_modules/app.min.js", str("m")),
		tree.NewFile("app.js.map", "/p/node_modules/app.js.map", str("s")),
		tree.NewFile("index.js", "/p/node_modules/index.js", str("i")),
	}
	root := tree.NewFolder("p", "/p")
	root.Children = []*tree.Node{
		lib,
		tree.NewFile(".DS_Store", "/p/.DS_Store", str("d")),
		tree.NewFile("go.sum", "/p/go.sum", str("g")),
		tree.NewFile("server.key", "/p/server.key", str("k")),
		tree.NewFile("main.go", "/p/main.go", str("package main")),
	}
	roots := []*tree.Node{root}
	m := visibility.New()
	m.Initialize(roots)

	assert.Equal(t, 5, NewRuleSet(true, nil).Apply(roots, m))
	for _, hidden := range []string{"/p/node_modules/app.min.js", "/p/node_modules/app.js.map", "/p/.DS_Store", "/p/go.sum", "/p/server.key"} {
		assert.False(t, m.FileVisible(hidden), hidden)
	}
	assert.True(t, m.FileVisible("/p/main.go"))
	assert.True(t, m.FileVisible("/p/node_modules/index.js"))
	assert.True(t, m.FolderVisible("/p/node_modules"))
}

func TestApply_IsMonotonic(t *testing.T) {
	roots := []*tree.Node{sample()}
	m := visibility.New()
	m.Initialize(roots)
	m.SetFileVisible("/p/docs/sub/notes.txt", false)

	rs := NewRuleSet(false, nil)
	require.NoError(t, rs.SetCustomText(`^readme\.md$`))
	rs.Apply(roots, m)
	rs.Apply(roots, m)

	assert.False(t, m.FileVisible("/p/docs/sub/notes.txt"))
	assert.False(t, m.FileVisible("/p/readme.md"))
	assert.True(t, m.FileVisible("/p/docs/guide.md"))
}
