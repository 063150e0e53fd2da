// File: pkg/combine/session.go
package combine

import (
	"errors"
	"io"
	"sync"

	"go.uber.org/zap"

	"treeflat/pkg/filter"
	"treeflat/pkg/render"
	"treeflat/pkg/tree"
	"treeflat/pkg/visibility"
)

var (
	// ErrBusy is returned by Load while another batch is running on the session.
	ErrBusy = errors.New("a traversal batch is already running")
	// ErrNoPaths is returned by Load when no paths are given.
	ErrNoPaths = errors.New("no paths to combine")
)

// Session owns one traversal result, its visibility overlay and the filter
// rules applied to it. Load replaces the tree and the overlay wholesale; the
// other methods act on the current result.
type Session struct {
	mu    sync.Mutex
	busy  bool
	roots []*tree.Node
	vis   *visibility.Model

	extractor  tree.Extractor
	rules      *filter.RuleSet
	logger     *zap.Logger
	autoFilter bool
	maxDepth   int
	fsys       tree.FileSystem
	onProgress tree.ProgressFunc
	onComplete tree.CompletionFunc
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session's logger. It is also handed to the builder.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAutoFilter controls whether Load applies the rules to every new tree.
func WithAutoFilter(enabled bool) SessionOption {
	return func(s *Session) { s.autoFilter = enabled }
}

// WithMaxDepth limits folder nesting below each root. Zero means unlimited.
func WithMaxDepth(depth int) SessionOption {
	return func(s *Session) { s.maxDepth = depth }
}

// WithFileSystem replaces the host filesystem primitives used by Load.
func WithFileSystem(fsys tree.FileSystem) SessionOption {
	return func(s *Session) { s.fsys = fsys }
}

// WithProgress registers a hook called once per file before it is extracted.
func WithProgress(fn tree.ProgressFunc) SessionOption {
	return func(s *Session) { s.onProgress = fn }
}

// WithCompletion registers a hook called once per Load, after the new tree
// and its visibility overlay are in place.
func WithCompletion(fn tree.CompletionFunc) SessionOption {
	return func(s *Session) { s.onComplete = fn }
}

// NewSession returns an empty session. rules may be nil, in which case an
// empty rule set without defaults is used.
func NewSession(extractor tree.Extractor, rules *filter.RuleSet, opts ...SessionOption) *Session {
	s := &Session{
		vis:        visibility.New(),
		extractor:  extractor,
		rules:      rules,
		logger:     zap.NewNop(),
		autoFilter: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rules == nil {
		s.rules = filter.NewRuleSet(false, s.logger)
	}
	return s
}

// Load builds paths in order, replaces the current tree and visibility overlay
// with the result and, when auto-filtering is on, applies the rules. It returns
// the new roots.
func (s *Session) Load(paths []string) ([]*tree.Node, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		s.logger.Warn("Rejected load while a batch is running", zap.Strings("paths", paths))
		return nil, ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	installed := false
	defer func() {
		if !installed {
			s.mu.Lock()
			s.busy = false
			s.mu.Unlock()
		}
	}()

	var stats tree.Stats
	opts := []tree.BuilderOption{
		tree.WithLogger(s.logger),
		tree.WithProgress(s.onProgress),
		tree.WithMaxDepth(s.maxDepth),
		tree.WithCompletion(func(st tree.Stats) { stats = st }),
	}
	if s.fsys != nil {
		opts = append(opts, tree.WithFileSystem(s.fsys))
	}
	roots := tree.NewBuilder(s.extractor, opts...).BuildAll(paths)

	s.mu.Lock()
	vis := visibility.New()
	vis.Initialize(roots)
	hidden := 0
	if s.autoFilter {
		hidden = s.rules.Apply(roots, vis)
	}
	s.roots = roots
	s.vis = vis
	s.busy = false
	installed = true
	s.mu.Unlock()

	s.logger.Debug("Session loaded",
		zap.Int("rootCount", len(roots)),
		zap.Bool("autoFilter", s.autoFilter),
		zap.Int("hidden", hidden))
	if s.onComplete != nil {
		s.onComplete(stats)
	}
	return roots, nil
}

// Busy reports whether a batch is running.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Roots returns the current traversal result.
func (s *Session) Roots() []*tree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roots
}

// Stats counts the nodes of the current traversal result.
func (s *Session) Stats() tree.Stats {
	return tree.CountStats(s.Roots())
}

// Rules returns the session's rule set.
func (s *Session) Rules() *filter.RuleSet {
	return s.rules
}

// FileVisible reports whether the content of the file at path is shown.
func (s *Session) FileVisible(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vis.FileVisible(path)
}

// FolderVisible reports the entry for the folder at path.
func (s *Session) FolderVisible(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vis.FolderVisible(path)
}

// ToggleFile sets the visibility of a single file.
func (s *Session) ToggleFile(path string, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vis.SetFileVisible(path, visible)
}

// ToggleFolder sets the visibility of a folder and every folder and file below it.
func (s *Session) ToggleFolder(path string, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vis.SetFolderVisible(path, visible, true)
}

// SetCustomRules replaces the user rules and applies the full rule set to the
// current tree. Invalid text leaves both the rules and the overlay unchanged.
func (s *Session) SetCustomRules(text string) (int, error) {
	if err := s.rules.SetCustomText(text); err != nil {
		return 0, err
	}
	return s.ApplyFilters(), nil
}

// ApplyFilters hides every node of the current tree whose name matches a rule
// and returns the number of matches. It never makes anything visible.
func (s *Session) ApplyFilters() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.Apply(s.roots, s.vis)
}

// Render returns the report for the current tree and overlay.
func (s *Session) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return render.Render(s.roots, s.vis)
}

// Write streams the report for the current tree and overlay to w.
func (s *Session) Write(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return render.Write(w, s.roots, s.vis)
}
