// File: pkg/tree/builder.go
package tree

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	msgPathNotExist = "path does not exist"
	msgSymlinkCycle = "symlink cycle detected"
	msgSpecialFile  = "not a regular file or directory"
)

// Extractor returns the text of a file, or false when it has none.
type Extractor interface {
	Extract(path string) (string, bool)
}

// FileSystem is the set of read primitives the builder needs.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	EvalSymlinks(path string) (string, error)
}

// OSFileSystem reads from the host filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error)      { return os.Stat(name) }
func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (OSFileSystem) EvalSymlinks(path string) (string, error)   { return filepath.EvalSymlinks(path) }

// Progress is emitted once per file, before its content is extracted.
type Progress struct {
	CurrentFile string `json:"currentFile"`
	CurrentPath string `json:"currentPath"`
}

// ProgressFunc receives progress notifications.
type ProgressFunc func(Progress)

// CompletionFunc is called once after every root of a batch has been built.
type CompletionFunc func(Stats)

// Builder walks filesystem roots into Node trees. A Builder runs one traversal
// at a time; every read, extraction and progress emission happens in order.
type Builder struct {
	extractor  Extractor
	fsys       FileSystem
	logger     *zap.Logger
	onProgress ProgressFunc
	onComplete CompletionFunc
	maxDepth   int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the builder's logger.
func WithLogger(logger *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithFileSystem replaces the host filesystem primitives.
func WithFileSystem(fsys FileSystem) BuilderOption {
	return func(b *Builder) { b.fsys = fsys }
}

// WithProgress registers the per-file progress hook.
func WithProgress(fn ProgressFunc) BuilderOption {
	return func(b *Builder) { b.onProgress = fn }
}

// WithCompletion registers the end-of-batch hook.
func WithCompletion(fn CompletionFunc) BuilderOption {
	return func(b *Builder) { b.onComplete = fn }
}

// WithMaxDepth stops descending into folders nested deeper than depth levels
// below a root. Zero means unlimited.
func WithMaxDepth(depth int) BuilderOption {
	return func(b *Builder) { b.maxDepth = depth }
}

// NewBuilder returns a Builder that extracts file text with extractor.
func NewBuilder(extractor Extractor, opts ...BuilderOption) *Builder {
	b := &Builder{
		extractor: extractor,
		fsys:      OSFileSystem{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildAll builds every root sequentially in the given order. Duplicated roots
// are built again. The completion hook fires once at the end regardless of
// per-root errors.
func (b *Builder) BuildAll(roots []string) []*Node {
	start := time.Now()
	b.logger.Info("Starting traversal batch", zap.Int("rootCount", len(roots)))

	result := make([]*Node, 0, len(roots))
	for _, root := range roots {
		result = append(result, b.Build(root))
	}

	stats := CountStats(result)
	b.logger.Info("Traversal batch completed",
		zap.Int("folders", stats.Folders),
		zap.Int("files", stats.Files),
		zap.Int("errors", stats.Errors),
		zap.Duration("elapsed", time.Since(start)))
	if b.onComplete != nil {
		b.onComplete(stats)
	}
	return result
}

// Build returns the tree for a single root. It never fails: unreadable paths
// become error nodes.
func (b *Builder) Build(root string) *Node {
	absPath, err := filepath.Abs(root)
	if err != nil {
		b.logger.Warn("Failed to get absolute path", zap.String("path", root), zap.Error(err))
		absPath = root
	}
	name := filepath.Base(absPath)

	info, err := b.fsys.Stat(absPath)
	if err != nil {
		b.logger.Warn("Cannot stat root path", zap.String("path", absPath), zap.Error(err))
		if errors.Is(err, fs.ErrNotExist) {
			return NewMissing(name, absPath)
		}
		return NewError(name, absPath, err.Error())
	}

	switch {
	case info.IsDir():
		return b.buildFolder(name, absPath, 0, map[string]bool{})
	case info.Mode().IsRegular():
		return b.buildFile(name, absPath)
	default:
		b.logger.Warn("Root is not a regular file or directory", zap.String("path", absPath), zap.Stringer("mode", info.Mode()))
		return NewError(name, absPath, msgSpecialFile)
	}
}

// buildFolder lists dir, recursing into sub-folders first and then extracting
// files, both in listing order. ancestors holds the resolved paths of the
// folders on the current branch.
func (b *Builder) buildFolder(name, dir string, depth int, ancestors map[string]bool) *Node {
	realPath := dir
	if resolved, err := b.fsys.EvalSymlinks(dir); err == nil {
		realPath = resolved
	}
	if ancestors[realPath] {
		b.logger.Warn("Skipping symlink cycle", zap.String("directory", dir), zap.String("target", realPath))
		return NewError(name, dir, msgSymlinkCycle)
	}

	folder := NewFolder(name, dir)
	if b.maxDepth > 0 && depth >= b.maxDepth {
		b.logger.Debug("Max depth reached, not descending", zap.String("directory", dir), zap.Int("depth", depth))
		return folder
	}

	entries, err := b.fsys.ReadDir(dir)
	if err != nil {
		b.logger.Warn("Failed to read directory", zap.String("directory", dir), zap.Error(err))
		return NewError(name, dir, err.Error())
	}

	ancestors[realPath] = true
	defer delete(ancestors, realPath)

	var subdirs []string
	// files keeps listing order; unreadable entries stay in place as error nodes.
	var files []*Node
	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())
		info, err := b.fsys.Stat(entryPath)
		if err != nil {
			b.logger.Warn("Cannot stat entry", zap.String("path", entryPath), zap.Error(err))
			files = append(files, NewError(entry.Name(), entryPath, err.Error()))
			continue
		}
		switch {
		case info.IsDir():
			subdirs = append(subdirs, entry.Name())
		case info.Mode().IsRegular():
			files = append(files, &Node{Kind: KindFile, Name: entry.Name(), Path: entryPath})
		default:
			b.logger.Debug("Skipping special file", zap.String("path", entryPath), zap.Stringer("mode", info.Mode()))
		}
	}

	for _, sub := range subdirs {
		folder.Children = append(folder.Children, b.buildFolder(sub, filepath.Join(dir, sub), depth+1, ancestors))
	}
	for _, f := range files {
		if f.Kind == KindFile {
			f = b.buildFile(f.Name, f.Path)
		}
		folder.Children = append(folder.Children, f)
	}
	return folder
}

// buildFile emits progress for path and then extracts its content.
func (b *Builder) buildFile(name, path string) *Node {
	if b.onProgress != nil {
		b.onProgress(Progress{CurrentFile: name, CurrentPath: path})
	}
	text, ok := b.extractor.Extract(path)
	if !ok {
		return NewFile(name, path, nil)
	}
	return NewFile(name, path, &text)
}
