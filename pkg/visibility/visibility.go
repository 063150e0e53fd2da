// Package visibility holds the mutable show/hide overlay applied to a traversal result.
package visibility

import "treeflat/pkg/tree"

// Model maps folder and file paths to a visibility flag. Paths that were never
// initialized or set are visible. A Model is owned by its caller and is not
// safe for concurrent mutation.
type Model struct {
	folders map[string]bool
	files   map[string]bool
	index   map[string]*tree.Node
}

// New returns an empty model in which every path is visible.
func New() *Model {
	return &Model{
		folders: make(map[string]bool),
		files:   make(map[string]bool),
		index:   make(map[string]*tree.Node),
	}
}

// Initialize discards all prior state and marks every folder and file under
// roots visible.
func (m *Model) Initialize(roots []*tree.Node) {
	m.folders = make(map[string]bool)
	m.files = make(map[string]bool)
	m.index = make(map[string]*tree.Node)
	_ = tree.WalkAll(roots, func(n *tree.Node, _ int) error {
		switch n.Kind {
		case tree.KindFolder:
			m.folders[n.Path] = true
			m.index[n.Path] = n
		case tree.KindFile:
			m.files[n.Path] = true
		}
		return nil
	})
}

// FolderVisible reports the entry for a folder path.
func (m *Model) FolderVisible(path string) bool {
	v, ok := m.folders[path]
	return !ok || v
}

// FileVisible reports the entry for a file path.
func (m *Model) FileVisible(path string) bool {
	v, ok := m.files[path]
	return !ok || v
}

// SetFileVisible sets a single file's entry.
func (m *Model) SetFileVisible(path string, visible bool) {
	m.files[path] = visible
}

// SetFolderVisible sets a folder's entry. With cascade, every descendant
// folder and file entry is set to the same value immediately; descendants can
// be changed independently afterwards.
func (m *Model) SetFolderVisible(path string, visible bool, cascade bool) {
	m.folders[path] = visible
	if !cascade {
		return
	}
	folder, ok := m.index[path]
	if !ok {
		return
	}
	for _, child := range folder.Children {
		_ = child.Walk(func(n *tree.Node, _ int) error {
			switch n.Kind {
			case tree.KindFolder:
				m.folders[n.Path] = visible
			case tree.KindFile:
				m.files[n.Path] = visible
			}
			return nil
		})
	}
}

// Hidden returns the number of folder and file entries currently set to false.
func (m *Model) Hidden() (folders, files int) {
	for _, v := range m.folders {
		if !v {
			folders++
		}
	}
	for _, v := range m.files {
		if !v {
			files++
		}
	}
	return folders, files
}
