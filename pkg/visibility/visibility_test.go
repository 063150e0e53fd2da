package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"treeflat/pkg/tree"
)

func str(s string) *string { return &s }

// sampleTree is:
//
//	/r
//	├── /r/a
//	│   ├── /r/a/deep
//	│   │   └── /r/a/deep/x.go
//	│   └── /r/a/y.go
//	└── /r/z.txt
func sampleTree() *tree.Node {
	deep := tree.NewFolder("deep", "/r/a/deep")
	deep.Children = []*tree.Node{tree.NewFile("x.go", "/r/a/deep/x.go", str("x"))}
	a := tree.NewFolder("a", "/r/a")
	a.Children = []*tree.Node{deep, tree.NewFile("y.go", "/r/a/y.go", str("y"))}
	r := tree.NewFolder("r", "/r")
	r.Children = []*tree.Node{a, tree.NewFile("z.txt", "/r/z.txt", nil)}
	return r
}

func TestUnknownPathsDefaultVisible(t *testing.T) {
	m := New()
	assert.True(t, m.FileVisible("/never/seen"))
	assert.True(t, m.FolderVisible("/never/seen"))
}

func TestInitializeOverwritesPriorState(t *testing.T) {
	m := New()
	m.SetFileVisible("/r/z.txt", false)
	m.SetFolderVisible("/r/a", false, false)
	m.SetFileVisible("/old/tree.txt", false)

	m.Initialize([]*tree.Node{sampleTree()})

	assert.True(t, m.FileVisible("/r/z.txt"))
	assert.True(t, m.FolderVisible("/r/a"))
	assert.True(t, m.FileVisible("/old/tree.txt"))
	folders, files := m.Hidden()
	assert.Zero(t, folders)
	assert.Zero(t, files)
}

func TestCascadeThenIndependentToggle(t *testing.T) {
	m := New()
	m.Initialize([]*tree.Node{sampleTree()})

	m.SetFolderVisible("/r/a", false, true)
	assert.False(t, m.FolderVisible("/r/a"))
	assert.False(t, m.FolderVisible("/r/a/deep"))
	assert.False(t, m.FileVisible("/r/a/deep/x.go"))
	assert.False(t, m.FileVisible("/r/a/y.go"))
	assert.True(t, m.FileVisible("/r/z.txt"))
	assert.True(t, m.FolderVisible("/r"))

	m.SetFileVisible("/r/a/y.go", true)
	assert.True(t, m.FileVisible("/r/a/y.go"))
	assert.False(t, m.FileVisible("/r/a/deep/x.go"))
	assert.False(t, m.FolderVisible("/r/a"))
	assert.False(t, m.FolderVisible("/r/a/deep"))
}

func TestNonCascadingFolderToggle(t *testing.T) {
	m := New()
	m.Initialize([]*tree.Node{sampleTree()})

	m.SetFolderVisible("/r/a", false, false)
	assert.False(t, m.FolderVisible("/r/a"))
	assert.True(t, m.FolderVisible("/r/a/deep"))
	assert.True(t, m.FileVisible("/r/a/y.go"))
}

func TestCascadeRestoresSubtree(t *testing.T) {
	m := New()
	m.Initialize([]*tree.Node{sampleTree()})

	m.SetFolderVisible("/r", false, true)
	folders, files := m.Hidden()
	assert.Equal(t, 3, folders)
	assert.Equal(t, 3, files)

	m.SetFolderVisible("/r", true, true)
	folders, files = m.Hidden()
	assert.Zero(t, folders)
	assert.Zero(t, files)
}
