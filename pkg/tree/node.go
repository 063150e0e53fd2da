// Package tree builds an owned, in-memory snapshot of filesystem roots with the
// extracted text of every file.
package tree

// Kind tags which variant of Node a value holds.
type Kind int

const (
	KindFolder Kind = iota
	KindFile
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindFile:
		return "file"
	default:
		return "error"
	}
}

// Node is one entry of a traversal result.
//
// Folders carry Children (sub-folders first, then files, each in listing order).
// Files carry Content, nil when the file has no textual content.
// Error nodes carry ErrMessage and are always leaves. Missing is set on the
// error node of a root path that does not exist.
type Node struct {
	Kind       Kind
	Name       string
	Path       string
	Children   []*Node
	Content    *string
	ErrMessage string
	Missing    bool
}

// NewFolder returns a folder node with no children.
func NewFolder(name, path string) *Node {
	return &Node{Kind: KindFolder, Name: name, Path: path}
}

// NewFile returns a file node. content may be nil.
func NewFile(name, path string, content *string) *Node {
	return &Node{Kind: KindFile, Name: name, Path: path, Content: content}
}

// NewError returns an error node for a path that could not be read.
func NewError(name, path, message string) *Node {
	return &Node{Kind: KindError, Name: name, Path: path, ErrMessage: message}
}

// NewMissing returns the error node for a root path that does not exist.
func NewMissing(name, path string) *Node {
	return &Node{Kind: KindError, Name: name, Path: path, ErrMessage: msgPathNotExist, Missing: true}
}

func (n *Node) IsFolder() bool { return n.Kind == KindFolder }
func (n *Node) IsFile() bool   { return n.Kind == KindFile }
func (n *Node) IsError() bool  { return n.Kind == KindError }

// HasContent reports whether the node is a file with extracted text.
func (n *Node) HasContent() bool {
	return n.Kind == KindFile && n.Content != nil
}

// VisitFunc is called for each node during Walk with its depth below the root.
// Returning an error stops the walk.
type VisitFunc func(n *Node, depth int) error

// Walk visits n and its descendants in pre-order.
func (n *Node) Walk(fn VisitFunc) error {
	return n.walk(fn, 0)
}

func (n *Node) walk(fn VisitFunc, depth int) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := child.walk(fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// WalkAll walks every root in order.
func WalkAll(roots []*Node, fn VisitFunc) error {
	for _, root := range roots {
		if err := root.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarizes a set of traversal roots.
type Stats struct {
	Folders       int
	Files         int
	FilesWithText int
	Errors        int
}

// CountStats tallies the nodes under roots.
func CountStats(roots []*Node) Stats {
	var s Stats
	_ = WalkAll(roots, func(n *Node, _ int) error {
		switch n.Kind {
		case KindFolder:
			s.Folders++
		case KindFile:
			s.Files++
			if n.Content != nil {
				s.FilesWithText++
			}
		case KindError:
			s.Errors++
		}
		return nil
	})
	return s
}
