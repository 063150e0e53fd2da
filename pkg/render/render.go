// Package render turns traversal roots and a visibility overlay into the
// indented text report.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"treeflat/pkg/tree"
)

const (
	branch        = "├───"
	childIndent   = "│   "
	contentIndent = "│       "
)

// Visibility answers whether a file's content should be printed.
type Visibility interface {
	FileVisible(path string) bool
}

// Render returns the report for roots. It is deterministic and does not
// modify the tree, so it can be called again after every visibility change.
func Render(roots []*tree.Node, vis Visibility) string {
	var sb strings.Builder
	// strings.Builder never returns a write error.
	_ = Write(&sb, roots, vis)
	return sb.String()
}

// Write streams the report for roots to w.
//
// Every folder, file and error node produces exactly one line, in pre-order.
// A file's content follows its line only when the file is visible and has content.
// A missing root is reported unindented with its full path.
func Write(w io.Writer, roots []*tree.Node, vis Visibility) error {
	bw := bufio.NewWriter(w)
	for _, root := range roots {
		writeNode(bw, root, "", vis)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeNode(w *bufio.Writer, n *tree.Node, indent string, vis Visibility) {
	switch n.Kind {
	case tree.KindFolder:
		w.WriteString(indent + branch + n.Name + "/\n")
		for _, child := range n.Children {
			writeNode(w, child, indent+childIndent, vis)
		}
	case tree.KindFile:
		w.WriteString(indent + branch + n.Name + "\n")
		if n.Content == nil || !vis.FileVisible(n.Path) {
			return
		}
		for _, line := range strings.Split(*n.Content, "\n") {
			w.WriteString(indent + contentIndent + line + "\n")
		}
	case tree.KindError:
		if n.Missing {
			fmt.Fprintf(w, "Error: Path does not exist: %s\n", n.Path)
			return
		}
		fmt.Fprintf(w, "%s%sError processing %s: %s\n", indent, branch, n.Name, n.ErrMessage)
	}
}
