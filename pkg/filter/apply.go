// File: pkg/filter/apply.go
package filter

import (
	"go.uber.org/zap"

	"treeflat/pkg/tree"
)

// Hider is the part of the visibility model the filter writes to.
type Hider interface {
	SetFolderVisible(path string, visible bool, cascade bool)
	SetFileVisible(path string, visible bool)
}

// Apply tests every folder and file name under roots, in pre-order, and sets
// the entry of each matching node to hidden. It never makes anything visible,
// and a matching folder does not hide its children. Error nodes are ignored.
// It returns the number of nodes hidden.
func (rs *RuleSet) Apply(roots []*tree.Node, h Hider) int {
	hidden := 0
	_ = tree.WalkAll(roots, func(n *tree.Node, _ int) error {
		if n.IsError() {
			return nil
		}
		matched, rule := rs.Match(n.Name)
		if !matched {
			return nil
		}
		if n.IsFolder() {
			h.SetFolderVisible(n.Path, false, false)
		} else {
			h.SetFileVisible(n.Path, false)
		}
		hidden++
		rs.logger.Debug("Filter rule matched",
			zap.String("path", n.Path),
			zap.Stringer("kind", n.Kind),
			zap.String("rule", rule.Line))
		return nil
	})
	return hidden
}
