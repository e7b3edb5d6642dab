package checks

import (
	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// checkSwitch wants a default label in every switch and no space before
// a label's colon.
func checkSwitch(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	if cfg.Enabled(lint.CtrlSwitch) {
		for _, sw := range f.Nodes.Get("switch_statement") {
			if !hasDefault(sw) {
				r.at(lint.CtrlSwitch, sw, "Switch statement should have a default case")
			}
		}
	}

	if cfg.Enabled(lint.CtrlSwitchPadding) {
		for _, label := range f.Nodes.Get("case_statement") {
			colon := label.ChildOfKind(":")
			if colon == nil {
				continue
			}
			row, col := colon.Start.Row, colon.Start.Column
			if line := f.Line(row); col > 0 && col <= len(line) && isSpaceByte(line[col-1]) {
				r.add(lint.CtrlSwitchPadding, row, col, "No space before colon in case/default label")
			}
		}
	}

	return r.violations()
}

// hasDefault looks only at the labels directly inside the switch body, so
// a nested switch's default does not count.
func hasDefault(sw *syntax.Node) bool {
	body := sw.ChildByField("body")
	if body == nil {
		return false
	}
	for _, label := range body.ChildrenOfKind("case_statement") {
		if len(label.Children) > 0 && label.Children[0].Kind == "default" {
			return true
		}
	}
	return false
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\v', '\f', '\r':
		return true
	}
	return false
}
