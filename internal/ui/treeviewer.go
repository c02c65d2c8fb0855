package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"testbridge/internal/domain"
)

// TreeViewer browses a discovery tree in an interactive TUI, annotating
// tests with the outcomes of the last run when there is one
type TreeViewer struct{}

// NewTreeViewer creates a new TreeViewer
func NewTreeViewer() *TreeViewer {
	return &TreeViewer{}
}

// View displays the tree until the user exits with Ctrl+C or Esc
func (tv *TreeViewer) View(payload *domain.DiscoveryPayload, results *domain.RunOutput) error {
	if payload == nil || payload.Tests == nil {
		color.Yellow("No discovered tests to show")
		return nil
	}

	app := tview.NewApplication()

	root := buildTreeNode(payload.Tests, results)
	tree := tview.NewTreeView().
		SetRoot(root).
		SetCurrentNode(root)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(tree, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	counts := CountTree(payload.Tests)
	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" Tests (%d tests, %d files, %d errors) | Use ↑↓ to navigate, Enter to expand/collapse, Esc or Ctrl+C to exit ",
			counts.Tests, counts.Files, len(payload.Errors)))

	updateDetails := func(node *tview.TreeNode) {
		ref, ok := node.GetReference().(domain.Node)
		if !ok {
			return
		}
		statsView.SetText(formatNodeStats(ref))
		detailsView.SetText(formatNodeDetails(ref, results))
	}

	tree.SetChangedFunc(updateDetails)
	tree.SetSelectedFunc(func(node *tview.TreeNode) {
		node.SetExpanded(!node.IsExpanded())
	})

	tree.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEsc:
			app.Stop()
			return nil
		}
		return event
	})

	updateDetails(root)

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(tree).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// buildTreeNode mirrors a discovery tree as tview nodes
func buildTreeNode(n domain.Node, results *domain.RunOutput) *tview.TreeNode {
	switch node := n.(type) {
	case *domain.TestItem:
		text := node.Name
		c := tcell.ColorWhite
		if o, ok := lookupOutcome(node, results); ok {
			if o.Outcome.Failed() {
				c = tcell.ColorRed
				text = "✗ " + text
			} else if o.Outcome == domain.OutcomeSkipped {
				c = tcell.ColorYellow
				text = "- " + text
			} else {
				c = tcell.ColorGreen
				text = "✓ " + text
			}
		}
		return tview.NewTreeNode(text).SetReference(n).SetColor(c).SetSelectable(true)

	case *domain.TestNode:
		c := tcell.ColorDarkCyan
		switch node.Type {
		case domain.KindFile, domain.KindDocFile:
			c = tcell.ColorYellow
		case domain.KindClass:
			c = tcell.ColorFuchsia
		}
		tn := tview.NewTreeNode(node.Name).SetReference(n).SetColor(c).SetSelectable(true)
		for _, child := range node.Children {
			tn.AddChild(buildTreeNode(child, results))
		}
		return tn
	}
	return tview.NewTreeNode(n.NodeID()).SetReference(n)
}

func lookupOutcome(item *domain.TestItem, results *domain.RunOutput) (domain.Outcome, bool) {
	if results == nil {
		return domain.Outcome{}, false
	}
	if o, ok := results.Results[item.RunID]; ok {
		return o, true
	}
	o, ok := results.Results[item.ID]
	return o, ok
}

// subtestOutcomes returns the recorded subtests of item in run order
func subtestOutcomes(item *domain.TestItem, results *domain.RunOutput) []domain.Outcome {
	if results == nil {
		return nil
	}
	var subs []domain.Outcome
	for _, key := range results.Order {
		o := results.Results[key]
		if o.SubtestID != nil && (o.TestID == item.RunID || o.TestID == item.ID) {
			subs = append(subs, o)
		}
	}
	return subs
}

func formatNodeStats(n domain.Node) string {
	return fmt.Sprintf("[cyan]%s:[white] [yellow]%s[white]\n", n.NodeKind(), n.NodeID())
}

// formatNodeDetails renders a node with tview color tags
func formatNodeDetails(n domain.Node, results *domain.RunOutput) string {
	var b strings.Builder

	switch node := n.(type) {
	case *domain.TestItem:
		fmt.Fprintf(&b, "[white]Test: %s\n\n", node.Name)
		fmt.Fprintf(&b, "[cyan]Path: %s[white]\n", node.Path)
		if node.Lineno != "" {
			fmt.Fprintf(&b, "[yellow]Line: %s[white]\n", node.Lineno)
		}
		fmt.Fprintf(&b, "[cyan]Run ID: %s[white]\n\n", node.RunID)

		o, ok := lookupOutcome(node, results)
		if !ok {
			b.WriteString("[gray]No outcome recorded[white]\n")
		} else {
			writeOutcome(&b, o)
		}

		for _, sub := range subtestOutcomes(node, results) {
			b.WriteString("\n")
			fmt.Fprintf(&b, "[cyan]Subtest: %s[white]\n", *sub.SubtestID)
			writeOutcome(&b, sub)
		}

	case *domain.TestNode:
		fmt.Fprintf(&b, "[white]%s\n\n", node.Name)
		if node.Path != "" {
			fmt.Fprintf(&b, "[cyan]Path: %s[white]\n", node.Path)
		}
		fmt.Fprintf(&b, "[cyan]Tests: %d[white]\n", len(node.Tests()))
	}

	return b.String()
}

func writeOutcome(b *strings.Builder, o domain.Outcome) {
	tag := "green"
	if o.Outcome.Failed() {
		tag = "red"
	} else if o.Outcome == domain.OutcomeSkipped {
		tag = "yellow"
	}
	fmt.Fprintf(b, "[%s]Outcome: %s[white] (%.3fs)\n", tag, o.Outcome, o.DurationSeconds)
	if o.Message != "" {
		fmt.Fprintf(b, "[yellow]Message:[white]\n%s\n", tview.Escape(o.Message))
	}
	if o.Traceback != nil && *o.Traceback != "" {
		fmt.Fprintf(b, "[yellow]Traceback:[white]\n%s\n", tview.Escape(*o.Traceback))
	}
}
