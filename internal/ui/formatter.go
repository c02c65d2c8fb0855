package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"testbridge/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out; nil means color.Output
func NewFormatter(out io.Writer) *Formatter {
	if out == nil {
		out = color.Output
	}
	return &Formatter{out: out}
}

// TreeCounts summarizes a discovery tree
type TreeCounts struct {
	Folders int
	Files   int
	Classes int
	Tests   int
}

// CountTree counts the nodes below the session root by kind
func CountTree(root *domain.TestNode) TreeCounts {
	var c TreeCounts
	root.Walk(func(n domain.Node, depth int) {
		if depth == 0 {
			return
		}
		switch n.NodeKind() {
		case domain.KindFolder:
			c.Folders++
		case domain.KindFile, domain.KindDocFile:
			c.Files++
		case domain.KindClass:
			c.Classes++
		case domain.KindTest:
			c.Tests++
		}
	})
	return c
}

var (
	folderColor = color.New(color.FgCyan)
	fileColor   = color.New(color.FgYellow)
	classColor  = color.New(color.FgMagenta)
	testColor   = color.New(color.FgWhite)
	lineColor   = color.New(color.FgHiBlack)
)

// RenderTree draws the tree below root with box-drawing connectors
func RenderTree(root *domain.TestNode) string {
	var b strings.Builder
	b.WriteString(folderColor.Sprint(root.Name))
	b.WriteString("\n")
	renderChildren(&b, root, "")
	return b.String()
}

func renderChildren(b *strings.Builder, node *domain.TestNode, prefix string) {
	for i, child := range node.Children {
		last := i == len(node.Children)-1
		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}

		b.WriteString(prefix + connector + label(child) + "\n")
		if container, ok := child.(*domain.TestNode); ok {
			renderChildren(b, container, prefix+indent)
		}
	}
}

func label(n domain.Node) string {
	switch node := n.(type) {
	case *domain.TestItem:
		if node.Lineno == "" {
			return testColor.Sprint(node.Name)
		}
		return testColor.Sprint(node.Name) + lineColor.Sprintf(":%s", node.Lineno)
	case *domain.TestNode:
		switch node.Type {
		case domain.KindFile:
			return fileColor.Sprint(node.Name)
		case domain.KindDocFile:
			return fileColor.Sprint(node.Name) + lineColor.Sprint(" (doctests)")
		case domain.KindClass:
			return classColor.Sprint(node.Name)
		default:
			return folderColor.Sprint(node.Name + "/")
		}
	}
	return n.NodeID()
}

// PrintDiscovery prints the tree of a discovery payload and its errors
func (f *Formatter) PrintDiscovery(payload *domain.DiscoveryPayload, showTree bool) {
	if payload.Tests == nil {
		color.New(color.FgYellow).Fprintln(f.out, "No tests discovered")
	} else {
		counts := CountTree(payload.Tests)
		color.New(color.FgGreen).Fprintf(f.out, "Discovered %d test(s) in %d file(s), %d class(es)\n", counts.Tests, counts.Files, counts.Classes)
		if showTree {
			fmt.Fprintln(f.out)
			fmt.Fprint(f.out, RenderTree(payload.Tests))
		}
	}

	if len(payload.Errors) > 0 {
		fmt.Fprintln(f.out)
		red := color.New(color.FgRed)
		red.Fprintf(f.out, "✗ %d discovery error(s):\n", len(payload.Errors))
		for _, e := range payload.Errors {
			red.Fprintf(f.out, "  - %s\n", e)
		}
	}
}

// PrintRunStats prints the statistics table of an execution run followed by
// the failing tests
func (f *Formatter) PrintRunStats(output *domain.RunOutput) {
	meta := output.Meta
	cyan := color.New(color.FgCyan)
	white := color.New(color.FgWhite)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	// Print header
	fmt.Fprint(f.out, "\n")
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                    Test Execution Statistics                  ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)

	// Print table
	sep := "├─────────────────────────────────┼─────────────────────────────┤"
	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	row := func(name string, c *color.Color, value any) {
		fmt.Fprintf(f.out, "│ %-31s │ ", name)
		c.Fprintf(f.out, "%-27v", value)
		fmt.Fprintln(f.out, " │")
	}
	row("Total Outcomes", white, meta.Total)
	fmt.Fprintln(f.out, sep)
	row("Passed", green, meta.Passed)
	fmt.Fprintln(f.out, sep)
	row("Failed", red, meta.Failed)
	fmt.Fprintln(f.out, sep)
	row("Skipped", yellow, meta.Skipped)
	fmt.Fprintln(f.out, sep)
	row("Not Found", yellow, len(output.NotFound))
	fmt.Fprintln(f.out, sep)
	row("Duration", white, fmt.Sprintf("%.2fs", meta.DurationSeconds))
	fmt.Fprintln(f.out, sep)
	row("Timestamp", white, meta.Timestamp)
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	// Print summary line
	fmt.Fprintln(f.out)
	if meta.Failed == 0 {
		green.Fprintln(f.out, "✓ All tests passed!")
	} else {
		red.Fprintf(f.out, "✗ %d test(s) failed\n", meta.Failed)
		for _, key := range output.Order {
			o := output.Results[key]
			if !o.Outcome.Failed() {
				continue
			}
			red.Fprintf(f.out, "  ✗ %s", key)
			fmt.Fprintf(f.out, " (%s)\n", o.Outcome)
			if o.Message != "" {
				fmt.Fprintf(f.out, "      %s\n", firstLine(o.Message))
			}
		}
	}

	for _, id := range output.NotFound {
		yellow.Fprintf(f.out, "  ? %s (not found)\n", id)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// PrintPayload prints one payload as received by an editor
func (f *Formatter) PrintPayload(p domain.Payload) {
	switch payload := p.(type) {
	case domain.DiscoveryPayload:
		color.New(color.FgCyan).Fprintf(f.out, "← discovery (%s) cwd=%s\n", payload.Status, payload.CWD)
		f.PrintDiscovery(&payload, true)

	case domain.ExecutionPayload:
		cyan := color.New(color.FgCyan)
		if payload.Status == domain.StatusError {
			color.New(color.FgRed).Fprintf(f.out, "← execution error: %s\n", payload.Error)
			return
		}
		for key, o := range payload.Result {
			cyan.Fprint(f.out, "← ")
			outcomeColor(o.Outcome).Fprintf(f.out, "%-18s", o.Outcome)
			fmt.Fprintf(f.out, " %s\n", key)
		}
		for _, id := range payload.NotFound {
			cyan.Fprint(f.out, "← ")
			color.New(color.FgYellow).Fprintf(f.out, "%-18s", "not found")
			fmt.Fprintf(f.out, " %s\n", id)
		}

	case domain.EOTPayload:
		color.New(color.FgCyan).Fprintf(f.out, "← end of %s\n", payload.CommandType)
	}
}

func outcomeColor(k domain.OutcomeKind) *color.Color {
	switch {
	case k.Failed():
		return color.New(color.FgRed)
	case k == domain.OutcomeSkipped || k == domain.OutcomeExpectedFailure:
		return color.New(color.FgYellow)
	}
	return color.New(color.FgGreen)
}
