package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"testbridge/internal/domain"
)

func TestBuildTreeNode(t *testing.T) {
	results := &domain.RunOutput{
		Results: map[string]domain.Outcome{
			"tests/test_a.py::TestA::test_one": {Outcome: domain.OutcomeFailure},
		},
	}

	root := buildTreeNode(sampleTree(), results)
	if got := len(root.GetChildren()); got != 2 {
		t.Fatalf("expected 2 children, got %d", got)
	}

	file := root.GetChildren()[0].GetChildren()[0]
	class := file.GetChildren()[0]
	test := class.GetChildren()[0]

	if test.GetText() != "✗ test_one" {
		t.Errorf("unexpected text %q", test.GetText())
	}
	if test.GetColor() != tcell.ColorRed {
		t.Errorf("expected failing test to be red")
	}
	if free := file.GetChildren()[1]; free.GetText() != "test_free" {
		t.Errorf("test without outcome should be unmarked, got %q", free.GetText())
	}
}

func TestFormatNodeDetails(t *testing.T) {
	tb := "Traceback: boom"
	sub := "t::test_sub (i=1)"
	item := &domain.TestItem{Name: "test_sub", Path: "/r/t.py", Type: domain.KindTest, ID: "t::test_sub", Lineno: "3", RunID: "t::test_sub"}
	results := &domain.RunOutput{
		Order: []string{"t::test_sub", sub},
		Results: map[string]domain.Outcome{
			"t::test_sub": {TestID: "t::test_sub", Outcome: domain.OutcomeSuccess},
			sub:           {TestID: "t::test_sub", Outcome: domain.OutcomeSubtestFailure, Traceback: &tb, SubtestID: &sub},
		},
	}

	tests := []struct {
		name     string
		node     domain.Node
		results  *domain.RunOutput
		contains []string
	}{
		{
			name:     "test with subtests",
			node:     item,
			results:  results,
			contains: []string{"Line: 3", "Outcome: success", "Subtest: t::test_sub (i=1)", "[red]Outcome: subtest-failure", "Traceback: boom"},
		},
		{
			name:     "test without run",
			node:     item,
			contains: []string{"Run ID: t::test_sub", "No outcome recorded"},
		},
		{
			name:     "container",
			node:     sampleTree(),
			contains: []string{"Path: /repo", "Tests: 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatNodeDetails(tt.node, tt.results)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected %q in:\n%s", want, got)
				}
			}
		})
	}
}
