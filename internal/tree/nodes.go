package tree

import (
	"path/filepath"
	"strconv"

	"testbridge/internal/domain"
)

// NewSessionNode creates the synthetic root for a run
func NewSessionNode(root string) *domain.TestNode {
	return &domain.TestNode{
		Name:     filepath.Base(root),
		Path:     root,
		Type:     domain.KindFolder,
		ID:       root,
		Children: []domain.Node{},
	}
}

// NewFolderNode creates a folder node for a directory
func NewFolderNode(dir string) *domain.TestNode {
	return &domain.TestNode{
		Name:     filepath.Base(dir),
		Path:     dir,
		Type:     domain.KindFolder,
		ID:       dir,
		Children: []domain.Node{},
	}
}

// NewFileNode creates a file node; the file path is its identity
func NewFileNode(path string) *domain.TestNode {
	return &domain.TestNode{
		Name:     filepath.Base(path),
		Path:     path,
		Type:     domain.KindFile,
		ID:       path,
		Children: []domain.Node{},
	}
}

// NewDocFileNode creates a file node holding doctests
func NewDocFileNode(path string) *domain.TestNode {
	node := NewFileNode(path)
	node.Type = domain.KindDocFile
	return node
}

// NewClassNode creates a class node from the class parent of a case,
// located in the module file at path
func NewClassNode(c domain.CaseRecord, path string) *domain.TestNode {
	return &domain.TestNode{
		Name:     c.ParentName,
		Path:     path,
		Type:     domain.KindClass,
		ID:       c.ParentID,
		Children: []domain.Node{},
	}
}

// NewTestItem creates the leaf for a collected case. Line numbers arrive 0-based
// and are emitted 1-based; an unknown line is the empty string.
func NewTestItem(c domain.CaseRecord) *domain.TestItem {
	lineno := ""
	if c.LineNumber != nil {
		lineno = strconv.Itoa(*c.LineNumber + 1)
	}
	return &domain.TestItem{
		Name:   c.DisplayName,
		Path:   c.FilePath,
		Type:   domain.KindTest,
		ID:     c.ID,
		Lineno: lineno,
		RunID:  c.ID,
	}
}
