package domain

import (
	"fmt"

	"github.com/goccy/go-json"
)

// NodeKind is the category of a tree entry
type NodeKind string

const (
	KindFolder  NodeKind = "folder"
	KindFile    NodeKind = "file"
	KindDocFile NodeKind = "doc_file"
	KindClass   NodeKind = "class"
	KindTest    NodeKind = "test"
)

// Node is either a container (*TestNode) or a leaf (*TestItem)
type Node interface {
	NodeID() string
	NodeKind() NodeKind
}

// TestNode is a container in the discovery tree (session, folder, file, doc file, class)
type TestNode struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Type     NodeKind `json:"type_"`
	ID       string   `json:"id_"`
	Children []Node   `json:"children"`
}

// TestItem is a single runnable test
type TestItem struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Type   NodeKind `json:"type_"`
	ID     string   `json:"id_"`
	Lineno string   `json:"lineno"`
	RunID  string   `json:"runID"`
}

func (n *TestNode) NodeID() string     { return n.ID }
func (n *TestNode) NodeKind() NodeKind { return n.Type }
func (t *TestItem) NodeID() string     { return t.ID }
func (t *TestItem) NodeKind() NodeKind { return t.Type }

// HasChild reports whether a child with the given id is already attached
func (n *TestNode) HasChild(id string) bool {
	for _, c := range n.Children {
		if c.NodeID() == id {
			return true
		}
	}
	return false
}

// AddChild appends child unless a child with the same id is already present.
// Returns false when the child was a duplicate.
func (n *TestNode) AddChild(child Node) bool {
	if n.HasChild(child.NodeID()) {
		return false
	}
	n.Children = append(n.Children, child)
	return true
}

// Walk visits n and every descendant depth-first, parents before children.
func (n *TestNode) Walk(fn func(node Node, depth int)) {
	n.walk(fn, 0)
}

func (n *TestNode) walk(fn func(node Node, depth int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		if child, ok := c.(*TestNode); ok {
			child.walk(fn, depth+1)
			continue
		}
		fn(c, depth+1)
	}
}

// Tests returns every leaf under n in tree order
func (n *TestNode) Tests() []*TestItem {
	var items []*TestItem
	n.Walk(func(node Node, _ int) {
		if item, ok := node.(*TestItem); ok {
			items = append(items, item)
		}
	})
	return items
}

// MarshalJSON keeps "children" an array even for empty containers
func (n *TestNode) MarshalJSON() ([]byte, error) {
	type alias TestNode
	out := alias(*n)
	if out.Children == nil {
		out.Children = []Node{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores concrete child types from their "type_" field
func (n *TestNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name     string            `json:"name"`
		Path     string            `json:"path"`
		Type     NodeKind          `json:"type_"`
		ID       string            `json:"id_"`
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	n.Name, n.Path, n.Type, n.ID = raw.Name, raw.Path, raw.Type, raw.ID
	n.Children = make([]Node, 0, len(raw.Children))
	for i, c := range raw.Children {
		var head struct {
			Type NodeKind `json:"type_"`
		}
		if err := json.Unmarshal(c, &head); err != nil {
			return fmt.Errorf("child %d of %s: %w", i, raw.ID, err)
		}
		if head.Type == KindTest {
			item := &TestItem{}
			if err := json.Unmarshal(c, item); err != nil {
				return fmt.Errorf("child %d of %s: %w", i, raw.ID, err)
			}
			n.Children = append(n.Children, item)
			continue
		}
		child := &TestNode{}
		if err := json.Unmarshal(c, child); err != nil {
			return err
		}
		n.Children = append(n.Children, child)
	}
	return nil
}

// ParentKind is the structural parent of a collected test case
type ParentKind string

const (
	ParentModule ParentKind = "module"
	ParentClass  ParentKind = "class"
	ParentNone   ParentKind = "none"
)

// CaseRecord is one collected test case as reported by the framework
type CaseRecord struct {
	ID             string     `json:"id"`
	DisplayName    string     `json:"display_name"`
	FilePath       string     `json:"file_path"`
	LineNumber     *int       `json:"line_number"` // 0-based, nil when unknown
	ParentKind     ParentKind `json:"parent_kind"`
	ParentID       string     `json:"parent_id"`
	ParentName     string     `json:"parent_name"`
	ParentFilePath string     `json:"parent_file_path"`
	IsDocTest      bool       `json:"is_doctest"`
}
