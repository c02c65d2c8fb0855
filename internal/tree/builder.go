package tree

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"testbridge/internal/domain"
)

// FolderKey selects how folder nodes are memoized during a build
type FolderKey string

const (
	// FolderKeyPath gives every distinct directory its own node
	FolderKeyPath FolderKey = "path"
	// FolderKeyName merges directories sharing a base name, as older editor
	// builds expect
	FolderKeyName FolderKey = "name"
)

var (
	errNoID         = errors.New("missing node id")
	errNoParent     = errors.New("test case has no module or class parent")
	errNoClassID    = errors.New("class parent has no node id")
	errNoFile       = errors.New("no file path for parent")
	errOutsideRoot  = errors.New("file is outside the session root")
	errDuplicateID  = errors.New("duplicate test id")
	errFolderLooped = errors.New("folder name repeats in its own ancestry")
	errClassMoved   = errors.New("class already placed in another file")
)

// Builder converts a flat list of collected cases into the nested
// session → folder → file → class → test tree. It keeps no state between builds.
type Builder struct {
	folderKey FolderKey
}

// Option configures a Builder
type Option func(*Builder)

// WithFolderKey sets the folder memoization mode
func WithFolderKey(k FolderKey) Option {
	return func(b *Builder) {
		if k == FolderKeyName || k == FolderKeyPath {
			b.folderKey = k
		}
	}
}

// NewBuilder creates a new Builder
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{folderKey: FolderKeyPath}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles the tree for one collection pass. Cases that cannot be placed
// are skipped and described in the returned errors; the rest of the tree is
// still built.
func (b *Builder) Build(root string, cases []domain.CaseRecord) (*domain.TestNode, []string) {
	run := newBuildRun(filepath.Clean(root), b.folderKey)

	for i, c := range cases {
		if err := run.add(c); err != nil {
			run.errors = append(run.errors, fmt.Sprintf("test case %d (%s): %v", i, c.ID, err))
		}
	}
	run.nest()

	return run.session, run.errors
}

// buildRun holds the memo tables of a single Build call
type buildRun struct {
	root      string
	absRoot   string
	folderKey FolderKey
	session   *domain.TestNode
	errors    []string

	files   map[string]*domain.TestNode
	order   []*domain.TestNode // files in creation order
	classes map[string]*domain.TestNode
	folders map[string]*domain.TestNode
}

func newBuildRun(root string, key FolderKey) *buildRun {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}
	return &buildRun{
		root:      root,
		absRoot:   absRoot,
		folderKey: key,
		session:   NewSessionNode(root),
		files:     make(map[string]*domain.TestNode),
		classes:   make(map[string]*domain.TestNode),
		folders:   make(map[string]*domain.TestNode),
	}
}

func (r *buildRun) add(c domain.CaseRecord) error {
	if c.ID == "" {
		return errNoID
	}

	switch c.ParentKind {
	case domain.ParentModule:
		path, err := r.filePath(c)
		if err != nil {
			return err
		}
		file := r.fileNode(path, c.IsDocTest)
		if !file.AddChild(NewTestItem(c)) {
			return errDuplicateID
		}
	case domain.ParentClass:
		if c.ParentID == "" {
			return errNoClassID
		}
		path, err := r.filePath(c)
		if err != nil {
			return err
		}
		class, ok := r.classes[c.ParentID]
		if !ok {
			class = NewClassNode(c, path)
			r.classes[c.ParentID] = class
		} else if class.Path != path {
			return fmt.Errorf("%w: %s is in %s", errClassMoved, c.ParentID, class.Path)
		}
		if !class.AddChild(NewTestItem(c)) {
			return errDuplicateID
		}
		r.fileNode(path, false).AddChild(class)
	default:
		return errNoParent
	}
	return nil
}

// filePath resolves the module file owning the case and checks it lies below
// the root. Paths are compared absolute and returned relative to the root as
// given, so a relative root yields a relative tree.
func (r *buildRun) filePath(c domain.CaseRecord) (string, error) {
	path := c.ParentFilePath
	if path == "" {
		path = c.FilePath
	}
	if path == "" {
		return "", errNoFile
	}
	path = filepath.Clean(path)

	abs := path
	if !filepath.IsAbs(abs) {
		if filepath.IsAbs(r.root) {
			abs = filepath.Join(r.root, path)
		} else if a, err := filepath.Abs(path); err == nil {
			abs = a
		}
	}

	rel, err := filepath.Rel(r.absRoot, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, path)
	}
	return filepath.Join(r.root, rel), nil
}

// fileNode returns the memoized node for path. The first case to touch a file
// decides whether it is a plain or a doctest file.
func (r *buildRun) fileNode(path string, doc bool) *domain.TestNode {
	if node, ok := r.files[path]; ok {
		return node
	}
	node := NewFileNode(path)
	if doc {
		node = NewDocFileNode(path)
	}
	r.files[path] = node
	r.order = append(r.order, node)
	return node
}

// nest hangs every file under its chain of folder nodes up to the session root
func (r *buildRun) nest() {
	for _, file := range r.order {
		top := r.nestFile(file)
		r.session.AddChild(top)
	}
}

func (r *buildRun) nestFile(file *domain.TestNode) domain.Node {
	var prev domain.Node = file

	dir := filepath.Dir(file.Path)
	for dir != r.root {
		folder := r.folderNode(dir)
		if reaches(prev, folder) {
			r.errors = append(r.errors, fmt.Sprintf("%s: %v: %s", file.Path, errFolderLooped, folder.Name))
			break
		}
		folder.AddChild(prev)
		prev = folder

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return prev
}

func (r *buildRun) folderNode(dir string) *domain.TestNode {
	key := dir
	if r.folderKey == FolderKeyName {
		key = filepath.Base(dir)
	}
	if node, ok := r.folders[key]; ok {
		return node
	}
	node := NewFolderNode(dir)
	r.folders[key] = node
	return node
}

// reaches reports whether target is from or one of its descendants. Only
// name-keyed folders can make this true.
func reaches(from domain.Node, target *domain.TestNode) bool {
	node, ok := from.(*domain.TestNode)
	if !ok {
		return false
	}
	if node == target {
		return true
	}
	for _, c := range node.Children {
		if reaches(c, target) {
			return true
		}
	}
	return false
}
