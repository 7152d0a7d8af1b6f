package jsonedit

import (
	"strings"
	"testing"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

type memStore struct {
	text    string
	changed bool
	sets    int
}

func (m *memStore) DocumentText() string { return m.text }

func (m *memStore) SetDocumentText(text string, changed bool) {
	m.text = text
	m.changed = changed
	m.sets++
}

type stubTree struct {
	nodes    map[string]*Node // keyed by FormatPath
	selected *Node
}

func (s *stubTree) FindNodeByPath(p Path) (*Node, bool) {
	n, ok := s.nodes[FormatPath(p)]
	return n, ok
}

func (s *stubTree) SetSelectedNode(n *Node) { s.selected = n }

func newStubTree(nodes ...*Node) *stubTree {
	t := &stubTree{nodes: map[string]*Node{}}
	for _, n := range nodes {
		t.nodes[FormatPath(n.Path)] = n
	}
	return t
}

func TestSelectDisplaysResolvedValue(t *testing.T) {
	store := &memStore{text: `{"customer":{"name":"Ann"}}`}
	node := &Node{Path: Path{Key("customer"), Key("name")}}
	s := NewSession(store, newStubTree(node))

	s.Select(node)
	if s.State() != Viewing {
		t.Fatalf("state = %v, want viewing", s.State())
	}
	if got := s.DisplayText(); got != `"Ann"` {
		t.Fatalf("DisplayText = %q, want %q", got, `"Ann"`)
	}
}

func TestSaveReplacesNestedValue(t *testing.T) {
	store := &memStore{text: `{"customer":{"name":"Ann"}}`}
	node := &Node{Path: Path{Key("customer"), Key("name")}}
	s := NewSession(store, newStubTree(node))

	s.Select(node)
	s.BeginEdit()
	if got := s.Buffer(); got != `"Ann"` {
		t.Fatalf("edit buffer seeded with %q, want %q", got, `"Ann"`)
	}
	s.SetBuffer(`"Bob"`)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !jsonpatch.Equal([]byte(store.text), []byte(`{"customer":{"name":"Bob"}}`)) {
		t.Fatalf("published document:\n%s", store.text)
	}
	if !store.changed {
		t.Fatalf("store should be marked changed")
	}
	if s.State() != Viewing {
		t.Fatalf("state = %v, want viewing after save", s.State())
	}
	if got := s.DisplayText(); got != `"Bob"` {
		t.Fatalf("DisplayText after save = %q", got)
	}
}

func TestSaveCreatesMissingContainers(t *testing.T) {
	store := &memStore{text: `{}`}
	node := &Node{Path: Path{Key("a"), Key("b")}}
	s := NewSession(store, newStubTree(node))

	s.Select(node)
	s.BeginEdit()
	s.SetBuffer(`1`)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !jsonpatch.Equal([]byte(store.text), []byte(`{"a":{"b":1}}`)) {
		t.Fatalf("published document:\n%s", store.text)
	}
}

func TestSaveInvalidBufferKeepsEditing(t *testing.T) {
	original := `{"customer":{"name":"Ann"}}`
	store := &memStore{text: original}
	node := &Node{Path: Path{Key("customer"), Key("name")}}
	s := NewSession(store, newStubTree(node))

	s.Select(node)
	s.BeginEdit()
	s.SetBuffer(`{invalid`)
	if err := s.Save(); err == nil {
		t.Fatalf("expected parse error from Save")
	}
	if s.State() != Editing {
		t.Fatalf("state = %v, want editing after failed save", s.State())
	}
	if s.ErrMessage() == "" {
		t.Fatalf("expected a user-visible error message")
	}
	if store.sets != 0 || store.text != original {
		t.Fatalf("failed save must not publish; sets=%d text=%s", store.sets, store.text)
	}
	if got := s.Buffer(); got != `{invalid` {
		t.Fatalf("edit buffer should be retained, got %q", got)
	}
}

func TestSaveInvalidDocumentKeepsEditing(t *testing.T) {
	store := &memStore{text: `{oops`}
	name := "name"
	node := &Node{
		Path: Path{Key("customer"), Key("name")},
		Rows: []Row{{Key: &name, Value: "Ann", Type: RowString}},
	}
	s := NewSession(store, newStubTree(node))

	s.Select(node)
	s.BeginEdit()
	s.SetBuffer(`"Bob"`)
	if err := s.Save(); err == nil {
		t.Fatalf("expected document parse error from Save")
	}
	if s.State() != Editing {
		t.Fatalf("state = %v, want editing", s.State())
	}
	if store.sets != 0 {
		t.Fatalf("failed save must not publish")
	}
}

func TestSelectFallsBackToRowsWhenDocumentInvalid(t *testing.T) {
	store := &memStore{text: `{oops`}
	name := "name"
	node := &Node{
		Path: Path{Key("customer")},
		Rows: []Row{{Key: &name, Value: "Ann", Type: RowString}},
	}
	s := NewSession(store, newStubTree(node))

	s.Select(node)
	want := NormalizeRows(node.Rows)
	if got := s.DisplayText(); got != want {
		t.Fatalf("DisplayText = %q, want row fallback %q", got, want)
	}
}

func TestSelectFallsBackToRowsWhenPathStale(t *testing.T) {
	store := &memStore{text: `{"replaced":true}`}
	qty := "qty"
	node := &Node{
		Path: Path{Key("customer"), Key("order")},
		Rows: []Row{{Key: &qty, Value: 2, Type: RowNumber}},
	}
	s := NewSession(store, newStubTree(node))

	s.Select(node)
	if got, want := s.DisplayText(), NormalizeRows(node.Rows); got != want {
		t.Fatalf("DisplayText = %q, want %q", got, want)
	}
}

func TestSelectionChangeDiscardsEdit(t *testing.T) {
	store := &memStore{text: `{"a":1,"b":2}`}
	nodeA := &Node{Path: Path{Key("a")}}
	nodeB := &Node{Path: Path{Key("b")}}
	s := NewSession(store, newStubTree(nodeA, nodeB))

	s.Select(nodeA)
	s.BeginEdit()
	s.SetBuffer(`999`)
	s.Select(nodeB)

	if s.State() != Viewing {
		t.Fatalf("state = %v, want viewing for new node", s.State())
	}
	if s.Buffer() != "" {
		t.Fatalf("abandoned edit buffer carried over: %q", s.Buffer())
	}
	if got := s.DisplayText(); got != "2" {
		t.Fatalf("DisplayText = %q, want %q", got, "2")
	}
	if store.sets != 0 {
		t.Fatalf("selection change must not publish")
	}
}

func TestCancelDiscardsBuffer(t *testing.T) {
	store := &memStore{text: `{"a":1}`}
	node := &Node{Path: Path{Key("a")}}
	s := NewSession(store, newStubTree(node))

	s.Select(node)
	s.BeginEdit()
	s.SetBuffer(`2`)
	s.Cancel()

	if s.State() != Viewing {
		t.Fatalf("state = %v, want viewing", s.State())
	}
	if got := s.DisplayText(); got != "1" {
		t.Fatalf("DisplayText = %q, want %q", got, "1")
	}
	if store.sets != 0 {
		t.Fatalf("cancel must not publish")
	}
}

func TestSaveReselectsRebuiltNode(t *testing.T) {
	store := &memStore{text: `{"a":1}`}
	path := Path{Key("a")}
	rebuilt := &Node{Path: path}
	tree := newStubTree(rebuilt)
	s := NewSession(store, tree)

	s.Select(&Node{Path: path})
	s.BeginEdit()
	s.SetBuffer(`5`)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if tree.selected != rebuilt {
		t.Fatalf("expected rebuilt node to be reselected")
	}
}

func TestSaveSurvivesReselectionMiss(t *testing.T) {
	store := &memStore{text: `{"a":1}`}
	tree := newStubTree() // tree rebuilt without the saved path
	s := NewSession(store, tree)

	s.Select(&Node{Path: Path{Key("a")}})
	s.BeginEdit()
	s.SetBuffer(`5`)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !jsonpatch.Equal([]byte(store.text), []byte(`{"a":5}`)) {
		t.Fatalf("save itself should still publish:\n%s", store.text)
	}
	if tree.selected != nil {
		t.Fatalf("selection should be left unchanged on reselection miss")
	}
	if s.State() != Viewing {
		t.Fatalf("state = %v, want viewing", s.State())
	}
}

func TestSaveErrorMessageNamesParser(t *testing.T) {
	store := &memStore{text: `{}`}
	node := &Node{Path: Path{Key("a")}}
	s := NewSession(store, newStubTree(node))

	s.Select(node)
	s.BeginEdit()
	s.SetBuffer(`{invalid`)
	_ = s.Save()

	if msg := s.ErrMessage(); !strings.Contains(msg, "parse") {
		t.Fatalf("error message %q should mention parsing", msg)
	}
	s.SetBuffer(`3`)
	if err := s.Save(); err != nil {
		t.Fatalf("retry after fixing the buffer: %v", err)
	}
	if s.ErrMessage() != "" {
		t.Fatalf("error message should clear on success")
	}
}
