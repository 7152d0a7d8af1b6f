package jsonedit

// State of an edit session.
type State int

const (
	Viewing State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// DocumentStore owns the live document text. The session reads the whole
// text, computes a whole replacement and publishes it back; it never
// hands the store anything to mutate piecemeal.
type DocumentStore interface {
	DocumentText() string
	SetDocumentText(text string, changed bool)
}

// Node is one entry of the document tree as built by the surrounding
// application: the path addressing it in the document plus the flattened
// rows of its immediate children.
type Node struct {
	Path Path
	Rows []Row
}

// TreeModel exposes the tree built from the live document. The session
// uses it to restore the selection after a save rebuilds the tree.
type TreeModel interface {
	FindNodeByPath(path Path) (*Node, bool)
	SetSelectedNode(node *Node)
}

// Codec parses and serializes the document text held by the store.
type Codec interface {
	Parse(text string) (any, error)
	Marshal(v any) (string, error)
}

// Session drives viewing and editing of one selected node at a time. All
// methods run synchronously within the user action that triggered them;
// a Session is not safe for concurrent use.
type Session struct {
	store DocumentStore
	tree  TreeModel

	// Doc is the codec for the document text held by the store, JSON by
	// default. Edit buffers are always JSON regardless of Doc.
	Doc Codec

	state   State
	node    *Node
	display string
	buffer  string
	errMsg  string
}

// NewSession returns a session over the given collaborators, in Viewing
// with no node selected.
func NewSession(store DocumentStore, tree TreeModel) *Session {
	return &Session{store: store, tree: tree, Doc: JSONCodec{}}
}

// Select makes node the session's current node and resets to Viewing.
// An edit in progress on a previously selected node is discarded.
func (s *Session) Select(node *Node) {
	s.node = node
	s.state = Viewing
	s.buffer = ""
	s.errMsg = ""
	s.display = s.currentText()
}

// BeginEdit moves to Editing, seeding the edit buffer with the node's
// current display text.
func (s *Session) BeginEdit() {
	if s.node == nil {
		return
	}
	s.state = Editing
	s.buffer = s.display
	s.errMsg = ""
}

// SetBuffer replaces the edit buffer text.
func (s *Session) SetBuffer(text string) {
	s.buffer = text
}

// Save parses the edit buffer as JSON, writes the value into the live
// document at the node's path and publishes the result. On any parse
// failure the session stays in Editing with the parser's message and the
// document is left untouched.
func (s *Session) Save() error {
	if s.state != Editing || s.node == nil {
		return nil
	}
	v, err := Parse(s.buffer)
	if err != nil {
		s.errMsg = err.Error()
		return err
	}
	doc, err := s.Doc.Parse(s.store.DocumentText())
	if err != nil {
		s.errMsg = err.Error()
		return err
	}
	updated, err := Write(doc, s.node.Path, v)
	if err != nil {
		s.errMsg = err.Error()
		return err
	}
	text, err := s.Doc.Marshal(updated)
	if err != nil {
		s.errMsg = err.Error()
		return err
	}
	s.store.SetDocumentText(text, true)

	// The publish may have rebuilt the tree; reselect the saved path when
	// it still exists, otherwise leave the selection alone.
	if n, ok := s.tree.FindNodeByPath(s.node.Path); ok {
		s.node = n
		s.tree.SetSelectedNode(n)
	}
	s.state = Viewing
	s.buffer = ""
	s.errMsg = ""
	s.display = s.currentText()
	return nil
}

// Cancel discards the edit buffer and returns to Viewing.
func (s *Session) Cancel() {
	s.state = Viewing
	s.buffer = ""
	s.errMsg = ""
	s.display = s.currentText()
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// DisplayText returns the text shown for the selected node in Viewing.
func (s *Session) DisplayText() string { return s.display }

// Buffer returns the edit buffer text.
func (s *Session) Buffer() string { return s.buffer }

// ErrMessage returns the message of the last failed save, cleared on any
// state transition.
func (s *Session) ErrMessage() string { return s.errMsg }

// currentText resolves the node's value from the live document. When the
// document does not parse or the path no longer exists in it, the node's
// own rows are normalized instead.
func (s *Session) currentText() string {
	if s.node == nil {
		return ""
	}
	doc, err := s.Doc.Parse(s.store.DocumentText())
	if err == nil {
		if v, ok := Resolve(doc, s.node.Path); ok {
			if text, err := Marshal(v); err == nil {
				return text
			}
		}
	}
	return NormalizeRows(s.node.Rows)
}
