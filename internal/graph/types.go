package graph

// StatusPhase is the execution phase reported for a graph element.
type StatusPhase string

const (
	StatusRunning StatusPhase = "running"
	StatusSuccess StatusPhase = "success"
	StatusError   StatusPhase = "error"
)

// Status is the transient execution annotation layered onto a node or edge.
// It is never persisted; it exists only in the local overlay.
type Status struct {
	Phase StatusPhase `json:"phase"`

	// Remaining counts in-flight downstream steps, when the remote
	// executor reports it.
	Remaining *int `json:"remaining,omitempty"`
}

// Terminal reports whether this status qualifies for decay: an error, or an
// exhausted remaining counter.
func (s Status) Terminal() bool {
	return s.Phase == StatusError || (s.Remaining != nil && *s.Remaining == 0)
}

// Position is a node's placement on the editing canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Block is the opaque, block-type-specific payload determining a node's
// behavioral type. The core never interprets it.
type Block map[string]any

// Node is a graph vertex. Ref is the identity used for all local and remote
// correlation and is stable for the element's lifetime; PersistedID is empty
// until the server assigns one on first save.
type Node struct {
	PersistedID string   `json:"persistedId,omitempty"`
	Ref         string   `json:"ref"`
	Position    Position `json:"position"`
	Block       Block    `json:"block"`
	Status      *Status  `json:"status,omitempty"`
	Selected    bool     `json:"selected,omitempty"`
}

// Edge is a directed connection between two nodes, referencing their refs.
type Edge struct {
	PersistedID  string  `json:"persistedId,omitempty"`
	Source       string  `json:"source"`
	SourceHandle string  `json:"sourceHandle,omitempty"`
	Target       string  `json:"target"`
	Status       *Status `json:"status,omitempty"`
}
