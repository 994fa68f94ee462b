package ports

// Workflow is the wire shape the persistence API accepts and returns.
type Workflow struct {
	ID    string `json:"id,omitempty"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is the persisted node shape. PersistedID is omitted, never null,
// until the server has assigned one.
type Node struct {
	PersistedID string         `json:"persistedId,omitempty"`
	Ref         string         `json:"ref"`
	PosX        float64        `json:"pos_x"`
	PosY        float64        `json:"pos_y"`
	Block       map[string]any `json:"block"`
}

// Edge is the persisted edge shape. SourceHandle and PersistedID are
// omitted, never null, when absent.
type Edge struct {
	PersistedID  string `json:"persistedId,omitempty"`
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Target       string `json:"target"`
}
