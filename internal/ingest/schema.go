package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Event names on the workflow's push channel.
const (
	EventStatus  = "graph:status"
	EventUpdated = "graph:updated"
	EventLog     = "graph:log"
)

// StatusEvent reports execution progress for a single node.
type StatusEvent struct {
	NodeID    string `json:"nodeId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=running success error"`
	Remaining *int   `json:"remaining,omitempty" validate:"omitempty,gte=0"`
}

// UpdatedEvent announces that some actor persisted a new workflow revision.
type UpdatedEvent struct {
	ActorID string `json:"actorId" validate:"required"`
}

// LogEvent carries one execution log line. The date's first 19 characters
// must be a "YYYY-MM-DDTHH:MM:SS" prefix; longer timestamps are truncated.
type LogEvent struct {
	Date string `json:"date" validate:"required,min=19"`
	Msg  string `json:"msg" validate:"required"`
}

// decode strictly unmarshals a push-channel payload into out. Unknown
// fields reject the payload; field presence is enforced afterwards by the
// validator. Transports hand payloads over as raw JSON bytes, strings or
// already decoded maps.
func decode(payload any, out any) error {
	raw, err := rawJSON(payload)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func rawJSON(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case json.RawMessage:
		return p, nil
	case []byte:
		return p, nil
	case string:
		return []byte(p), nil
	default:
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		return raw, nil
	}
}
