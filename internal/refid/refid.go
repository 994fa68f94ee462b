package refid

import (
	"strings"

	"github.com/google/uuid"
)

// New mints a session-local correlation identifier for a newly created graph
// element. The identifier is generated purely locally (no round trip) and is
// collision-resistant for the lifetime of an editing session: 32 hexadecimal
// characters from a random UUID, dashes stripped.
//
// The identifier is independent of the server-assigned persisted id, which
// only exists after the element's first save.
func New() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
