package session

import "github.com/nodeboard/flowsync/internal/refid"

// Session carries the local editing identity: the bearer credential and
// organization scope the persistence API requires, plus the actor id this
// client stamps on its own saves. Remote change notifications carrying the
// same actor id are echoes of our own writes.
type Session struct {
	ActorID string
	Token   string
	OrgID   string
}

// New creates a session with a freshly minted actor id.
func New(token, orgID string) *Session {
	return &Session{
		ActorID: refid.New(),
		Token:   token,
		OrgID:   orgID,
	}
}

// Present reports whether an authenticated session exists. Event routing is
// only enabled while a workflow id and a present session both exist.
func (s *Session) Present() bool {
	return s != nil && s.Token != ""
}
