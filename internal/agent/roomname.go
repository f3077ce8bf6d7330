package agent

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRoomName reports a room name that does not carry the
// expected identity tuple.
var ErrMalformedRoomName = errors.New("malformed room name")

// RoomIdentity is the session identity carried by the transport's room
// name. The room name is the only channel for these ids, so the format
// is load-bearing: whoever creates the room must agree on field order
// and must not put underscores inside a field value.
type RoomIdentity struct {
	UserID    string
	ModuleID  string
	GuideID   string
	SessionID string
}

// ParseRoomName splits an underscore-joined 4-tuple of the form
// userId_moduleId_guideId_sessionId. It fails unless the split yields
// exactly four non-empty components.
func ParseRoomName(name string) (RoomIdentity, error) {
	parts := strings.Split(name, "_")
	if len(parts) != 4 {
		return RoomIdentity{}, fmt.Errorf("%w: %q", ErrMalformedRoomName, name)
	}
	for _, part := range parts {
		if part == "" {
			return RoomIdentity{}, fmt.Errorf("%w: empty component in %q", ErrMalformedRoomName, name)
		}
	}
	return RoomIdentity{
		UserID:    parts[0],
		ModuleID:  parts[1],
		GuideID:   parts[2],
		SessionID: parts[3],
	}, nil
}

// RoomName joins a RoomIdentity back into the wire form.
func (id RoomIdentity) RoomName() string {
	return strings.Join([]string{id.UserID, id.ModuleID, id.GuideID, id.SessionID}, "_")
}
