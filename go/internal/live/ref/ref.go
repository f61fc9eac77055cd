// Package ref tells locally created records apart from server-confirmed ones.
package ref

import "github.com/google/uuid"

// Ref identifies a record either by the local placeholder created before
// the server answered or by the id the server assigned.
type Ref struct {
	id        uuid.UUID
	confirmed bool
}

// Pending wraps a locally generated placeholder id.
func Pending(localID uuid.UUID) Ref {
	return Ref{id: localID}
}

// Confirmed wraps a server-assigned id.
func Confirmed(serverID uuid.UUID) Ref {
	return Ref{id: serverID, confirmed: true}
}

func (r Ref) IsPending() bool {
	return !r.confirmed
}

// ServerID returns the server id and true once the possession is confirmed.
func (r Ref) ServerID() (uuid.UUID, bool) {
	if !r.confirmed {
		return uuid.Nil, false
	}
	return r.id, true
}

// LocalID returns the placeholder id and true while the possession is pending.
func (r Ref) LocalID() (uuid.UUID, bool) {
	if r.confirmed {
		return uuid.Nil, false
	}
	return r.id, true
}

func (r Ref) String() string {
	if r.confirmed {
		return r.id.String()
	}
	return "pending:" + r.id.String()
}
