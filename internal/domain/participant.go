package domain

// Participant identifies a viewer within a single room session. Id is either an
// authenticated user id or a locally persisted pseudo-random id, stable across
// reconnects from the same machine.
type Participant struct {
	Id          string
	DisplayName string
	IsAdmin     bool
}

// ResolveRole computes the admin role once, against the room's creator. The result
// is carried through the session; nothing re-derives the role afterwards.
func (p Participant) ResolveRole(createdBy string) Participant {
	p.IsAdmin = p.Id != "" && p.Id == createdBy
	return p
}
