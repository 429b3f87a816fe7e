package gamehub

// SessionRegistry maps connection ids to the session they play in. Both of a
// session's mappings are added and removed together. Not safe for concurrent
// use.
type SessionRegistry struct {
	byClient map[string]*Session
	byID     map[string]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		byClient: make(map[string]*Session),
		byID:     make(map[string]*Session),
	}
}

// Bind registers s for both of its players.
func (r *SessionRegistry) Bind(s *Session) {
	r.byID[s.ID] = s
	for _, p := range s.players {
		r.byClient[p.GetID()] = s
	}
}

// Lookup returns the session clientID plays in, or nil.
func (r *SessionRegistry) Lookup(clientID string) *Session {
	return r.byClient[clientID]
}

// Remove drops s and both player mappings. Mappings that already point at a
// different session are left alone.
func (r *SessionRegistry) Remove(s *Session) {
	delete(r.byID, s.ID)
	for _, p := range s.players {
		if r.byClient[p.GetID()] == s {
			delete(r.byClient, p.GetID())
		}
	}
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	return len(r.byID)
}

// Sessions returns the live sessions in no particular order.
func (r *SessionRegistry) Sessions() []*Session {
	out := make([]*Session, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out
}
