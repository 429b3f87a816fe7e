package gamehub

// SessionFactory builds a session for a freshly paired couple. first is the
// player who waited longer.
type SessionFactory func(first, second Client) *Session

// MatcherService pairs waiting clients strictly first come, first served.
// Not safe for concurrent use: the hub loop owns it.
type MatcherService struct {
	// queue is the waiting pool in arrival order.
	queue   []Client
	waiting map[string]struct{}

	sessions   *SessionRegistry
	newSession SessionFactory
}

func NewMatcherService(sessions *SessionRegistry, newSession SessionFactory) *MatcherService {
	return &MatcherService{
		waiting:    make(map[string]struct{}),
		sessions:   sessions,
		newSession: newSession,
	}
}

// Enqueue pairs c with the longest-waiting client, or adds c to the pool when
// nobody is waiting. The new session is bound in the registry and started.
// Clients already waiting or already playing are ignored.
func (m *MatcherService) Enqueue(c Client) *Session {
	id := c.GetID()
	if m.sessions.Lookup(id) != nil {
		return nil
	}
	if _, ok := m.waiting[id]; ok {
		return nil
	}

	if len(m.queue) == 0 {
		m.queue = append(m.queue, c)
		m.waiting[id] = struct{}{}
		return nil
	}

	head := m.queue[0]
	m.queue[0] = nil
	m.queue = m.queue[1:]
	delete(m.waiting, head.GetID())

	session := m.newSession(head, c)
	m.sessions.Bind(session)
	session.Start()
	return session
}

// Remove takes c out of the pool. It reports whether c was waiting.
func (m *MatcherService) Remove(c Client) bool {
	id := c.GetID()
	if _, ok := m.waiting[id]; !ok {
		return false
	}
	delete(m.waiting, id)
	for i, w := range m.queue {
		if w.GetID() == id {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether the client with this id is waiting.
func (m *MatcherService) Contains(clientID string) bool {
	_, ok := m.waiting[clientID]
	return ok
}

func (m *MatcherService) Len() int {
	return len(m.queue)
}

// Waiting returns the waiting clients in arrival order.
func (m *MatcherService) Waiting() []Client {
	out := make([]Client, len(m.queue))
	copy(out, m.queue)
	return out
}
