package gamehub

import (
	"context"
	"time"

	"endgame/backend/internal/logger"
	"endgame/backend/internal/models"
	"endgame/backend/internal/rules"

	"github.com/google/uuid"
)

type inbound struct {
	client Client
	raw    []byte
}

// Stats is a point-in-time snapshot of the hub.
type Stats struct {
	Variant        string   `json:"variant"`
	Connections    int      `json:"connections"`
	Waiting        int      `json:"waiting"`
	ActiveSessions int      `json:"active_sessions"`
	WaitingPlayers []string `json:"waiting_players"`
}

// ManagerService is the broker. It owns every connection, the matcher and
// the session registry, and routes each inbound message to one of them.
type ManagerService struct {
	clients  map[string]Client
	matcher  *MatcherService
	sessions *SessionRegistry

	oracle   rules.Oracle
	recorder Recorder
	log      logger.Logger

	registerCh   chan Client
	unregisterCh chan Client
	incomingCh   chan inbound
	statsCh      chan chan Stats
	done         chan struct{}
}

// NewManagerService creates a hub whose sessions are played under oracle.
// recorder may be nil.
func NewManagerService(oracle rules.Oracle, recorder Recorder, log logger.Logger) *ManagerService {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	m := &ManagerService{
		clients:      make(map[string]Client),
		sessions:     NewSessionRegistry(),
		oracle:       oracle,
		recorder:     recorder,
		log:          log,
		registerCh:   make(chan Client),
		unregisterCh: make(chan Client),
		incomingCh:   make(chan inbound),
		statsCh:      make(chan chan Stats),
		done:         make(chan struct{}),
	}
	m.matcher = NewMatcherService(m.sessions, m.newSession)
	return m
}

func (m *ManagerService) newSession(first, second Client) *Session {
	return NewSession(uuid.NewString(), first, second, m.oracle, m.recorder, m.log)
}

// Run processes hub events until ctx is cancelled, then closes every client.
// It must be called exactly once.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.done)
	m.log.Info("Game hub started", "variant", m.oracle.Variant())

	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return
		case c := <-m.registerCh:
			m.handleRegister(c)
		case c := <-m.unregisterCh:
			m.handleUnregister(c)
		case in := <-m.incomingCh:
			m.handleMessage(in.client, in.raw)
		case reply := <-m.statsCh:
			reply <- m.snapshot()
		}
	}
}

// Register adds c to the hub. Messages from c are only routed after this
// returns, so call it before c.Run.
func (m *ManagerService) Register(c Client) error {
	select {
	case m.registerCh <- c:
		return nil
	case <-m.done:
		return ErrHubStopped
	}
}

// Unregister removes c and ends its game or takes it out of the waiting
// pool. Transports call it once when the connection ends.
func (m *ManagerService) Unregister(c Client) {
	select {
	case m.unregisterCh <- c:
	case <-m.done:
	}
}

// OnMessage routes one raw inbound frame from c.
func (m *ManagerService) OnMessage(c Client, raw []byte) {
	select {
	case m.incomingCh <- inbound{client: c, raw: raw}:
	case <-m.done:
	}
}

// Stats returns a snapshot taken on the hub loop.
func (m *ManagerService) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	select {
	case m.statsCh <- reply:
	case <-m.done:
		return Stats{}, ErrHubStopped
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Done is closed once Run has returned.
func (m *ManagerService) Done() <-chan struct{} {
	return m.done
}

func (m *ManagerService) handleRegister(c Client) {
	id := c.GetID()
	if _, ok := m.clients[id]; ok {
		m.log.Warn("Client already registered", "client_id", id)
		return
	}
	m.clients[id] = c
	m.log.Debug("Client registered", "client_id", id, "player_id", c.GetPlayerID(), "total", len(m.clients))
}

func (m *ManagerService) handleUnregister(c Client) {
	id := c.GetID()
	if _, ok := m.clients[id]; !ok {
		return
	}
	delete(m.clients, id)

	if session := m.sessions.Lookup(id); session != nil {
		session.HandleDisconnect(c)
		m.sessions.Remove(session)
	} else if m.matcher.Remove(c) {
		m.record(models.EventDequeued, c)
	}

	c.Close()
	m.log.Debug("Client unregistered", "client_id", id, "total", len(m.clients))
}

func (m *ManagerService) handleMessage(c Client, raw []byte) {
	id := c.GetID()
	if _, ok := m.clients[id]; !ok {
		m.log.Debug("Dropping message", "client_id", id, "error", ErrUnknownConnection)
		return
	}

	msg, err := models.ParseClientMessage(raw)
	if err != nil {
		m.log.Debug("Dropping message", "client_id", id, "error", err)
		return
	}

	switch msg.Kind {
	case models.KindFindGame:
		m.findGame(c)
	case models.KindAction:
		session := m.sessions.Lookup(id)
		if session == nil {
			m.log.Debug("Dropping action", "client_id", id, "error", ErrUnknownConnection)
			return
		}
		if finished := session.HandleAction(c, msg.Action); finished {
			m.sessions.Remove(session)
		}
	default:
		m.log.Debug("Dropping message of unknown type", "client_id", id, "type", msg.Type)
	}
}

func (m *ManagerService) findGame(c Client) {
	if m.sessions.Lookup(c.GetID()) != nil {
		m.log.Debug("Ignoring FindGame from client in a game", "client_id", c.GetID())
		return
	}
	if m.matcher.Contains(c.GetID()) {
		return
	}

	if session := m.matcher.Enqueue(c); session != nil {
		return
	}
	m.record(models.EventQueued, c)
	m.log.Debug("Client waiting for opponent", "client_id", c.GetID(), "waiting", m.matcher.Len())
}

func (m *ManagerService) record(kind models.GameEventKind, c Client) {
	m.recorder.Record(models.GameEvent{
		Kind:     kind,
		Variant:  m.oracle.Variant(),
		PlayerID: c.GetPlayerID(),
		At:       time.Now(),
	})
}

func (m *ManagerService) snapshot() Stats {
	waiting := m.matcher.Waiting()
	ids := make([]string, 0, len(waiting))
	for _, c := range waiting {
		ids = append(ids, c.GetPlayerID())
	}
	return Stats{
		Variant:        m.oracle.Variant(),
		Connections:    len(m.clients),
		Waiting:        len(waiting),
		ActiveSessions: m.sessions.Len(),
		WaitingPlayers: ids,
	}
}

func (m *ManagerService) shutdown() {
	m.log.Info("Game hub stopping", "clients", len(m.clients), "sessions", m.sessions.Len())
	for id, c := range m.clients {
		c.Close()
		delete(m.clients, id)
	}
}
