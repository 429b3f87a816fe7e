package gamehub

import (
	"encoding/json"
	"errors"
	"time"

	"endgame/backend/internal/logger"
	"endgame/backend/internal/models"
	"endgame/backend/internal/rules"
)

// SessionStatus is the lifecycle state of a Session. Active moves to
// Finished exactly once and never back.
type SessionStatus int

const (
	StatusActive SessionStatus = iota
	StatusFinished
)

func (s SessionStatus) String() string {
	if s == StatusFinished {
		return "finished"
	}
	return "active"
}

// Session is one game between two clients. It owns the authoritative state
// and whose turn it is. A Session is not safe for concurrent use: only the
// hub loop calls it.
type Session struct {
	ID string

	players [2]Client
	oracle  rules.Oracle
	state   rules.State
	turn    rules.Role
	status  SessionStatus
	plies   int

	recorder Recorder
	log      logger.Logger
	now      func() time.Time
}

// NewSession pairs first and second. first moves first.
func NewSession(id string, first, second Client, oracle rules.Oracle, recorder Recorder, log logger.Logger) *Session {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Session{
		ID:       id,
		players:  [2]Client{first, second},
		oracle:   oracle,
		state:    oracle.Initial(),
		turn:     rules.First,
		status:   StatusActive,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// Players returns the participants in role order.
func (s *Session) Players() [2]Client { return s.players }

func (s *Session) Turn() rules.Role      { return s.turn }
func (s *Session) State() rules.State    { return s.state }
func (s *Session) Status() SessionStatus { return s.status }
func (s *Session) Plies() int            { return s.plies }

// RoleOf returns c's role, or false when c is not a participant.
func (s *Session) RoleOf(c Client) (rules.Role, bool) {
	for i, p := range s.players {
		if p.GetID() == c.GetID() {
			return rules.Role(i), true
		}
	}
	return rules.First, false
}

// Start tells each participant its role.
func (s *Session) Start() {
	s.record(models.GameEvent{
		Kind:    models.EventGameStarted,
		Players: []string{s.players[rules.First].GetPlayerID(), s.players[rules.Second].GetPlayerID()},
		State:   string(s.state),
	})
	for i, p := range s.players {
		s.deliver(p, models.NewGameStarted(rules.Role(i).String(), s.ID))
	}
	s.log.Info("Game started",
		"game_id", s.ID,
		"first", s.players[rules.First].GetID(),
		"second", s.players[rules.Second].GetID())
}

// HandleAction validates and applies an action from c. Rejections go to c
// only and leave the state and turn untouched. It reports whether the game
// has just concluded.
func (s *Session) HandleAction(c Client, action json.RawMessage) (finished bool) {
	role, err := s.authorize(c)
	if err != nil {
		s.reject(c, role, action, err.Error())
		return false
	}

	verdict, err := s.oracle.Apply(s.state, action, role)
	if err != nil {
		reason := err.Error()
		var rej *rules.Rejection
		if errors.As(err, &rej) {
			reason = rej.Reason
		}
		s.reject(c, role, action, reason)
		return false
	}

	s.state = verdict.State
	s.turn = role.Other()
	s.plies++

	s.record(models.GameEvent{
		Kind:     models.EventActionApplied,
		PlayerID: c.GetPlayerID(),
		Role:     role.String(),
		Ply:      s.plies,
		Action:   action,
		State:    string(s.state),
	})
	s.broadcast(models.NewActionApplied(action))

	if verdict.Outcome.Concluded() {
		s.conclude(verdict.Outcome)
		return true
	}
	return false
}

// HandleDisconnect ends the session because c left. The remaining player is
// told on a best-effort basis.
func (s *Session) HandleDisconnect(c Client) {
	if s.status != StatusActive {
		return
	}
	role, ok := s.RoleOf(c)
	if !ok {
		return
	}
	s.status = StatusFinished

	outcome := models.OutcomeFirstDisconnected
	if role == rules.Second {
		outcome = models.OutcomeSecondDisconnected
	}
	s.record(models.GameEvent{
		Kind:     models.EventGameOver,
		PlayerID: c.GetPlayerID(),
		Role:     role.String(),
		Ply:      s.plies,
		Reason:   ErrPeerDisconnected.Error(),
		Outcome:  outcome,
	})

	s.deliver(s.players[role.Other()], models.NewGameOver(models.ResultOpponentDisconnected))
	s.log.Info("Game ended by disconnect", "game_id", s.ID, "client_id", c.GetID(), "plies", s.plies)
}

func (s *Session) authorize(c Client) (rules.Role, error) {
	role, ok := s.RoleOf(c)
	switch {
	case s.status != StatusActive:
		return role, ErrSessionFinished
	case !ok:
		return role, ErrNotParticipant
	case role != s.turn:
		return role, ErrOutOfTurn
	}
	return role, nil
}

func (s *Session) reject(c Client, role rules.Role, action json.RawMessage, reason string) {
	s.record(models.GameEvent{
		Kind:     models.EventActionRejected,
		PlayerID: c.GetPlayerID(),
		Role:     role.String(),
		Ply:      s.plies,
		Action:   action,
		Reason:   reason,
	})
	s.deliver(c, models.NewActionRejected(reason))
	s.log.Debug("Action rejected", "game_id", s.ID, "client_id", c.GetID(), "reason", reason)
}

func (s *Session) conclude(outcome rules.Outcome) {
	s.status = StatusFinished
	s.record(models.GameEvent{
		Kind:    models.EventGameOver,
		Ply:     s.plies,
		Outcome: outcome.String(),
	})
	for i, p := range s.players {
		s.deliver(p, models.NewGameOver(resultFor(outcome, rules.Role(i))))
	}
	s.log.Info("Game over", "game_id", s.ID, "outcome", outcome.String(), "plies", s.plies)
}

// resultFor reports a concluded outcome from role's point of view.
func resultFor(outcome rules.Outcome, role rules.Role) string {
	switch {
	case outcome == rules.Draw:
		return models.ResultDraw
	case outcome == rules.FirstWins && role == rules.First,
		outcome == rules.SecondWins && role == rules.Second:
		return models.ResultWin
	default:
		return models.ResultLoss
	}
}

func (s *Session) broadcast(msg models.ServerMessage) {
	for _, p := range s.players {
		s.deliver(p, msg)
	}
}

// deliver sends without blocking. A client whose buffer is full is closed;
// its transport then unregisters it and the disconnect path runs.
func (s *Session) deliver(c Client, msg models.ServerMessage) {
	err := c.Send(msg)
	if err == nil {
		return
	}
	s.log.Warn("Failed to deliver message", "game_id", s.ID, "client_id", c.GetID(), "type", msg.Type, "error", err)
	if errors.Is(err, ErrSendBufferFull) {
		c.Close()
	}
}

func (s *Session) record(ev models.GameEvent) {
	ev.GameID = s.ID
	ev.Variant = s.oracle.Variant()
	ev.At = s.now()
	s.recorder.Record(ev)
}
