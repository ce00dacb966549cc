package signaler

import (
	"sync"

	"github.com/signalhop/signalhop/pkg/com"
	"github.com/signalhop/signalhop/pkg/logger"
)

// Phase tracks the lifecycle of a session inside the signaling
// state machine.
type Phase uint8

const (
	Unjoined Phase = iota
	Initiator
	Joined
	Left
)

func (p Phase) String() string {
	switch p {
	case Unjoined:
		return "unjoined"
	case Initiator:
		return "initiator"
	case Joined:
		return "joined"
	case Left:
		return "left"
	}
	return "?"
}

// Sink delivers envelopes to the peer behind a session.
// Sends are best-effort: a failure means the peer is gone and
// will be reaped by its own disconnect event.
type Sink interface {
	Send(envelope any) error
	Close()
}

// Session is the state of one connected peer. Identity fields are
// written by the router on join and by eviction, hence the lock.
type Session struct {
	id   com.Uid
	sink Sink
	log  *logger.Logger

	mu         sync.Mutex
	userId     string
	peerUserId string
	roomId     string
	phase      Phase
}

func NewSession(sink Sink, log *logger.Logger) *Session {
	id := com.NewUid()
	return &Session{
		id:   id,
		sink: sink,
		log:  log.Extend(log.With().Str("cid", id.Short())),
	}
}

func (s *Session) Id() com.Uid { return s.id }

func (s *Session) UserId() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userId
}

func (s *Session) Room() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomId
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// declare records the identity pair the peer announced on join.
func (s *Session) declare(userId, peerUserId string) {
	s.mu.Lock()
	s.userId, s.peerUserId = userId, peerUserId
	s.mu.Unlock()
}

// assign binds the session to a room with the given role.
func (s *Session) assign(roomId string, role Phase) {
	s.mu.Lock()
	s.roomId, s.phase = roomId, role
	s.mu.Unlock()
}

func (s *Session) mark(phase Phase) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
}

// release detaches the session from its room and returns the room
// it occupied. A second call returns the empty string, which makes
// the disconnect cleanup idempotent.
func (s *Session) release() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	roomId := s.roomId
	s.roomId = ""
	s.phase = Left
	return roomId
}

// canRelay reports whether the session may forward protocol messages.
func (s *Session) canRelay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomId != "" && (s.phase == Initiator || s.phase == Joined)
}

// Send pushes an envelope to the peer. Failures are logged and
// swallowed, they never abort the caller.
func (s *Session) Send(envelope any) {
	if err := s.sink.Send(envelope); err != nil {
		s.log.Debug().Err(err).Msg("envelope dropped")
	}
}

func (s *Session) Close() { s.sink.Close() }
