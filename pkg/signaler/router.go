package signaler

import (
	"errors"

	"github.com/signalhop/signalhop/pkg/api"
	"github.com/signalhop/signalhop/pkg/logger"
)

// Messages surfaced to the offending session as error envelopes.
const (
	msgMissingParams = "Missing required parameters: userId and remoteId"
	msgSelfConnect   = "User cannot connect to themselves"
	msgRoomFull      = "room is full"
	msgEvicted       = "Replaced by a newer connection with the same userId"
)

// Router drives the per-session state machine: it decodes inbound
// envelopes, mutates the room registry and fans the results out to
// the right peers. Errors never leave the router, a misbehaving
// peer cannot affect other rooms.
type Router struct {
	registry *Registry
	metrics  *Metrics
	log      *logger.Logger
}

func NewRouter(registry *Registry, metrics *Metrics, log *logger.Logger) *Router {
	return &Router{registry: registry, metrics: metrics, log: log}
}

// Handle processes one inbound envelope on behalf of the session.
func (rt *Router) Handle(s *Session, raw []byte) {
	v, err := api.Decode(raw)
	if err != nil {
		// dropped silently, the connection stays open
		reason := "malformed"
		if errors.Is(err, api.ErrUnknownKind) {
			reason = "unknown_kind"
		}
		rt.metrics.Errors.WithLabelValues(reason).Inc()
		s.log.Debug().Str(logger.DirectionField, "in").Err(err).Msg("envelope dropped")
		return
	}
	switch in := v.(type) {
	case api.JoinRequest:
		rt.handleJoin(s, in)
	case api.MessageRequest:
		rt.handleMessage(s, in)
	case api.CandidateRequest:
		rt.handleCandidate(s, in)
	case api.ByeRequest:
		rt.handleBye(s)
	}
}

func (rt *Router) handleJoin(s *Session, rq api.JoinRequest) {
	if s.Phase() != Unjoined {
		s.log.Warn().Msgf("join on a session in phase %v", s.Phase())
		return
	}
	if rq.UserId == "" || rq.RemoteId == "" {
		rt.metrics.Errors.WithLabelValues("missing_params").Inc()
		s.Send(api.ErrorEnvelope(msgMissingParams))
		return
	}
	if rq.UserId == rq.RemoteId {
		rt.metrics.Errors.WithLabelValues("self_connection").Inc()
		s.Send(api.ErrorEnvelope(msgSelfConnect))
		s.mark(Left)
		s.Close()
		s.log.Info().Msgf("%v tried to connect to themselves", rq.UserId)
		return
	}

	roomId := RoomIdFor(rq.UserId, rq.RemoteId)
	s.declare(rq.UserId, rq.RemoteId)
	res, err := rt.registry.Join(roomId, rq.UserId, s)
	if err != nil {
		rt.metrics.Errors.WithLabelValues("room_full").Inc()
		s.Send(api.ErrorEnvelope(msgRoomFull))
		s.log.Warn().Msgf("%v rejected, room %v is full", rq.UserId, roomId)
		return
	}
	if ev := res.Evicted; ev != nil {
		ev.Send(api.ErrorEnvelope(msgEvicted))
		ev.Close()
		ev.log.Info().Msgf("%v evicted from room %v", rq.UserId, roomId)
	}
	s.assign(roomId, res.Role)

	if res.Role == Initiator {
		s.Send(api.CreatedEnvelope(roomId))
	} else {
		s.Send(api.JoinedEnvelope(roomId))
	}
	info := api.RoomInfoEnvelope(roomId, roomUsers(res.Members))
	for _, m := range res.Members {
		if m != s {
			m.Send(api.ReadyEnvelope(roomId))
		}
		m.Send(info)
	}
	s.log.Info().Msgf("%v -> room %v as %v", rq.UserId, roomId, res.Role)
}

func (rt *Router) handleMessage(s *Session, rq api.MessageRequest) {
	if !s.canRelay() {
		s.log.Debug().Msg("message outside of a room dropped")
		return
	}
	rt.broadcast(s, api.RelayEnvelope(rq.Data, s.UserId()))
	rt.metrics.Relayed.WithLabelValues(string(api.Message)).Inc()
}

func (rt *Router) handleCandidate(s *Session, rq api.CandidateRequest) {
	if !s.canRelay() {
		s.log.Debug().Msg("candidate outside of a room dropped")
		return
	}
	out, err := api.CandidateEnvelope(rq.Candidate, s.UserId())
	if err != nil {
		rt.metrics.Errors.WithLabelValues("malformed").Inc()
		s.log.Debug().Err(err).Msg("candidate dropped")
		return
	}
	rt.broadcast(s, out)
	rt.metrics.Relayed.WithLabelValues(string(api.Candidate)).Inc()
}

func (rt *Router) handleBye(s *Session) {
	if !s.canRelay() {
		s.log.Debug().Msg("bye outside of a room dropped")
		return
	}
	rt.Disconnect(s)
}

// broadcast delivers the envelope to every other member of the
// session's room, working over a snapshot of the member list.
func (rt *Router) broadcast(s *Session, envelope any) {
	for _, m := range rt.registry.Members(s.Room()) {
		if m != s {
			m.Send(envelope)
		}
	}
}

// Disconnect reaps the session from its room: the remaining member
// gets a bye envelope and a fresh room snapshot, an emptied room is
// dropped from the registry. Safe to call any number of times, for
// both explicit byes and transport closes.
func (rt *Router) Disconnect(s *Session) {
	roomId := s.release()
	if roomId == "" {
		return
	}
	remaining := rt.registry.Leave(roomId, s)
	if len(remaining) > 0 {
		bye := api.ByeEnvelope(s.Id().String(), s.UserId())
		info := api.RoomInfoEnvelope(roomId, roomUsers(remaining))
		for _, m := range remaining {
			m.Send(bye)
			m.Send(info)
		}
	}
	s.log.Info().Msgf("%v left room %v", s.UserId(), roomId)
}

func roomUsers(members []*Session) []api.RoomUser {
	users := make([]api.RoomUser, 0, len(members))
	for _, m := range members {
		users = append(users, api.RoomUser{Id: m.Id().String(), UserId: m.UserId()})
	}
	return users
}
