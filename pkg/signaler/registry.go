package signaler

import (
	"errors"
	"sync"

	"github.com/signalhop/signalhop/pkg/logger"
)

// A room holds at most two sessions.
const roomSize = 2

var ErrRoomFull = errors.New("room is full")

// RoomIdFor derives the room identifier from the unordered pair of
// user ids, so both peers land in the same room regardless of who
// joins first.
func RoomIdFor(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "room_" + a + "_" + b
}

// Registry owns the room table. Every mutation of a room happens
// under the registry lock as one step, so no partially applied
// join or leave can ever be observed.
type Registry struct {
	mu      sync.Mutex
	rooms   map[string][]*Session
	log     *logger.Logger
	metrics *Metrics
}

func NewRegistry(log *logger.Logger, metrics *Metrics) *Registry {
	return &Registry{
		rooms:   make(map[string][]*Session, 10),
		log:     log,
		metrics: metrics,
	}
}

// JoinResult carries the outcome of a room insertion: the assigned
// role, a member snapshot taken right after the insertion, and the
// stale session displaced by the joiner, if any.
type JoinResult struct {
	Role    Phase
	Members []*Session
	Evicted *Session
}

// Join inserts the session into the room, creating the room when
// absent. A member with the same userId is evicted first: its room
// binding is released under the registry lock, so a concurrent
// disconnect of the stale connection sees no room to clean up. The
// first session inserted into an empty room becomes the initiator.
func (r *Registry) Join(roomId, userId string, s *Session) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := JoinResult{}
	members := r.rooms[roomId]
	for i, m := range members {
		if m.UserId() == userId {
			m.release()
			res.Evicted = m
			members = append(members[:i], members[i+1:]...)
			break
		}
	}
	// unreachable with conforming clients
	if len(members) >= roomSize {
		return JoinResult{}, ErrRoomFull
	}

	if len(members) == 0 {
		res.Role = Initiator
	} else {
		res.Role = Joined
	}
	members = append(members, s)
	r.rooms[roomId] = members
	res.Members = snapshot(members)
	r.metrics.Rooms.Set(float64(len(r.rooms)))
	r.log.Debug().Msgf("room %v now has %v member(s), %v room(s) total", roomId, len(members), len(r.rooms))
	return res, nil
}

// Leave removes the session from the room and returns a snapshot of
// the remaining members. An emptied room is deleted on the spot, a
// room never persists empty. Unknown rooms and absent sessions are
// no-ops.
func (r *Registry) Leave(roomId string, s *Session) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomId]
	if !ok {
		return nil
	}
	for i, m := range members {
		if m == s {
			members = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(members) == 0 {
		delete(r.rooms, roomId)
	} else {
		r.rooms[roomId] = members
	}
	r.metrics.Rooms.Set(float64(len(r.rooms)))
	r.log.Debug().Msgf("room %v now has %v member(s), %v room(s) total", roomId, len(members), len(r.rooms))
	return snapshot(members)
}

// Members returns a point-in-time snapshot of the room occupants.
func (r *Registry) Members(roomId string) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot(r.rooms[roomId])
}

// Has reports whether the room currently exists.
func (r *Registry) Has(roomId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[roomId]
	return ok
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

func snapshot(members []*Session) []*Session {
	if len(members) == 0 {
		return nil
	}
	return append([]*Session(nil), members...)
}
