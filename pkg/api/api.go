// Package api defines the signaling envelopes exchanged with peers.
// Every envelope is a JSON object with a "type" discriminator; payload
// fields (SDP blobs, ICE candidates) are kept opaque.
package api

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

type Kind string

const (
	// inbound
	Join      Kind = "join"
	Message   Kind = "message"
	Candidate Kind = "candidate"
	Bye       Kind = "bye"

	// outbound
	Created  Kind = "created"
	Joined   Kind = "joined"
	Ready    Kind = "ready"
	RoomInfo Kind = "roomInfo"
	Error    Kind = "error"
)

var (
	ErrMalformed   = errors.New("malformed envelope")
	ErrUnknownKind = errors.New("unknown envelope kind")
)

type (
	JoinRequest struct {
		UserId   string `json:"userId"`
		RemoteId string `json:"remoteId"`
	}
	MessageRequest struct {
		Data json.RawMessage `json:"data"`
	}
	CandidateRequest struct {
		Candidate json.RawMessage `json:"candidate"`
	}
	ByeRequest struct{}
)

// Decode parses a raw envelope into one of the inbound variants.
// Unparseable input fails with ErrMalformed, a missing variant
// with ErrUnknownKind.
func Decode(raw []byte) (any, error) {
	var head struct {
		T Kind `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch head.T {
	case Join:
		var v JoinRequest
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return v, nil
	case Message:
		var v MessageRequest
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return v, nil
	case Candidate:
		var v CandidateRequest
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return v, nil
	case Bye:
		return ByeRequest{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, head.T)
}

type (
	RoomResponse struct {
		T    Kind   `json:"type"`
		Room string `json:"room"`
	}
	RoomUser struct {
		Id     string `json:"id"`
		UserId string `json:"userId"`
	}
	RoomInfoResponse struct {
		T         Kind       `json:"type"`
		Room      string     `json:"room"`
		Users     []RoomUser `json:"users"`
		UserCount int        `json:"userCount"`
	}
	RelayResponse struct {
		T    Kind            `json:"type"`
		Data json.RawMessage `json:"data"`
		From string          `json:"from"`
	}
	CandidateData struct {
		T         Kind            `json:"type"`
		Candidate json.RawMessage `json:"candidate"`
	}
	ByeResponse struct {
		T      Kind   `json:"type"`
		Id     string `json:"id"`
		UserId string `json:"userId"`
	}
	ErrorResponse struct {
		T       Kind   `json:"type"`
		Message string `json:"message"`
	}
)

func CreatedEnvelope(room string) RoomResponse { return RoomResponse{T: Created, Room: room} }
func JoinedEnvelope(room string) RoomResponse  { return RoomResponse{T: Joined, Room: room} }
func ReadyEnvelope(room string) RoomResponse   { return RoomResponse{T: Ready, Room: room} }

func RoomInfoEnvelope(room string, users []RoomUser) RoomInfoResponse {
	return RoomInfoResponse{T: RoomInfo, Room: room, Users: users, UserCount: len(users)}
}

func RelayEnvelope(data json.RawMessage, from string) RelayResponse {
	return RelayResponse{T: Message, Data: data, From: from}
}

// CandidateEnvelope wraps an ICE candidate into a generic relay
// envelope, the way browsers expect it back.
func CandidateEnvelope(candidate json.RawMessage, from string) (RelayResponse, error) {
	data, err := json.Marshal(CandidateData{T: Candidate, Candidate: candidate})
	if err != nil {
		return RelayResponse{}, err
	}
	return RelayEnvelope(data, from), nil
}

func ByeEnvelope(id, userId string) ByeResponse { return ByeResponse{T: Bye, Id: id, UserId: userId} }

func ErrorEnvelope(message string) ErrorResponse { return ErrorResponse{T: Error, Message: message} }

// Encode serializes an outbound envelope.
func Encode(v any) ([]byte, error) { return json.Marshal(v) }
