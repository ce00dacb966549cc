package api

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
		err  error
	}{
		{
			name: "join",
			raw:  `{"type":"join","userId":"alice","remoteId":"bob"}`,
			want: JoinRequest{UserId: "alice", RemoteId: "bob"},
		},
		{
			name: "join with missing fields",
			raw:  `{"type":"join"}`,
			want: JoinRequest{},
		},
		{
			name: "bye",
			raw:  `{"type":"bye"}`,
			want: ByeRequest{},
		},
		{name: "garbage", raw: `]`, err: ErrMalformed},
		{name: "empty", raw: ``, err: ErrMalformed},
		{name: "numeric type", raw: `{"type":1}`, err: ErrMalformed},
		{name: "unknown kind", raw: `{"type":"subscribe"}`, err: ErrUnknownKind},
		{name: "no type", raw: `{}`, err: ErrUnknownKind},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Decode([]byte(test.raw))
			if test.err != nil {
				if !errors.Is(err, test.err) {
					t.Fatalf("err = %v, want %v", err, test.err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != test.want {
				t.Errorf("got %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestDecodeKeepsPayloadOpaque(t *testing.T) {
	raw := `{"type":"message","data":{"sdp":"v=0\r\n","nested":{"a":[1,2]}}}`
	got, err := Decode([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	rq, ok := got.(MessageRequest)
	if !ok {
		t.Fatalf("got %T, want MessageRequest", got)
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(rq.Data, &data); err != nil {
		t.Fatal(err)
	}
	if _, ok := data["nested"]; !ok {
		t.Errorf("payload lost structure: %s", rq.Data)
	}
}

func TestCandidateEnvelope(t *testing.T) {
	out, err := CandidateEnvelope(json.RawMessage(`{"sdpMid":"0"}`), "alice")
	if err != nil {
		t.Fatal(err)
	}
	if out.T != Message || out.From != "alice" {
		t.Fatalf("envelope = %+v, want message{from:alice}", out)
	}
	var wrapped CandidateData
	if err := json.Unmarshal(out.Data, &wrapped); err != nil {
		t.Fatal(err)
	}
	if wrapped.T != Candidate {
		t.Errorf("wrapped type = %v, want candidate", wrapped.T)
	}
}

func TestRoomInfoEnvelope(t *testing.T) {
	info := RoomInfoEnvelope("room_a_b", []RoomUser{{Id: "1", UserId: "a"}, {Id: "2", UserId: "b"}})
	if info.UserCount != 2 {
		t.Errorf("userCount = %v, want 2", info.UserCount)
	}
	data, err := Encode(info)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["type"] != "roomInfo" || m["userCount"] != float64(2) {
		t.Errorf("wire form = %s", data)
	}
}
