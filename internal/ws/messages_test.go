package ws

import (
	"encoding/json"
	"testing"
)

func TestEnvelopeDecode(t *testing.T) {
	raw := `{"type":"createRoom","payload":{"roomId":"r1","playerName":"Alice","password":"pw","pairCount":6,"turnDurationSeconds":30}}`

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("envelope: %v", err)
	}
	if env.Type != MsgCreateRoom {
		t.Fatalf("type = %q", env.Type)
	}

	var p CreateRoomPayload
	if err := decodePayload(env, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.RoomID != "r1" || p.PlayerName != "Alice" || p.Password != "pw" || p.PairCount != 6 || p.TurnSeconds != 30 {
		t.Fatalf("unexpected payload: %+v", p)
	}
}

func TestDecodePayloadRejectsMissingAndMalformed(t *testing.T) {
	var p JoinRoomPayload

	if err := decodePayload(envelope{Type: MsgJoinRoom}, &p); err == nil {
		t.Fatal("missing payload accepted")
	}
	env := envelope{Type: MsgJoinRoom, Payload: json.RawMessage(`"not an object"`)}
	if err := decodePayload(env, &p); err == nil {
		t.Fatal("malformed payload accepted")
	}
}

func TestFlipCardPayloadDistinguishesZeroFromAbsent(t *testing.T) {
	var withZero FlipCardPayload
	if err := json.Unmarshal([]byte(`{"roomId":"r1","cardId":0}`), &withZero); err != nil {
		t.Fatal(err)
	}
	if withZero.CardID == nil || *withZero.CardID != 0 {
		t.Fatal("cardId 0 should decode to a present zero")
	}

	var absent FlipCardPayload
	if err := json.Unmarshal([]byte(`{"roomId":"r1"}`), &absent); err != nil {
		t.Fatal(err)
	}
	if absent.CardID != nil {
		t.Fatal("absent cardId should decode to nil")
	}
}
