package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"matchpairs/internal/game"
	"matchpairs/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// newGameServer wires a real hub, manager, and gin router behind an
// httptest server, the same stack main assembles.
func newGameServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	manager := game.NewManager(
		game.NewRegistry(),
		game.NewDealer(game.ImagePool(45)),
		hub,
		game.Config{DefaultPairCount: 4, RevealDelay: 20 * time.Millisecond, MaxPairs: 45},
	)
	hub.SetManager(manager)

	r := gin.New()
	r.GET("/ws", HandleWS(hub, ""))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dialPlayer(t *testing.T, srv *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	token, err := service.GenerateJWT(name)
	if err != nil {
		t.Fatalf("token for %s: %v", name, err)
	}
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + url.QueryEscape(token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial for %s: %v", name, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil consumes frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) json.RawMessage {
	t.Helper()
	for i := 0; i < 20; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var env struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}
		if env.Type == want {
			return env.Payload
		}
	}
	t.Fatalf("no %s frame within 20 messages", want)
	return nil
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": msgType, "payload": payload}); err != nil {
		t.Fatalf("send %s: %v", msgType, err)
	}
}

func TestHandshakeRejectsMissingAndBogusTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "e2e-secret")
	service.InitJWT()
	srv := newGameServer(t)

	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	for _, u := range []string{base, base + "?token=garbage"} {
		conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
		if err == nil {
			conn.Close()
			t.Fatalf("dial %s succeeded without a valid token", u)
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("dial %s: expected 401 handshake refusal, got %+v", u, resp)
		}
	}
}

func TestTwoPlayersPlayOverTheWire(t *testing.T) {
	t.Setenv("JWT_SECRET", "e2e-secret")
	service.InitJWT()
	srv := newGameServer(t)

	alice := dialPlayer(t, srv, "Alice")
	var aliceConn ConnectedPayload
	if err := json.Unmarshal(readUntil(t, alice, MsgConnected), &aliceConn); err != nil {
		t.Fatal(err)
	}
	if aliceConn.ConnectionID == "" || aliceConn.Name != "Alice" {
		t.Fatalf("unexpected connected payload: %+v", aliceConn)
	}

	send(t, alice, MsgCreateRoom, map[string]any{"roomId": "r1", "pairCount": 4})
	var created game.RoomCreatedPayload
	if err := json.Unmarshal(readUntil(t, alice, game.EvtRoomCreated), &created); err != nil {
		t.Fatal(err)
	}
	if created.RoomID != "r1" {
		t.Fatalf("roomCreated id = %q", created.RoomID)
	}

	bob := dialPlayer(t, srv, "Bob")
	readUntil(t, bob, MsgConnected)
	send(t, bob, MsgJoinRoom, map[string]any{"roomId": "r1"})

	// The join fills the room, so both connections get the deal.
	var startA, startB game.GameStartPayload
	if err := json.Unmarshal(readUntil(t, alice, game.EvtGameStart), &startA); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(readUntil(t, bob, game.EvtGameStart), &startB); err != nil {
		t.Fatal(err)
	}

	if len(startA.Cards) != 8 || len(startB.Cards) != 8 {
		t.Fatalf("deal sizes: alice %d, bob %d; want 8", len(startA.Cards), len(startB.Cards))
	}
	if startA.CurrentTurn != aliceConn.ConnectionID || startB.CurrentTurn != aliceConn.ConnectionID {
		t.Fatal("creator should hold the first turn on both wires")
	}
	for _, c := range append(startA.Cards, startB.Cards...) {
		if c.Image != "" {
			t.Fatal("face-down card image leaked over the wire")
		}
	}

	// A real flip travels the full path: codec, manager, fan-out.
	send(t, alice, MsgFlipCard, map[string]any{"roomId": "r1", "cardId": 0})
	for name, conn := range map[string]*websocket.Conn{"alice": alice, "bob": bob} {
		var upd game.GameUpdatePayload
		if err := json.Unmarshal(readUntil(t, conn, game.EvtGameUpdate), &upd); err != nil {
			t.Fatalf("%s update: %v", name, err)
		}
		if !upd.Cards[0].IsFlipped || upd.Cards[0].Image == "" {
			t.Fatalf("%s saw flip without the revealed image: %+v", name, upd.Cards[0])
		}
	}

	// Out-of-turn flip bounces back to the sender only.
	send(t, bob, MsgFlipCard, map[string]any{"roomId": "r1", "cardId": 1})
	var flipErr game.ErrorPayload
	if err := json.Unmarshal(readUntil(t, bob, game.EvtFlipError), &flipErr); err != nil {
		t.Fatal(err)
	}
	if flipErr.Code != "notYourTurn" {
		t.Fatalf("flipError code = %q; want notYourTurn", flipErr.Code)
	}
}
