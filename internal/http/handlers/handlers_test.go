package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"matchpairs/internal/game"
	"matchpairs/internal/service"

	"github.com/gin-gonic/gin"
)

type noopBroadcaster struct{}

func (noopBroadcaster) JoinRoom(roomID, connID string)     {}
func (noopBroadcaster) LeaveRoom(roomID, connID string)    {}
func (noopBroadcaster) ToRoom(roomID string, e game.Event) {}
func (noopBroadcaster) ToConn(connID string, e game.Event) {}

func newTestRouter(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := game.NewManager(
		game.NewRegistry(),
		game.NewDealer(game.ImagePool(45)),
		noopBroadcaster{},
		game.Config{DefaultPairCount: 4, MaxPairs: 45},
	)
	h := NewHandler(manager, nil)

	r := gin.New()
	r.POST("/auth", h.Auth)
	r.GET("/rooms", h.Rooms)
	r.GET("/history", h.History)
	r.GET("/top", h.Top)
	return r, h
}

func TestAuthIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service.InitJWT()
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"playerName":"  Alice  "}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token      string `json:"token"`
		PlayerName string `json:"playerName"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.PlayerName != "Alice" {
		t.Fatalf("playerName = %q; want trimmed Alice", resp.PlayerName)
	}
	name, err := service.ParseJWT(resp.Token)
	if err != nil || name != "Alice" {
		t.Fatalf("issued token does not round-trip: name=%q err=%v", name, err)
	}
}

func TestAuthRejectsBadNames(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service.InitJWT()
	r, _ := newTestRouter(t)

	bodies := []string{
		`{}`,
		`{"playerName":"   "}`,
		`{"playerName":"` + strings.Repeat("x", 33) + `"}`,
		`not json`,
	}
	for _, body := range bodies {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d; want 400", body, w.Code)
		}
	}
}

func TestRoomsListsLiveRooms(t *testing.T) {
	r, h := newTestRouter(t)

	if _, err := h.Manager.CreateRoom("conn-a", game.CreateParams{RoomID: "r1", PlayerName: "Alice", Password: "pw"}); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Rooms []game.RoomInfo `json:"rooms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Rooms) != 1 || resp.Rooms[0].ID != "r1" || !resp.Rooms[0].HasPassword {
		t.Fatalf("unexpected listing: %+v", resp.Rooms)
	}
}

func TestHistoryEndpointsDisabledWithoutDatabase(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/history?player=Alice", "/top"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d; want 503", path, w.Code)
		}
	}
}
