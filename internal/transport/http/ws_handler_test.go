package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-arena/internal/app"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/infra/memory"
)

func TestWebSocketGameFlow(t *testing.T) {
	server, store := newTestServer(t)
	conn := dial(t, server, "p1")

	typ, payload := readNext(conn, t, "state")
	if payload["profile"] != "p1" {
		t.Fatalf("expected profile p1, got %v (%s)", payload["profile"], typ)
	}

	send(t, conn, "start", map[string]any{"mode": "classic", "difficulty": "easy"})
	_, payload = readNext(conn, t, "commands")
	snap := payload["snapshot"].(map[string]any)
	if snap["state"] != "awaiting_answer" || snap["mode"] != "Classic" {
		t.Fatalf("expected a classic run awaiting an answer, got %+v", snap)
	}

	send(t, conn, "answer", map[string]any{"index": 0})
	_, payload = readNext(conn, t, "commands")
	snap = payload["snapshot"].(map[string]any)
	if snap["answered"].(float64) != 1 {
		t.Fatalf("expected one answer booked, got %+v", snap)
	}

	// the second click lands during the answer delay and is dropped
	send(t, conn, "answer", map[string]any{"index": 1})
	send(t, conn, "abandon", nil)
	_, payload = readNext(conn, t, "commands")
	if payload["snapshot"].(map[string]any)["state"] != "idle" {
		t.Fatalf("expected idle after abandon, got %+v", payload)
	}

	send(t, conn, "history", map[string]any{"mode": "Classic", "difficulty": "Easy"})
	_, payload = readNext(conn, t, "history")
	results := payload["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("expected the abandoned run in history, got %+v", results)
	}
	if got := results[0].(map[string]any)["totalQuestions"].(float64); got != 2 {
		t.Fatalf("expected 2 questions recorded, got %v", got)
	}

	if _, ok := store.Get("p1"); !ok {
		t.Fatalf("expected profile to be loaded while connected")
	}
}

func TestWebSocketErrors(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server, "p2")
	readNext(conn, t, "state")

	send(t, conn, "dance", nil)
	_, payload := readNext(conn, t, "error")
	if payload["message"] != "unsupported message type" {
		t.Fatalf("unexpected error %+v", payload)
	}

	send(t, conn, "start", map[string]any{"mode": "arcade"})
	_, payload = readNext(conn, t, "error")
	if payload["message"] == "" {
		t.Fatalf("expected unknown mode error")
	}

	send(t, conn, "proceed", nil)
	_, payload = readNext(conn, t, "error")
	if payload["message"] != domain.ErrNoActiveRun.Error() {
		t.Fatalf("expected no active run, got %+v", payload)
	}
}

func TestWebSocketSharesProfileBetweenConnections(t *testing.T) {
	server, _ := newTestServer(t)
	first := dial(t, server, "shared")
	readNext(first, t, "state")
	second := dial(t, server, "shared")
	readNext(second, t, "state")

	send(t, first, "volume", map[string]any{"volume": 0.4})
	_, payload := readNext(second, t, "commands")
	cmds := payload["commands"].([]any)
	if len(cmds) != 1 || cmds[0].(map[string]any)["kind"] != string(domain.CmdSetVolume) {
		t.Fatalf("expected the volume change on the second connection, got %+v", cmds)
	}
}

func TestWebSocketTicksTimeAttack(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server, "ticker")
	readNext(conn, t, "state")

	send(t, conn, "start", map[string]any{"mode": "TimeAttack"})
	readNext(conn, t, "commands")

	// the first countdown tick arrives after one second of wall time
	_, payload := readNext(conn, t, "commands")
	found := false
	for _, c := range payload["commands"].([]any) {
		cmd := c.(map[string]any)
		if cmd["kind"] == string(domain.CmdSetText) && cmd["target"] == domain.FieldTimer {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a timer update, got %+v", payload)
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.ProfileStore) {
	t.Helper()
	sets := map[string]domain.QuestionSet{}
	for _, mode := range []domain.Mode{domain.ModeClassic, domain.ModeTimeAttack} {
		id := domain.QuestionSetID(mode, domain.Easy, 0)
		sets[id] = domain.QuestionSet{ID: id, Questions: []domain.Question{
			{Prompt: "2 + 2?", Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1},
			{Prompt: "3 + 3?", Options: []string{"6", "7", "8", "9"}, CorrectIndex: 0},
		}}
	}
	store := memory.NewProfileStore(app.ProfileBuilder{
		Rules:  app.DefaultRules(),
		Source: memory.NewQuestionRepository(memory.NewStaticQuestionLoader(sets), time.Minute),
	}, nil)
	handler := NewWSHandler(store, 20*time.Millisecond, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

func dial(t *testing.T, server *httptest.Server, profile string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?profile=" + profile
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%+v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}
