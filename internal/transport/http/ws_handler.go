package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"quiz-arena/internal/app"
	"quiz-arena/internal/domain"
)

type WSHandler struct {
	profiles app.ProfileRepository
	tick     time.Duration
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler serves games from profiles. tick is how often each connection
// lets time pass in its game.
func NewWSHandler(profiles app.ProfileRepository, tick time.Duration, log *slog.Logger) *WSHandler {
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	if log == nil {
		log = slog.Default()
	}
	return &WSHandler{
		profiles: profiles,
		tick:     tick,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
}

type answerPayload struct {
	Index int `json:"index"`
}

type historyPayload struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
}

type volumePayload struct {
	Volume float64 `json:"volume"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type statePayload struct {
	Profile  string       `json:"profile"`
	Snapshot app.Snapshot `json:"snapshot"`
}

type historyResult struct {
	Mode       domain.Mode         `json:"mode"`
	Difficulty string              `json:"difficulty"`
	Results    []domain.GameResult `json:"results"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// errUnsupported is reported for unknown inbound message types.
var errUnsupported = errors.New("unsupported message type")

// ServeWS upgrades HTTP requests to websockets and drives the profile's game
// from the connection: inbound actions and a ticker are serialised through
// one loop, and every update of the profile is pushed back out.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profile")
	if profileID == "" {
		profileID = uuid.NewString()
	}
	log := h.log.With("profile", profileID)

	profile, updates, cancel, err := h.profiles.Acquire(profileID)
	if err != nil {
		log.Error("load profile failed", "error", err)
		http.Error(w, "profile unavailable", http.StatusServiceUnavailable)
		return
	}
	defer func() {
		cancel()
		h.release(profile)
	}()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	inbound := make(chan inboundMessage)
	readerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "commands", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	go func() {
		defer close(readerDone)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-closeSignals:
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	var snap app.Snapshot
	profile.View(func(g *app.Game) { snap = g.Snapshot() })
	push(outboundMessage[any]{Type: "state", Payload: statePayload{Profile: profileID, Snapshot: snap}})

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

loop:
	for {
		select {
		case msg := <-inbound:
			reply, err := h.handle(r.Context(), profile, msg)
			if err != nil {
				push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			if reply != nil {
				push(*reply)
			}
		case now := <-ticker.C:
			profile.Elapse(now)
		case <-readerDone:
			break loop
		case <-writerDone:
			break loop
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// handle applies one inbound action. Command lists reach the client through
// the profile broadcast; only direct answers are returned here.
func (h *WSHandler) handle(ctx context.Context, profile *app.Profile, msg inboundMessage) (*outboundMessage[any], error) {
	switch msg.Type {
	case "start":
		var p startPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, errors.New("invalid start payload")
		}
		mode, err := domain.ParseMode(p.Mode)
		if err != nil {
			return nil, err
		}
		var difficulty domain.Difficulty
		if p.Difficulty != "" && mode != domain.ModeBossRush {
			if difficulty, err = domain.ParseDifficulty(p.Difficulty); err != nil {
				return nil, err
			}
		}
		_, err = profile.Do(func(g *app.Game) ([]domain.Command, error) {
			return g.Play(ctx, mode, difficulty)
		})
		return nil, err
	case "answer":
		var p answerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, errors.New("invalid answer payload")
		}
		_, err := profile.Do(func(g *app.Game) ([]domain.Command, error) {
			return g.Submit(p.Index), nil
		})
		return nil, err
	case "restart":
		_, err := profile.Do(func(g *app.Game) ([]domain.Command, error) { return g.Restart(ctx) })
		return nil, err
	case "proceed":
		_, err := profile.Do(func(g *app.Game) ([]domain.Command, error) { return g.Proceed(ctx) })
		return nil, err
	case "abandon":
		_, err := profile.Do(func(g *app.Game) ([]domain.Command, error) { return g.Abandon(), nil })
		return nil, err
	case "volume":
		var p volumePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, errors.New("invalid volume payload")
		}
		_, err := profile.Do(func(g *app.Game) ([]domain.Command, error) {
			return []domain.Command{g.Settings().SetVolume(p.Volume)}, nil
		})
		return nil, err
	case "history":
		var p historyPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				return nil, errors.New("invalid history payload")
			}
		}
		mode, err := domain.ParseMode(p.Mode)
		if err != nil {
			return nil, err
		}
		res := historyResult{Mode: mode, Difficulty: p.Difficulty}
		profile.View(func(g *app.Game) { res.Results = g.History().Query(mode, p.Difficulty) })
		return &outboundMessage[any]{Type: "history", Payload: res}, nil
	case "state":
		var snap app.Snapshot
		profile.View(func(g *app.Game) { snap = g.Snapshot() })
		return &outboundMessage[any]{Type: "state", Payload: statePayload{Profile: profile.ID(), Snapshot: snap}}, nil
	default:
		return nil, errUnsupported
	}
}

// release abandons the run of a profile nobody is watching any more and
// lets the store forget it.
func (h *WSHandler) release(profile *app.Profile) {
	profile.AbandonIfIdle()
	h.profiles.DeleteIfEmpty(profile.ID())
}
