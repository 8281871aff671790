// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Rodrigovicente/superfighter-game/internal/game"
	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

// ClientMessage is the envelope for every inbound WebSocket message. Fields
// are populated depending on Type; pointer fields distinguish "absent" from
// zero values.
type ClientMessage struct {
	Type string `json:"type"`

	// join / create_room
	Username   string `json:"username,omitempty"`
	RoomName   string `json:"roomName,omitempty"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
	MaxRounds  int    `json:"maxRounds,omitempty"`
	IsPrivate  bool   `json:"isPrivate,omitempty"`

	// choose_cards
	CharPos *int `json:"charPos,omitempty"`
	AttrPos *int `json:"attrPos,omitempty"`

	// vote
	Fighter *int `json:"fighter,omitempty"`

	// run_actions: the acting card's effect flags, as stored in the deck.
	Actions map[string]interface{} `json:"actions,omitempty"`
}

// WSHandler upgrades the connection and runs the session read loop. A
// session starts roomless; the first accepted join or create_room message
// binds it to a room, and the connection closing removes the player again.
func WSHandler(logger *logrus.Logger, dir *game.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error from %s: %v", r.RemoteAddr, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error")

		logger.Infof("WebSocket connection established from %s", r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		s := &session{logger: logger, dir: dir, conn: c}
		s.readLoop(ctx)
		s.cleanup()
	}
}

// session tracks one connection's identity across the read loop. player and
// room stay nil until a join or create_room succeeds.
type session struct {
	logger *logrus.Logger
	dir    *game.Directory
	conn   *websocket.Conn
	player *models.Player
	room   *game.Room
}

func (s *session) readLoop(ctx context.Context) {
	for {
		msgType, data, err := s.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				s.logger.Infof("WebSocket closed normally for %s", s.playerName())
			} else if strings.Contains(err.Error(), "context canceled") {
				s.logger.Infof("WebSocket context canceled for %s", s.playerName())
			} else {
				s.logger.Warnf("WebSocket read error for %s: %v (status %d)", s.playerName(), err, status)
			}
			return
		}
		if msgType != websocket.MessageText {
			s.logger.Warnf("Ignoring non-text message type %d from %s", msgType, s.playerName())
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warnf("Invalid JSON from %s: %v", s.playerName(), err)
			sendWsError(ctx, s.conn, "Invalid JSON format.")
			continue
		}

		s.logger.Debugf("Received message '%s' from %s", msg.Type, s.playerName())
		s.dispatch(ctx, msg)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (s *session) dispatch(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case "join":
		s.handleJoin(ctx, msg)

	case "create_room":
		s.handleCreateRoom(ctx, msg)

	case "get_full_deck":
		data := s.dir.DeckData()
		sendWsMessage(ctx, s.conn, game.Event{Type: game.EventSetDeck, Deck: &data})

	case "choose_cards":
		s.withRoom(ctx, func() {
			s.room.SubmitChoice(s.player, intOr(msg.CharPos, -1), intOr(msg.AttrPos, -1))
		})

	case "vote":
		s.withRoom(ctx, func() {
			s.room.CastVote(s.player, intOr(msg.Fighter, -1))
		})

	case "run_actions":
		s.withRoom(ctx, func() {
			if actions := models.ParseActionSet(msg.Actions); actions != nil {
				s.room.RunActions(s.player, *actions)
			}
		})

	case "ping":
		sendWsMessage(ctx, s.conn, map[string]string{"type": "pong"})

	default:
		s.logger.Warnf("Unknown message type '%s' from %s", msg.Type, s.playerName())
		sendWsError(ctx, s.conn, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

// handleJoin seats the connection in a named room, or matchmakes when the
// room name is empty. Failures go back on the login error channel so the
// client can retry.
func (s *session) handleJoin(ctx context.Context, msg ClientMessage) {
	if s.room != nil {
		sendWsError(ctx, s.conn, "Already in a room.")
		return
	}

	username, isAnon := game.SanitizeUsername(msg.Username)
	p := models.NewPlayer(s.conn, username)
	roomName := game.SanitizeRoomName(msg.RoomName)

	r, err := s.dir.JoinRoom(p, roomName, isAnon)
	if err != nil {
		s.sendLoginError(ctx, err, roomName)
		return
	}
	s.bind(p, r)
}

func (s *session) handleCreateRoom(ctx context.Context, msg ClientMessage) {
	if s.room != nil {
		sendWsError(ctx, s.conn, "Already in a room.")
		return
	}

	username, isAnon := game.SanitizeUsername(msg.Username)
	p := models.NewPlayer(s.conn, username)

	r, err := s.dir.CreateRoom(p, msg.RoomName, msg.MaxRounds, msg.MaxPlayers, msg.IsPrivate, isAnon)
	if err != nil {
		s.sendLoginError(ctx, err, msg.RoomName)
		return
	}
	s.bind(p, r)
}

// bind attaches the session to its room and announces the arrival: the
// joiner gets a personalized match snapshot, everyone else a room update.
func (s *session) bind(p *models.Player, r *game.Room) {
	s.player = p
	s.room = r

	r.Mu.Lock()
	defer r.Mu.Unlock()

	roomView := r.View()
	if r.SendFn != nil {
		r.SendFn(p, game.Event{
			Type:       game.EventStartMatch,
			Player:     r.PlayerViewOf(p),
			Room:       roomView,
			IsFighter:  boolPtr(r.IsFighter(p)),
			MatchCount: intPtr(r.MatchCount),
		})
	}
	r.FireToOthers(p, game.Event{Type: game.EventSetRoom, Room: roomView})
	r.MaybeStartChooseTimer()

	s.logger.Infof("'%s' entered room '%s'", p.Username, r.Name)
}

// withRoom runs fn under the room lock, rejecting game messages from
// roomless sessions.
func (s *session) withRoom(ctx context.Context, fn func()) {
	if s.room == nil || s.player == nil {
		sendWsError(ctx, s.conn, "Join a room first.")
		return
	}
	s.room.Mu.Lock()
	fn()
	s.room.Mu.Unlock()
}

func (s *session) sendLoginError(ctx context.Context, err error, roomName string) {
	var msg string
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		msg = fmt.Sprintf("Room '%s' does not exist", roomName)
	case errors.Is(err, game.ErrRoomFull):
		msg = fmt.Sprintf("Room '%s' is full", roomName)
	case errors.Is(err, game.ErrNameTooShort):
		msg = "Room name too short"
	case errors.Is(err, game.ErrNameTaken):
		msg = "This room name is already in use"
	default:
		msg = "Unable to join room"
	}
	s.logger.Infof("Login rejected: %v", err)
	sendWsMessage(ctx, s.conn, game.Event{Type: game.EventSetLoginError, Message: msg})
}

// cleanup removes the player from their room after the read loop exits and
// drops the room when it emptied.
func (s *session) cleanup() {
	if s.room == nil || s.player == nil {
		return
	}
	s.room.Mu.Lock()
	empty := s.room.HandleDisconnect(s.player)
	s.room.Mu.Unlock()

	s.logger.Infof("'%s' left room '%s'", s.player.Username, s.room.Name)
	if empty {
		s.dir.DropIfEmpty(s.room)
	}
}

func (s *session) playerName() string {
	if s.player != nil {
		return s.player.Username
	}
	return "unjoined client"
}

// NewBroadcastFunc returns the room broadcast sink wired into the
// directory. It is invoked with the room lock held, so it snapshots the
// connection list synchronously and performs all writes on a separate
// goroutine.
func NewBroadcastFunc(logger *logrus.Logger) func(r *game.Room, ev game.Event) {
	return func(r *game.Room, ev game.Event) {
		conns := make([]*websocket.Conn, 0, len(r.Players))
		for _, p := range r.Players {
			if p.Conn != nil {
				conns = append(conns, p.Conn)
			}
		}

		msgBytes, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("Failed to marshal broadcast event (%s) for room %s: %v", ev.Type, r.Name, err)
			return
		}

		go func(conns []*websocket.Conn, data []byte, roomName string) {
			for _, c := range conns {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				err := c.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					logger.Warnf("Failed to write broadcast message in room %s: %v", roomName, err)
				}
			}
		}(conns, msgBytes, r.Name)
	}
}

// NewSendFunc returns the single-player sink wired into the directory.
// Same locking contract as NewBroadcastFunc.
func NewSendFunc(logger *logrus.Logger) func(p *models.Player, ev game.Event) {
	return func(p *models.Player, ev game.Event) {
		if p.Conn == nil {
			return
		}
		msgBytes, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("Failed to marshal private event (%s) for player %s: %v", ev.Type, p.ID, err)
			return
		}

		go func(c *websocket.Conn, data []byte) {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := c.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("Failed to write private message to player %s: %v", p.ID, err)
			}
		}(p.Conn, msgBytes)
	}
}

// sendWsMessage marshals a message and writes it with a timeout. Errors are
// logged and left for the read loop to surface as a disconnect.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}) {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("Error marshaling WebSocket message: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logrus.Warnf("Error writing WebSocket message: %v (status %d)", err, status)
		}
	}
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, errorMsg string) {
	sendWsMessage(ctx, c, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}

func intOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
