// internal/game/directory.go
package game

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

const (
	// DefaultMaxPlayers is the room capacity when a request omits one.
	DefaultMaxPlayers = 5
	// DefaultMaxRounds is the match length when a request omits one.
	DefaultMaxRounds = 9

	minRoomNameLen = 5
	maxNameLen     = 25
)

var roomNameStrip = regexp.MustCompile(`[^a-zA-Z0-9_\- ]`)

// SanitizeRoomName strips disallowed characters, trims whitespace and caps
// the length.
func SanitizeRoomName(name string) string {
	name = strings.TrimSpace(roomNameStrip.ReplaceAllString(name, ""))
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}

// SanitizeUsername trims and caps a display name. An empty result becomes
// the anonymous prefix; the caller appends the room's counter after seating.
func SanitizeUsername(name string) (username string, isAnon bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Anonymous ", true
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name, false
}

// Directory owns the live room registry. It is the only place rooms are
// created and dropped; the lock order is always directory first, room
// second.
type Directory struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	roomSeq int

	data   models.DeckData
	timing Timing
	logger *logrus.Logger

	// Broadcast, Send and Record are wired onto every new room. Broadcast
	// and Send are invoked with the room lock held and must write
	// asynchronously.
	Broadcast func(r *Room, ev Event)
	Send      func(p *models.Player, ev Event)
	Record    func(roomName, event string, payload map[string]interface{})
}

// NewDirectory creates an empty registry serving rooms built from the given
// deck dataset.
func NewDirectory(data models.DeckData, timing Timing, logger *logrus.Logger) *Directory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Directory{
		rooms:  make(map[string]*Room),
		data:   data,
		timing: timing,
		logger: logger,
	}
}

// DeckData exposes the static dataset rooms are built from.
func (d *Directory) DeckData() models.DeckData { return d.data }

// RoomCount returns the number of live rooms.
func (d *Directory) RoomCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rooms)
}

// JoinRoom seats a player. An empty room name matchmakes into the first
// public room with space (creating one when none exists); otherwise the
// named room must exist and have space. Anonymous players get the room's
// counter appended to their name after seating.
func (d *Directory) JoinRoom(p *models.Player, roomName string, isAnon bool) (*Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if roomName == "" {
		return d.joinRandom(p, isAnon), nil
	}

	r, ok := d.rooms[roomName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, roomName)
	}

	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.IsFull() {
		return nil, fmt.Errorf("%w: %q", ErrRoomFull, roomName)
	}
	d.seat(r, p, isAnon)
	return r, nil
}

// joinRandom finds or creates a public room. Assumes d.mu is held.
func (d *Directory) joinRandom(p *models.Player, isAnon bool) *Room {
	for _, r := range d.rooms {
		r.Mu.Lock()
		if !r.IsPrivate && !r.IsFull() {
			d.seat(r, p, isAnon)
			r.Mu.Unlock()
			return r
		}
		r.Mu.Unlock()
	}

	name := "room" + strconv.Itoa(d.roomSeq)
	for d.rooms[name] != nil {
		d.roomSeq++
		name = "room" + strconv.Itoa(d.roomSeq)
	}
	d.roomSeq++

	r := d.newRoom(name, p, DefaultMaxPlayers, DefaultMaxRounds, false)
	if isAnon {
		r.Mu.Lock()
		p.Username += strconv.Itoa(r.NextAnonSuffix())
		r.Mu.Unlock()
	}
	d.logger.WithFields(logrus.Fields{"room": name, "player": p.Username}).Info("matchmade into new room")
	return r
}

// CreateRoom validates the request, clamps the match length and registers a
// new room seated with its creator. The name is sanitized before any
// validation runs.
func (d *Directory) CreateRoom(p *models.Player, roomName string, maxRounds, maxPlayers int, isPrivate, isAnon bool) (*Room, error) {
	roomName = SanitizeRoomName(roomName)
	if len(roomName) < minRoomNameLen {
		return nil, ErrNameTooShort
	}
	if maxPlayers < 2 {
		maxPlayers = DefaultMaxPlayers
	}
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	if maxRounds > 10*maxPlayers-1 {
		maxRounds = 10*maxPlayers - 1
	}
	if maxRounds < maxPlayers-1 {
		maxRounds = maxPlayers - 1
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.rooms[roomName]; exists {
		return nil, fmt.Errorf("%w: %q", ErrNameTaken, roomName)
	}

	r := d.newRoom(roomName, p, maxPlayers, maxRounds, isPrivate)
	if isAnon {
		r.Mu.Lock()
		p.Username += strconv.Itoa(r.NextAnonSuffix())
		r.Mu.Unlock()
	}
	d.logger.WithFields(logrus.Fields{
		"room":       roomName,
		"player":     p.Username,
		"maxPlayers": maxPlayers,
		"maxRounds":  maxRounds,
		"private":    isPrivate,
	}).Info("room created")
	return r, nil
}

// newRoom builds a room, wires its event sinks and registers it. Assumes
// d.mu is held.
func (d *Directory) newRoom(name string, first *models.Player, maxPlayers, maxRounds int, isPrivate bool) *Room {
	r := NewRoom(name, first, maxPlayers, maxRounds, isPrivate, d.data, d.timing)
	if d.Broadcast != nil {
		broadcast := d.Broadcast
		r.BroadcastFn = func(ev Event) { broadcast(r, ev) }
	}
	r.SendFn = d.Send
	if d.Record != nil {
		record := d.Record
		r.RecordFn = func(event string, payload map[string]interface{}) { record(name, event, payload) }
	}
	d.rooms[name] = r
	return r
}

// seat adds a player to a room and resolves the anonymous suffix. Assumes
// both d.mu and r.Mu are held.
func (d *Directory) seat(r *Room, p *models.Player, isAnon bool) {
	if isAnon {
		p.Username += strconv.Itoa(r.NextAnonSuffix())
	}
	r.AddPlayer(p)
	d.logger.WithFields(logrus.Fields{"room": r.Name, "player": p.Username}).Info("player joined")
}

// DropIfEmpty removes the room from the registry when its last player has
// left, stopping its timers. Callers must not hold the room lock.
func (d *Directory) DropIfEmpty(r *Room) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if len(r.Players) > 0 {
		return
	}
	if d.rooms[r.Name] == r {
		delete(d.rooms, r.Name)
		r.Shutdown()
		d.logger.WithField("room", r.Name).Info("room closed")
	}
}
