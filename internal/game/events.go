// internal/game/events.go
package game

import "github.com/Rodrigovicente/superfighter-game/internal/models"

// EventType is an enum-like type for messages the room emits to clients.
type EventType string

const (
	EventStartMatch        EventType = "start_match"     // personalized match (re)start: private view + room
	EventSetRoom           EventType = "set_room"        // public room state refresh
	EventSetPlayer         EventType = "set_player"      // private player state refresh
	EventInformWinner      EventType = "inform_winner"   // a fighter slot won the round
	EventStartNewRound     EventType = "start_new_round" // next round begins after the round-end window
	EventStartDrawRound    EventType = "start_draw_round"
	EventEndMatch          EventType = "end_match"
	EventFightEnded        EventType = "fight_ended"        // fight countdown expired; voting stays open
	EventGetSelectedCards  EventType = "get_selected_cards" // choose countdown expired; client auto-submits
	EventSetChooseTimer    EventType = "set_choose_timer"
	EventSetFightTimer     EventType = "set_fight_timer"
	EventSetNextMatchTimer EventType = "set_next_match_timer"
	EventSetDeck           EventType = "set_deck"
	EventSetLoginError     EventType = "set_login_error"
)

// Event is the single outbound message shape. Optional fields are pointers
// so zero values can be omitted from the wire.
type Event struct {
	Type EventType `json:"type"`

	Player *PlayerView `json:"player,omitempty"`
	Room   *RoomView   `json:"room,omitempty"`

	// Winner carries the round/match winner's public view for end_match.
	Winner *RoomPlayerView `json:"winner,omitempty"`

	// Fighter is the winning fighter slot (0 or 1) for inform_winner.
	Fighter *int `json:"fighter,omitempty"`

	IsFighter  *bool `json:"isFighter,omitempty"`
	MatchCount *int  `json:"matchCount,omitempty"`

	// Seconds is the remaining time for the timer events.
	Seconds *int `json:"seconds,omitempty"`

	Deck    *models.DeckData `json:"deck,omitempty"`
	Message string           `json:"message,omitempty"`
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
