// internal/game/view.go
package game

import (
	"github.com/google/uuid"

	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

// Read-only projections of the canonical mutable entities, built on demand
// under the room lock. A view is never fed back into room state.

// CardView is the wire form of a card, with the derived isActionCard flag.
type CardView struct {
	Key          int               `json:"key"`
	Text         string            `json:"text"`
	IsChar       bool              `json:"isChar"`
	Actions      *models.ActionSet `json:"actions,omitempty"`
	IsActionCard bool              `json:"isActionCard"`
}

// PlayerView is a player's private state: hands included.
type PlayerView struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	WinCount     int        `json:"winCount"`
	CharCards    []CardView `json:"charCards"`
	AttrCards    []CardView `json:"attrCards"`
	FighterCards []CardView `json:"fighterCards"`
	IsChoosing   bool       `json:"isChoosing"`
	HasVoted     bool       `json:"hasVoted"`
}

// RoomPlayerView is a player's public state: fighter slots, no hands.
type RoomPlayerView struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	WinCount     int        `json:"winCount"`
	FighterCards []CardView `json:"fighterCards"`
	IsChoosing   bool       `json:"isChoosing"`
	HasVoted     bool       `json:"hasVoted"`
}

// RoomView is the public room state broadcast to all members.
type RoomView struct {
	RoomName      string           `json:"roomName"`
	MaxPlayers    int              `json:"maxPlayers"`
	IsPrivate     bool             `json:"isPrivate"`
	Players       []RoomPlayerView `json:"players"`
	Fighters      [2]*int          `json:"fighters"`
	NextFighter   *int             `json:"nextFighter,omitempty"`
	RoundCount    int              `json:"roundCount"`
	MaxRounds     int              `json:"maxRounds"`
	IsChoosing    bool             `json:"isChoosing"`
	IsFighting    bool             `json:"isFighting"`
	IsEndingRound bool             `json:"isEndingRound"`
}

func cardView(c *models.Card) CardView {
	return CardView{
		Key:          c.Key,
		Text:         c.Text,
		IsChar:       c.IsChar,
		Actions:      c.Actions,
		IsActionCard: c.IsActionCard(),
	}
}

func cardViews(cards []*models.Card) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardView(c))
	}
	return out
}

// PlayerViewOf builds a player's private view. Assumes lock is held.
func (r *Room) PlayerViewOf(p *models.Player) *PlayerView {
	return &PlayerView{
		ID:           p.ID,
		Username:     p.Username,
		WinCount:     p.WinCount,
		CharCards:    cardViews(p.CharCards),
		AttrCards:    cardViews(p.AttrCards),
		FighterCards: cardViews(p.AllFighterCards()),
		IsChoosing:   p.IsChoosing,
		HasVoted:     p.HasVoted,
	}
}

// View builds the public room projection. Assumes lock is held.
func (r *Room) View() *RoomView {
	players := make([]RoomPlayerView, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, RoomPlayerView{
			ID:           p.ID,
			Username:     p.Username,
			WinCount:     p.WinCount,
			FighterCards: cardViews(p.AllFighterCards()),
			IsChoosing:   p.IsChoosing,
			HasVoted:     p.HasVoted,
		})
	}

	var fighters [2]*int
	for slot, idx := range r.fighters {
		if idx >= 0 {
			fighters[slot] = intPtr(idx)
		}
	}
	var next *int
	if n := r.peekNextFighter(); n >= 0 {
		next = intPtr(n)
	}

	return &RoomView{
		RoomName:      r.Name,
		MaxPlayers:    r.MaxPlayers,
		IsPrivate:     r.IsPrivate,
		Players:       players,
		Fighters:      fighters,
		NextFighter:   next,
		RoundCount:    r.RoundCount,
		MaxRounds:     r.MaxRounds,
		IsChoosing:    r.IsChoosing,
		IsFighting:    r.IsFighting,
		IsEndingRound: r.IsEndingRound,
	}
}

// publicPlayerView builds a single player's public view. Assumes lock held.
func (r *Room) publicPlayerView(p *models.Player) *RoomPlayerView {
	return &RoomPlayerView{
		ID:           p.ID,
		Username:     p.Username,
		WinCount:     p.WinCount,
		FighterCards: cardViews(p.AllFighterCards()),
		IsChoosing:   p.IsChoosing,
		HasVoted:     p.HasVoted,
	}
}
