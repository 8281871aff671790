// internal/models/player.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is a per-connection entity owned exclusively by the room it
// occupies. Created on join, destroyed on disconnect.
type Player struct {
	ID       uuid.UUID       `json:"id"`
	Username string          `json:"username"`
	Conn     *websocket.Conn `json:"-"`

	WinCount int `json:"winCount"`

	// Hand: the private pools a fighter picks from during Choosing.
	CharCards []*Card `json:"charCards"`
	AttrCards []*Card `json:"attrCards"`

	// FighterCards are the persistent cards committed to the current round.
	// ExtraFighterCards hold non-destructive previews, reverted at the next
	// round boundary.
	FighterCards      []*Card `json:"fighterCards"`
	ExtraFighterCards []*Card `json:"-"`

	IsChoosing bool `json:"isChoosing"`
	HasVoted   bool `json:"hasVoted"`
}

// NewPlayer builds a fresh player in the choosing state.
func NewPlayer(conn *websocket.Conn, username string) *Player {
	return &Player{
		ID:         uuid.New(),
		Username:   username,
		Conn:       conn,
		IsChoosing: true,
	}
}

func (p *Player) AddWin() { p.WinCount++ }

// SetFighterCards replaces the persistent fighter slots.
func (p *Player) SetFighterCards(cards []*Card) { p.FighterCards = cards }

// AddFighterCards appends to the persistent fighter slots.
func (p *Player) AddFighterCards(cards ...*Card) {
	p.FighterCards = append(p.FighterCards, cards...)
}

// AddTemporaryCards appends non-destructive previews to the temporary slots.
func (p *Player) AddTemporaryCards(cards ...*Card) {
	p.ExtraFighterCards = append(p.ExtraFighterCards, cards...)
}

// ClearTemporaryCards drops all previews.
func (p *Player) ClearTemporaryCards() { p.ExtraFighterCards = nil }

// AllFighterCards returns persistent slots followed by temporary slots.
func (p *Player) AllFighterCards() []*Card {
	out := make([]*Card, 0, len(p.FighterCards)+len(p.ExtraFighterCards))
	out = append(out, p.FighterCards...)
	out = append(out, p.ExtraFighterCards...)
	return out
}

// PickCharCardByPos swaps the hand slot at pos for newCard and returns the
// card that was there. Returns nil without mutating on an out-of-range pos.
func (p *Player) PickCharCardByPos(pos int, newCard *Card) *Card {
	if pos < 0 || pos >= len(p.CharCards) {
		return nil
	}
	picked := p.CharCards[pos]
	p.CharCards[pos] = newCard
	return picked
}

// PickAttrCardByPos is the attribute counterpart of PickCharCardByPos.
func (p *Player) PickAttrCardByPos(pos int, newCard *Card) *Card {
	if pos < 0 || pos >= len(p.AttrCards) {
		return nil
	}
	picked := p.AttrCards[pos]
	p.AttrCards[pos] = newCard
	return picked
}
