// internal/game/actions.go
package game

import (
	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

// RunActions applies an action card's effect set on behalf of a fighter.
// Effects marked Keep mutate the persistent fighter slots; otherwise drawn
// cards land in the temporary list and vanish at round end (hand picks are
// real either way: the replaced hand card is gone). Only a seated fighter
// may run actions, and only while the round is live. Assumes lock is held.
func (r *Room) RunActions(p *models.Player, actions models.ActionSet) {
	if !r.IsFighter(p) || r.IsChoosing || r.IsEndingRound {
		return
	}

	if actions.Disposable && actions.Key != 0 {
		r.discardByKey(p, actions.Key)
	}

	for _, effect := range models.EffectOrder() {
		if !actions.HasEffect(effect) {
			continue
		}
		r.applyEffect(p, effect, actions.Keep)
	}

	if actions.HasEffect(models.EffectRemoveAllAttr) {
		r.stripAttributes()
	}

	r.record("actions_run", map[string]interface{}{
		"player": p.ID.String(),
		"round":  r.RoundCount,
	})

	if actions.Keep || actions.Disposable {
		r.fireTo(p, Event{Type: EventSetPlayer, Player: r.PlayerViewOf(p), IsFighter: boolPtr(true)})
	}
	r.fire(Event{Type: EventSetRoom, Room: r.View()})
}

// applyEffect runs one draw effect. Assumes lock is held.
func (r *Room) applyEffect(p *models.Player, effect models.EffectKind, keep bool) {
	switch effect {
	case models.EffectDrawDeckChar:
		if keep {
			p.AddFighterCards(r.deck.DrawChars(1)...)
		} else if c := r.deck.PeekRandomChar(); c != nil {
			p.AddTemporaryCards(c)
		}

	case models.EffectDrawDeckAttr:
		if keep {
			p.AddFighterCards(r.deck.DrawAttrs(1)...)
		} else if c := r.deck.PeekRandomAttr(); c != nil {
			p.AddTemporaryCards(c)
		}

	case models.EffectDrawHandChar:
		pos := 0
		if !keep && len(p.CharCards) > 0 {
			pos = r.deck.Intn(len(p.CharCards))
		}
		picked := p.PickCharCardByPos(pos, r.deck.DrawChars(1)[0])
		if picked == nil {
			return
		}
		if keep {
			p.AddFighterCards(picked)
		} else {
			p.AddTemporaryCards(picked)
		}

	case models.EffectDrawHandAttr:
		pos := 0
		if !keep && len(p.AttrCards) > 0 {
			pos = r.deck.Intn(len(p.AttrCards))
		}
		picked := p.PickAttrCardByPos(pos, r.deck.DrawAttrs(1)[0])
		if picked == nil {
			return
		}
		if keep {
			p.AddFighterCards(picked)
		} else {
			p.AddTemporaryCards(picked)
		}

	case models.EffectDrawTwoDeckAttr:
		drawn := r.deck.DrawAttrs(2)
		if keep {
			p.AddFighterCards(drawn...)
		} else {
			p.AddTemporaryCards(drawn...)
		}
	}
}

// discardByKey drops the disposable card with the given action key from the
// player's persistent fighter slots. Assumes lock is held.
func (r *Room) discardByKey(p *models.Player, key int) {
	kept := p.FighterCards[:0]
	for _, c := range p.FighterCards {
		if c.Actions != nil && c.Actions.Key == key {
			continue
		}
		kept = append(kept, c)
	}
	p.FighterCards = kept
}

// stripAttributes removes every non-character card from all players'
// fighter slots, persistent and temporary, for the rest of the round.
// Assumes lock is held.
func (r *Room) stripAttributes() {
	for _, p := range r.Players {
		p.FighterCards = charsOnly(p.FighterCards)
		p.ExtraFighterCards = charsOnly(p.ExtraFighterCards)
	}
}

func charsOnly(cards []*models.Card) []*models.Card {
	kept := cards[:0]
	for _, c := range cards {
		if c.IsChar {
			kept = append(kept, c)
		}
	}
	return kept
}
