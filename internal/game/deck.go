// internal/game/deck.go
package game

import (
	"math/rand"
	"time"

	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

// Deck holds a room's pair of shuffled draw piles, built from the static
// dataset. Card keys are assigned from a monotonic counter so they stay
// unique for the lifetime of the room. All methods assume the owning room's
// lock is held.
type Deck struct {
	source   models.DeckData
	charPile []*models.Card
	attrPile []*models.Card
	nextKey  int
	rng      *rand.Rand
}

// NewDeck builds freshly shuffled character and attribute piles from data.
func NewDeck(data models.DeckData) *Deck {
	d := &Deck{
		source: data,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	d.charPile = d.buildCharPile()
	d.attrPile = d.buildAttrPile()
	return d
}

// buildCharPile shuffles the character templates into a keyed pile.
func (d *Deck) buildCharPile() []*models.Card {
	pile := make([]*models.Card, 0, len(d.source.Characters))
	for _, i := range d.rng.Perm(len(d.source.Characters)) {
		tpl := d.source.Characters[i]
		pile = append(pile, &models.Card{
			Key:    d.nextKey,
			Text:   tpl.Text,
			IsChar: true,
		})
		d.nextKey++
	}
	return pile
}

// buildAttrPile shuffles the attribute templates into a keyed pile.
// Disposable action cards are tagged with their own key so the resolver can
// strip them from fighter slots when they are played.
func (d *Deck) buildAttrPile() []*models.Card {
	pile := make([]*models.Card, 0, len(d.source.Attributes))
	for _, i := range d.rng.Perm(len(d.source.Attributes)) {
		tpl := d.source.Attributes[i]
		actions := models.ParseActionFlags(tpl.Actions)
		card := &models.Card{
			Key:     d.nextKey,
			Text:    tpl.Text,
			Actions: actions,
		}
		if actions != nil && actions.Disposable {
			actions.Key = card.Key
		}
		pile = append(pile, card)
		d.nextKey++
	}
	return pile
}

// DrawChars removes and returns n cards from the front of the character
// pile, reshuffling a fresh pile from the source dataset and topping up if
// the pile runs short. Never returns fewer than n cards unless the dataset
// itself has fewer than n entries.
func (d *Deck) DrawChars(n int) []*models.Card {
	cards, rest := draw(d.charPile, n)
	if len(cards) < n {
		d.charPile = d.buildCharPile()
		more, rest2 := draw(d.charPile, n-len(cards))
		cards = append(cards, more...)
		d.charPile = rest2
		return cards
	}
	d.charPile = rest
	return cards
}

// DrawAttrs is the attribute counterpart of DrawChars.
func (d *Deck) DrawAttrs(n int) []*models.Card {
	cards, rest := draw(d.attrPile, n)
	if len(cards) < n {
		d.attrPile = d.buildAttrPile()
		more, rest2 := draw(d.attrPile, n-len(cards))
		cards = append(cards, more...)
		d.attrPile = rest2
		return cards
	}
	d.attrPile = rest
	return cards
}

// PeekRandomChar returns a uniformly random character card without removing
// it from the pile (non-destructive preview). Nil if the pile is empty.
func (d *Deck) PeekRandomChar() *models.Card {
	if len(d.charPile) == 0 {
		return nil
	}
	return d.charPile[d.rng.Intn(len(d.charPile))]
}

// PeekRandomAttr is the attribute counterpart of PeekRandomChar.
func (d *Deck) PeekRandomAttr() *models.Card {
	if len(d.attrPile) == 0 {
		return nil
	}
	return d.attrPile[d.rng.Intn(len(d.attrPile))]
}

// CharPileSize reports the current character pile size.
func (d *Deck) CharPileSize() int { return len(d.charPile) }

// AttrPileSize reports the current attribute pile size.
func (d *Deck) AttrPileSize() int { return len(d.attrPile) }

// Intn exposes the deck's seeded source for sibling randomness (hand
// positions for non-destructive hand draws).
func (d *Deck) Intn(n int) int { return d.rng.Intn(n) }

// draw splits up to n cards off the front of pile.
func draw(pile []*models.Card, n int) (cards, rest []*models.Card) {
	if n <= 0 {
		return nil, pile
	}
	if n > len(pile) {
		n = len(pile)
	}
	return pile[:n:n], pile[n:]
}
