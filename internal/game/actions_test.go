// internal/game/actions_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

func disposableCard(key int, effects ...models.EffectKind) *models.Card {
	return &models.Card{
		Key:  key,
		Text: "wildcard",
		Actions: &models.ActionSet{
			Disposable: true,
			Key:        key,
			Effects:    effects,
		},
	}
}

func TestDisposablePreviewDrawLeavesDeckUntouched(t *testing.T) {
	r, players, _ := setupTestRoom(t, 2, 9)
	bothFightersChoose(t, r)

	r.Mu.Lock()
	defer r.Mu.Unlock()

	card := disposableCard(999, models.EffectDrawDeckAttr)
	players[0].AddFighterCards(card)
	slotsBefore := len(players[0].FighterCards)
	pileBefore := r.deck.AttrPileSize()

	r.RunActions(players[0], *card.Actions)

	// The disposable card is gone from the persistent slots and the peeked
	// attribute landed in the temporary slots without shrinking the pile.
	assert.Len(t, players[0].FighterCards, slotsBefore-1)
	assert.NotContains(t, players[0].FighterCards, card)
	require.Len(t, players[0].ExtraFighterCards, 1)
	assert.False(t, players[0].ExtraFighterCards[0].IsChar)
	assert.Equal(t, pileBefore, r.deck.AttrPileSize())
}

func TestKeepDrawTwoDeckAttrIsDestructive(t *testing.T) {
	r, players, _ := setupTestRoom(t, 2, 9)
	bothFightersChoose(t, r)

	r.Mu.Lock()
	defer r.Mu.Unlock()

	slotsBefore := len(players[0].FighterCards)
	pileBefore := r.deck.AttrPileSize()

	r.RunActions(players[0], models.ActionSet{
		Keep:    true,
		Effects: []models.EffectKind{models.EffectDrawTwoDeckAttr},
	})

	assert.Len(t, players[0].FighterCards, slotsBefore+2)
	assert.Equal(t, pileBefore-2, r.deck.AttrPileSize())
	assert.Empty(t, players[0].ExtraFighterCards)
}

func TestKeepDrawHandCharBackfillsHand(t *testing.T) {
	r, players, _ := setupTestRoom(t, 2, 9)
	bothFightersChoose(t, r)

	r.Mu.Lock()
	defer r.Mu.Unlock()

	handCard := players[0].CharCards[0]
	slotsBefore := len(players[0].FighterCards)

	r.RunActions(players[0], models.ActionSet{
		Keep:    true,
		Effects: []models.EffectKind{models.EffectDrawHandChar},
	})

	require.Len(t, players[0].FighterCards, slotsBefore+1)
	assert.Same(t, handCard, players[0].FighterCards[slotsBefore])
	assert.Len(t, players[0].CharCards, 3)
	assert.NotSame(t, handCard, players[0].CharCards[0])
}

func TestRemoveAllAttrStripsEveryFighter(t *testing.T) {
	r, players, _ := setupTestRoom(t, 3, 9)
	bothFightersChoose(t, r)

	r.Mu.Lock()
	defer r.Mu.Unlock()

	players[1].AddTemporaryCards(r.deck.PeekRandomAttr())

	r.RunActions(players[0], models.ActionSet{
		Effects: []models.EffectKind{models.EffectRemoveAllAttr},
	})

	for _, p := range []*models.Player{players[0], players[1]} {
		for _, c := range p.FighterCards {
			assert.True(t, c.IsChar, "persistent slots should only hold characters")
		}
		assert.Empty(t, p.ExtraFighterCards)
	}
}

func TestNonFightersCannotRunActions(t *testing.T) {
	r, players, _ := setupTestRoom(t, 3, 9)
	bothFightersChoose(t, r)

	r.Mu.Lock()
	defer r.Mu.Unlock()

	pileBefore := r.deck.AttrPileSize()
	r.RunActions(players[2], models.ActionSet{
		Keep:    true,
		Effects: []models.EffectKind{models.EffectDrawDeckAttr},
	})

	assert.Empty(t, players[2].FighterCards)
	assert.Equal(t, pileBefore, r.deck.AttrPileSize())
}

func TestActionsIgnoredWhileChoosing(t *testing.T) {
	r, players, _ := setupTestRoom(t, 2, 9)

	r.Mu.Lock()
	defer r.Mu.Unlock()

	r.RunActions(players[0], models.ActionSet{
		Keep:    true,
		Effects: []models.EffectKind{models.EffectDrawDeckChar},
	})
	assert.Empty(t, players[0].FighterCards)
}
