// internal/game/deck_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

func TestDrawPastExhaustionReshuffles(t *testing.T) {
	d := NewDeck(testDeckData()) // 15 characters

	first := d.DrawChars(14)
	require.Len(t, first, 14)
	require.Equal(t, 1, d.CharPileSize())

	// Drawing 5 from a pile of 1 tops up from a fresh shuffle.
	second := d.DrawChars(5)
	require.Len(t, second, 5)
	assert.Greater(t, d.CharPileSize(), 0)

	// Keys stay unique across the reshuffle boundary.
	seen := map[int]bool{}
	for _, c := range append(first, second...) {
		assert.False(t, seen[c.Key], "duplicate key %d", c.Key)
		seen[c.Key] = true
	}
}

func TestDisposableAttrsCarryTheirOwnKey(t *testing.T) {
	data := testDeckData()
	data.Attributes = append(data.Attributes, models.CardTemplate{
		Text:    "wildcard",
		Actions: map[string]bool{"disposable": true, "keep": true, "drawDeckChar": true},
	})
	d := NewDeck(data)

	var found bool
	for _, c := range d.DrawAttrs(len(data.Attributes)) {
		if c.Actions != nil && c.Actions.Disposable {
			found = true
			assert.Equal(t, c.Key, c.Actions.Key)
			assert.True(t, c.Actions.HasEffect(models.EffectDrawDeckChar))
			assert.True(t, c.IsActionCard())
		} else {
			assert.False(t, c.IsActionCard())
		}
	}
	assert.True(t, found)
}

func TestPeekDoesNotRemove(t *testing.T) {
	d := NewDeck(testDeckData())

	before := d.AttrPileSize()
	for i := 0; i < 10; i++ {
		require.NotNil(t, d.PeekRandomAttr())
		require.NotNil(t, d.PeekRandomChar())
	}
	assert.Equal(t, before, d.AttrPileSize())
}
