// internal/models/card_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionSet(t *testing.T) {
	set := ParseActionSet(map[string]interface{}{
		"keep":         true,
		"disposable":   true,
		"key":          float64(7),
		"drawDeckChar": true,
		"bogusFlag":    true,
		"drawHandAttr": false,
	})
	require.NotNil(t, set)

	assert.True(t, set.Keep)
	assert.True(t, set.Disposable)
	assert.Equal(t, 7, set.Key)
	assert.True(t, set.HasEffect(EffectDrawDeckChar))
	assert.False(t, set.HasEffect(EffectDrawHandAttr))
	assert.False(t, set.IsEmpty())
}

func TestParseActionSetEmptyInputs(t *testing.T) {
	assert.Nil(t, ParseActionSet(nil))
	assert.Nil(t, ParseActionSet(map[string]interface{}{"unknown": true}))
	assert.Nil(t, ParseActionFlags(nil))
}

func TestActionSetMarshalMatchesFlagForm(t *testing.T) {
	set := &ActionSet{
		Keep:       true,
		Disposable: true,
		Key:        3,
		Effects:    []EffectKind{EffectDrawTwoDeckAttr},
	}

	raw, err := json.Marshal(set)
	require.NoError(t, err)

	var flags map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &flags))
	assert.Equal(t, true, flags["keep"])
	assert.Equal(t, true, flags["disposable"])
	assert.Equal(t, float64(3), flags["key"])
	assert.Equal(t, true, flags["drawTwoDeckAttr"])
	assert.NotContains(t, flags, "drawDeckChar")
}

func TestPlayerHandPicks(t *testing.T) {
	p := NewPlayer(nil, "tester")
	a := &Card{Key: 1, IsChar: true}
	b := &Card{Key: 2, IsChar: true}
	repl := &Card{Key: 3, IsChar: true}
	p.CharCards = []*Card{a, b}

	assert.Nil(t, p.PickCharCardByPos(2, repl))
	assert.Equal(t, []*Card{a, b}, p.CharCards)

	picked := p.PickCharCardByPos(1, repl)
	assert.Same(t, b, picked)
	assert.Same(t, repl, p.CharCards[1])
}
