// internal/models/card.go
package models

import "encoding/json"

// EffectKind identifies one effect an action card can carry. The set is
// closed: resolution dispatches over these variants exhaustively instead of
// probing a flag bag.
type EffectKind int

const (
	// EffectDrawDeckChar draws one character card from the shared deck.
	EffectDrawDeckChar EffectKind = iota
	// EffectDrawDeckAttr draws one attribute card from the shared deck.
	EffectDrawDeckAttr
	// EffectDrawHandChar draws one character card out of the player's own
	// hand, backfilling the hand slot from the deck.
	EffectDrawHandChar
	// EffectDrawHandAttr is the attribute counterpart of EffectDrawHandChar.
	EffectDrawHandAttr
	// EffectDrawTwoDeckAttr draws two attribute cards from the shared deck.
	EffectDrawTwoDeckAttr
	// EffectRemoveAllAttr strips every non-character card from every
	// fighter's slots for the remainder of the round.
	EffectRemoveAllAttr
)

// effectFlagNames maps the dataset/wire flag names onto effect variants.
var effectFlagNames = map[string]EffectKind{
	"drawDeckChar":    EffectDrawDeckChar,
	"drawDeckAttr":    EffectDrawDeckAttr,
	"drawHandChar":    EffectDrawHandChar,
	"drawHandAttr":    EffectDrawHandAttr,
	"drawTwoDeckAttr": EffectDrawTwoDeckAttr,
	"removeAllAttr":   EffectRemoveAllAttr,
}

// effectFlagOrder fixes the marshal/apply order so resolution is stable
// regardless of the order flags appeared in the source data.
var effectFlagOrder = []string{
	"drawDeckChar", "drawDeckAttr", "drawHandChar", "drawHandAttr",
	"drawTwoDeckAttr", "removeAllAttr",
}

// EffectOrder returns the draw effects in resolution order. Removal of
// attributes is handled separately, after all draws.
func EffectOrder() []EffectKind {
	return []EffectKind{
		EffectDrawDeckChar, EffectDrawDeckAttr, EffectDrawHandChar,
		EffectDrawHandAttr, EffectDrawTwoDeckAttr,
	}
}

// ActionSet is the parsed, closed form of an action card's effect flags.
// Keep decides whether draws are destructive (moved into persistent fighter
// slots) or non-destructive previews (temporary slots only). Disposable
// cards carry the key of the card to strip from the player's fighter slots
// before other effects apply.
type ActionSet struct {
	Keep       bool
	Disposable bool
	Key        int
	Effects    []EffectKind
}

// HasEffect reports whether the set contains the given effect variant.
func (a *ActionSet) HasEffect(kind EffectKind) bool {
	for _, e := range a.Effects {
		if e == kind {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set carries no effects at all (a plain card).
func (a *ActionSet) IsEmpty() bool {
	return a == nil || (!a.Disposable && len(a.Effects) == 0)
}

// MarshalJSON emits the wire representation clients expect: a flat map of
// named boolean flags plus the disposable key.
func (a *ActionSet) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if a.Keep {
		out["keep"] = true
	}
	if a.Disposable {
		out["disposable"] = true
		out["key"] = a.Key
	}
	for _, name := range effectFlagOrder {
		if a.HasEffect(effectFlagNames[name]) {
			out[name] = true
		}
	}
	return json.Marshal(out)
}

// ParseActionSet converts a flag bag (dataset entry or client payload) into
// an ActionSet. Unknown flags are ignored; boolean false flags are ignored.
// Returns nil when no recognized flag is set.
func ParseActionSet(flags map[string]interface{}) *ActionSet {
	if len(flags) == 0 {
		return nil
	}
	set := &ActionSet{}
	truthy := func(key string) bool {
		v, ok := flags[key].(bool)
		return ok && v
	}
	set.Keep = truthy("keep")
	set.Disposable = truthy("disposable")
	if k, ok := flags["key"].(float64); ok {
		set.Key = int(k)
	}
	for _, name := range effectFlagOrder {
		if truthy(name) {
			set.Effects = append(set.Effects, effectFlagNames[name])
		}
	}
	if set.IsEmpty() && !set.Keep {
		return nil
	}
	return set
}

// ParseActionFlags is like ParseActionSet but for datasets whose actions are
// already typed booleans.
func ParseActionFlags(flags map[string]bool) *ActionSet {
	if len(flags) == 0 {
		return nil
	}
	raw := make(map[string]interface{}, len(flags))
	for k, v := range flags {
		raw[k] = v
	}
	return ParseActionSet(raw)
}

// Card is an immutable deck entry. Keys are unique within a room's deck
// lifetime and identify disposable action cards for removal.
type Card struct {
	Key     int        `json:"key"`
	Text    string     `json:"text"`
	IsChar  bool       `json:"isChar"`
	Actions *ActionSet `json:"actions,omitempty"`
}

// IsActionCard reports whether the card carries any effect.
func (c *Card) IsActionCard() bool {
	return c.Actions != nil && !c.Actions.IsEmpty()
}

// CardTemplate is one entry of the static deck dataset.
type CardTemplate struct {
	Text    string          `json:"text"`
	Actions map[string]bool `json:"actions,omitempty"`
}

// DeckData is the static dataset a room's deck is built from: character
// entries and attribute entries (the latter optionally carrying effects).
type DeckData struct {
	Characters []CardTemplate `json:"characters"`
	Attributes []CardTemplate `json:"attributes"`
}
