// internal/game/room.go
package game

import (
	"log"
	"sync"
	"time"

	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

// Timing bundles the room's countdown lengths. Tests shorten TickInterval
// and RoundEndDelay to keep timer-driven paths fast.
type Timing struct {
	ChooseSeconds    int
	FightSeconds     int
	NextMatchSeconds int
	RoundEndDelay    time.Duration
	TickInterval     time.Duration
}

// DefaultTiming returns the production countdown lengths.
func DefaultTiming() Timing {
	return Timing{
		ChooseSeconds:    60,
		FightSeconds:     30,
		NextMatchSeconds: 60,
		RoundEndDelay:    7 * time.Second,
		TickInterval:     time.Second,
	}
}

// Room holds the entire state for one match in memory: the seat list, the
// two fighter seats, the shared deck, the vote tally and the round state
// machine. One Mu guards it all; methods documented "assumes lock held" are
// called with Mu locked by the handler layer or by timer callbacks.
type Room struct {
	Name       string
	MaxPlayers int
	MaxRounds  int
	IsPrivate  bool

	Players     []*models.Player
	fighters    [2]int // indices into Players, -1 = empty seat
	nextFighter int    // rotation cursor

	deck *Deck

	RoundCount int
	LastWinner *models.Player
	votes      []int

	IsChoosing    bool
	IsFighting    bool
	IsEndingRound bool

	MatchCount  int
	matchGen    int // bumped on every full reset; stale one-shot guard
	anonCounter int

	Timing         Timing
	chooseTimer    *Countdown
	fightTimer     *Countdown
	nextMatchTimer *Countdown

	Mu sync.Mutex

	// BroadcastFn sends an event to every player in the room. It is called
	// with the room lock held and must not re-acquire it; writes happen
	// asynchronously in the handler layer.
	BroadcastFn func(ev Event)

	// SendFn sends an event to a single player. Same locking contract as
	// BroadcastFn.
	SendFn func(p *models.Player, ev Event)

	// RecordFn, when set, journals a room event for out-of-process
	// consumers. Fire-and-forget.
	RecordFn func(event string, payload map[string]interface{})
}

// NewRoom creates a room seated with its first player and a freshly
// shuffled deck, in the Choosing state.
func NewRoom(name string, first *models.Player, maxPlayers, maxRounds int, isPrivate bool, data models.DeckData, timing Timing) *Room {
	r := &Room{
		Name:        name,
		MaxPlayers:  maxPlayers,
		MaxRounds:   maxRounds,
		IsPrivate:   isPrivate,
		Players:     []*models.Player{first},
		fighters:    [2]int{0, -1},
		nextFighter: 1,
		deck:        NewDeck(data),
		RoundCount:  1,
		IsChoosing:  true,
		IsFighting:  true,
		Timing:      timing,
	}
	r.chooseTimer = NewCountdown(timing.ChooseSeconds, timing.TickInterval)
	r.fightTimer = NewCountdown(timing.FightSeconds, timing.TickInterval)
	r.nextMatchTimer = NewCountdown(timing.NextMatchSeconds, timing.TickInterval)
	r.dealHand(first)
	return r
}

// AddPlayer seats a joining player and deals their starting hand. Returns
// the seat position. Assumes lock is held.
func (r *Room) AddPlayer(p *models.Player) int {
	seat := len(r.Players)
	r.Players = append(r.Players, p)
	if r.fighters[1] < 0 && seat != r.fighters[0] {
		r.fighters[1] = seat
	}
	if len(r.Players) == 2 {
		r.nextFighter = 2
	}
	r.dealHand(p)
	return seat
}

// IsFull reports whether the room is at capacity. Assumes lock is held.
func (r *Room) IsFull() bool { return len(r.Players) >= r.MaxPlayers }

// NextAnonSuffix hands out the per-room counter for anonymized display
// names. Assumes lock is held.
func (r *Room) NextAnonSuffix() int {
	n := r.anonCounter
	r.anonCounter++
	return n
}

// dealHand issues the starting hand: three character and three attribute
// cards. Assumes lock is held.
func (r *Room) dealHand(p *models.Player) {
	p.CharCards = r.deck.DrawChars(3)
	p.AttrCards = r.deck.DrawAttrs(3)
}

// setIsChoosing recomputes the room's choosing flag from both fighters'
// flags. It only honors the requested value when both seats are occupied and
// both fighters are done choosing; otherwise the room stays in Choosing.
// Assumes lock is held.
func (r *Room) setIsChoosing(v bool) bool {
	f0, f1 := r.fighterAt(0), r.fighterAt(1)
	if f0 != nil && !f0.IsChoosing && f1 != nil && !f1.IsChoosing {
		r.IsChoosing = v
	} else {
		r.IsChoosing = true
	}
	return r.IsChoosing
}

// SubmitChoice handles a fighter's character/attribute pick, identified by
// hand positions. Out-of-range positions are ignored without mutation or
// broadcast. The picked cards plus one extra drawn attribute become the
// player's persistent fighter slots; the hand slots are backfilled from the
// deck. When both fighters have chosen, the room leaves Choosing and the
// fight countdown starts. Assumes lock is held.
func (r *Room) SubmitChoice(p *models.Player, charPos, attrPos int) {
	if charPos < 0 || charPos >= len(p.CharCards) || attrPos < 0 || attrPos >= len(p.AttrCards) {
		return
	}

	newChar := r.deck.DrawChars(1)[0]
	attrs := r.deck.DrawAttrs(2)

	charCard := p.PickCharCardByPos(charPos, newChar)
	attrCard := p.PickAttrCardByPos(attrPos, attrs[0])

	p.SetFighterCards([]*models.Card{charCard, attrCard, attrs[1]})
	p.IsChoosing = false

	if !r.setIsChoosing(false) {
		r.startFightTimer()
	}

	r.record("choice_submitted", map[string]interface{}{
		"player": p.ID.String(),
		"round":  r.RoundCount,
	})
	r.fireTo(p, Event{Type: EventSetPlayer, Player: r.PlayerViewOf(p), IsFighter: boolPtr(r.IsFighter(p))})
	r.fire(Event{Type: EventSetRoom, Room: r.View()})
}

// CastVote records a non-fighter's vote for a fighter slot and re-tallies.
// Fighters, repeat voters and votes outside {0,1} are ignored, as are votes
// while the room is choosing or resolving. Voting stays open after the
// fight countdown expires. Assumes lock is held.
func (r *Room) CastVote(p *models.Player, slot int) {
	if slot != 0 && slot != 1 {
		return
	}
	if p.HasVoted || r.IsFighter(p) || r.IsChoosing || r.IsEndingRound {
		return
	}
	r.votes = append(r.votes, slot)
	p.HasVoted = true
	r.tallyVotes()
}

// tallyVotes applies the majority and draw rules to the current tally.
// A slot wins as soon as its votes strictly exceed half the player count,
// regardless of outstanding votes or the fight timer. If everyone has voted
// with no majority, the round is a draw. Assumes lock is held.
func (r *Room) tallyVotes() {
	votes0, votes1 := 0, 0
	for _, v := range r.votes {
		if v == 0 {
			votes0++
		} else {
			votes1++
		}
	}
	half := len(r.Players) / 2

	switch {
	case votes0 > half:
		r.resolveRound(0, true)
	case votes1 > half:
		r.resolveRound(1, true)
	case len(r.votes) >= len(r.Players):
		r.startDrawRound()
	default:
		r.fire(Event{Type: EventSetRoom, Room: r.View()})
	}
}

// resolveRound ends the round in favor of winnerSlot. A second call while
// the round-end window is open is a no-op, so late votes or a concurrent
// forfeit cannot double-resolve a round. rotate controls whether the losing
// seat is refilled by rotation when the window closes (forfeits already
// rotated during removal). Assumes lock is held.
func (r *Room) resolveRound(winnerSlot int, rotate bool) {
	if r.IsEndingRound {
		return
	}
	winner := r.fighterAt(winnerSlot)
	if winner == nil {
		log.Printf("room %s: cannot resolve round, fighter slot %d is empty", r.Name, winnerSlot)
		return
	}

	r.fightTimer.Stop()
	preView := r.View()

	r.endRound(winnerSlot)
	r.IsEndingRound = true

	r.fire(Event{Type: EventInformWinner, Fighter: intPtr(winnerSlot), Room: preView})
	r.record("round_resolved", map[string]interface{}{
		"winner":      winner.ID.String(),
		"winner_slot": winnerSlot,
		"round":       r.RoundCount - 1,
	})

	winnerView := r.publicPlayerView(winner)
	gen := r.matchGen
	loserSlot := 1 - winnerSlot
	time.AfterFunc(r.Timing.RoundEndDelay, func() {
		r.finishRound(gen, loserSlot, rotate, winnerView)
	})
}

// endRound applies round-resolution bookkeeping: the loser's fighter slots
// are cleared entirely, the winner keeps their persistent cards but loses
// previews and gains a win, the tally resets, and everyone except the
// winning fighter re-enters Choosing. Assumes lock is held.
func (r *Room) endRound(winnerSlot int) {
	if loser := r.fighterAt(1 - winnerSlot); loser != nil {
		loser.SetFighterCards(nil)
		loser.ClearTemporaryCards()
	}

	r.votes = nil
	r.RoundCount++

	winnerIdx := r.fighters[winnerSlot]
	for i, p := range r.Players {
		p.HasVoted = false
		p.IsChoosing = i != winnerIdx
	}

	winner := r.fighterAt(winnerSlot)
	winner.ClearTemporaryCards()
	winner.AddWin()
	r.LastWinner = winner
}

// finishRound closes the round-end window: it refills the losing seat,
// returns the room to Choosing and announces either the next round or the
// match end. gen guards against a full room reset that happened while the
// window was open.
func (r *Room) finishRound(gen, loserSlot int, rotate bool, winnerView *RoomPlayerView) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if gen != r.matchGen {
		return
	}

	if rotate {
		r.setNextFighter(loserSlot)
	}
	r.setIsChoosing(true)
	r.IsEndingRound = false
	r.IsFighting = true

	if r.RoundCount <= r.MaxRounds {
		r.fire(Event{Type: EventStartNewRound, Room: r.View()})
		r.maybeStartChooseTimer()
		return
	}

	r.fire(Event{Type: EventEndMatch, Winner: winnerView, Room: r.View()})
	r.record("match_ended", map[string]interface{}{
		"winner": winnerView.ID.String(),
		"rounds": r.RoundCount - 1,
	})
	r.nextMatchTimer.Start(r.onNextMatchTick)
}

// startDrawRound resets a tied round: previews are dropped, each fighter
// draws one fresh character card into their persistent slot, the tally
// clears and a new fight countdown begins. No new Choosing phase occurs.
// Assumes lock is held.
func (r *Room) startDrawRound() {
	r.resetVotes()
	r.IsFighting = true
	// A countdown from before the draw may still be live (quorum reached
	// through a disconnect re-tally); the new round gets a full one.
	r.fightTimer.Stop()

	for slot := 0; slot < 2; slot++ {
		if f := r.fighterAt(slot); f != nil {
			f.SetFighterCards(r.deck.DrawChars(1))
			f.ClearTemporaryCards()
		}
	}

	r.fire(Event{Type: EventStartDrawRound, Room: r.View()})
	r.record("draw_round", map[string]interface{}{"round": r.RoundCount})
	r.startFightTimer()
}

// resetVotes clears the tally and every player's vote flag. Assumes lock is
// held.
func (r *Room) resetVotes() {
	r.votes = nil
	for _, p := range r.Players {
		p.HasVoted = false
	}
}

// HandleDisconnect removes a player and repairs the round. A departing
// fighter forfeits the round to the opponent unless the room is still
// choosing or already resolving; a departing voter forces a re-tally since
// the quorum condition may now hold with fewer players. Returns true when
// the room is empty and should be dropped from the directory. Assumes lock
// is held.
func (r *Room) HandleDisconnect(p *models.Player) bool {
	pos, fighterSlot := r.removePlayer(p)
	if pos < 0 {
		return len(r.Players) == 0
	}

	r.record("player_left", map[string]interface{}{"player": p.ID.String()})

	if len(r.Players) >= 1 {
		if fighterSlot >= 0 {
			winnerSlot := 1 - fighterSlot
			if len(r.Players) == 1 {
				winnerSlot = 0
			}
			if !r.IsChoosing && !r.IsEndingRound {
				r.record("win_by_forfeit", map[string]interface{}{
					"winner_slot": winnerSlot,
					"round":       r.RoundCount,
				})
				r.resolveRound(winnerSlot, false)
			}
		} else {
			r.tallyVotes()
		}
		r.fire(Event{Type: EventSetRoom, Room: r.View()})
	}
	return len(r.Players) == 0
}

// Shutdown stops every timer and invalidates pending one-shots; called when
// the directory drops an empty room. Assumes lock is held.
func (r *Room) Shutdown() {
	r.chooseTimer.Stop()
	r.fightTimer.Stop()
	r.nextMatchTimer.Stop()
	r.matchGen++
}

// MaybeStartChooseTimer starts the choose countdown when the room is in
// Choosing with an actual opponent present. Restart while running is a
// no-op. Assumes lock is held.
func (r *Room) MaybeStartChooseTimer() {
	if len(r.Players) > 1 && r.IsChoosing {
		r.chooseTimer.Start(r.onChooseTick)
	}
}

// maybeStartChooseTimer is the internal alias used on state transitions.
func (r *Room) maybeStartChooseTimer() { r.MaybeStartChooseTimer() }

func (r *Room) startFightTimer() {
	r.fightTimer.Start(r.onFightTick)
}

// onFightTick runs once per second of the fight countdown. At zero the
// room leaves Fighting and announces that voting remains open.
func (r *Room) onFightTick(remaining int) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.IsEndingRound {
		// Round resolved while this tick waited on the lock.
		return false
	}
	r.fire(Event{Type: EventSetFightTimer, Seconds: intPtr(remaining)})
	if remaining <= 0 {
		r.IsFighting = false
		r.fire(Event{Type: EventFightEnded, Room: r.View()})
	}
	return true
}

// onChooseTick runs once per second of the choose countdown. Fighters are
// re-read from current room state on expiry; seats may have changed since
// the countdown started.
func (r *Room) onChooseTick(remaining int) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if !r.IsChoosing {
		return false
	}
	r.fire(Event{Type: EventSetChooseTimer, Seconds: intPtr(remaining)})
	if remaining <= 0 {
		for slot := 0; slot < 2; slot++ {
			if f := r.fighterAt(slot); f != nil && f.IsChoosing {
				r.fireTo(f, Event{Type: EventGetSelectedCards})
			}
		}
	}
	return true
}

// onNextMatchTick runs the between-matches countdown; at zero the room
// resets fully and a new match begins.
func (r *Room) onNextMatchTick(remaining int) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.fire(Event{Type: EventSetNextMatchTimer, Seconds: intPtr(remaining)})
	if remaining <= 0 {
		r.resetMatch()
	}
	return true
}

// resetMatch rebuilds the match from scratch: seats re-pinned, hands
// redealt, win counters zeroed, round counter back to 1. Pending round
// one-shots from the previous match are invalidated by the generation bump.
// Assumes lock is held.
func (r *Room) resetMatch() {
	r.fightTimer.Stop()
	r.chooseTimer.Stop()
	r.matchGen++

	if len(r.Players) < 2 {
		r.fighters = [2]int{0, -1}
		if len(r.Players) == 0 {
			r.fighters[0] = -1
		}
		r.nextFighter = 1
	} else {
		r.fighters = [2]int{0, 1}
		r.nextFighter = 2
	}

	r.RoundCount = 1
	r.LastWinner = nil
	r.votes = nil
	r.IsChoosing = true
	r.IsFighting = true
	r.IsEndingRound = false

	for _, p := range r.Players {
		p.WinCount = 0
		r.dealHand(p)
		p.SetFighterCards(nil)
		p.ClearTemporaryCards()
		p.IsChoosing = true
		p.HasVoted = false
	}
	r.MatchCount++

	roomView := r.View()
	for _, p := range r.Players {
		r.fireTo(p, Event{
			Type:       EventStartMatch,
			Player:     r.PlayerViewOf(p),
			Room:       roomView,
			IsFighter:  boolPtr(r.IsFighter(p)),
			MatchCount: intPtr(r.MatchCount),
		})
	}
	r.record("match_reset", map[string]interface{}{"match": r.MatchCount})
	r.maybeStartChooseTimer()
}

// fire broadcasts an event to the whole room. Assumes lock is held.
func (r *Room) fire(ev Event) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
}

// fireTo sends an event to one player. Assumes lock is held.
func (r *Room) fireTo(p *models.Player, ev Event) {
	if r.SendFn != nil {
		r.SendFn(p, ev)
	}
}

// FireToOthers sends an event to everyone but the given player. Assumes
// lock is held.
func (r *Room) FireToOthers(except *models.Player, ev Event) {
	for _, p := range r.Players {
		if p != except {
			r.fireTo(p, ev)
		}
	}
}

// record journals a room event when a recorder is attached.
func (r *Room) record(event string, payload map[string]interface{}) {
	if r.RecordFn != nil {
		r.RecordFn(event, payload)
	}
}
