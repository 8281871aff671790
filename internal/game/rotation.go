// internal/game/rotation.go
package game

import (
	"log"

	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

// Fighter seat assignment. Seats hold indices into r.Players (-1 = empty).
// With one player seat 0 is pinned against a nil opponent; with two players
// the seats are pinned to {0, 1} and never rotate; with three or more the
// cursor wraps modulo the player count, skipping any index that already
// occupies a fighter seat. All functions assume the room lock is held.

// fighterAt resolves the player in the given seat, nil if the seat is empty.
// An index past the seat list is an invariant breach: rotation and removal
// are supposed to keep seats in range.
func (r *Room) fighterAt(slot int) *models.Player {
	idx := r.fighters[slot]
	if idx < 0 {
		return nil
	}
	if idx >= len(r.Players) {
		log.Printf("room %s: invariant breach: fighter slot %d holds index %d with %d seats", r.Name, slot, idx, len(r.Players))
		return nil
	}
	return r.Players[idx]
}

// FighterSlotOf returns the seat (0 or 1) the player occupies, or -1.
func (r *Room) FighterSlotOf(p *models.Player) int {
	for slot := range r.fighters {
		if r.fighterAt(slot) == p {
			return slot
		}
	}
	return -1
}

// IsFighter reports whether the player holds either fighter seat.
func (r *Room) IsFighter(p *models.Player) bool {
	return r.FighterSlotOf(p) >= 0
}

// peekNextFighter computes the index the rotation cursor would assign next,
// without advancing it. Returns -1 when no rotation candidate exists (two or
// fewer players).
func (r *Room) peekNextFighter() int {
	n := len(r.Players)
	if n <= 2 {
		return -1
	}
	idx := r.nextFighter % n
	for idx == r.fighters[0] || idx == r.fighters[1] {
		idx = (idx + 1) % n
	}
	return idx
}

// setNextFighter fills the given seat with the next rotated player.
func (r *Room) setNextFighter(slot int) {
	n := len(r.Players)
	switch {
	case n == 0:
		r.fighters = [2]int{-1, -1}
	case n == 1:
		r.fighters = [2]int{0, -1}
		r.nextFighter = 1
	case n == 2:
		// Seats are pinned: the replacement is whichever of {0,1} the
		// other seat does not hold.
		if r.fighters[1-slot] == 0 {
			r.fighters[slot] = 1
		} else {
			r.fighters[slot] = 0
		}
		r.nextFighter = 2
	default:
		idx := r.peekNextFighter()
		r.fighters[slot] = idx
		r.nextFighter = idx + 1
	}
}

// removePlayer drops the player from the seat list and repairs fighter
// indices and the rotation cursor. Returns the removed seat position and the
// fighter slot the player held (-1 if they were not fighting). Stops timers
// that can no longer progress meaningfully.
func (r *Room) removePlayer(target *models.Player) (pos, fighterSlot int) {
	pos = -1
	for i, p := range r.Players {
		if p == target {
			pos = i
			break
		}
	}
	if pos < 0 {
		return -1, -1
	}

	fighterSlot = -1
	if r.fighters[0] == pos {
		fighterSlot = 0
	} else if r.fighters[1] == pos {
		fighterSlot = 1
	}

	r.Players = append(r.Players[:pos], r.Players[pos+1:]...)

	switch {
	case len(r.Players) <= 1:
		r.fighters = [2]int{0, -1}
		if len(r.Players) == 0 {
			r.fighters[0] = -1
		}
		r.nextFighter = 1
		r.chooseTimer.Stop()
		r.fightTimer.Stop()

	case fighterSlot >= 0:
		// An active fighter left mid-seat: vacate their seat first so the
		// rotation does not skip whoever shifted into the removed index,
		// repair the surviving seat, stop the phase timers, and rotate a
		// replacement in.
		r.fighters[fighterSlot] = -1
		if r.chooseTimer.Stop() || r.IsEndingRound {
			r.setIsChoosing(true)
		}
		r.fightTimer.Stop()
		if r.nextFighter > pos {
			r.nextFighter--
		}
		other := 1 - fighterSlot
		if r.fighters[other] > pos {
			r.fighters[other]--
		}
		r.setNextFighter(fighterSlot)

	default:
		if r.nextFighter > pos {
			r.nextFighter--
		}
		if r.fighters[0] > pos {
			r.fighters[0]--
		}
		if r.fighters[1] > pos {
			r.fighters[1]--
		}
	}
	return pos, fighterSlot
}
