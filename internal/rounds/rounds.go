// Package rounds derives the 1-based round counter from a game's history log.
package rounds

import "github.com/guessfeud/client-go/internal/game"

// Current scans an ordered history log and returns the round the game is in.
// Only Guess entries advance the counter; WordChange and Forfeit entries are
// inert. A round closes once every player that was alive at the moment of a
// guess, including players eliminated by that same guess, has guessed, so
// the guess count is compared against the pre-elimination alive count
// (alive after this entry plus the eliminations this entry carries).
//
// The function is pure: re-deriving from an unchanged log yields the same
// number, and appending entries can only keep it equal or move it up.
func Current(history []game.HistoryEntry, rosterSize int) int {
	round := 1
	if rosterSize <= 0 {
		return round
	}

	alive := rosterSize
	guesses := 0
	for _, entry := range history {
		switch e := entry.(type) {
		case game.Guess:
			eliminated := len(e.Eliminated)
			alive -= eliminated
			guesses++
			if guesses >= alive+eliminated {
				round++
				guesses = 0
			}
		case game.WordChange, game.Forfeit:
			// no effect on round accounting
		}
	}
	return round
}
