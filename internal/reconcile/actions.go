package reconcile

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrEmptyGuess is returned when a guess is rejected locally before any
// request is issued.
var ErrEmptyGuess = errors.New("guess word must not be empty")

// ErrMultiWordGuess is returned for guesses containing whitespace.
var ErrMultiWordGuess = errors.New("guess must be a single word")

// SubmitGuess runs the optimistic guess flow: validate locally, occupy the
// pending slot, issue the request. On success the slot is cleared and, when
// the response carries a full snapshot, the reconciler is applied directly so
// the submitter sees their own action without waiting for the next poll tick.
// On failure the slot is cleared and the error is returned for the caller to
// surface; no other state is touched.
func (r *Reconciler) SubmitGuess(ctx context.Context, word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return ErrEmptyGuess
	}
	if strings.ContainsAny(word, " \t\n") {
		return ErrMultiWordGuess
	}

	r.pending.Set(word)
	r.refresh()

	resp, err := r.api.SubmitGuess(ctx, r.creds, word)
	r.pending.Clear()
	if err != nil {
		log.Warn().Err(err).Str("word", word).Msg("guess rejected")
		r.refresh()
		return err
	}

	if resp != nil && resp.State != nil && len(resp.State.Players) > 0 {
		r.Apply(resp.State)
	} else {
		r.refresh()
	}
	return nil
}
