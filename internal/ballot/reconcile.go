// Package ballot applies single-choice poll votes.
package ballot

import (
	"fmt"

	"github.com/saxenaaman628/hobbyhub/internal/models"
)

type Outcome string

const (
	Recorded Outcome = "recorded"
	Switched Outcome = "switched"
)

// Result is the poll state after a successful Reconcile.
type Result struct {
	Poll    models.Poll
	Outcome Outcome
	// Previous is the option the voter held before a switch; empty otherwise.
	Previous string
}

// Reconcile applies userID's vote for option to poll, keeping at most one live
// vote per user and the option counters in step with the voter map.
//
// It returns models.ErrNotFound when option is not part of the poll and
// models.ErrAlreadyVoted when the user already holds that option. The given
// poll is never modified; on success Result.Poll is an updated copy.
func Reconcile(poll models.Poll, userID, option string) (Result, error) {
	target := poll.OptionIndex(option)
	if target < 0 {
		return Result{}, fmt.Errorf("option %q: %w", option, models.ErrNotFound)
	}

	previous, hasVoted := poll.Voters[userID]
	if hasVoted && previous == option {
		return Result{}, fmt.Errorf("user %s on poll %s: %w", userID, poll.ID, models.ErrAlreadyVoted)
	}

	next := clone(poll)
	res := Result{Outcome: Recorded}
	if hasVoted {
		if i := next.OptionIndex(previous); i >= 0 && next.Options[i].Votes > 0 {
			next.Options[i].Votes--
		}
		res.Outcome = Switched
		res.Previous = previous
	}
	next.Options[target].Votes++
	next.Voters[userID] = option

	res.Poll = next
	return res, nil
}

func clone(poll models.Poll) models.Poll {
	out := poll
	out.Options = make([]models.PollOption, len(poll.Options))
	copy(out.Options, poll.Options)
	out.Voters = make(map[string]string, len(poll.Voters)+1)
	for user, choice := range poll.Voters {
		out.Voters[user] = choice
	}
	return out
}
