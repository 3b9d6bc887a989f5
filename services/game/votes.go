package game

import (
	"math/rand"
	"sort"

	redis_models "Wordspy/models/redis"
)

// TallyResult is the outcome of counting one voting phase.
type TallyResult struct {
	Counts      map[string]int `json:"counts"`
	MostVotedID string         `json:"most_voted_id,omitempty"`
	IsTie       bool           `json:"is_tie"`
	Tied        []string       `json:"tied,omitempty"`
}

// Tally counts votes per target. IsTie is true iff more than one target
// shares the maximum count; MostVotedID is only set when there is a single
// leader. Pure function, no locking needed once the caller owns the vote map.
func Tally(votes map[string]string) TallyResult {
	result := TallyResult{Counts: make(map[string]int)}
	for _, targetID := range votes {
		result.Counts[targetID]++
	}
	if len(result.Counts) == 0 {
		return result
	}

	maxVotes := 0
	for _, n := range result.Counts {
		if n > maxVotes {
			maxVotes = n
		}
	}
	for targetID, n := range result.Counts {
		if n == maxVotes {
			result.Tied = append(result.Tied, targetID)
		}
	}
	sort.Strings(result.Tied)

	if len(result.Tied) > 1 {
		result.IsTie = true
		return result
	}
	result.MostVotedID = result.Tied[0]
	result.Tied = nil
	return result
}

// PickTied selects uniformly at random among the tied players.
func PickTied(tied []string, rng *rand.Rand) string {
	return tied[rng.Intn(len(tied))]
}

// CheckVictory evaluates the win condition over the player list: citizens
// win when no impostor is active, the impostor side wins when active
// impostors are at least as many as active citizens. Empty string means
// the game continues.
func CheckVictory(players []redis_models.GamePlayer) string {
	var impostors, citizens int
	for _, p := range players {
		if p.IsEliminated {
			continue
		}
		if p.IsImpostor {
			impostors++
		} else {
			citizens++
		}
	}
	switch {
	case impostors == 0:
		return redis_models.WinnerCitizens
	case impostors >= citizens:
		return redis_models.WinnerImpostor
	default:
		return ""
	}
}
