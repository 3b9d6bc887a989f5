package game

import (
	"math/rand"

	redis_models "Wordspy/models/redis"
)

// Player count rules. A game needs at least 4 players and between 1 and 3
// impostors, always strictly fewer impostors than players.
const (
	MinPlayersToStart = 4
	MaxImpostors      = 3
)

// ClueOutcome describes what a successful SubmitClue did to the session.
type ClueOutcome struct {
	Clue *redis_models.Clue
	// GuessedWord is set when the submitted text was the secret word
	// itself; the round ends on the spot and no clue is recorded.
	GuessedWord  bool
	AllSubmitted bool
}

// VoteOutcome describes the result of a vote that closed the voting phase,
// or of a host tie-break.
type VoteOutcome struct {
	AllVoted   bool
	Tally      TallyResult
	Eliminated *redis_models.GamePlayer
	Winner     string
}

// ValidateStart checks the player/impostor counts for a round about to begin.
func ValidateStart(playerCount, numImpostors int) error {
	if playerCount < MinPlayersToStart {
		return InvalidInput("need at least %d players to start, have %d", MinPlayersToStart, playerCount)
	}
	if numImpostors < 1 || numImpostors > MaxImpostors {
		return InvalidInput("impostor count must be between 1 and %d", MaxImpostors)
	}
	if numImpostors >= playerCount {
		return InvalidInput("impostor count must be lower than the player count")
	}
	return nil
}

// StartSession builds the session for round 1: marks a uniform random subset
// of numImpostors players as impostors and enters the ROLES phase. The roster
// is the room's player snapshot at start time and keeps its order, so a
// player's list position carries no role information.
func StartSession(roomID string, roster []redis_models.GamePlayer, numImpostors int, word string, rng *rand.Rand) (*redis_models.GameSession, error) {
	if err := ValidateStart(len(roster), numImpostors); err != nil {
		return nil, err
	}

	players := make([]redis_models.GamePlayer, len(roster))
	copy(players, roster)
	for i := range players {
		players[i].IsImpostor = false
		players[i].IsEliminated = false
	}
	for _, i := range rng.Perm(len(players))[:numImpostors] {
		players[i].IsImpostor = true
	}

	return &redis_models.GameSession{
		RoomID:     roomID,
		SecretWord: word,
		Players:    players,
		Round:      1,
		TurnIndex:  0,
		Clues:      []redis_models.Clue{},
		Votes:      make(map[string]string),
		RoleAcks:   make(map[string]bool),
		Phase:      redis_models.PhaseRoles,
	}, nil
}

// ConfirmRole records a player's acknowledgment of their role card. Once
// every active player has acknowledged, the session auto-advances to the
// CLUES phase. Compat path; the primary flow is a host AdvanceToClues.
func ConfirmRole(g *redis_models.GameSession, userID string) (advanced bool, err error) {
	if g.Phase != redis_models.PhaseRoles {
		return false, WrongPhase("roles can only be confirmed during the ROLES phase")
	}
	p := g.FindPlayer(userID)
	if p == nil {
		return false, Forbidden("you are not part of this game")
	}
	if g.RoleAcks == nil {
		g.RoleAcks = make(map[string]bool)
	}
	g.RoleAcks[userID] = true

	for _, active := range g.ActivePlayers() {
		if !g.RoleAcks[active.UserID] {
			return false, nil
		}
	}
	g.Phase = redis_models.PhaseClues
	return true, nil
}

// AdvanceToClues is the explicit ROLES -> CLUES transition. The caller must
// already be verified as host.
func AdvanceToClues(g *redis_models.GameSession) error {
	if g.Phase != redis_models.PhaseRoles {
		return WrongPhase("the game is not in the ROLES phase")
	}
	g.Phase = redis_models.PhaseClues
	return nil
}

// SubmitClue appends a clue for the player whose turn it is. Submitting the
// secret word verbatim ends the round immediately with the guesser recorded;
// otherwise the turn advances, and once every active player has submitted
// the session moves to VOTING.
func SubmitClue(g *redis_models.GameSession, userID, text string) (*ClueOutcome, error) {
	if g.Phase != redis_models.PhaseClues {
		return nil, WrongPhase("clues can only be submitted during the CLUES phase")
	}
	p := g.FindPlayer(userID)
	if p == nil {
		return nil, Forbidden("you are not part of this game")
	}
	if p.IsEliminated {
		return nil, Forbidden("eliminated players cannot submit clues")
	}
	if g.HasClueFrom(userID) {
		return nil, Conflict("you already submitted a clue this round")
	}
	turn := g.CurrentTurnPlayer()
	if turn == nil || turn.UserID != userID {
		return nil, Forbidden("it is not your turn to give a clue")
	}
	if err := ValidateClue(text, g.Clues); err != nil {
		return nil, err
	}

	if MatchesSecret(text, g.SecretWord) {
		// The word got said out loud: the round is over, no vote happens.
		g.WordGuesserID = userID
		g.Phase = redis_models.PhaseResults
		return &ClueOutcome{GuessedWord: true}, nil
	}

	clue := redis_models.Clue{PlayerID: userID, PlayerName: p.Username, Text: text}
	g.Clues = append(g.Clues, clue)
	g.TurnIndex++

	outcome := &ClueOutcome{Clue: &g.Clues[len(g.Clues)-1]}
	if len(g.Clues) >= len(g.ActivePlayers()) {
		g.Phase = redis_models.PhaseVoting
		g.Votes = make(map[string]string)
		outcome.AllSubmitted = true
	}
	return outcome, nil
}

// SubmitVote records one player's vote. When the last active player votes,
// the votes are tallied: a tie moves the session to TIE_BREAKER, otherwise
// the top-voted player is eliminated and the victory condition is evaluated.
func SubmitVote(g *redis_models.GameSession, voterID, targetID string) (*VoteOutcome, error) {
	if g.Phase != redis_models.PhaseVoting {
		return nil, WrongPhase("votes can only be cast during the VOTING phase")
	}
	voter := g.FindPlayer(voterID)
	if voter == nil || voter.IsEliminated {
		return nil, Forbidden("only active players can vote")
	}
	if _, voted := g.Votes[voterID]; voted {
		return nil, Conflict("you already voted this round")
	}
	target := g.FindPlayer(targetID)
	if target == nil || target.IsEliminated {
		return nil, InvalidInput("vote target is not an active player")
	}
	if targetID == voterID {
		return nil, InvalidInput("you cannot vote for yourself")
	}

	if g.Votes == nil {
		g.Votes = make(map[string]string)
	}
	g.Votes[voterID] = targetID

	if len(g.Votes) < len(g.ActivePlayers()) {
		return &VoteOutcome{}, nil
	}

	tally := Tally(g.Votes)
	outcome := &VoteOutcome{AllVoted: true, Tally: tally}
	if tally.IsTie {
		g.TiedPlayers = tally.Tied
		g.Phase = redis_models.PhaseTieBreaker
		return outcome, nil
	}

	outcome.Eliminated, outcome.Winner = eliminate(g, tally.MostVotedID)
	return outcome, nil
}

// ResolveTieBreak eliminates one of the tied players uniformly at random.
// Host authority is checked by the caller.
func ResolveTieBreak(g *redis_models.GameSession, rng *rand.Rand) (*VoteOutcome, error) {
	if g.Phase != redis_models.PhaseTieBreaker {
		return nil, WrongPhase("there is no tie break in progress")
	}
	if len(g.TiedPlayers) == 0 {
		return nil, Conflict("no tied players to resolve")
	}

	loserID := PickTied(g.TiedPlayers, rng)
	outcome := &VoteOutcome{AllVoted: true, Tally: Tally(g.Votes)}
	outcome.Eliminated, outcome.Winner = eliminate(g, loserID)
	g.TiedPlayers = nil
	return outcome, nil
}

// NextRound resets per-round state and starts another CLUES phase with a
// fresh word. If a winner is in fact already determined the session moves to
// VICTORY instead; that re-check makes the action a safe no-op to repeat.
func NextRound(g *redis_models.GameSession, word string) error {
	if g.Phase != redis_models.PhaseResults {
		return WrongPhase("the next round can only start from the RESULTS phase")
	}
	if winner := CheckVictory(g.Players); winner != "" {
		g.Winner = winner
		g.Phase = redis_models.PhaseVictory
		return nil
	}

	g.Round++
	g.TurnIndex = 0
	g.Clues = []redis_models.Clue{}
	g.Votes = make(map[string]string)
	g.RoleAcks = make(map[string]bool)
	g.TiedPlayers = nil
	g.WordGuesserID = ""
	g.SecretWord = word
	g.Phase = redis_models.PhaseClues
	return nil
}

// eliminate flips the target's IsEliminated flag and evaluates victory,
// setting the terminal phase when the game is decided.
func eliminate(g *redis_models.GameSession, targetID string) (*redis_models.GamePlayer, string) {
	target := g.FindPlayer(targetID)
	target.IsEliminated = true

	winner := CheckVictory(g.Players)
	if winner != "" {
		g.Winner = winner
		g.Phase = redis_models.PhaseVictory
	} else {
		g.Phase = redis_models.PhaseResults
	}
	return target, winner
}
