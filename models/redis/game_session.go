package redis

import "strings"

// Game phases. A round moves ROLES -> CLUES -> VOTING and from there to
// RESULTS or TIE_BREAKER; VICTORY is terminal.
const (
	PhaseRoles      = "ROLES"
	PhaseClues      = "CLUES"
	PhaseVoting     = "VOTING"
	PhaseResults    = "RESULTS"
	PhaseTieBreaker = "TIE_BREAKER"
	PhaseVictory    = "VICTORY"
)

// Winner values. Empty string means the game is still undecided.
const (
	WinnerCitizens = "citizens"
	WinnerImpostor = "impostor"
)

// GamePlayer is a player's state within one game session. IsImpostor is
// fixed at round start; IsEliminated only ever flips false -> true.
type GamePlayer struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	IsImpostor   bool   `json:"is_impostor"`
	IsEliminated bool   `json:"is_eliminated"`
}

// Clue is a single word association submitted during the CLUES phase.
type Clue struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Text       string `json:"text"`
}

// GameSession represents one room's round state in Redis.
// Key format: "game:{roomId}", TTL 24 hours.
type GameSession struct {
	RoomID      string            `json:"room_id"`
	SecretWord  string            `json:"secret_word"`
	Players     []GamePlayer      `json:"players"`
	Round       int               `json:"round"`
	TurnIndex   int               `json:"turn_index"`
	Clues       []Clue            `json:"clues"`
	Votes       map[string]string `json:"votes"` // voterId -> targetId
	RoleAcks    map[string]bool   `json:"role_acks"`
	Phase       string            `json:"phase"`
	Winner      string            `json:"winner,omitempty"`
	TiedPlayers []string          `json:"tied_players,omitempty"`
	// Set when a player submits the secret word itself as a clue,
	// ending the round on the spot.
	WordGuesserID string `json:"word_guesser_id,omitempty"`
}

// ActivePlayers returns the players that have not been eliminated,
// in assignment order.
func (g *GameSession) ActivePlayers() []GamePlayer {
	active := make([]GamePlayer, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.IsEliminated {
			active = append(active, p)
		}
	}
	return active
}

// FindPlayer returns a pointer into Players for the given user, or nil.
func (g *GameSession) FindPlayer(userID string) *GamePlayer {
	for i := range g.Players {
		if g.Players[i].UserID == userID {
			return &g.Players[i]
		}
	}
	return nil
}

// CurrentTurnPlayer returns the active player whose turn it is during the
// CLUES phase, or nil when everyone already submitted.
func (g *GameSession) CurrentTurnPlayer() *GamePlayer {
	active := g.ActivePlayers()
	if g.TurnIndex < 0 || g.TurnIndex >= len(active) {
		return nil
	}
	p := active[g.TurnIndex]
	return g.FindPlayer(p.UserID)
}

// HasClueFrom reports whether the given player already submitted a clue
// this round.
func (g *GameSession) HasClueFrom(userID string) bool {
	for _, c := range g.Clues {
		if c.PlayerID == userID {
			return true
		}
	}
	return false
}

// NormalizedWord returns the secret word lowered and trimmed, the form clue
// comparisons are made against.
func (g *GameSession) NormalizedWord() string {
	return strings.ToLower(strings.TrimSpace(g.SecretWord))
}
