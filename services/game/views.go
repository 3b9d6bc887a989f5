package game

import (
	redis_models "Wordspy/models/redis"
)

// PlayerView is one player's row in a sanitized session view. Roles other
// than the viewer's own are only revealed once the game reaches VICTORY.
type PlayerView struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	IsEliminated bool   `json:"is_eliminated"`
	IsImpostor   *bool  `json:"is_impostor,omitempty"`
}

// SessionView is what a client is allowed to see of a session. The secret
// word is omitted for impostors, and omitted entirely in the broadcast
// variant addressed to no specific player.
type SessionView struct {
	RoomID        string              `json:"room_id"`
	Phase         string              `json:"phase"`
	Round         int                 `json:"round"`
	TurnIndex     int                 `json:"turn_index"`
	CurrentTurnID string              `json:"current_turn_id,omitempty"`
	Players       []PlayerView        `json:"players"`
	Clues         []redis_models.Clue `json:"clues"`
	VotesCast     int                 `json:"votes_cast"`
	SecretWord    string              `json:"secret_word,omitempty"`
	IsImpostor    bool                `json:"is_impostor,omitempty"`
	HasVoted      bool                `json:"has_voted,omitempty"`
	TiedPlayers   []string            `json:"tied_players,omitempty"`
	Winner        string              `json:"winner,omitempty"`
	WordGuesserID string              `json:"word_guesser_id,omitempty"`
}

// ViewFor builds the session view addressed to one player. Pass an empty
// userID for the broadcast variant (no secret word, no role).
func ViewFor(g *redis_models.GameSession, userID string) SessionView {
	view := SessionView{
		RoomID:        g.RoomID,
		Phase:         g.Phase,
		Round:         g.Round,
		TurnIndex:     g.TurnIndex,
		Clues:         g.Clues,
		VotesCast:     len(g.Votes),
		TiedPlayers:   g.TiedPlayers,
		Winner:        g.Winner,
		WordGuesserID: g.WordGuesserID,
	}
	if turn := g.CurrentTurnPlayer(); turn != nil && g.Phase == redis_models.PhaseClues {
		view.CurrentTurnID = turn.UserID
	}

	gameOver := g.Phase == redis_models.PhaseVictory
	for _, p := range g.Players {
		pv := PlayerView{UserID: p.UserID, Username: p.Username, IsEliminated: p.IsEliminated}
		if gameOver || p.UserID == userID {
			impostor := p.IsImpostor
			pv.IsImpostor = &impostor
		}
		view.Players = append(view.Players, pv)
	}

	if userID != "" {
		if p := g.FindPlayer(userID); p != nil {
			view.IsImpostor = p.IsImpostor
			if !p.IsImpostor {
				view.SecretWord = g.SecretWord
			}
			_, view.HasVoted = g.Votes[userID]
		}
	}
	return view
}
