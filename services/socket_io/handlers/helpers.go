package handlers

import (
	models "Wordspy/models/postgres"
	redis_models "Wordspy/models/redis"
	"Wordspy/services/game"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// payloadOf extracts the first event argument as a map payload.
func payloadOf(args []interface{}) (map[string]interface{}, bool) {
	if len(args) < 1 {
		return nil, false
	}
	payload, ok := args[0].(map[string]interface{})
	return payload, ok
}

// stringField reads a string field out of an event payload.
func stringField(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

// intField reads a numeric field out of an event payload. socket.io
// delivers JSON numbers as float64.
func intField(payload map[string]interface{}, key string) int {
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// emitError unicasts a game.error event naming the failure kind to the
// actor whose action was rejected.
func emitError(client *socket.Socket, err error) {
	ge := game.AsError(err)
	client.Emit("game.error", gin.H{
		"kind":    string(ge.Kind),
		"message": ge.Message,
	})
}

// roomState is the room.state payload shared by every room event.
func roomState(room *models.Room) gin.H {
	players := make([]gin.H, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, gin.H{
			"user_id":   p.UserID,
			"username":  p.Username,
			"is_host":   p.IsHost,
			"connected": p.Connected(),
			"joined_at": p.JoinedAt,
		})
	}
	return gin.H{
		"room_id":       room.ID,
		"name":          room.Name,
		"host_id":       room.HostID,
		"status":        room.Status,
		"min_players":   room.MinPlayers,
		"max_players":   room.MaxPlayers,
		"num_impostors": room.NumImpostors,
		"is_private":    room.IsPrivate,
		"players":       players,
	}
}

// RoomStatePayload exposes the room.state payload for callers outside the
// handler package (the reconnect-on-connect path).
func RoomStatePayload(room *models.Room) gin.H {
	return roomState(room)
}

// gameBroadcaster is the slice of SocketServer the game event helpers need.
type gameBroadcaster interface {
	ToRoom(roomID string, event string, payload interface{})
	ToUser(username string, event string, payload interface{})
}

// broadcastSessionState sends each session player their own sanitized view
// (the secret word never reaches an impostor's client).
func broadcastSessionState(sio gameBroadcaster, g *redis_models.GameSession) {
	for _, p := range g.Players {
		sio.ToUser(p.UserID, "game.state", game.ViewFor(g, p.UserID))
	}
}

// broadcastPhase announces a phase change to the whole room.
func broadcastPhase(sio gameBroadcaster, roomID, phase string) {
	sio.ToRoom(roomID, "game.phaseChanged", gin.H{"phase": phase})
}

// eliminatedPayload describes the eliminated player. The role is only
// revealed once the game is decided; until then even an eliminated
// impostor's card stays face down.
func eliminatedPayload(g *redis_models.GameSession, p *redis_models.GamePlayer) gin.H {
	out := gin.H{
		"user_id":  p.UserID,
		"username": p.Username,
	}
	if g.Phase == redis_models.PhaseVictory {
		out["is_impostor"] = p.IsImpostor
	}
	return out
}

// announceVoteResult emits the events that follow a closed voting phase:
// either the tie, or the elimination results plus the victory if the game
// is decided. Both branches end with per-player state views so clients
// never sit on a stale has_voted/tied_players snapshot.
func announceVoteResult(sio gameBroadcaster, roomID string, g *redis_models.GameSession, outcome *game.VoteOutcome) {
	if outcome.Tally.IsTie && outcome.Eliminated == nil {
		sio.ToRoom(roomID, "game.tie", gin.H{
			"tied_players": outcome.Tally.Tied,
			"vote_counts":  outcome.Tally.Counts,
		})
		broadcastPhase(sio, roomID, g.Phase)
		broadcastSessionState(sio, g)
		return
	}

	sio.ToRoom(roomID, "game.votingResults", gin.H{
		"eliminated_player": eliminatedPayload(g, outcome.Eliminated),
		"vote_counts":       outcome.Tally.Counts,
	})
	if outcome.Winner != "" {
		sio.ToRoom(roomID, "game.victory", gin.H{"winner": outcome.Winner})
	}
	broadcastPhase(sio, roomID, g.Phase)
	broadcastSessionState(sio, g)
}

// resolveRoomID turns a typed room code (possibly a prefix) into the exact
// room id, without guessing between ambiguous matches.
func resolveRoomID(reg roomFinder, code string) (string, error) {
	if room, err := reg.Find(code); err == nil {
		return room.ID, nil
	}
	room, err := reg.FindByCodePrefix(code)
	if err != nil {
		return "", err
	}
	return room.ID, nil
}

type roomFinder interface {
	Find(roomID string) (*models.Room, error)
	FindByCodePrefix(prefix string) (*models.Room, error)
}
