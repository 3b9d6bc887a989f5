package game

import (
	"testing"

	redis_models "Wordspy/models/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewForHidesOtherRoles(t *testing.T) {
	g := fourPlayerSession("ocean")

	view := ViewFor(g, "p1")

	assert.Equal(t, "ocean", view.SecretWord)
	assert.False(t, view.IsImpostor)
	assert.Equal(t, "p1", view.CurrentTurnID)
	for _, pv := range view.Players {
		if pv.UserID == "p1" {
			require.NotNil(t, pv.IsImpostor)
			assert.False(t, *pv.IsImpostor)
		} else {
			assert.Nil(t, pv.IsImpostor)
		}
	}
}

func TestViewForImpostorNeverSeesSecret(t *testing.T) {
	g := fourPlayerSession("ocean")

	view := ViewFor(g, "p4")

	assert.Empty(t, view.SecretWord)
	assert.True(t, view.IsImpostor)
}

func TestViewForBroadcastVariant(t *testing.T) {
	g := fourPlayerSession("ocean")

	view := ViewFor(g, "")

	assert.Empty(t, view.SecretWord)
	assert.False(t, view.IsImpostor)
	for _, pv := range view.Players {
		assert.Nil(t, pv.IsImpostor)
	}
}

func TestViewForRevealsRolesAtVictory(t *testing.T) {
	g := fourPlayerSession("ocean")
	g.Phase = redis_models.PhaseVictory
	g.Winner = redis_models.WinnerCitizens

	view := ViewFor(g, "p1")

	assert.Equal(t, redis_models.WinnerCitizens, view.Winner)
	for _, pv := range view.Players {
		require.NotNil(t, pv.IsImpostor)
		assert.Equal(t, pv.UserID == "p4", *pv.IsImpostor)
	}
}
