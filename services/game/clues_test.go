package game

import (
	"strings"
	"testing"

	redis_models "Wordspy/models/redis"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeClue(t *testing.T) {
	assert.Equal(t, "ocean", SanitizeClue("  ocean  "))
	assert.Equal(t, "&lt;b&gt;wave&lt;/b&gt;", SanitizeClue("<b>wave</b>"))

	long := strings.Repeat("a", MaxClueLength+10)
	assert.Equal(t, MaxClueLength, len([]rune(SanitizeClue(long))))
}

func TestValidateClueRejectsEmptyAndShort(t *testing.T) {
	err := ValidateClue("", nil)
	assert.Equal(t, KindInvalidInput, AsError(err).Kind)

	err = ValidateClue("a", nil)
	assert.Equal(t, KindInvalidInput, AsError(err).Kind)

	assert.NoError(t, ValidateClue("ab", nil))
}

func TestValidateClueRejectsDuplicates(t *testing.T) {
	existing := []redis_models.Clue{
		{PlayerID: "p1", Text: "Wave"},
	}

	err := ValidateClue("  wave ", existing)
	assert.Error(t, err)
	assert.Equal(t, KindInvalidInput, AsError(err).Kind)

	assert.NoError(t, ValidateClue("tide", existing))
}

func TestMatchesSecret(t *testing.T) {
	assert.True(t, MatchesSecret(" Ocean ", "ocean"))
	assert.True(t, MatchesSecret("OCEAN", " Ocean"))
	assert.False(t, MatchesSecret("oceans", "ocean"))
}

func TestDictionaryDeterministicWithSeededSource(t *testing.T) {
	words := []string{"ocean", "wave", "tide"}

	a := NewDictionaryWithWords(words, newTestRand(42))
	b := NewDictionaryWithWords(words, newTestRand(42))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.RandomWord(), b.RandomWord())
	}
}
