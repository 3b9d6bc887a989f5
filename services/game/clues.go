package game

import (
	"html"
	"strings"

	redis_models "Wordspy/models/redis"
)

// MaxClueLength is the cap applied by SanitizeClue, in runes.
const MaxClueLength = 40

// SanitizeClue trims, HTML-escapes and length-caps a raw clue before it is
// handed to validation. Applied at the action boundary on every clue and
// chat message.
func SanitizeClue(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) > MaxClueLength {
		text = string(runes[:MaxClueLength])
	}
	return html.EscapeString(text)
}

// NormalizeClue lowers and trims a clue for duplicate and secret-word
// comparisons.
func NormalizeClue(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ValidateClue checks an already-sanitized clue against the round's rules:
// non-empty, at least two characters, and not a duplicate of any clue
// already given this round. The secret word itself is not rejected here;
// submitting it ends the round as a guess (see SubmitClue).
func ValidateClue(text string, existing []redis_models.Clue) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return InvalidInput("clue cannot be empty")
	}
	if len([]rune(trimmed)) < 2 {
		return InvalidInput("clue must be at least 2 characters long")
	}
	normalized := NormalizeClue(text)
	for _, c := range existing {
		if NormalizeClue(c.Text) == normalized {
			return InvalidInput("clue was already given this round")
		}
	}
	return nil
}

// MatchesSecret reports whether a clue equals the secret word after
// case and whitespace normalization.
func MatchesSecret(text, secretWord string) bool {
	return NormalizeClue(text) == NormalizeClue(secretWord)
}
