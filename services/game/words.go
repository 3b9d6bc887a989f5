package game

import "math/rand"

// WordProvider returns a random secret word from a fixed vocabulary.
// Uniqueness across rounds is not guaranteed.
type WordProvider interface {
	RandomWord() string
}

// defaultWords is the built-in vocabulary. Everyday nouns work best: the
// impostor has to bluff around clues for them.
var defaultWords = []string{
	"airport", "anchor", "balloon", "banana", "beach", "bicycle", "bridge",
	"butterfly", "cactus", "camera", "campfire", "carnival", "castle",
	"chocolate", "circus", "compass", "dentist", "desert", "dinosaur",
	"dragon", "elevator", "firefighter", "fountain", "glacier", "guitar",
	"hammock", "harbor", "helicopter", "honey", "island", "jungle",
	"kangaroo", "keyboard", "lighthouse", "lightning", "mirror", "monastery",
	"mountain", "museum", "mushroom", "ocean", "orchestra", "parachute",
	"penguin", "pirate", "pyramid", "rainbow", "robot", "rocket",
	"sandcastle", "scarecrow", "snowman", "submarine", "telescope", "theater",
	"tornado", "treasure", "umbrella", "volcano", "waterfall", "windmill",
}

// Dictionary is the stock WordProvider. The random source is injectable so
// tests can make word selection deterministic.
type Dictionary struct {
	words []string
	rng   *rand.Rand
}

// NewDictionary builds a Dictionary over the built-in vocabulary.
func NewDictionary(rng *rand.Rand) *Dictionary {
	return &Dictionary{words: defaultWords, rng: rng}
}

// NewDictionaryWithWords builds a Dictionary over a custom vocabulary.
func NewDictionaryWithWords(words []string, rng *rand.Rand) *Dictionary {
	return &Dictionary{words: words, rng: rng}
}

func (d *Dictionary) RandomWord() string {
	return d.words[d.rng.Intn(len(d.words))]
}
