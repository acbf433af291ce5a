package checker

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SuffixLength is the number of characters in a temporary config suffix.
// Eight hex characters carry 32 bits drawn from a random UUID.
const SuffixLength = 8

// SuffixGenerator produces the random part of a temporary config name.
type SuffixGenerator interface {
	Generate() string
}

// RandomSuffix draws suffixes from version 4 UUIDs, whose bits come from
// crypto/rand.
//
// Thread-safety: RandomSuffix is stateless and safe for concurrent use.
type RandomSuffix struct{}

// Generate returns SuffixLength lower-case hex characters.
//
// Panics if the system entropy source fails.
func (RandomSuffix) Generate() string {
	id := strings.ReplaceAll(uuid.Must(uuid.NewRandom()).String(), "-", "")
	// The version nibble sits at index 12; the prefix is fully random.
	return id[:SuffixLength]
}

// FixedSuffix returns predetermined suffixes, in order, for tests.
type FixedSuffix struct {
	mu       sync.Mutex
	suffixes []string
	idx      int
}

// NewFixedSuffix creates a generator that returns suffixes in order.
func NewFixedSuffix(suffixes ...string) *FixedSuffix {
	return &FixedSuffix{suffixes: suffixes}
}

// Generate returns the next suffix.
//
// Panics once all suffixes are consumed, to surface a test that creates more
// temporary configs than it expects.
func (g *FixedSuffix) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.suffixes) {
		panic("FixedSuffix: all suffixes exhausted")
	}
	s := g.suffixes[g.idx]
	g.idx++
	return s
}
