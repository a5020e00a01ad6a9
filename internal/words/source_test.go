// internal/words/source_test.go
package words

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickFallbackHonorsExclusions(t *testing.T) {
	seen := map[string]bool{}
	pool := fallbackSets("MEDIUM")

	// drain the whole pool; every draw must be fresh
	for range pool {
		ws, err := pickFallback("MEDIUM", seen, 4)
		require.NoError(t, err)
		assert.False(t, seen[strings.ToLower(ws.Anchor)], "anchor %q repeated", ws.Anchor)
		seen[strings.ToLower(ws.Anchor)] = true
	}

	_, err := pickFallback("MEDIUM", seen, 4)
	assert.ErrorIs(t, err, ErrNoWords)
}

func TestFallbackPoolSatisfiesEveryLevel(t *testing.T) {
	// hardest level needs 5 pairs; the static pool must always deliver
	for _, difficulty := range []string{"EASY", "MEDIUM", "HARD"} {
		for _, ws := range fallbackSets(difficulty) {
			assert.GreaterOrEqual(t, len(ws.Synonyms), 5, "%s anchor %q synonyms", difficulty, ws.Anchor)
			assert.GreaterOrEqual(t, len(ws.Antonyms), 5, "%s anchor %q antonyms", difficulty, ws.Anchor)
			assert.NotContains(t, ws.Synonyms, ws.Anchor)
			assert.NotContains(t, ws.Antonyms, ws.Anchor)
		}
	}
}

func TestAnchorCandidatesCopies(t *testing.T) {
	a := anchorCandidates("EASY")
	a[0] = "mutated"
	b := anchorCandidates("EASY")
	assert.NotEqual(t, "mutated", b[0])
}

func TestUnknownDifficultyFallsBackToMedium(t *testing.T) {
	assert.Equal(t, fallbackSets("MEDIUM"), fallbackSets("NIGHTMARE"))
	assert.Equal(t, anchorCandidates("MEDIUM"), anchorCandidates(""))
}
