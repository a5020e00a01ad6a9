// internal/game/score.go
package game

import (
	"strings"

	"github.com/sortonym/backend/internal/words"
)

// Word ids are opaque to clients but encode kind and word for the scorer:
// "syn:bright", "ant:dim".
const (
	KindSynonym = "syn"
	KindAntonym = "ant"
)

// EncodeWordID builds the opaque candidate id.
func EncodeWordID(kind, word string) string {
	return kind + ":" + strings.ToLower(word)
}

// DecodeWordID splits an id back into kind and word.
func DecodeWordID(id string) (kind, word string, ok bool) {
	kind, word, ok = strings.Cut(id, ":")
	if !ok || (kind != KindSynonym && kind != KindAntonym) || word == "" {
		return "", "", false
	}
	return kind, word, true
}

// Submission is one player's answer for a round: the candidate ids they
// placed in each slot and how long they took.
type Submission struct {
	SynonymIDs []string
	AntonymIDs []string
	TimeTaken  float64
}

// ScoreResult is the scoring outcome. Total = (base + timeBonus) * multiplier.
type ScoreResult struct {
	Total        float64 `json:"score"`
	BaseScore    float64 `json:"baseScore"`
	TimeBonus    float64 `json:"timeBonus"`
	CorrectCount int     `json:"correctCount"`
}

// Score grades a submission against the round's ground truth. Pure function;
// persisting the result is the caller's job.
//
// A placed id counts iff its kind matches the slot it was placed in AND its
// word is in the corresponding true set (case-insensitive). The time bonus
// scales with answer completeness, so a fully wrong submission earns no
// bonus no matter how fast it was.
func Score(sub Submission, truth words.WordSet, lc LevelConfig) ScoreResult {
	syns := lowerSet(truth.Synonyms)
	ants := lowerSet(truth.Antonyms)

	correct := 0
	for _, id := range sub.SynonymIDs {
		if kind, word, ok := DecodeWordID(id); ok && kind == KindSynonym && syns[word] {
			correct++
		}
	}
	for _, id := range sub.AntonymIDs {
		if kind, word, ok := DecodeWordID(id); ok && kind == KindAntonym && ants[word] {
			correct++
		}
	}

	base := float64(correct)
	totalExpected := lc.PairCount * 2
	if totalExpected < 1 {
		totalExpected = 1
	}
	remaining := lc.TimeLimit - sub.TimeTaken
	if remaining < 0 {
		remaining = 0
	}
	timeBonus := remaining * 0.1 * (float64(correct) / float64(totalExpected))

	return ScoreResult{
		Total:        (base + timeBonus) * lc.Multiplier,
		BaseScore:    base,
		TimeBonus:    timeBonus,
		CorrectCount: correct,
	}
}

// MaxScore is the ceiling for a level: every pair correct, instant answer.
func MaxScore(lc LevelConfig) float64 {
	totalExpected := float64(lc.PairCount * 2)
	return (totalExpected + lc.TimeLimit*0.1) * lc.Multiplier
}

func lowerSet(ws []string) map[string]bool {
	m := make(map[string]bool, len(ws))
	for _, w := range ws {
		m[strings.ToLower(w)] = true
	}
	return m
}
