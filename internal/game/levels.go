// internal/game/levels.go
package game

import "strings"

// LevelConfig fixes a difficulty tier: the round time limit in seconds, how
// many synonym/antonym pairs a round presents, and the score multiplier.
type LevelConfig struct {
	Name       string  `json:"name"`
	TimeLimit  float64 `json:"timeLimit"`
	PairCount  int     `json:"pairCount"`
	Multiplier float64 `json:"multiplier"`
}

var levels = map[string]LevelConfig{
	"EASY":   {Name: "EASY", TimeLimit: 90, PairCount: 3, Multiplier: 1.0},
	"MEDIUM": {Name: "MEDIUM", TimeLimit: 60, PairCount: 4, Multiplier: 1.5},
	"HARD":   {Name: "HARD", TimeLimit: 45, PairCount: 5, Multiplier: 2.0},
}

// LevelFor resolves a difficulty label, defaulting unknown labels to MEDIUM
// the way the rest of the lobby flow does.
func LevelFor(name string) LevelConfig {
	if lc, ok := levels[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return lc
	}
	return levels["MEDIUM"]
}

// LevelNames lists the accepted difficulty labels.
func LevelNames() []string {
	return []string{"EASY", "MEDIUM", "HARD"}
}
