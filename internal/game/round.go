// internal/game/round.go
package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/sortonym/backend/internal/identity"
	"github.com/sortonym/backend/internal/lobby"
	"github.com/sortonym/backend/internal/models"
	"github.com/sortonym/backend/internal/words"
)

// ErrInvalidRound is returned when a submitted round id is unknown, expired
// or already consumed.
var ErrInvalidRound = errors.New("invalid or completed round")

// roundSession is what StartRound persists and SubmitRound consumes: the
// ground truth the submission is graded against.
type roundSession struct {
	Level  string        `json:"level"`
	Truth  words.WordSet `json:"truth"`
	Issued int64         `json:"issued"`
}

// Candidate is one shuffled word presented to the client. The id encodes
// kind+word for the scorer; clients just echo it back.
type Candidate struct {
	ID   string `json:"id"`
	Word string `json:"word"`
}

// StartResponse is the payload for a fresh round.
type StartResponse struct {
	RoundID    string      `json:"roundId"`
	AnchorWord string      `json:"anchorWord"`
	Words      []Candidate `json:"words"`
	TimeLimit  float64     `json:"timeLimit"`
	Level      string      `json:"level"`
}

// SubmitRequest carries a round submission.
type SubmitRequest struct {
	RoundID   string   `json:"roundId"`
	Synonyms  []string `json:"synonyms"`
	Antonyms  []string `json:"antonyms"`
	TimeTaken float64  `json:"timeTaken"`
	Level     string   `json:"level"`
	LobbyCode string   `json:"gameCode,omitempty"`
}

// SubmitResponse reports the graded outcome.
type SubmitResponse struct {
	Score        float64 `json:"score"`
	BaseScore    float64 `json:"baseScore"`
	TimeBonus    float64 `json:"timeBonus"`
	CorrectCount int     `json:"correctCount"`
	MaxScore     float64 `json:"maxScore"`
}

// Engine runs rounds: it draws words, parks the ground truth in redis for
// the round's lifetime, grades submissions, and fans results out to the
// results table, the event queue, and (for team play) the lobby log.
// PersistResult and PublishResult are assigned at wiring time; tests leave
// them nil.
type Engine struct {
	Source  words.Source
	Rdb     *redis.Client
	Lobbies *lobby.Service

	PersistResult func(ctx context.Context, lobbyCode string, r models.RoundResult) error
	PublishResult func(ctx context.Context, lobbyCode string, r models.RoundResult) error

	log *log.Entry
}

func NewEngine(source words.Source, rdb *redis.Client, lobbies *lobby.Service) *Engine {
	return &Engine{
		Source:  source,
		Rdb:     rdb,
		Lobbies: lobbies,
		log:     log.WithField("component", "game"),
	}
}

func roundKey(id string) string { return "round:" + id }

// roundTTL is the session lifetime: round time plus slack for slow submits.
func roundTTL(lc LevelConfig) time.Duration {
	return time.Duration(lc.TimeLimit)*time.Second + 5*time.Minute
}

// StartRound draws an anchor for the level, persists the round session, and
// returns the shuffled candidates.
func (e *Engine) StartRound(ctx context.Context, level string, excludeWords []string) (*StartResponse, error) {
	lc := LevelFor(level)

	exclude := make(map[string]bool, len(excludeWords))
	for _, w := range excludeWords {
		exclude[strings.ToLower(strings.TrimSpace(w))] = true
	}

	ws, err := e.Source.Pick(ctx, lc.Name, exclude, lc.PairCount)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, lc.PairCount*2)
	for _, w := range pickN(ws.Synonyms, lc.PairCount) {
		candidates = append(candidates, Candidate{ID: EncodeWordID(KindSynonym, w), Word: w})
	}
	for _, w := range pickN(ws.Antonyms, lc.PairCount) {
		candidates = append(candidates, Candidate{ID: EncodeWordID(KindAntonym, w), Word: w})
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	roundID := uuid.NewString()
	sess := roundSession{Level: lc.Name, Truth: ws, Issued: time.Now().Unix()}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal round session: %w", err)
	}
	if err := e.Rdb.Set(ctx, roundKey(roundID), data, roundTTL(lc)).Err(); err != nil {
		return nil, fmt.Errorf("store round session: %w", err)
	}

	e.log.WithFields(log.Fields{"round": roundID, "level": lc.Name, "anchor": ws.Anchor}).Debug("round started")
	return &StartResponse{
		RoundID:    roundID,
		AnchorWord: ws.Anchor,
		Words:      candidates,
		TimeLimit:  lc.TimeLimit,
		Level:      lc.Name,
	}, nil
}

// SubmitRound consumes the round session, grades the submission, and
// persists/publishes the result. When the round belongs to a lobby the
// result is also appended to the lobby's log under its row lock.
func (e *Engine) SubmitRound(ctx context.Context, player identity.Identity, req SubmitRequest) (*SubmitResponse, error) {
	if req.RoundID == "" {
		return nil, ErrInvalidRound
	}

	// GetDel makes the session single-use: a double submit of the same
	// round id fails instead of double-counting.
	data, err := e.Rdb.GetDel(ctx, roundKey(req.RoundID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidRound
	}
	if err != nil {
		return nil, fmt.Errorf("load round session: %w", err)
	}
	var sess roundSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode round session: %w", err)
	}

	lc := LevelFor(sess.Level)
	res := Score(Submission{
		SynonymIDs: req.Synonyms,
		AntonymIDs: req.Antonyms,
		TimeTaken:  req.TimeTaken,
	}, sess.Truth, lc)

	record := models.RoundResult{
		PlayerID:     player.ID,
		PlayerName:   player.Name,
		Score:        round2(res.Total),
		CorrectCount: res.CorrectCount,
		TimeTaken:    req.TimeTaken,
		Timestamp:    time.Now().UTC(),
	}

	if req.LobbyCode != "" {
		if err := e.Lobbies.AppendResult(ctx, req.LobbyCode, record); err != nil {
			// nothing was recorded, so put the session back and let the
			// player resubmit once the lobby problem is sorted out
			if rerr := e.Rdb.Set(ctx, roundKey(req.RoundID), data, roundTTL(lc)).Err(); rerr != nil {
				e.log.WithError(rerr).Warn("failed to restore round session")
			}
			return nil, err
		}
	}
	if e.PersistResult != nil {
		if err := e.PersistResult(ctx, req.LobbyCode, record); err != nil {
			e.log.WithError(err).Warn("failed to persist round result")
		}
	}
	if e.PublishResult != nil {
		if err := e.PublishResult(ctx, req.LobbyCode, record); err != nil {
			e.log.WithError(err).Warn("failed to publish round result")
		}
	}

	return &SubmitResponse{
		Score:        round2(res.Total),
		BaseScore:    res.BaseScore,
		TimeBonus:    round2(res.TimeBonus),
		CorrectCount: res.CorrectCount,
		MaxScore:     round2(MaxScore(lc)),
	}, nil
}

// pickN returns up to n words, preserving source order.
func pickN(ws []string, n int) []string {
	if len(ws) <= n {
		return ws
	}
	return ws[:n]
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
