// internal/words/source.go
package words

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrNoWords is returned when neither the live source nor the fallback pool
// can satisfy the caller's exclusion set.
var ErrNoWords = errors.New("no words available")

// WordSet is one round's ground truth: an anchor word with its true synonym
// and antonym sets.
type WordSet struct {
	Anchor   string   `json:"anchor"`
	Synonyms []string `json:"synonyms"`
	Antonyms []string `json:"antonyms"`
}

// Source yields a word set for a difficulty, honoring an exclusion set of
// anchors the caller has already seen.
type Source interface {
	Pick(ctx context.Context, difficulty string, exclude map[string]bool, pairCount int) (WordSet, error)
}

// CachedSource serves word sets from a per-difficulty redis cache, refilling
// from Datamuse, and degrades to the compiled-in fallback pool when both
// miss. External API failures never surface to players.
type CachedSource struct {
	Client *DatamuseClient
	Rdb    *redis.Client

	cacheTTL time.Duration
	log      *log.Entry
}

const (
	cacheKeyPrefix = "word_cache_"
	warmupPerLevel = 10
)

func NewCachedSource(client *DatamuseClient, rdb *redis.Client) *CachedSource {
	return &CachedSource{
		Client:   client,
		Rdb:      rdb,
		cacheTTL: 24 * time.Hour,
		log:      log.WithField("component", "words"),
	}
}

func cacheKey(difficulty string) string {
	return cacheKeyPrefix + strings.ToLower(difficulty)
}

// Pick returns a word set for the difficulty whose anchor is not excluded
// and which carries at least pairCount synonyms and antonyms.
func (s *CachedSource) Pick(ctx context.Context, difficulty string, exclude map[string]bool, pairCount int) (WordSet, error) {
	if ws, ok := s.fromCache(ctx, difficulty, exclude, pairCount); ok {
		return ws, nil
	}

	if ws, err := s.fetchOne(ctx, difficulty, exclude, pairCount); err == nil {
		return ws, nil
	} else {
		s.log.WithError(err).WithField("difficulty", difficulty).Warn("live word fetch failed, using fallback pool")
	}

	return pickFallback(difficulty, exclude, pairCount)
}

// fromCache draws a random eligible set from the redis cache.
func (s *CachedSource) fromCache(ctx context.Context, difficulty string, exclude map[string]bool, pairCount int) (WordSet, bool) {
	data, err := s.Rdb.Get(ctx, cacheKey(difficulty)).Bytes()
	if err != nil {
		return WordSet{}, false
	}
	var sets []WordSet
	if err := json.Unmarshal(data, &sets); err != nil {
		return WordSet{}, false
	}

	var eligible []WordSet
	for _, ws := range sets {
		if !exclude[strings.ToLower(ws.Anchor)] && len(ws.Synonyms) >= pairCount && len(ws.Antonyms) >= pairCount {
			eligible = append(eligible, ws)
		}
	}
	if len(eligible) == 0 {
		return WordSet{}, false
	}
	return eligible[rand.Intn(len(eligible))], true
}

// fetchOne tries candidate anchors for the difficulty until one yields
// enough synonyms and antonyms, then adds it to the cache.
func (s *CachedSource) fetchOne(ctx context.Context, difficulty string, exclude map[string]bool, pairCount int) (WordSet, error) {
	candidates := anchorCandidates(difficulty)
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	var lastErr error = ErrNoWords
	for i, anchor := range candidates {
		if i >= 5 { // bound the API calls per request
			break
		}
		if exclude[anchor] {
			continue
		}
		syns, ants, err := s.Client.Lookup(ctx, anchor)
		if err != nil {
			lastErr = err
			continue
		}
		if len(syns) < pairCount || len(ants) < pairCount {
			continue
		}
		ws := WordSet{Anchor: anchor, Synonyms: syns, Antonyms: ants}
		s.addToCache(ctx, difficulty, ws)
		return ws, nil
	}
	return WordSet{}, lastErr
}

func (s *CachedSource) addToCache(ctx context.Context, difficulty string, ws WordSet) {
	key := cacheKey(difficulty)
	var sets []WordSet
	if data, err := s.Rdb.Get(ctx, key).Bytes(); err == nil {
		_ = json.Unmarshal(data, &sets)
	}
	for _, existing := range sets {
		if existing.Anchor == ws.Anchor {
			return
		}
	}
	sets = append(sets, ws)
	if data, err := json.Marshal(sets); err == nil {
		if err := s.Rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
			s.log.WithError(err).Warn("word cache write failed")
		}
	}
}

// WarmUp populates the cache for every difficulty. Failures are logged, not
// fatal; the fallback pool covers the gap until the next attempt.
func (s *CachedSource) WarmUp(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	for _, difficulty := range []string{"EASY", "MEDIUM", "HARD"} {
		g.Go(func() error {
			for range warmupPerLevel {
				if _, err := s.fetchOne(ctx, difficulty, nil, 3); err != nil {
					s.log.WithError(err).WithField("difficulty", difficulty).Warn("warmup fetch failed")
					return nil
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	s.log.Info("word cache warmup complete")
}

// pickFallback draws from the compiled-in pool.
func pickFallback(difficulty string, exclude map[string]bool, pairCount int) (WordSet, error) {
	pool := fallbackSets(difficulty)
	eligible := make([]WordSet, 0, len(pool))
	for _, ws := range pool {
		if !exclude[strings.ToLower(ws.Anchor)] && len(ws.Synonyms) >= pairCount && len(ws.Antonyms) >= pairCount {
			eligible = append(eligible, ws)
		}
	}
	if len(eligible) == 0 {
		return WordSet{}, ErrNoWords
	}
	return eligible[rand.Intn(len(eligible))], nil
}
