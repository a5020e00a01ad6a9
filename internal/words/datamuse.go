// internal/words/datamuse.go
package words

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// datamuseBase is the public Datamuse API endpoint.
const datamuseBase = "https://api.datamuse.com/words"

// DatamuseClient fetches synonym and antonym sets for an anchor word.
type DatamuseClient struct {
	HTTP *http.Client
	Base string
}

func NewDatamuseClient() *DatamuseClient {
	return &DatamuseClient{
		HTTP: &http.Client{Timeout: 3 * time.Second},
		Base: datamuseBase,
	}
}

type datamuseWord struct {
	Word string `json:"word"`
}

// Lookup fetches rel_syn and rel_ant for the anchor in parallel. Results are
// filtered to alphabetic words longer than 2 runes, excluding the anchor
// itself.
func (c *DatamuseClient) Lookup(ctx context.Context, anchor string) (syns, ants []string, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		syns, err = c.related(ctx, "rel_syn", anchor)
		return err
	})
	g.Go(func() error {
		var err error
		ants, err = c.related(ctx, "rel_ant", anchor)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return syns, ants, nil
}

func (c *DatamuseClient) related(ctx context.Context, rel, anchor string) ([]string, error) {
	u := fmt.Sprintf("%s?%s=%s", c.Base, rel, url.QueryEscape(anchor))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("datamuse %s: status %d", rel, resp.StatusCode)
	}

	var raw []datamuseWord
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(raw))
	for _, w := range raw {
		word := strings.ToLower(w.Word)
		if len(word) <= 2 || !isAlpha(word) || word == strings.ToLower(anchor) {
			continue
		}
		out = append(out, word)
		if len(out) >= 12 {
			break
		}
	}
	return out, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
