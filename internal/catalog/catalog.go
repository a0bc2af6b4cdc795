// Package catalog discovers notation documents, builds the in-memory
// score index, and answers filter and search queries against it.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/calloway/segno/internal/apperr"
	"github.com/calloway/segno/internal/checksum"
	"github.com/calloway/segno/internal/parser"
	"github.com/calloway/segno/internal/score"
	"github.com/calloway/segno/internal/storage"
)

// defaultReadLimit bounds how many document reads run concurrently
// during a scan.
const defaultReadLimit = 8

// Filter holds the optional criteria for Find. An empty string means the
// criterion is unset and imposes no constraint; set criteria combine
// with logical AND.
type Filter struct {
	Title         string // case-insensitive substring
	Composer      string // case-insensitive substring
	Category      string // case-insensitive exact match on category or fullCategory
	TimeSignature string // exact match
	Tempo         string // exact match
	KeySignature  string // exact match
}

func (f Filter) matches(s score.Score) bool {
	if f.Title != "" && !containsFold(s.Title, f.Title) {
		return false
	}
	if f.Composer != "" && !containsFold(s.Composer, f.Composer) {
		return false
	}
	if f.Category != "" &&
		!strings.EqualFold(f.Category, s.Category) &&
		!strings.EqualFold(f.Category, s.FullCategory) {
		return false
	}
	if f.TimeSignature != "" && s.TimeSignature != f.TimeSignature {
		return false
	}
	if f.Tempo != "" && s.Tempo != f.Tempo {
		return false
	}
	if f.KeySignature != "" && s.KeySignature != f.KeySignature {
		return false
	}
	return true
}

// Catalog owns the lazily-built, process-lifetime score index.
//
// The index has three states: unloaded (scores == nil), loading (a
// singleflight call in progress), and ready. Once published the score
// list is never mutated; Invalidate discards it so the next query
// rebuilds from scratch. Concurrent first access performs exactly one
// underlying scan.
//
// The generation counter makes invalidation win races against in-flight
// scans: Invalidate bumps it, and a scan's result is only published (and
// only accepted by waiting callers) when the generation still matches
// the one observed before the scan started.
type Catalog struct {
	store     storage.Provider
	readLimit int

	group  singleflight.Group
	mu     sync.RWMutex
	gen    uint64        // bumped by Invalidate
	scores []score.Score // nil until the first successful load
}

// published pairs a score list with the generation it was published
// under, so callers can reject a shared flight's result when it predates
// an invalidation they observed.
type published struct {
	scores []score.Score
	gen    uint64
}

// New creates a Catalog over the given storage provider.
func New(store storage.Provider) *Catalog {
	return &Catalog{store: store, readLimit: defaultReadLimit}
}

// All returns every score in the catalog, in traversal order. The first
// call scans storage; subsequent calls return the cached list without
// touching storage again. A failed load publishes nothing, so a later
// call retries the full scan. Callers never observe a catalog built
// from a scan that started before an invalidation they could see.
func (c *Catalog) All(ctx context.Context) ([]score.Score, error) {
	for {
		scores, gen := c.state()
		if scores != nil {
			return scores, nil
		}

		v, err, _ := c.group.Do("load", func() (any, error) {
			for {
				scores, gen := c.state()
				if scores != nil {
					return published{scores: scores, gen: gen}, nil
				}
				loaded, err := c.load(ctx)
				if err != nil {
					return nil, err
				}
				c.mu.Lock()
				if c.gen == gen {
					c.scores = loaded
					c.mu.Unlock()
					return published{scores: loaded, gen: gen}, nil
				}
				// Invalidated while scanning; the result is stale.
				c.mu.Unlock()
			}
		})
		if err != nil {
			return nil, err
		}
		if p := v.(published); p.gen >= gen {
			return p.scores, nil
		}
		// The shared flight predates the invalidation this caller saw;
		// go around for a fresh scan.
	}
}

// Invalidate discards the published index and bumps the generation so
// any in-flight scan's result is rejected. The next query rebuilds the
// whole catalog from storage; there is no incremental update path.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.scores = nil
	c.gen++
	c.mu.Unlock()
}

// Reload discards the index and immediately rebuilds it.
func (c *Catalog) Reload(ctx context.Context) ([]score.Score, error) {
	c.Invalidate()
	return c.All(ctx)
}

// ByPath returns the score whose path exactly equals path, or
// apperr.ErrNotFound.
func (c *Catalog) ByPath(ctx context.Context, path string) (score.Score, error) {
	all, err := c.All(ctx)
	if err != nil {
		return score.Score{}, err
	}
	for _, s := range all {
		if s.Path == path {
			return s, nil
		}
	}
	return score.Score{}, apperr.ErrNotFound
}

// Find returns the scores satisfying every set criterion in f, in
// catalog order. A zero Filter returns everything.
func (c *Catalog) Find(ctx context.Context, f Filter) ([]score.Score, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]score.Score, 0, len(all))
	for _, s := range all {
		if f.matches(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Categories returns the distinct category values, plus any fullCategory
// values that differ from their category, sorted lexicographically.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, s := range all {
		if s.Category != "" {
			seen[s.Category] = struct{}{}
		}
		if s.FullCategory != "" && s.FullCategory != s.Category {
			seen[s.FullCategory] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

// Composers returns the distinct non-empty composer values, sorted
// lexicographically.
func (c *Catalog) Composers(ctx context.Context) ([]string, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, s := range all {
		if s.Composer != "" {
			seen[s.Composer] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

// SearchByTitle returns the scores whose title contains query,
// case-insensitively. Scores without a title are excluded.
func (c *Catalog) SearchByTitle(ctx context.Context, query string) ([]score.Score, error) {
	return c.search(ctx, query, func(s score.Score) string { return s.Title })
}

// SearchByComposer returns the scores whose composer contains query,
// case-insensitively. Scores without a composer are excluded.
func (c *Catalog) SearchByComposer(ctx context.Context, query string) ([]score.Score, error) {
	return c.search(ctx, query, func(s score.Score) string { return s.Composer })
}

func (c *Catalog) search(ctx context.Context, query string, field func(score.Score) string) ([]score.Score, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]score.Score, 0, len(all))
	for _, s := range all {
		v := field(s)
		if v == "" {
			continue
		}
		if containsFold(v, query) {
			out = append(out, s)
		}
	}
	return out, nil
}

// state returns the published score list (nil when unloaded) and the
// current generation.
func (c *Catalog) state() ([]score.Score, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scores, c.gen
}

// load performs the full storage scan: list every recognized document,
// read and parse each one (concurrently, bounded by readLimit), and
// build the record list in traversal order. Any read failure fails the
// whole load; no partial catalog is ever produced.
func (c *Catalog) load(ctx context.Context) ([]score.Score, error) {
	paths, err := c.store.List()
	if err != nil {
		return nil, fmt.Errorf("catalog: scan: %w", err)
	}

	out := make([]score.Score, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(c.readLimit)
	for i, p := range paths {
		g.Go(func() error {
			data, readErr := c.store.Read(p)
			if readErr != nil {
				return readErr
			}
			res := parser.Parse(data)
			out[i] = score.New(p, string(data), res.Notation, res.Metadata, checksum.Sum(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("catalog: load: %w", err)
	}
	return out, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
