package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/mdcount/internal/counter"
	"github.com/dgallion1/mdcount/internal/parser"
	"github.com/dgallion1/mdcount/internal/stats"
)

// Document is one named input to count. The extension of Name picks the
// parser.
type Document struct {
	Name string
	Data []byte
}

// Result is the outcome of counting one Document.
type Result struct {
	Name   string `json:"name"`
	Words  int    `json:"words"`
	Cached bool   `json:"cached,omitempty"`
	Error  string `json:"error,omitempty"`

	err error
}

// Err returns the error that stopped the count, if any.
func (r Result) Err() error {
	return r.err
}

// Same bytes parse differently as .md and .txt, so the format is part of
// the key.
type cacheKey struct {
	hash   string
	format string
	opts   counter.Options
}

// Counter counts documents, remembering recent totals by content hash.
// It is safe for concurrent use.
type Counter struct {
	settings parser.Settings
	cache    *lru.Cache[cacheKey, int]
	stats    *stats.CountStats
	log      *slog.Logger
}

// NewCounter builds a Counter. A cacheSize of zero disables the cache and
// a nil stats recorder disables latency tracking.
func NewCounter(settings parser.Settings, cacheSize int, st *stats.CountStats, log *slog.Logger) (*Counter, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Counter{settings: settings, stats: st, log: log}
	if cacheSize > 0 {
		cache, err := lru.New[cacheKey, int](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create result cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Count counts a single document. Failures are reported in the Result.
func (c *Counter) Count(ctx context.Context, doc Document, opts counter.Options) Result {
	res := Result{Name: doc.Name}
	if err := ctx.Err(); err != nil {
		res.err = err
		res.Error = err.Error()
		return res
	}

	start := time.Now()
	key := cacheKey{
		hash:   ContentHashHex(doc.Data),
		format: strings.ToLower(filepath.Ext(doc.Name)),
		opts:   opts,
	}
	if c.cache != nil {
		if words, ok := c.cache.Get(key); ok {
			res.Words = words
			res.Cached = true
			c.record(time.Since(start), res)
			return res
		}
	}

	p, err := c.settings.ForFile(doc.Name)
	if err == nil {
		res.Words, err = counter.CountWith(p, bytes.NewReader(doc.Data), doc.Name, opts)
	}
	if err != nil {
		c.log.Warn("count failed", "name", doc.Name, "error", err)
		res.Words = 0
		res.err = err
		res.Error = err.Error()
		return res
	}

	if c.cache != nil {
		c.cache.Add(key, res.Words)
	}
	c.record(time.Since(start), res)
	c.log.Debug("counted document", "name", doc.Name, "words", res.Words, "options", opts.String())
	return res
}

// CountAll counts docs with at most workers running at once. Results keep
// the order of docs. Per-document failures land in their Result; only a
// cancelled ctx fails the whole call.
func (c *Counter) CountAll(ctx context.Context, docs []Document, opts counter.Options, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Count(gctx, doc, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Stats returns the latency recorder, which may be nil.
func (c *Counter) Stats() *stats.CountStats {
	return c.stats
}

// CacheLen reports the number of cached totals.
func (c *Counter) CacheLen() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

func (c *Counter) record(d time.Duration, res Result) {
	if c.stats != nil {
		c.stats.Record(d, res.Words, res.Cached)
	}
}

// Total sums the words of results that did not fail.
func Total(results []Result) int {
	total := 0
	for _, r := range results {
		if r.err == nil && r.Error == "" {
			total += r.Words
		}
	}
	return total
}
