// Package fuzzy provides the in-memory approximate question index.
// Adapter implementing ports.SearchIndex and ports.IndexBuilder.
package fuzzy

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
	"github.com/0xcro3dile/faqbot-go/internal/domain/ports"
	"github.com/0xcro3dile/faqbot-go/internal/domain/textnorm"
	"github.com/patrickmn/go-cache"
)

// DefaultThreshold is the maximum accepted dissimilarity.
const DefaultThreshold = 0.4

// Queries longer than this are not memoized.
const maxMemoKeyBytes = 256

type entry struct {
	record entities.QARecord
	key    string // normalized question
	keyLen int    // rune count of key
}

type lookup struct {
	match entities.Match
	found bool
}

// Index is an immutable scan index over normalized questions.
// Lookups are memoized per index, so a reload never serves stale hits.
type Index struct {
	entries   []entry
	metric    Metric
	threshold float64
	memo      *cache.Cache
}

// Builder creates a new Index for every dataset (re)load.
type Builder struct {
	metric    Metric
	threshold float64
	memoTTL   time.Duration
}

// NewBuilder creates an index builder.
// A nil metric means LevenshteinRatio; a negative or NaN threshold means
// DefaultThreshold. memoTTL <= 0 disables memoization.
func NewBuilder(metric Metric, threshold float64, memoTTL time.Duration) *Builder {
	if metric == nil {
		metric = LevenshteinRatio{}
	}
	if threshold < 0 || math.IsNaN(threshold) {
		threshold = DefaultThreshold
	}
	return &Builder{
		metric:    metric,
		threshold: threshold,
		memoTTL:   memoTTL,
	}
}

// Build indexes every record with a non-blank question, preserving load order.
func (b *Builder) Build(records []entities.QARecord) (ports.SearchIndex, error) {
	if b.threshold > 1 {
		return nil, fmt.Errorf("threshold %.3f out of range [0,1]", b.threshold)
	}

	idx := &Index{
		entries:   make([]entry, 0, len(records)),
		metric:    b.metric,
		threshold: b.threshold,
	}
	for _, r := range records {
		key := textnorm.Normalize(r.Question)
		if key == "" {
			continue
		}
		idx.entries = append(idx.entries, entry{
			record: r,
			key:    key,
			keyLen: utf8.RuneCountInString(key),
		})
	}
	if b.memoTTL > 0 {
		idx.memo = cache.New(b.memoTTL, 2*b.memoTTL)
	}
	return idx, nil
}

// Search finds the closest question within the threshold.
func (ix *Index) Search(query string) (entities.Match, bool) {
	q := textnorm.Normalize(query)
	if q == "" || len(ix.entries) == 0 {
		return entities.Match{}, false
	}

	memoize := ix.memo != nil && len(q) <= maxMemoKeyBytes
	if memoize {
		if v, ok := ix.memo.Get(q); ok {
			hit := v.(lookup)
			return hit.match, hit.found
		}
	}

	match, found := ix.scan(q)
	if memoize {
		ix.memo.Set(q, lookup{match: match, found: found}, cache.DefaultExpiration)
	}
	return match, found
}

// scan walks entries in load order; only a strictly lower score replaces
// the current best, so the earliest record wins ties.
func (ix *Index) scan(q string) (entities.Match, bool) {
	bounded, canPrune := ix.metric.(lengthBounded)
	qLen := utf8.RuneCountInString(q)

	var best entities.Match
	found := false
	for i, e := range ix.entries {
		limit := ix.threshold
		if found && best.Score < limit {
			limit = best.Score
		}
		if canPrune && bounded.LowerBound(qLen, e.keyLen) > limit {
			continue
		}

		score := ix.metric.Dissimilarity(q, e.key)
		if score > ix.threshold {
			continue
		}
		if !found || score < best.Score {
			best = entities.Match{Record: e.record, Score: score, Position: i}
			found = true
		}
		if score == 0 {
			break
		}
	}
	return best, found
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Threshold returns the maximum accepted dissimilarity.
func (ix *Index) Threshold() float64 {
	return ix.threshold
}

// Metric returns the metric name, for diagnostics.
func (ix *Index) Metric() string {
	return ix.metric.Name()
}
