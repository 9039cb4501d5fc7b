package fuzzy

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/0xcro3dile/faqbot-go/internal/domain/textnorm"
)

// Metric scores how different two normalized strings are.
// 0 means identical, 1 means nothing in common. Closer text must score lower.
type Metric interface {
	Name() string
	Dissimilarity(query, question string) float64
}

// lengthBounded metrics can reject a candidate from rune lengths alone.
type lengthBounded interface {
	LowerBound(queryLen, questionLen int) float64
}

// LevenshteinRatio is edit distance divided by the longer rune length.
type LevenshteinRatio struct{}

func (LevenshteinRatio) Name() string { return "levenshtein" }

func (LevenshteinRatio) Dissimilarity(query, question string) float64 {
	longest := max(utf8.RuneCountInString(query), utf8.RuneCountInString(question))
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(query, question)) / float64(longest)
}

// LowerBound uses |la-lb| <= distance.
func (LevenshteinRatio) LowerBound(queryLen, questionLen int) float64 {
	longest := max(queryLen, questionLen)
	if longest == 0 {
		return 0
	}
	diff := queryLen - questionLen
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(longest)
}

// TokenOverlap is the Jaccard distance between the word sets.
type TokenOverlap struct{}

func (TokenOverlap) Name() string { return "token" }

func (TokenOverlap) Dissimilarity(query, question string) float64 {
	a := wordSet(query)
	b := wordSet(question)
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	shared := 0
	for w := range a {
		if b[w] {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return 1 - float64(shared)/float64(union)
}

func wordSet(s string) map[string]bool {
	words := textnorm.Tokens(s)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// MetricByName maps a configuration value to a Metric.
func MetricByName(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "levenshtein":
		return LevenshteinRatio{}, nil
	case "token":
		return TokenOverlap{}, nil
	}
	return nil, fmt.Errorf("unknown match metric %q", name)
}
