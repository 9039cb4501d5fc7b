package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevenshteinRatio(t *testing.T) {
	m := LevenshteinRatio{}

	assert.Equal(t, 0.0, m.Dissimilarity("", ""))
	assert.Equal(t, 0.0, m.Dissimilarity("same", "same"))
	assert.Equal(t, 1.0, m.Dissimilarity("abc", ""))
	assert.Equal(t, 0.2, m.Dissimilarity("hello", "hallo"))
	// Runes, not bytes.
	assert.Equal(t, 0.25, m.Dissimilarity("köln", "koln"))
}

func TestLevenshteinRatio_LowerBound(t *testing.T) {
	m := LevenshteinRatio{}

	assert.Equal(t, 0.0, m.LowerBound(0, 0))
	assert.Equal(t, 0.5, m.LowerBound(5, 10))
	assert.Equal(t, 0.5, m.LowerBound(10, 5))
	assert.LessOrEqual(t, m.LowerBound(5, 5), m.Dissimilarity("hello", "world"))
}

func TestTokenOverlap(t *testing.T) {
	m := TokenOverlap{}

	assert.Equal(t, 0.0, m.Dissimilarity("", ""))
	assert.Equal(t, 1.0, m.Dissimilarity("css", ""))
	assert.Equal(t, 0.0, m.Dissimilarity("a b", "b a"))
	assert.InDelta(t, 0.6, m.Dissimilarity("learn css fast", "how to learn css"), 1e-9)
}

func TestMetricByName(t *testing.T) {
	m, err := MetricByName("")
	require.NoError(t, err)
	assert.Equal(t, "levenshtein", m.Name())

	m, err = MetricByName(" Token ")
	require.NoError(t, err)
	assert.Equal(t, "token", m.Name())

	_, err = MetricByName("cosine")
	assert.Error(t, err)
}
