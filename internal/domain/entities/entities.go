// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import (
	"errors"
	"time"
)

// QARecord is one known question/answer pair.
// Records are immutable once loaded; the full collection is held read-only.
type QARecord struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// SkippedRecord describes a dataset entry that was dropped during parsing.
type SkippedRecord struct {
	Position int    // 0-based position inside its source
	Reason   string // e.g. "missing question"
}

// Dataset is the parsed output of one or more sources, in load order.
type Dataset struct {
	Source   string
	Records  []QARecord
	Skipped  []SkippedRecord
	LoadedAt time.Time
}

// SourceReport summarizes how one source fared during a load.
type SourceReport struct {
	Source  string
	Records int
	Skipped []SkippedRecord
	Err     error
}

// Len returns the number of valid records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Append adds another dataset's records after this one's, keeping order.
func (d *Dataset) Append(other *Dataset) {
	if other == nil {
		return
	}
	d.Records = append(d.Records, other.Records...)
	d.Skipped = append(d.Skipped, other.Skipped...)
}

// Category is a fallback response bucket.
type Category string

const (
	CategoryGreetings Category = "greetings"
	CategoryTechnical Category = "technical"
	CategoryDefault   Category = "default"
)

// SourceDataset marks a reply that came from a fuzzy dataset match.
const SourceDataset = "dataset"

// CategoryRule maps a category to the keywords that select it and the
// literals it may reply with. Replies must never be empty.
type CategoryRule struct {
	Name     Category `yaml:"name" validate:"required"`
	Keywords []string `yaml:"keywords"`
	Replies  []string `yaml:"replies" validate:"required,min=1,dive,required"`
}

// Match is a search hit with its dissimilarity score (0 = identical).
type Match struct {
	Record   QARecord
	Score    float64
	Position int // index of the record in load order
}

// Reply is the outcome of resolving one user message.
type Reply struct {
	Text   string
	Source string // SourceDataset or a Category name
	Score  float64
	Match  bool
}

// ChatTurn is one ephemeral (query, reply) exchange. Never persisted.
type ChatTurn struct {
	ID    string
	Query string
	Reply Reply
	At    time.Time
}

// SessionState mirrors the widget's stored login flags.
type SessionState struct {
	LoggedIn bool
	User     string
}

// Theme is the widget colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoDataset          = errors.New("no dataset loaded")
	ErrEmptyDataset       = errors.New("dataset has no valid records")
	ErrUnsupportedSource  = errors.New("unsupported dataset source")
)
