// Package usecases - resolve.go turns one user message into one reply.
package usecases

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
	"github.com/0xcro3dile/faqbot-go/internal/domain/ports"
)

// Replies maps each fallback category to its non-empty list of literals.
type Replies map[entities.Category][]string

// Picker returns an index in [0, n). n is always > 0.
type Picker func(n int) int

// RandomPicker draws uniformly.
func RandomPicker(n int) int {
	return rand.IntN(n)
}

// Resolve answers query from the index when a record is close enough,
// otherwise with a random literal of the category the classifier picks.
// It never fails; replies must hold a non-empty default list.
func Resolve(
	query string,
	index ports.SearchIndex,
	classifier ports.KeywordMatcher,
	replies Replies,
	pick Picker,
) entities.Reply {
	if index != nil {
		if m, ok := index.Search(query); ok {
			return entities.Reply{
				Text:   m.Record.Answer,
				Source: entities.SourceDataset,
				Score:  m.Score,
				Match:  true,
			}
		}
	}

	category := entities.CategoryDefault
	if classifier != nil {
		category = classifier.Classify(query)
	}
	literals := replies[category]
	if len(literals) == 0 {
		category = entities.CategoryDefault
		literals = replies[category]
	}

	return entities.Reply{
		Text:   literals[pick(len(literals))],
		Source: string(category),
	}
}

// IndexProvider exposes whichever index is currently published.
type IndexProvider interface {
	Index() ports.SearchIndex
}

// Chatbot binds the resolver to the live dataset and the category rules.
type Chatbot struct {
	knowledge  IndexProvider
	classifier ports.KeywordMatcher
	replies    Replies
	pick       Picker
	recorder   ports.Recorder
	newID      func() string
	now        func() time.Time
}

// NewChatbot validates the rules and builds a Chatbot. Every rule needs at
// least one reply and a default rule must exist.
func NewChatbot(
	knowledge IndexProvider,
	rules []entities.CategoryRule,
	classifier ports.KeywordMatcher,
	recorder ports.Recorder,
	pick Picker,
) (*Chatbot, error) {
	replies, err := RepliesFromRules(rules)
	if err != nil {
		return nil, err
	}
	if pick == nil {
		pick = RandomPicker
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Chatbot{
		knowledge:  knowledge,
		classifier: classifier,
		replies:    replies,
		pick:       pick,
		recorder:   recorder,
		newID:      uuid.NewString,
		now:        time.Now,
	}, nil
}

// RepliesFromRules indexes rule replies by category name.
func RepliesFromRules(rules []entities.CategoryRule) (Replies, error) {
	replies := make(Replies, len(rules))
	for _, r := range rules {
		if len(r.Replies) == 0 {
			return nil, fmt.Errorf("category %q has no replies", r.Name)
		}
		if _, dup := replies[r.Name]; dup {
			return nil, fmt.Errorf("category %q declared twice", r.Name)
		}
		replies[r.Name] = append([]string(nil), r.Replies...)
	}
	if len(replies[entities.CategoryDefault]) == 0 {
		return nil, errors.New("default category is required")
	}
	return replies, nil
}

// Resolve returns the reply text for query.
func (c *Chatbot) Resolve(query string) string {
	return c.reply(query).Text
}

// Respond resolves query and wraps the outcome as a chat turn.
func (c *Chatbot) Respond(query string) entities.ChatTurn {
	return entities.ChatTurn{
		ID:    c.newID(),
		Query: query,
		Reply: c.reply(query),
		At:    c.now(),
	}
}

func (c *Chatbot) reply(query string) entities.Reply {
	var index ports.SearchIndex
	if c.knowledge != nil {
		index = c.knowledge.Index()
	}
	r := Resolve(query, index, c.classifier, c.replies, c.pick)
	c.recorder.ObserveReply(r.Source)
	return r
}

// Ready reports whether a dataset index has been published.
func (c *Chatbot) Ready() bool {
	return c.knowledge != nil && c.knowledge.Index() != nil
}
