// Package keywords classifies unmatched queries into fallback categories
// using one Aho-Corasick automaton over every rule's keywords.
package keywords

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
	"github.com/0xcro3dile/faqbot-go/internal/domain/textnorm"
)

// Classifier implements ports.KeywordMatcher.
// Keywords match as plain substrings of the normalized text; when several
// rules match, the one declared first wins.
type Classifier struct {
	automaton aho.AhoCorasick
	owners    []int // pattern index -> rule index
	rules     []entities.Category
	fallback  entities.Category
}

// NewClassifier compiles the rules in order. Rules without keywords are
// never selected by Classify; fallback is returned when nothing matches.
func NewClassifier(rules []entities.CategoryRule, fallback entities.Category) *Classifier {
	if fallback == "" {
		fallback = entities.CategoryDefault
	}

	c := &Classifier{fallback: fallback}
	var patterns []string
	for _, r := range rules {
		ruleIdx := len(c.rules)
		c.rules = append(c.rules, r.Name)
		for _, kw := range r.Keywords {
			kw = textnorm.Normalize(kw)
			if kw == "" {
				continue
			}
			patterns = append(patterns, kw)
			c.owners = append(c.owners, ruleIdx)
		}
	}

	if len(patterns) > 0 {
		builder := aho.NewAhoCorasickBuilder(aho.Opts{
			DFA: true,
		})
		c.automaton = builder.Build(patterns)
	}
	return c
}

// Classify returns the earliest rule with a keyword in text.
func (c *Classifier) Classify(text string) entities.Category {
	if len(c.owners) == 0 {
		return c.fallback
	}
	normalized := textnorm.Normalize(text)
	if normalized == "" {
		return c.fallback
	}

	// Overlapping iteration, so a long keyword never hides a short one
	// belonging to an earlier rule.
	best := -1
	iter := c.automaton.IterOverlappingByte([]byte(normalized))
	for next := iter.Next(); next != nil; next = iter.Next() {
		rule := c.owners[next.Pattern()]
		if best == -1 || rule < best {
			best = rule
		}
		if best == 0 {
			break
		}
	}

	if best == -1 {
		return c.fallback
	}
	return c.rules[best]
}

// Categories returns the rule names in declaration order.
func (c *Classifier) Categories() []entities.Category {
	out := make([]entities.Category, len(c.rules))
	copy(out, c.rules)
	return out
}
