package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
)

func testRules() []entities.CategoryRule {
	return []entities.CategoryRule{
		{Name: entities.CategoryGreetings, Keywords: []string{"hello", "hi"}, Replies: []string{"g"}},
		{Name: entities.CategoryTechnical, Keywords: []string{"code", "programming", "html", "css", "javascript", "react"}, Replies: []string{"t"}},
		{Name: entities.CategoryDefault, Replies: []string{"d"}},
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(testRules(), entities.CategoryDefault)

	tests := []struct {
		in   string
		want entities.Category
	}{
		{"Hello there", entities.CategoryGreetings},
		{"hi", entities.CategoryGreetings},
		{"tell me about React", entities.CategoryTechnical},
		{"JavaScript closures", entities.CategoryTechnical},
		{"what is the weather", entities.CategoryDefault},
		{"", entities.CategoryDefault},
		{"   ", entities.CategoryDefault},
		// greetings are checked before technical
		{"hello, I write code", entities.CategoryGreetings},
		// plain substring semantics: "this" contains "hi"
		{"is this css", entities.CategoryGreetings},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.in))
		})
	}
}

func TestClassifier_OverlappingKeywords(t *testing.T) {
	rules := []entities.CategoryRule{
		{Name: "short", Keywords: []string{"ram"}},
		{Name: "long", Keywords: []string{"programming"}},
	}
	c := NewClassifier(rules, entities.CategoryDefault)

	assert.Equal(t, entities.Category("short"), c.Classify("programming"))
}

func TestClassifier_NoKeywords(t *testing.T) {
	c := NewClassifier(nil, "")
	assert.Equal(t, entities.CategoryDefault, c.Classify("hello"))
	assert.Empty(t, c.Categories())
}

func TestClassifier_Categories(t *testing.T) {
	c := NewClassifier(testRules(), entities.CategoryDefault)
	assert.Equal(t, []entities.Category{
		entities.CategoryGreetings,
		entities.CategoryTechnical,
		entities.CategoryDefault,
	}, c.Categories())
}
