package usecases

import "github.com/0xcro3dile/faqbot-go/internal/domain/entities"

// DefaultCategories returns the built-in fallback rules in classification
// order. Default comes last and has no keywords.
func DefaultCategories() []entities.CategoryRule {
	return []entities.CategoryRule{
		{
			Name:     entities.CategoryGreetings,
			Keywords: []string{"hello", "hi"},
			Replies: []string{
				"Hello! How can I assist you today?",
				"Hi there! What would you like to know?",
				"Welcome! I'm here to help answer your questions.",
				"Greetings! What can I help you with?",
			},
		},
		{
			Name:     entities.CategoryTechnical,
			Keywords: []string{"code", "programming", "html", "css", "javascript", "react"},
			Replies: []string{
				"For technical questions like this, I recommend checking the latest documentation and best practices.",
				"This is a technical topic that requires careful consideration of various factors.",
				"Based on current industry standards and best practices:",
			},
		},
		{
			Name: entities.CategoryDefault,
			Replies: []string{
				"That's an interesting question! Based on my knowledge, here's what I can tell you:",
				"Let me help you with that. Here's some information:",
				"Great question! From my understanding:",
				"I'd be happy to help! Here's what I know about that:",
			},
		},
	}
}
