package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
	"github.com/0xcro3dile/faqbot-go/internal/domain/usecases"
)

type categoriesFile struct {
	Categories []entities.CategoryRule `yaml:"categories" validate:"required,min=1,dive"`
}

// LoadCategories returns the built-in rules, or the rules in path when set.
//
// Example file:
//
//	categories:
//	  - name: greetings
//	    keywords: [hello, hi]
//	    replies: ["Hello! How can I assist you today?"]
//	  - name: default
//	    replies: ["Great question! From my understanding:"]
func LoadCategories(path string) ([]entities.CategoryRule, error) {
	if path == "" {
		return usecases.DefaultCategories(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	return ParseCategories(data)
}

// ParseCategories decodes and validates a categories YAML document.
// The default category must be present, have no keywords and come last.
func ParseCategories(data []byte) ([]entities.CategoryRule, error) {
	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding categories: %w", err)
	}
	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("invalid categories: %w", err)
	}

	last := file.Categories[len(file.Categories)-1]
	if last.Name != entities.CategoryDefault {
		return nil, fmt.Errorf("invalid categories: %q must be the last entry", entities.CategoryDefault)
	}
	if len(last.Keywords) > 0 {
		return nil, fmt.Errorf("invalid categories: %q takes no keywords", entities.CategoryDefault)
	}
	if _, err := usecases.RepliesFromRules(file.Categories); err != nil {
		return nil, fmt.Errorf("invalid categories: %w", err)
	}
	return file.Categories, nil
}
