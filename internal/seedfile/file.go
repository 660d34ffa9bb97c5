// Package seedfile reads seed batches from YAML and JSON files. Each file
// declares one batch: its name, dependencies, group tags and records.
package seedfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quiz-seed/internal/domain"

	"gopkg.in/yaml.v3"
)

// File is the document structure of a seed file.
type File struct {
	Name                 string            `yaml:"name" json:"name"`
	DependsOn            []string          `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Groups               []string          `yaml:"groups,omitempty" json:"groups,omitempty"`
	Categories           []CategoryYAML    `yaml:"categories,omitempty" json:"categories,omitempty"`
	Subcategories        []SubcategoryYAML `yaml:"subcategories,omitempty" json:"subcategories,omitempty"`
	SubcategoryFallbacks []FallbackYAML    `yaml:"subcategory_fallbacks,omitempty" json:"subcategory_fallbacks,omitempty"`
	Users                []UserYAML        `yaml:"users,omitempty" json:"users,omitempty"`
	Questions            []QuestionYAML    `yaml:"questions,omitempty" json:"questions,omitempty"`
}

// CategoryYAML represents a category entry
type CategoryYAML struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Color       string `yaml:"color,omitempty" json:"color,omitempty"`
}

// SubcategoryYAML represents a subcategory entry
type SubcategoryYAML struct {
	Category    string `yaml:"category" json:"category"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// FallbackYAML redirects questions naming a missing subcategory to another one
// of the same category.
type FallbackYAML struct {
	Category string `yaml:"category" json:"category"`
	Name     string `yaml:"name" json:"name"`
	Fallback string `yaml:"fallback" json:"fallback"`
}

// UserYAML represents a user entry
type UserYAML struct {
	Email    string   `yaml:"email" json:"email"`
	Username string   `yaml:"username" json:"username"`
	Password string   `yaml:"password" json:"password"`
	Roles    []string `yaml:"roles,omitempty" json:"roles,omitempty"`
}

// QuestionYAML represents a question entry
type QuestionYAML struct {
	Category       string       `yaml:"category" json:"category"`
	Subcategory    string       `yaml:"subcategory" json:"subcategory"`
	Text           string       `yaml:"text" json:"text"`
	Type           string       `yaml:"type" json:"type"`
	Difficulty     int          `yaml:"difficulty" json:"difficulty"`
	Explanation    string       `yaml:"explanation,omitempty" json:"explanation,omitempty"`
	ResourceURL    string       `yaml:"resource_url,omitempty" json:"resource_url,omitempty"`
	SymfonyVersion string       `yaml:"symfony_version,omitempty" json:"symfony_version,omitempty"`
	Answers        []AnswerYAML `yaml:"answers" json:"answers"`
}

// AnswerYAML represents an answer entry
type AnswerYAML struct {
	Text    string `yaml:"text" json:"text"`
	Correct bool   `yaml:"correct" json:"correct"`
}

// Format is the encoding of a seed file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf returns the format implied by the file extension, or "" if the
// file is not a seed file.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return ""
}

// ParseFile reads a seed file. A missing name defaults to the file name
// without its extension.
func ParseFile(path string) (*File, error) {
	format := FormatOf(path)
	if format == "" {
		return nil, domain.NewConfigurationError(fmt.Sprintf("%s is not a seed file", path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

// Parse decodes a seed document. Unknown fields are rejected.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, domain.NewConfigurationError(fmt.Sprintf("failed to parse YAML: %v", err))
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, domain.NewConfigurationError(fmt.Sprintf("failed to parse JSON: %v", err))
		}
	default:
		return nil, domain.NewConfigurationError(fmt.Sprintf("unknown seed format %q", format))
	}
	f.Name = strings.TrimSpace(f.Name)
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	for i := range f.SubcategoryFallbacks {
		fb := &f.SubcategoryFallbacks[i]
		fb.Category = strings.TrimSpace(fb.Category)
		fb.Name = strings.TrimSpace(fb.Name)
		fb.Fallback = strings.TrimSpace(fb.Fallback)
		if fb.Category == "" || fb.Name == "" || fb.Fallback == "" {
			return domain.NewConfigurationError(fmt.Sprintf("subcategory fallback #%d needs category, name and fallback", i+1))
		}
		if fb.Name == fb.Fallback {
			return domain.NewConfigurationError(fmt.Sprintf("subcategory fallback %q points to itself", fb.Name))
		}
	}
	return nil
}

func (f *File) fallbackFor(category, name string) string {
	for _, fb := range f.SubcategoryFallbacks {
		if fb.Category == category && fb.Name == name {
			return fb.Fallback
		}
	}
	return ""
}
