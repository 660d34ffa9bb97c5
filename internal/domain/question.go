package domain

import (
	"fmt"
	"strings"
	"time"
)

// QuestionType is how many answers of a question may be correct.
type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 4

	minAnswers = 2
)

// ParseQuestionType converts a seed value to a QuestionType.
// Both "single_choice" and "single-choice" spellings are accepted.
func ParseQuestionType(s string) (QuestionType, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch QuestionType(normalized) {
	case SingleChoice, MultipleChoice, TrueFalse:
		return QuestionType(normalized), nil
	default:
		return "", NewValidationError(fmt.Sprintf("unknown question type %q", s))
	}
}

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case SingleChoice, MultipleChoice, TrueFalse:
		return true
	}
	return false
}

// Question is identified by its text. It exclusively owns its answers.
type Question struct {
	ID             string
	Text           string
	Type           QuestionType
	Difficulty     int
	Explanation    string
	ResourceURL    string
	SymfonyVersion string
	CategoryID     string
	SubcategoryID  string
	Answers        []Answer
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// QuestionKey is the natural key of a Question.
type QuestionKey struct {
	Text string
}

// Answer is one choice of a question. Position is the 0-based display order.
type Answer struct {
	ID         string
	QuestionID string
	Position   int
	Text       string
	Correct    bool
}

// NewQuestion creates a new Question instance
func NewQuestion(text string, qType QuestionType, difficulty int, categoryID, subcategoryID string) *Question {
	now := time.Now()
	return &Question{
		Text:          strings.TrimSpace(text),
		Type:          qType,
		Difficulty:    difficulty,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Key returns the natural key of the question.
func (q *Question) Key() QuestionKey {
	return QuestionKey{Text: q.Text}
}

// AddAnswer appends an answer after the existing ones.
func (q *Question) AddAnswer(text string, correct bool) {
	q.Answers = append(q.Answers, Answer{
		QuestionID: q.ID,
		Position:   len(q.Answers),
		Text:       strings.TrimSpace(text),
		Correct:    correct,
	})
}

// CorrectCount returns the number of correct answers.
func (q *Question) CorrectCount() int {
	n := 0
	for _, a := range q.Answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// Validate validates the question and its answers
func (q *Question) Validate() error {
	if q.Text == "" {
		return NewValidationError("question text is required")
	}
	if !q.Type.Valid() {
		return NewValidationError(fmt.Sprintf("question %q: unknown type %q", Preview(q.Text), q.Type))
	}
	if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
		return NewValidationError(fmt.Sprintf("question %q: difficulty %d is outside %d..%d", Preview(q.Text), q.Difficulty, MinDifficulty, MaxDifficulty))
	}
	if q.CategoryID == "" || q.SubcategoryID == "" {
		return NewValidationError(fmt.Sprintf("question %q: category and subcategory are required", Preview(q.Text)))
	}
	if len(q.Answers) < minAnswers {
		return NewValidationError(fmt.Sprintf("question %q: at least %d answers are required, got %d", Preview(q.Text), minAnswers, len(q.Answers)))
	}
	for i, a := range q.Answers {
		if a.Text == "" {
			return NewValidationError(fmt.Sprintf("question %q: answer %d has no text", Preview(q.Text), i))
		}
	}
	correct := q.CorrectCount()
	switch q.Type {
	case SingleChoice, TrueFalse:
		if correct != 1 {
			return NewValidationError(fmt.Sprintf("question %q: %s requires exactly one correct answer, got %d", Preview(q.Text), q.Type, correct))
		}
	case MultipleChoice:
		if correct < 1 {
			return NewValidationError(fmt.Sprintf("question %q: %s requires at least one correct answer", Preview(q.Text), q.Type))
		}
	}
	return nil
}

// SameContent reports whether q and other carry the same seedable content.
// IDs and timestamps are ignored.
func (q *Question) SameContent(other *Question) bool {
	if q.Text != other.Text ||
		q.Type != other.Type ||
		q.Difficulty != other.Difficulty ||
		q.Explanation != other.Explanation ||
		q.ResourceURL != other.ResourceURL ||
		q.SymfonyVersion != other.SymfonyVersion ||
		q.CategoryID != other.CategoryID ||
		q.SubcategoryID != other.SubcategoryID ||
		len(q.Answers) != len(other.Answers) {
		return false
	}
	for i := range q.Answers {
		if q.Answers[i].Text != other.Answers[i].Text || q.Answers[i].Correct != other.Answers[i].Correct {
			return false
		}
	}
	return true
}

// Preview shortens question text for log and error messages.
func Preview(s string) string {
	const n = 40
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
