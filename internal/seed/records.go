package seed

import "quiz-seed/internal/domain"

// CategoryRecord declares a category by name.
type CategoryRecord struct {
	Name        string
	Description string
	Icon        string
	Color       string
}

// SubcategoryRecord declares a subcategory; its parent is passed separately.
type SubcategoryRecord struct {
	Name        string
	Description string
}

// AnswerRecord is one answer, in display order.
type AnswerRecord struct {
	Text    string
	Correct bool
}

// QuestionRecord declares a question with already resolved references.
type QuestionRecord struct {
	Category       *domain.Category
	Subcategory    *domain.Subcategory
	Text           string
	Type           string
	Difficulty     int
	Explanation    string
	ResourceURL    string
	SymfonyVersion string
	Answers        []AnswerRecord
}

// UserRecord declares a user. Password is the plain seed password.
type UserRecord struct {
	Email    string
	Username string
	Password string
	Roles    []string
}
