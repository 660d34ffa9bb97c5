package seed

import (
	"fmt"

	"quiz-seed/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func materializeCategory(rec CategoryRecord) (*domain.Category, error) {
	c := domain.NewCategory(rec.Name, rec.Description, rec.Icon, rec.Color)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func materializeSubcategory(category *domain.Category, rec SubcategoryRecord) (*domain.Subcategory, error) {
	if category == nil {
		return nil, domain.NewValidationError(fmt.Sprintf("subcategory %q has no category", rec.Name))
	}
	s := domain.NewSubcategory(category.ID, rec.Name, rec.Description)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// materializeQuestion builds a question and its answers in record order.
func materializeQuestion(rec QuestionRecord) (*domain.Question, error) {
	if rec.Category == nil || rec.Subcategory == nil {
		return nil, domain.NewValidationError(fmt.Sprintf("question %q: category and subcategory are required", domain.Preview(rec.Text)))
	}
	if rec.Subcategory.CategoryID != rec.Category.ID {
		return nil, domain.NewValidationError(fmt.Sprintf("question %q: subcategory %q does not belong to category %q",
			domain.Preview(rec.Text), rec.Subcategory.Name, rec.Category.Name))
	}
	qType, err := domain.ParseQuestionType(rec.Type)
	if err != nil {
		return nil, err
	}

	q := domain.NewQuestion(rec.Text, qType, rec.Difficulty, rec.Category.ID, rec.Subcategory.ID)
	q.Explanation = rec.Explanation
	q.ResourceURL = rec.ResourceURL
	q.SymfonyVersion = rec.SymfonyVersion
	for _, a := range rec.Answers {
		q.AddAnswer(a.Text, a.Correct)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func materializeUser(rec UserRecord, cost int) (*domain.User, error) {
	if rec.Password == "" {
		return nil, domain.NewValidationError(fmt.Sprintf("user %q: password is required", rec.Email))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(rec.Password), cost)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("user %q: cannot hash password: %v", rec.Email, err))
	}
	u := domain.NewUser(rec.Email, rec.Username, string(hash), rec.Roles)
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}
