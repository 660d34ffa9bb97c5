package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-seed/internal/domain"
	"quiz-seed/internal/repository/models"
	"quiz-seed/internal/util"
)

const (
	selectQuestionByHashQuery = `SELECT id "id", text_hash "text_hash", text "text", question_type "question_type", difficulty "difficulty", explanation "explanation", resource_url "resource_url", symfony_version "symfony_version", category_id "category_id", sub_category_id "sub_category_id", created_at "created_at", updated_at "updated_at" FROM questions WHERE text_hash = ?`
	insertQuestionQuery       = `INSERT INTO questions (id, text_hash, text, question_type, difficulty, explanation, resource_url, symfony_version, category_id, sub_category_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	updateQuestionQuery       = `UPDATE questions SET question_type = ?, difficulty = ?, explanation = ?, resource_url = ?, symfony_version = ?, category_id = ?, sub_category_id = ?, updated_at = ? WHERE id = ?`

	selectAnswersQuery = `SELECT id "id", question_id "question_id", position "position", text "text", is_correct "is_correct" FROM answers WHERE question_id = ? ORDER BY position`
	deleteAnswersQuery = `DELETE FROM answers WHERE question_id = ?`
	insertAnswerQuery  = `INSERT INTO answers (id, question_id, position, text, is_correct) VALUES (?, ?, ?, ?, ?)`
)

// QuestionDatabaseAdapter reads and writes questions together with their answers.
type QuestionDatabaseAdapter struct {
	db DBTX
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db DBTX) *QuestionDatabaseAdapter {
	return &QuestionDatabaseAdapter{db: db}
}

// GetByText returns the question with exactly this text and its ordered
// answers, or nil if there is none.
func (a *QuestionDatabaseAdapter) GetByText(ctx context.Context, text string) (*domain.Question, error) {
	var modelQuestion models.Question
	err := a.db.GetContext(ctx, &modelQuestion, a.db.Rebind(selectQuestionByHashQuery), util.TextHash(text))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by text: %w", err)
	}
	if modelQuestion.Text != text {
		// hash collision; the texts are different questions
		return nil, nil
	}

	var modelAnswers []models.Answer
	if err := a.db.SelectContext(ctx, &modelAnswers, a.db.Rebind(selectAnswersQuery), modelQuestion.ID); err != nil {
		return nil, fmt.Errorf("failed to get answers of question %s: %w", modelQuestion.ID, err)
	}
	return toDomainQuestion(&modelQuestion, modelAnswers), nil
}

// SaveQuestion inserts a question without an ID and updates one with an ID.
// In both cases the stored answers are replaced by question.Answers.
func (a *QuestionDatabaseAdapter) SaveQuestion(ctx context.Context, question *domain.Question) error {
	modelQuestion := toModelQuestion(question)
	if modelQuestion == nil {
		return fmt.Errorf("cannot save nil question")
	}
	now := time.Now()

	if modelQuestion.ID == "" {
		modelQuestion.ID = util.NewULID()
		modelQuestion.CreatedAt = now
		modelQuestion.UpdatedAt = now
		_, err := a.db.ExecContext(ctx, a.db.Rebind(insertQuestionQuery),
			modelQuestion.ID,
			modelQuestion.TextHash,
			modelQuestion.Text,
			modelQuestion.Type,
			modelQuestion.Difficulty,
			modelQuestion.Explanation,
			modelQuestion.ResourceURL,
			modelQuestion.SymfonyVersion,
			modelQuestion.CategoryID,
			modelQuestion.SubCategoryID,
			modelQuestion.CreatedAt,
			modelQuestion.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
		question.ID = modelQuestion.ID
		question.CreatedAt = now
	} else {
		result, err := a.db.ExecContext(ctx, a.db.Rebind(updateQuestionQuery),
			modelQuestion.Type,
			modelQuestion.Difficulty,
			modelQuestion.Explanation,
			modelQuestion.ResourceURL,
			modelQuestion.SymfonyVersion,
			modelQuestion.CategoryID,
			modelQuestion.SubCategoryID,
			now,
			modelQuestion.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update question %s: %w", modelQuestion.ID, err)
		}
		if err := expectOneRow(result, "question", modelQuestion.ID); err != nil {
			return err
		}
		if _, err := a.db.ExecContext(ctx, a.db.Rebind(deleteAnswersQuery), modelQuestion.ID); err != nil {
			return fmt.Errorf("failed to delete answers of question %s: %w", modelQuestion.ID, err)
		}
	}
	question.UpdatedAt = now

	for i := range question.Answers {
		answer := &question.Answers[i]
		answer.ID = util.NewULID()
		answer.QuestionID = question.ID
		answer.Position = i
		_, err := a.db.ExecContext(ctx, a.db.Rebind(insertAnswerQuery),
			answer.ID,
			answer.QuestionID,
			answer.Position,
			answer.Text,
			util.BoolToInt(answer.Correct),
		)
		if err != nil {
			return fmt.Errorf("failed to insert answer %d of question %s: %w", i, question.ID, err)
		}
	}
	return nil
}

func toDomainQuestion(q *models.Question, answers []models.Answer) *domain.Question {
	if q == nil {
		return nil
	}
	question := &domain.Question{
		ID:             q.ID,
		Text:           q.Text,
		Type:           domain.QuestionType(q.Type),
		Difficulty:     q.Difficulty,
		Explanation:    util.NullStringToString(q.Explanation),
		ResourceURL:    util.NullStringToString(q.ResourceURL),
		SymfonyVersion: util.NullStringToString(q.SymfonyVersion),
		CategoryID:     q.CategoryID,
		SubcategoryID:  q.SubCategoryID,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
		Answers:        make([]domain.Answer, 0, len(answers)),
	}
	for _, a := range answers {
		question.Answers = append(question.Answers, domain.Answer{
			ID:         a.ID,
			QuestionID: a.QuestionID,
			Position:   a.Position,
			Text:       a.Text,
			Correct:    a.IsCorrect != 0,
		})
	}
	return question
}

func toModelQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	return &models.Question{
		ID:             q.ID,
		TextHash:       util.TextHash(q.Text),
		Text:           q.Text,
		Type:           string(q.Type),
		Difficulty:     q.Difficulty,
		Explanation:    util.StringToNullString(q.Explanation),
		ResourceURL:    util.StringToNullString(q.ResourceURL),
		SymfonyVersion: util.StringToNullString(q.SymfonyVersion),
		CategoryID:     q.CategoryID,
		SubCategoryID:  q.SubcategoryID,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}
