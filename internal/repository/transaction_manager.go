package repository

import (
	"context"

	"quiz-seed/internal/domain"

	"github.com/jmoiron/sqlx"
)

var _ domain.Store = (*SQLStore)(nil)

// SQLStore opens one database transaction per seeding session.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore creates a store over an open connection pool.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Begin starts a transaction; every Find and Save of the session runs inside it.
func (s *SQLStore) Begin(ctx context.Context) (domain.Session, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to begin transaction", err)
	}
	return &sqlSession{
		tx:         tx,
		categories: NewCategoryDatabaseAdapter(tx),
		questions:  NewQuestionDatabaseAdapter(tx),
		users:      NewUserDatabaseAdapter(tx),
	}, nil
}

type sqlSession struct {
	tx         *sqlx.Tx
	categories *CategoryDatabaseAdapter
	questions  *QuestionDatabaseAdapter
	users      *UserDatabaseAdapter
}

func (s *sqlSession) FindCategory(ctx context.Context, key domain.CategoryKey) (*domain.Category, error) {
	c, err := s.categories.GetByName(ctx, key.Name)
	if err != nil {
		return nil, domain.NewPersistenceError("find category", err)
	}
	return c, nil
}

func (s *sqlSession) FindSubcategory(ctx context.Context, key domain.SubcategoryKey) (*domain.Subcategory, error) {
	sc, err := s.categories.GetByNameAndCategoryID(ctx, key.Name, key.CategoryID)
	if err != nil {
		return nil, domain.NewPersistenceError("find subcategory", err)
	}
	return sc, nil
}

func (s *sqlSession) FindQuestion(ctx context.Context, key domain.QuestionKey) (*domain.Question, error) {
	q, err := s.questions.GetByText(ctx, key.Text)
	if err != nil {
		return nil, domain.NewPersistenceError("find question", err)
	}
	return q, nil
}

func (s *sqlSession) FindUser(ctx context.Context, key domain.UserKey) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, key.Email)
	if err != nil {
		return nil, domain.NewPersistenceError("find user", err)
	}
	return u, nil
}

func (s *sqlSession) SaveCategory(ctx context.Context, category *domain.Category) error {
	if err := s.categories.SaveCategory(ctx, category); err != nil {
		return domain.NewPersistenceError("save category", err)
	}
	return nil
}

func (s *sqlSession) SaveSubcategory(ctx context.Context, subcategory *domain.Subcategory) error {
	if err := s.categories.SaveSubCategory(ctx, subcategory); err != nil {
		return domain.NewPersistenceError("save subcategory", err)
	}
	return nil
}

func (s *sqlSession) SaveQuestion(ctx context.Context, question *domain.Question) error {
	if err := s.questions.SaveQuestion(ctx, question); err != nil {
		return domain.NewPersistenceError("save question", err)
	}
	return nil
}

func (s *sqlSession) SaveUser(ctx context.Context, user *domain.User) error {
	if err := s.users.SaveUser(ctx, user); err != nil {
		return domain.NewPersistenceError("save user", err)
	}
	return nil
}

func (s *sqlSession) Commit() error {
	if err := s.tx.Commit(); err != nil {
		return domain.NewPersistenceError("failed to commit transaction", err)
	}
	return nil
}

func (s *sqlSession) Rollback() error {
	if err := s.tx.Rollback(); err != nil {
		return domain.NewPersistenceError("failed to rollback transaction", err)
	}
	return nil
}
