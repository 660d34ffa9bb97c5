// Package memory provides an in-memory transactional store. Sessions stage
// their writes in an overlay that is merged into the committed state on
// Commit and dropped on Rollback. Entities are copied in and out so callers
// never alias stored state.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"quiz-seed/internal/domain"
	"quiz-seed/internal/util"
)

var _ domain.Store = (*Store)(nil)

// ErrSessionClosed is returned when a session is used after Commit or Rollback.
var ErrSessionClosed = errors.New("memory: session already closed")

type state struct {
	categories    map[domain.CategoryKey]domain.Category
	subcategories map[domain.SubcategoryKey]domain.Subcategory
	questions     map[domain.QuestionKey]domain.Question
	users         map[domain.UserKey]domain.User
}

func newState() state {
	return state{
		categories:    map[domain.CategoryKey]domain.Category{},
		subcategories: map[domain.SubcategoryKey]domain.Subcategory{},
		questions:     map[domain.QuestionKey]domain.Question{},
		users:         map[domain.UserKey]domain.User{},
	}
}

// Store is an in-memory domain.Store.
type Store struct {
	mu        sync.RWMutex
	committed state
	commits   int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{committed: newState()}
}

// Begin opens a session staging writes until Commit.
func (s *Store) Begin(_ context.Context) (domain.Session, error) {
	return &session{store: s, staged: newState()}, nil
}

// Counts returns committed rows per kind; answers are reported under "answer".
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answers := 0
	for _, q := range s.committed.questions {
		answers += len(q.Answers)
	}
	return map[string]int{
		string(domain.KindCategory):    len(s.committed.categories),
		string(domain.KindSubcategory): len(s.committed.subcategories),
		string(domain.KindQuestion):    len(s.committed.questions),
		string(domain.KindUser):        len(s.committed.users),
		"answer":                       answers,
	}
}

// Commits returns how many sessions have been committed.
func (s *Store) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// Questions returns copies of every committed question ordered by text.
func (s *Store) Questions() []domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0, len(s.committed.questions))
	for _, q := range s.committed.questions {
		out = append(out, cloneQuestion(q))
	}
	slices.SortFunc(out, func(a, b domain.Question) int {
		switch {
		case a.Text < b.Text:
			return -1
		case a.Text > b.Text:
			return 1
		}
		return 0
	})
	return out
}

// Subcategories returns copies of every committed subcategory.
func (s *Store) Subcategories() []domain.Subcategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Subcategory, 0, len(s.committed.subcategories))
	for _, sc := range s.committed.subcategories {
		out = append(out, sc)
	}
	return out
}

type session struct {
	store  *Store
	staged state
	closed bool
}

func (t *session) FindCategory(_ context.Context, key domain.CategoryKey) (*domain.Category, error) {
	if t.closed {
		return nil, ErrSessionClosed
	}
	if c, ok := t.staged.categories[key]; ok {
		return &c, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if c, ok := t.store.committed.categories[key]; ok {
		return &c, nil
	}
	return nil, nil
}

func (t *session) FindSubcategory(_ context.Context, key domain.SubcategoryKey) (*domain.Subcategory, error) {
	if t.closed {
		return nil, ErrSessionClosed
	}
	if sc, ok := t.staged.subcategories[key]; ok {
		return &sc, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if sc, ok := t.store.committed.subcategories[key]; ok {
		return &sc, nil
	}
	return nil, nil
}

func (t *session) FindQuestion(_ context.Context, key domain.QuestionKey) (*domain.Question, error) {
	if t.closed {
		return nil, ErrSessionClosed
	}
	if q, ok := t.staged.questions[key]; ok {
		c := cloneQuestion(q)
		return &c, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if q, ok := t.store.committed.questions[key]; ok {
		c := cloneQuestion(q)
		return &c, nil
	}
	return nil, nil
}

func (t *session) FindUser(_ context.Context, key domain.UserKey) (*domain.User, error) {
	if t.closed {
		return nil, ErrSessionClosed
	}
	if u, ok := t.staged.users[key]; ok {
		c := cloneUser(u)
		return &c, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if u, ok := t.store.committed.users[key]; ok {
		c := cloneUser(u)
		return &c, nil
	}
	return nil, nil
}

func (t *session) SaveCategory(_ context.Context, c *domain.Category) error {
	if t.closed {
		return ErrSessionClosed
	}
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	t.staged.categories[c.Key()] = *c
	return nil
}

func (t *session) SaveSubcategory(_ context.Context, sc *domain.Subcategory) error {
	if t.closed {
		return ErrSessionClosed
	}
	stamp(&sc.ID, &sc.CreatedAt, &sc.UpdatedAt)
	t.staged.subcategories[sc.Key()] = *sc
	return nil
}

func (t *session) SaveQuestion(_ context.Context, q *domain.Question) error {
	if t.closed {
		return ErrSessionClosed
	}
	stamp(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	for i := range q.Answers {
		q.Answers[i].ID = util.NewULID()
		q.Answers[i].QuestionID = q.ID
		q.Answers[i].Position = i
	}
	t.staged.questions[q.Key()] = cloneQuestion(*q)
	return nil
}

func (t *session) SaveUser(_ context.Context, u *domain.User) error {
	if t.closed {
		return ErrSessionClosed
	}
	stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	t.staged.users[u.Key()] = cloneUser(*u)
	return nil
}

func (t *session) Commit() error {
	if t.closed {
		return ErrSessionClosed
	}
	t.closed = true
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range t.staged.categories {
		s.committed.categories[k] = v
	}
	for k, v := range t.staged.subcategories {
		s.committed.subcategories[k] = v
	}
	for k, v := range t.staged.questions {
		s.committed.questions[k] = v
	}
	for k, v := range t.staged.users {
		s.committed.users[k] = v
	}
	s.commits++
	return nil
}

func (t *session) Rollback() error {
	if t.closed {
		return ErrSessionClosed
	}
	t.closed = true
	t.staged = newState()
	return nil
}

func stamp(id *string, createdAt, updatedAt *time.Time) {
	now := time.Now()
	if *id == "" {
		*id = util.NewULID()
		*createdAt = now
	}
	*updatedAt = now
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Answers = slices.Clone(q.Answers)
	return q
}

func cloneUser(u domain.User) domain.User {
	u.Roles = slices.Clone(u.Roles)
	return u
}
