package seed

import (
	"context"
	"sync"
	"time"

	"quiz-seed/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockSession ---
type MockSession struct {
	mock.Mock
}

func (m *MockSession) FindCategory(ctx context.Context, key domain.CategoryKey) (*domain.Category, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockSession) FindSubcategory(ctx context.Context, key domain.SubcategoryKey) (*domain.Subcategory, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subcategory), args.Error(1)
}

func (m *MockSession) FindQuestion(ctx context.Context, key domain.QuestionKey) (*domain.Question, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockSession) FindUser(ctx context.Context, key domain.UserKey) (*domain.User, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockSession) SaveCategory(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockSession) SaveSubcategory(ctx context.Context, s *domain.Subcategory) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSession) SaveQuestion(ctx context.Context, q *domain.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockSession) SaveUser(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockSession) Commit() error {
	return m.Called().Error(0)
}

func (m *MockSession) Rollback() error {
	return m.Called().Error(0)
}

// --- MockStore ---
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Begin(ctx context.Context) (domain.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Session), args.Error(1)
}

// recordingStore wraps a store and appends to a shared event log on commit
// and rollback, so tests can check the order in which batches ran.
type recordingStore struct {
	inner  domain.Store
	mu     sync.Mutex
	events []string
}

func (r *recordingStore) Begin(ctx context.Context) (domain.Session, error) {
	s, err := r.inner.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &recordingSession{Session: s, store: r}, nil
}

func (r *recordingStore) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingStore) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type recordingSession struct {
	domain.Session
	store *recordingStore
}

func (s *recordingSession) Commit() error {
	s.store.record("commit")
	return s.Session.Commit()
}

func (s *recordingSession) Rollback() error {
	s.store.record("rollback")
	return s.Session.Rollback()
}

type fakeLock struct {
	acquireErr error
	refreshErr error
	acquired   int
	refreshed  int
	released   int
}

func (l *fakeLock) Acquire(context.Context) error {
	if l.acquireErr != nil {
		return l.acquireErr
	}
	l.acquired++
	return nil
}

func (l *fakeLock) Refresh(context.Context) error {
	if l.refreshErr != nil {
		return l.refreshErr
	}
	l.refreshed++
	return nil
}

func (l *fakeLock) Release(context.Context) error {
	l.released++
	return nil
}

type fakeObserver struct {
	records map[string]int
	batches map[string]int
}

func newFakeObserver() *fakeObserver {
	return &fakeObserver{records: map[string]int{}, batches: map[string]int{}}
}

func (o *fakeObserver) ObserveRecords(kind, outcome string, n int) {
	o.records[kind+"/"+outcome] += n
}

func (o *fakeObserver) ObserveBatch(state string, _ time.Duration) {
	o.batches[state]++
}
