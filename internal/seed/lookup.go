package seed

import (
	"context"
	"fmt"

	"quiz-seed/internal/domain"
)

// Lookup resolves entities by natural key, consulting the run cache before
// the session. It returns (nil, nil) when nothing matches.
type Lookup struct {
	session domain.Session
	cache   *runCache
}

func newLookup(session domain.Session, cache *runCache) *Lookup {
	return &Lookup{session: session, cache: cache}
}

func (l *Lookup) Category(ctx context.Context, key domain.CategoryKey) (*domain.Category, error) {
	if c := l.cache.category(key); c != nil {
		return c, nil
	}
	c, err := l.session.FindCategory(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category %q: %w", key.Name, err)
	}
	if c != nil {
		l.cache.putCategory(c)
	}
	return c, nil
}

func (l *Lookup) Subcategory(ctx context.Context, key domain.SubcategoryKey) (*domain.Subcategory, error) {
	if s := l.cache.subcategory(key); s != nil {
		return s, nil
	}
	s, err := l.session.FindSubcategory(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up subcategory %q: %w", key.Name, err)
	}
	if s != nil {
		l.cache.putSubcategory(s)
	}
	return s, nil
}

func (l *Lookup) Question(ctx context.Context, key domain.QuestionKey) (*domain.Question, error) {
	if q := l.cache.question(key); q != nil {
		return q, nil
	}
	q, err := l.session.FindQuestion(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up question %q: %w", domain.Preview(key.Text), err)
	}
	if q != nil {
		l.cache.putQuestion(q)
	}
	return q, nil
}

func (l *Lookup) User(ctx context.Context, key domain.UserKey) (*domain.User, error) {
	if u := l.cache.user(key); u != nil {
		return u, nil
	}
	u, err := l.session.FindUser(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %q: %w", key.Email, err)
	}
	if u != nil {
		l.cache.putUser(u)
	}
	return u, nil
}
