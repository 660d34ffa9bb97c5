package seed

import "quiz-seed/internal/domain"

type cacheLayer struct {
	categories    map[domain.CategoryKey]*domain.Category
	subcategories map[domain.SubcategoryKey]*domain.Subcategory
	questions     map[domain.QuestionKey]*domain.Question
	users         map[domain.UserKey]*domain.User
}

func newCacheLayer() cacheLayer {
	return cacheLayer{
		categories:    map[domain.CategoryKey]*domain.Category{},
		subcategories: map[domain.SubcategoryKey]*domain.Subcategory{},
		questions:     map[domain.QuestionKey]*domain.Question{},
		users:         map[domain.UserKey]*domain.User{},
	}
}

// runCache remembers entities resolved during a run. Entries of the running
// batch stay pending until its session commits; they are dropped on rollback
// so a lookup never returns a row that was never persisted.
//
// Cached entities are never mutated in place. Overwrites store a new value.
type runCache struct {
	committed cacheLayer
	pending   cacheLayer
}

func newRunCache() *runCache {
	return &runCache{committed: newCacheLayer(), pending: newCacheLayer()}
}

func (c *runCache) category(key domain.CategoryKey) *domain.Category {
	if v, ok := c.pending.categories[key]; ok {
		return v
	}
	return c.committed.categories[key]
}

func (c *runCache) subcategory(key domain.SubcategoryKey) *domain.Subcategory {
	if v, ok := c.pending.subcategories[key]; ok {
		return v
	}
	return c.committed.subcategories[key]
}

func (c *runCache) question(key domain.QuestionKey) *domain.Question {
	if v, ok := c.pending.questions[key]; ok {
		return v
	}
	return c.committed.questions[key]
}

func (c *runCache) user(key domain.UserKey) *domain.User {
	if v, ok := c.pending.users[key]; ok {
		return v
	}
	return c.committed.users[key]
}

func (c *runCache) putCategory(v *domain.Category) { c.pending.categories[v.Key()] = v }
func (c *runCache) putSubcategory(v *domain.Subcategory) { c.pending.subcategories[v.Key()] = v }
func (c *runCache) putQuestion(v *domain.Question) { c.pending.questions[v.Key()] = v }
func (c *runCache) putUser(v *domain.User) { c.pending.users[v.Key()] = v }

// promote moves pending entries into the committed layer.
func (c *runCache) promote() {
	for k, v := range c.pending.categories {
		c.committed.categories[k] = v
	}
	for k, v := range c.pending.subcategories {
		c.committed.subcategories[k] = v
	}
	for k, v := range c.pending.questions {
		c.committed.questions[k] = v
	}
	for k, v := range c.pending.users {
		c.committed.users[k] = v
	}
	c.pending = newCacheLayer()
}

// discard drops pending entries.
func (c *runCache) discard() {
	c.pending = newCacheLayer()
}
