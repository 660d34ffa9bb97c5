package domain

import "context"

// EntityKind names the seeded entity types.
type EntityKind string

const (
	KindCategory    EntityKind = "category"
	KindSubcategory EntityKind = "subcategory"
	KindQuestion    EntityKind = "question"
	KindUser        EntityKind = "user"
)

// EntityKinds lists every kind in seeding order.
var EntityKinds = []EntityKind{KindCategory, KindSubcategory, KindUser, KindQuestion}

// Store opens sessions against the durable store.
type Store interface {
	Begin(ctx context.Context) (Session, error)
}

// Session is a unit of work. Save methods stage entities: they are visible to
// Find methods of the same session immediately, but durable only after Commit.
//
// Find methods return (nil, nil) when no entity matches the key.
// Save methods insert when the entity has no ID (assigning one) and update
// otherwise; SaveQuestion also replaces the question's answers.
type Session interface {
	FindCategory(ctx context.Context, key CategoryKey) (*Category, error)
	FindSubcategory(ctx context.Context, key SubcategoryKey) (*Subcategory, error)
	FindQuestion(ctx context.Context, key QuestionKey) (*Question, error)
	FindUser(ctx context.Context, key UserKey) (*User, error)

	SaveCategory(ctx context.Context, category *Category) error
	SaveSubcategory(ctx context.Context, subcategory *Subcategory) error
	SaveQuestion(ctx context.Context, question *Question) error
	SaveUser(ctx context.Context, user *User) error

	Commit() error
	Rollback() error
}
