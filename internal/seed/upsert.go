package seed

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"quiz-seed/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Upserter finds or creates entities by natural key within one batch session.
// Every upsert returns the entity to link against; in permissive mode an
// invalid record yields (nil, nil).
type Upserter struct {
	lookup     *Lookup
	session    domain.Session
	cache      *runCache
	policies   Policies
	mode       ValidationMode
	bcryptCost int
	log        *zap.Logger
	counts     Counts
}

func newUpserter(session domain.Session, cache *runCache, policies Policies, mode ValidationMode, bcryptCost int, log *zap.Logger) *Upserter {
	return &Upserter{
		lookup:     newLookup(session, cache),
		session:    session,
		cache:      cache,
		policies:   policies,
		mode:       mode,
		bcryptCost: bcryptCost,
		log:        log,
		counts:     Counts{},
	}
}

// Lookup exposes the natural-key lookup of the batch.
func (u *Upserter) Lookup() *Lookup { return u.lookup }

// Counts returns the outcomes recorded so far.
func (u *Upserter) Counts() Counts { return u.counts }

func (u *Upserter) Category(ctx context.Context, rec CategoryRecord) (*domain.Category, error) {
	key := domain.CategoryKey{Name: strings.TrimSpace(rec.Name)}
	if key.Name == "" {
		return nil, u.invalid(domain.KindCategory, domain.NewValidationError("category name is required"))
	}
	existing, err := u.lookup.Category(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		c, err := materializeCategory(rec)
		if err != nil {
			return nil, u.invalid(domain.KindCategory, err)
		}
		if err := u.session.SaveCategory(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to save category %q: %w", c.Name, err)
		}
		u.cache.putCategory(c)
		u.record(domain.KindCategory, Created)
		return c, nil
	}
	if u.policies.For(domain.KindCategory) == CreateOnly ||
		(existing.Description == rec.Description && existing.Icon == rec.Icon && existing.Color == rec.Color) {
		u.record(domain.KindCategory, Unchanged)
		return existing, nil
	}

	merged := *existing
	merged.Description = rec.Description
	merged.Icon = rec.Icon
	merged.Color = rec.Color
	if err := u.session.SaveCategory(ctx, &merged); err != nil {
		return nil, fmt.Errorf("failed to update category %q: %w", merged.Name, err)
	}
	u.cache.putCategory(&merged)
	u.record(domain.KindCategory, Updated)
	return &merged, nil
}

func (u *Upserter) Subcategory(ctx context.Context, category *domain.Category, rec SubcategoryRecord) (*domain.Subcategory, error) {
	if category == nil {
		return nil, u.invalid(domain.KindSubcategory, domain.NewValidationError(fmt.Sprintf("subcategory %q has no category", rec.Name)))
	}
	key := domain.SubcategoryKey{CategoryID: category.ID, Name: strings.TrimSpace(rec.Name)}
	if key.Name == "" {
		return nil, u.invalid(domain.KindSubcategory, domain.NewValidationError("subcategory name is required"))
	}
	existing, err := u.lookup.Subcategory(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		s, err := materializeSubcategory(category, rec)
		if err != nil {
			return nil, u.invalid(domain.KindSubcategory, err)
		}
		if err := u.session.SaveSubcategory(ctx, s); err != nil {
			return nil, fmt.Errorf("failed to save subcategory %q: %w", s.Name, err)
		}
		u.cache.putSubcategory(s)
		u.record(domain.KindSubcategory, Created)
		return s, nil
	}
	if u.policies.For(domain.KindSubcategory) == CreateOnly || existing.Description == rec.Description {
		u.record(domain.KindSubcategory, Unchanged)
		return existing, nil
	}

	merged := *existing
	merged.Description = rec.Description
	if err := u.session.SaveSubcategory(ctx, &merged); err != nil {
		return nil, fmt.Errorf("failed to update subcategory %q: %w", merged.Name, err)
	}
	u.cache.putSubcategory(&merged)
	u.record(domain.KindSubcategory, Updated)
	return &merged, nil
}

// Question upserts by text. Under Overwrite the existing question takes the
// record's fields and its answers are replaced as a whole.
func (u *Upserter) Question(ctx context.Context, rec QuestionRecord) (*domain.Question, error) {
	key := domain.QuestionKey{Text: strings.TrimSpace(rec.Text)}
	if key.Text == "" {
		return nil, u.invalid(domain.KindQuestion, domain.NewValidationError("question text is required"))
	}
	existing, err := u.lookup.Question(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil && u.policies.For(domain.KindQuestion) == CreateOnly {
		u.record(domain.KindQuestion, Unchanged)
		return existing, nil
	}

	q, err := materializeQuestion(rec)
	if err != nil {
		return nil, u.invalid(domain.KindQuestion, err)
	}
	outcome := Created
	if existing != nil {
		if existing.SameContent(q) {
			u.record(domain.KindQuestion, Unchanged)
			return existing, nil
		}
		q.ID = existing.ID
		q.CreatedAt = existing.CreatedAt
		outcome = Updated
	}
	if err := u.session.SaveQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to save question %q: %w", domain.Preview(q.Text), err)
	}
	u.cache.putQuestion(q)
	u.record(domain.KindQuestion, outcome)
	return q, nil
}

// User upserts by email. Under Overwrite the password is rehashed only when
// it no longer matches the stored hash.
func (u *Upserter) User(ctx context.Context, rec UserRecord) (*domain.User, error) {
	key := domain.UserKey{Email: domain.NormalizeEmail(rec.Email)}
	if key.Email == "" {
		return nil, u.invalid(domain.KindUser, domain.NewValidationError("user email is required"))
	}
	existing, err := u.lookup.User(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		user, err := materializeUser(rec, u.bcryptCost)
		if err != nil {
			return nil, u.invalid(domain.KindUser, err)
		}
		if err := u.session.SaveUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to save user %q: %w", user.Email, err)
		}
		u.cache.putUser(user)
		u.record(domain.KindUser, Created)
		return user, nil
	}
	if u.policies.For(domain.KindUser) == CreateOnly {
		u.record(domain.KindUser, Unchanged)
		return existing, nil
	}

	merged := *existing
	merged.Username = strings.TrimSpace(rec.Username)
	merged.Roles = domain.NormalizeRoles(rec.Roles)
	if rec.Password != "" && bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(rec.Password)) != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(rec.Password), u.bcryptCost)
		if err != nil {
			return nil, u.invalid(domain.KindUser, domain.NewValidationError(fmt.Sprintf("user %q: cannot hash password: %v", key.Email, err)))
		}
		merged.PasswordHash = string(hash)
	}
	if err := merged.Validate(); err != nil {
		return nil, u.invalid(domain.KindUser, err)
	}
	if merged.Username == existing.Username && merged.PasswordHash == existing.PasswordHash && slices.Equal(merged.Roles, existing.Roles) {
		u.record(domain.KindUser, Unchanged)
		return existing, nil
	}
	if err := u.session.SaveUser(ctx, &merged); err != nil {
		return nil, fmt.Errorf("failed to update user %q: %w", merged.Email, err)
	}
	u.cache.putUser(&merged)
	u.record(domain.KindUser, Updated)
	return &merged, nil
}

// RequireCategory returns the named category or a configuration error.
func (u *Upserter) RequireCategory(ctx context.Context, name string) (*domain.Category, error) {
	c, err := u.lookup.Category(ctx, domain.CategoryKey{Name: strings.TrimSpace(name)})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewConfigurationError(fmt.Sprintf("required category %q does not exist", name))
	}
	return c, nil
}

// RequireSubcategory returns the named subcategory of category or a configuration error.
func (u *Upserter) RequireSubcategory(ctx context.Context, category *domain.Category, name string) (*domain.Subcategory, error) {
	if category == nil {
		return nil, domain.NewConfigurationError(fmt.Sprintf("required subcategory %q has no category", name))
	}
	s, err := u.lookup.Subcategory(ctx, domain.SubcategoryKey{CategoryID: category.ID, Name: strings.TrimSpace(name)})
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NewConfigurationError(fmt.Sprintf("required subcategory %q of category %q does not exist", name, category.Name))
	}
	return s, nil
}

func (u *Upserter) invalid(kind domain.EntityKind, err error) error {
	if u.mode == Permissive && domain.IsValidationError(err) {
		u.log.Warn("Skipping invalid record", zap.String("kind", string(kind)), zap.Error(err))
		u.record(kind, Skipped)
		return nil
	}
	return err
}

func (u *Upserter) record(kind domain.EntityKind, outcome Outcome) {
	u.counts.add(kind, outcome)
	if outcome != Unchanged {
		u.log.Debug("Upserted record", zap.String("kind", string(kind)), zap.String("outcome", string(outcome)))
	}
}
