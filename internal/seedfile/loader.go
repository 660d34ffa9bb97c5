package seedfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quiz-seed/internal/domain"
	"quiz-seed/internal/seed"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader turns seed files into batches.
type Loader struct {
	log *zap.Logger
}

func NewLoader(log *zap.Logger) *Loader {
	return &Loader{log: log}
}

// LoadDir parses every seed file in dir concurrently. Batches are declared in
// lexical file name order regardless of parse completion order.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]seed.Batch, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.NewConfigurationError(fmt.Sprintf("cannot read seed directory %s: %v", dir, err))
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && FormatOf(e.Name()) != "" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, domain.NewConfigurationError(fmt.Sprintf("no seed files found in %s", dir))
	}

	files := make([]*File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := ParseFile(path)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batches := make([]seed.Batch, len(files))
	for i, f := range files {
		batches[i] = l.Batch(f)
		l.log.Debug("Loaded seed file",
			zap.String("path", paths[i]),
			zap.String("batch", f.Name),
			zap.Int("questions", len(f.Questions)))
	}
	return batches, nil
}

// Batch wraps a parsed file as a seed batch.
func (l *Loader) Batch(f *File) seed.Batch {
	return seed.Batch{
		Name:      f.Name,
		DependsOn: f.DependsOn,
		Groups:    f.Groups,
		Load: func(ctx context.Context, u *seed.Upserter) error {
			return l.apply(ctx, f, u)
		},
	}
}

// apply upserts the sections of f in order: categories, subcategories,
// users, questions.
func (l *Loader) apply(ctx context.Context, f *File, u *seed.Upserter) error {
	for _, c := range f.Categories {
		if _, err := u.Category(ctx, seed.CategoryRecord{Name: c.Name, Description: c.Description, Icon: c.Icon, Color: c.Color}); err != nil {
			return err
		}
	}
	for _, s := range f.Subcategories {
		cat, err := u.RequireCategory(ctx, s.Category)
		if err != nil {
			return err
		}
		if _, err := u.Subcategory(ctx, cat, seed.SubcategoryRecord{Name: s.Name, Description: s.Description}); err != nil {
			return err
		}
	}
	for _, usr := range f.Users {
		if _, err := u.User(ctx, seed.UserRecord{Email: usr.Email, Username: usr.Username, Password: usr.Password, Roles: usr.Roles}); err != nil {
			return err
		}
	}
	for _, q := range f.Questions {
		cat, err := u.RequireCategory(ctx, q.Category)
		if err != nil {
			return err
		}
		sub, err := l.resolveSubcategory(ctx, f, u, cat, q.Subcategory)
		if err != nil {
			return err
		}
		rec := seed.QuestionRecord{
			Category:       cat,
			Subcategory:    sub,
			Text:           q.Text,
			Type:           q.Type,
			Difficulty:     q.Difficulty,
			Explanation:    q.Explanation,
			ResourceURL:    q.ResourceURL,
			SymfonyVersion: q.SymfonyVersion,
			Answers:        make([]seed.AnswerRecord, len(q.Answers)),
		}
		for i, a := range q.Answers {
			rec.Answers[i] = seed.AnswerRecord{Text: a.Text, Correct: a.Correct}
		}
		if _, err := u.Question(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// resolveSubcategory finds the named subcategory, falling back to an explicit
// subcategory_fallbacks entry when it does not exist.
func (l *Loader) resolveSubcategory(ctx context.Context, f *File, u *seed.Upserter, cat *domain.Category, name string) (*domain.Subcategory, error) {
	name = strings.TrimSpace(name)
	sub, err := u.Lookup().Subcategory(ctx, domain.SubcategoryKey{CategoryID: cat.ID, Name: name})
	if err != nil || sub != nil {
		return sub, err
	}
	fallback := f.fallbackFor(cat.Name, name)
	if fallback == "" {
		return u.RequireSubcategory(ctx, cat, name)
	}
	l.log.Warn("Subcategory missing, using fallback",
		zap.String("batch", f.Name),
		zap.String("category", cat.Name),
		zap.String("subcategory", name),
		zap.String("fallback", fallback))
	return u.RequireSubcategory(ctx, cat, fallback)
}
