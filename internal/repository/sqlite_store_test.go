package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"quiz-seed/internal/config"
	"quiz-seed/internal/database"
	"quiz-seed/internal/domain"
	"quiz-seed/internal/repository"
	"quiz-seed/internal/seed"
	"quiz-seed/internal/seedfile"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

func openMigratedSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	cfg := &config.Config{DB: config.DBConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "quiz.db")}}
	db, err := database.Open(context.Background(), cfg.DB.Driver, cfg.GetDSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func rowCounts(t *testing.T, db *sqlx.DB) map[string]int {
	t.Helper()
	counts := make(map[string]int)
	for _, table := range []string{"categories", "sub_categories", "questions", "answers", "users"} {
		var n int
		require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
		counts[table] = n
	}
	return counts
}

func loadDir(t *testing.T, dir string) []seed.Batch {
	t.Helper()
	batches, err := seedfile.NewLoader(zaptest.NewLogger(t)).LoadDir(context.Background(), dir)
	require.NoError(t, err)
	return batches
}

func writeSeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func newRunner(t *testing.T, db *sqlx.DB, opts ...seed.Option) *seed.Runner {
	opts = append([]seed.Option{seed.WithBcryptCost(bcrypt.MinCost)}, opts...)
	return seed.NewRunner(repository.NewSQLStore(db), zaptest.NewLogger(t), opts...)
}

func TestSQLStore_SampleDataIsIdempotent(t *testing.T) {
	db := openMigratedSQLite(t)
	batches := loadDir(t, filepath.Join("..", "..", "configs", "seed_data"))
	runner := newRunner(t, db)
	ctx := context.Background()

	first, err := runner.Run(ctx, batches)
	require.NoError(t, err)
	want := map[string]int{"categories": 2, "sub_categories": 4, "questions": 5, "answers": 16, "users": 2}
	assert.Equal(t, want, rowCounts(t, db))
	assert.Equal(t, 5, first.Totals().Get(domain.KindQuestion, seed.Created))

	second, err := runner.Run(ctx, batches)
	require.NoError(t, err)
	assert.Equal(t, want, rowCounts(t, db))
	assert.Equal(t, 5, second.Totals().Get(domain.KindQuestion, seed.Unchanged))
	assert.Equal(t, 2, second.Totals().Get(domain.KindUser, seed.Unchanged))
	assert.Equal(t, []string{"base", "php", "symfony"}, second.InState(seed.StateCommitted))

	// the Container question lands in Dependency Injection through the fallback
	var sub string
	require.NoError(t, db.Get(&sub, `SELECT s.name FROM questions q JOIN sub_categories s ON s.id = q.sub_category_id WHERE q.text LIKE 'Which attribute excludes%'`))
	assert.Equal(t, "Dependency Injection", sub)

	var hash string
	require.NoError(t, db.Get(&hash, `SELECT password_hash FROM users WHERE email = 'admin@quiz.local'`))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("change-me-admin")))
}

const baseFile = `
name: base
categories:
  - name: PHP
subcategories:
  - category: PHP
    name: Basics
`

func TestSQLStore_OverwriteReplacesAnswers(t *testing.T) {
	db := openMigratedSQLite(t)
	dir := t.TempDir()
	ctx := context.Background()
	writeSeedFile(t, dir, "01_base.yaml", baseFile)
	writeSeedFile(t, dir, "02_questions.yaml", `
name: questions
depends_on: [base]
questions:
  - category: PHP
    subcategory: Basics
    text: What does strlen return for an empty string?
    type: single_choice
    difficulty: 1
    answers:
      - { text: "0", correct: true }
      - { text: "null", correct: false }
      - { text: "false", correct: false }
`)
	_, err := newRunner(t, db).Run(ctx, loadDir(t, dir))
	require.NoError(t, err)

	writeSeedFile(t, dir, "02_questions.yaml", `
name: questions
depends_on: [base]
questions:
  - category: PHP
    subcategory: Basics
    text: What does strlen return for an empty string?
    type: single_choice
    difficulty: 2
    explanation: strlen counts bytes.
    answers:
      - { text: "int(0)", correct: true }
      - { text: "int(-1)", correct: false }
`)
	report, err := newRunner(t, db).Run(ctx, loadDir(t, dir))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Totals().Get(domain.KindQuestion, seed.Updated))

	type answerRow struct {
		Position  int    `db:"position"`
		Text      string `db:"text"`
		IsCorrect int    `db:"is_correct"`
	}
	var answers []answerRow
	require.NoError(t, db.Select(&answers, `SELECT a.position, a.text, a.is_correct FROM answers a JOIN questions q ON q.id = a.question_id ORDER BY a.position`))
	assert.Equal(t, []answerRow{{0, "int(0)", 1}, {1, "int(-1)", 0}}, answers)

	var q struct {
		Difficulty  int    `db:"difficulty"`
		Explanation string `db:"explanation"`
	}
	require.NoError(t, db.Get(&q, `SELECT difficulty, explanation FROM questions`))
	assert.Equal(t, 2, q.Difficulty)
	assert.Equal(t, "strlen counts bytes.", q.Explanation)
	assert.Equal(t, 1, rowCounts(t, db)["questions"])
}

func TestSQLStore_FailedBatchLeavesNoRows(t *testing.T) {
	db := openMigratedSQLite(t)
	dir := t.TempDir()
	writeSeedFile(t, dir, "01_base.yaml", baseFile)
	writeSeedFile(t, dir, "02_broken.yaml", `
name: broken
depends_on: [base]
questions:
  - category: PHP
    subcategory: Basics
    text: Is PHP dynamically typed?
    type: true_false
    difficulty: 1
    answers:
      - { text: "True", correct: true }
      - { text: "False", correct: false }
  - category: Laravel
    subcategory: Eloquent
    text: What does Model::find return when nothing matches?
    type: single_choice
    difficulty: 1
    answers:
      - { text: "null", correct: true }
      - { text: "an exception", correct: false }
`)

	report, err := newRunner(t, db).Run(context.Background(), loadDir(t, dir))
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
	assert.Equal(t, []string{"base"}, report.InState(seed.StateCommitted))
	assert.Equal(t, []string{"broken"}, report.InState(seed.StateFailed))

	counts := rowCounts(t, db)
	assert.Equal(t, 1, counts["categories"])
	assert.Equal(t, 0, counts["questions"])
	assert.Equal(t, 0, counts["answers"])
}
