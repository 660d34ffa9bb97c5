package models

import (
	"database/sql"
	"time"
)

// Question maps the questions table. TextHash carries the unique index.
type Question struct {
	ID             string         `db:"id"`
	TextHash       string         `db:"text_hash"`
	Text           string         `db:"text"`
	Type           string         `db:"question_type"`
	Difficulty     int            `db:"difficulty"`
	Explanation    sql.NullString `db:"explanation"`
	ResourceURL    sql.NullString `db:"resource_url"`
	SymfonyVersion sql.NullString `db:"symfony_version"`
	CategoryID     string         `db:"category_id"`
	SubCategoryID  string         `db:"sub_category_id"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// Answer maps the answers table. IsCorrect is 0/1.
type Answer struct {
	ID         string `db:"id"`
	QuestionID string `db:"question_id"`
	Position   int    `db:"position"`
	Text       string `db:"text"`
	IsCorrect  int    `db:"is_correct"`
}

func (Answer) TableName() string {
	return "answers"
}
