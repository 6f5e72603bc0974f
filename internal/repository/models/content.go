package models

import (
	"database/sql"
	"time"
)

// Topic is the topics table row.
type Topic struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	Content   string         `db:"content"`
	OrderNum  int            `db:"order_num"`
	CreatedBy sql.NullString `db:"created_by"` // NULL for ownerless topics
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// Question is the questions table row. The four options are flat columns.
type Question struct {
	ID          string         `db:"id"`
	TopicID     string         `db:"topic_id"`
	Text        string         `db:"text"`
	Option1     string         `db:"option_1"`
	Option2     string         `db:"option_2"`
	Option3     string         `db:"option_3"`
	Option4     string         `db:"option_4"`
	Correct     string         `db:"correct"`
	Explanation string         `db:"explanation"`
	Difficulty  string         `db:"difficulty"`
	CreatedBy   sql.NullString `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
}
