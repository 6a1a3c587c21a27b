package models

import "time"

// FeedbackRecord はfeedback_recordsテーブルの1行を表す構造体です
// (event_id, review_id) の組で一意です
type FeedbackRecord struct {
	ID         int64     `db:"id" json:"id"`
	EventID    int64     `db:"event_id" json:"event_id"`
	EventTitle string    `db:"event_title" json:"event_title"`
	ReviewID   int64     `db:"review_id" json:"review_id"`
	UserName   string    `db:"user_name" json:"user_name"`
	Rating     int       `db:"rating" json:"rating"`
	Feedback   string    `db:"feedback" json:"feedback"`
	ReviewedAt time.Time `db:"reviewed_at" json:"reviewed_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
