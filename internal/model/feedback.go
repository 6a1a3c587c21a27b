package model

import (
	"time"

	"github.com/uma-arai/sbcntr-eventwave/internal/common/models"
)

// ToFeedbackRecord はレビューを永続化用のレコードに変換します
func (r Review) ToFeedbackRecord(now time.Time) models.FeedbackRecord {
	return models.FeedbackRecord{
		EventID:    r.EventID,
		EventTitle: r.EventTitle,
		ReviewID:   r.ReviewID,
		UserName:   r.UserName,
		Rating:     r.Rating,
		Feedback:   r.Text(),
		ReviewedAt: r.CreatedAt.Time,
		CreatedAt:  now,
	}
}

// FeedbackDigest はStep Functionsに返却するイベントごとのダイジェストです
type FeedbackDigest struct {
	EventID       int64     `json:"event_id"`
	EventTitle    string    `json:"event_title"`
	ReviewCount   int       `json:"review_count"`
	AverageRating float64   `json:"average_rating"`
	LatestAt      time.Time `json:"latest_at"`
}

// NewFeedbackDigests はレビュー一覧からダイジェストを作成します
func NewFeedbackDigests(reviews []Review) []FeedbackDigest {
	titles := make(map[int64]string)
	latest := make(map[int64]time.Time)
	for _, review := range reviews {
		if review.EventTitle != "" {
			titles[review.EventID] = review.EventTitle
		}
		if review.CreatedAt.After(latest[review.EventID]) {
			latest[review.EventID] = review.CreatedAt.Time
		}
	}

	summaries := SummarizeReviews(reviews)
	digests := make([]FeedbackDigest, len(summaries))
	for i, summary := range summaries {
		digests[i] = FeedbackDigest{
			EventID:       summary.EventID,
			EventTitle:    titles[summary.EventID],
			ReviewCount:   summary.TotalReviews,
			AverageRating: summary.AverageRating,
			LatestAt:      latest[summary.EventID],
		}
	}
	return digests
}
