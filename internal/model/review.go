package model

import (
	"sort"
)

// Review はイベントに対するレビューです
// 一覧の順序はサーバーが決めます
type Review struct {
	ReviewID   int64         `json:"reviewId,omitempty"`
	EventID    int64         `json:"eventId"`
	UserID     int64         `json:"userId,omitempty"`
	UserName   string        `json:"userName"`
	Rating     int           `json:"rating,omitempty"`
	Feedback   string        `json:"feedback,omitempty"`
	Comment    string        `json:"comment,omitempty"`
	CreatedAt  LocalDateTime `json:"createdAt"`
	EventTitle string        `json:"eventTitle,omitempty"`
}

// Text はレビュー本文を返します
// feedback を優先し、無い場合は comment を使います
func (r Review) Text() string {
	if r.Feedback != "" {
		return r.Feedback
	}
	return r.Comment
}

// ReviewInput はレビュー投稿のリクエストボディです
type ReviewInput struct {
	Rating   int    `json:"rating,omitempty"`
	Feedback string `json:"feedback"`
}

// ReviewSummary はイベントごとのレビュー集計です
type ReviewSummary struct {
	EventID       int64   `json:"eventId"`
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

// SortReviewsNewestFirst は作成日時の降順に並べ替えた新しいスライスを返します
// 同じ日時のレビューは元の順序を保ちます
func SortReviewsNewestFirst(reviews []Review) []Review {
	out := make([]Review, len(reviews))
	copy(out, reviews)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt.Time)
	})
	return out
}

// SummarizeReviews はレビュー一覧からイベントごとの集計を作成します
// 結果はイベントIDの昇順です
func SummarizeReviews(reviews []Review) []ReviewSummary {
	type acc struct {
		total int
		rated int
		sum   int
	}
	byEvent := make(map[int64]*acc)
	for _, review := range reviews {
		a, ok := byEvent[review.EventID]
		if !ok {
			a = &acc{}
			byEvent[review.EventID] = a
		}
		a.total++
		if review.Rating > 0 {
			a.rated++
			a.sum += review.Rating
		}
	}

	summaries := make([]ReviewSummary, 0, len(byEvent))
	for eventID, a := range byEvent {
		summary := ReviewSummary{EventID: eventID, TotalReviews: a.total}
		if a.rated > 0 {
			summary.AverageRating = float64(a.sum) / float64(a.rated)
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].EventID < summaries[j].EventID
	})
	return summaries
}
