package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

type ReviewService interface {
	ForEvent(ctx context.Context, eventID int64) ([]model.Review, error)
	ForOrganizerEvent(ctx context.Context, eventID int64) ([]model.Review, error)
	Submit(ctx context.Context, eventID int64, input model.ReviewInput) (*model.Review, error)
	Summary(ctx context.Context, eventID int64) (*model.ReviewSummary, error)
}

type ReviewServiceImpl struct {
	gw gateway.Requester
}

func NewReviewService(gw gateway.Requester) *ReviewServiceImpl {
	return &ReviewServiceImpl{gw: gw}
}

// ForEvent は参加者向けのパスでイベントのレビューを取得します
func (s *ReviewServiceImpl) ForEvent(ctx context.Context, eventID int64) ([]model.Review, error) {
	return s.listReviews(ctx, eventPath(attendeeEventsPath, eventID)+"/reviews", eventID)
}

// ForOrganizerEvent は主催者向けのパスでイベントのレビューを取得します
func (s *ReviewServiceImpl) ForOrganizerEvent(ctx context.Context, eventID int64) ([]model.Review, error) {
	return s.listReviews(ctx, eventPath(organizerEventsPath, eventID)+"/reviews", eventID)
}

// Submit はレビューを投稿します
func (s *ReviewServiceImpl) Submit(ctx context.Context, eventID int64, input model.ReviewInput) (*model.Review, error) {
	var review model.Review
	if err := s.gw.Do(ctx, http.MethodPost, eventPath(attendeeEventsPath, eventID)+"/reviews", nil, input, &review); err != nil {
		return nil, fmt.Errorf("failed to submit review for event %d: %w", eventID, err)
	}
	return &review, nil
}

// Summary はイベントのレビュー集計を取得します
func (s *ReviewServiceImpl) Summary(ctx context.Context, eventID int64) (*model.ReviewSummary, error) {
	var summary model.ReviewSummary
	if err := s.gw.Do(ctx, http.MethodGet, eventPath(organizerEventsPath, eventID)+"/reviews/summary", nil, nil, &summary); err != nil {
		return nil, fmt.Errorf("failed to get review summary for event %d: %w", eventID, err)
	}
	return &summary, nil
}

func (s *ReviewServiceImpl) listReviews(ctx context.Context, path string, eventID int64) ([]model.Review, error) {
	var reviews []model.Review
	if err := s.gw.Do(ctx, http.MethodGet, path, nil, nil, &reviews); err != nil {
		return nil, fmt.Errorf("failed to list reviews for event %d: %w", eventID, err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}
