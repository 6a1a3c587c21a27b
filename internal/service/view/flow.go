package view

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/uma-arai/sbcntr-eventwave/internal/api"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
	"golang.org/x/sync/errgroup"
)

// EventDetails はイベント詳細画面のデータです
type EventDetails struct {
	Event   model.Event
	Reviews []model.Review
}

// RoleSource はログイン中のロールを返します
type RoleSource interface {
	Role() (model.Role, error)
}

type FlowService struct {
	events        api.EventService
	organizer     api.OrganizerService
	reviews       api.ReviewService
	registrations api.RegistrationService
	users         api.UserService
}

func NewFlowService(services *api.Services) *FlowService {
	return &FlowService{
		events:        services.Events,
		organizer:     services.Organizer,
		reviews:       services.Reviews,
		registrations: services.Registrations,
		users:         services.Users,
	}
}

// Unregister はプロフィールを取得してから参加登録を解除します
// 2つの呼び出しは必ず順番に実行します
func (s *FlowService) Unregister(ctx context.Context, eventID int64) (string, error) {
	profile, err := s.users.Me(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve current user: %w", err)
	}

	message, err := s.registrations.Unregister(ctx, model.NewUnregistration(*profile, eventID))
	if err != nil {
		return "", err
	}
	return message, nil
}

// EventDetails はイベントとレビューを並行して取得します
// 両方が成功した場合だけ結果を返します
// 片方が失敗しても送信済みのもう片方は取り消さず、完了を待ちます
func (s *FlowService) EventDetails(ctx context.Context, eventID int64) (*EventDetails, error) {
	var (
		event   *model.Event
		reviews []model.Review
	)

	var eg errgroup.Group
	eg.Go(func() error {
		var err error
		event, err = s.events.Get(ctx, eventID)
		return err
	})
	eg.Go(func() error {
		var err error
		reviews, err = s.reviews.ForEvent(ctx, eventID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &EventDetails{Event: *event, Reviews: reviews}, nil
}

// AllFeedback は主催イベントすべてのレビューを新しい順に返します
// 各レビューにはイベントIDとタイトルを設定します
func (s *FlowService) AllFeedback(ctx context.Context) ([]model.Review, error) {
	start := time.Now()

	events, err := s.organizer.MyEvents(ctx)
	if err != nil {
		return nil, err
	}

	perEvent := make([][]model.Review, len(events))
	var eg errgroup.Group
	for i, event := range events {
		eg.Go(func() error {
			reviews, err := s.reviews.ForOrganizerEvent(ctx, event.EventID)
			if err != nil {
				return err
			}
			annotated := make([]model.Review, len(reviews))
			for j, review := range reviews {
				review.EventID = event.EventID
				review.EventTitle = event.Title
				annotated[j] = review
			}
			perEvent[i] = annotated
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	all := make([]model.Review, 0)
	for _, reviews := range perEvent {
		all = append(all, reviews...)
	}

	log.Printf("Collected %d reviews across %d events in %v", len(all), len(events), time.Since(start))
	return model.SortReviewsNewestFirst(all), nil
}

// Dashboard はロールに応じたダッシュボードのパスを返します
func Dashboard(roles RoleSource) (string, error) {
	role, err := roles.Role()
	if err != nil {
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}
	return role.Dashboard(), nil
}
