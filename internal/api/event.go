package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

const attendeeEventsPath = "/api/attendee/events"

type EventService interface {
	List(ctx context.Context) ([]model.Event, error)
	Get(ctx context.Context, eventID int64) (*model.Event, error)
	SearchByTitle(ctx context.Context, title string) ([]model.Event, error)
	SearchByDescription(ctx context.Context, description string) ([]model.Event, error)
	ByCategory(ctx context.Context, category string) ([]model.Event, error)
	ByLocation(ctx context.Context, location string) ([]model.Event, error)
	ByDateRange(ctx context.Context, start, end time.Time) ([]model.Event, error)
	MyRegistrations(ctx context.Context) ([]model.Event, error)
}

type EventServiceImpl struct {
	gw gateway.Requester
}

func NewEventService(gw gateway.Requester) *EventServiceImpl {
	return &EventServiceImpl{gw: gw}
}

// List は参加者向けのイベント一覧を取得します
func (s *EventServiceImpl) List(ctx context.Context) ([]model.Event, error) {
	return s.listEvents(ctx, attendeeEventsPath, nil)
}

// Get はイベントの詳細を取得します
func (s *EventServiceImpl) Get(ctx context.Context, eventID int64) (*model.Event, error) {
	var event model.Event
	if err := s.gw.Do(ctx, http.MethodGet, eventPath(attendeeEventsPath, eventID), nil, nil, &event); err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	event = event.WithImage()
	return &event, nil
}

func (s *EventServiceImpl) SearchByTitle(ctx context.Context, title string) ([]model.Event, error) {
	return s.listEvents(ctx, attendeeEventsPath+"/search/title/"+url.PathEscape(title), nil)
}

func (s *EventServiceImpl) SearchByDescription(ctx context.Context, description string) ([]model.Event, error) {
	return s.listEvents(ctx, attendeeEventsPath+"/search/description/"+url.PathEscape(description), nil)
}

// ByCategory はカテゴリでイベントを絞り込みます
// 該当が無い場合サーバーは204を返すため、空の一覧になります
func (s *EventServiceImpl) ByCategory(ctx context.Context, category string) ([]model.Event, error) {
	return s.listEvents(ctx, attendeeEventsPath+"/by-category/"+url.PathEscape(category), nil)
}

func (s *EventServiceImpl) ByLocation(ctx context.Context, location string) ([]model.Event, error) {
	return s.listEvents(ctx, attendeeEventsPath+"/filter/location/"+url.PathEscape(location), nil)
}

// ByDateRange は開催日時が期間内のイベントを取得します
func (s *EventServiceImpl) ByDateRange(ctx context.Context, start, end time.Time) ([]model.Event, error) {
	query := url.Values{}
	query.Set("startDate", start.Format(model.LocalDateTimeLayout))
	query.Set("endDate", end.Format(model.LocalDateTimeLayout))
	return s.listEvents(ctx, attendeeEventsPath+"/filter/date-range", query)
}

// MyRegistrations はログイン中ユーザーが登録済みのイベントを取得します
func (s *EventServiceImpl) MyRegistrations(ctx context.Context) ([]model.Event, error) {
	return s.listEvents(ctx, attendeeEventsPath+"/my-registrations", nil)
}

func (s *EventServiceImpl) listEvents(ctx context.Context, path string, query url.Values) ([]model.Event, error) {
	var events []model.Event
	if err := s.gw.Do(ctx, http.MethodGet, path, query, nil, &events); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return model.AddImagesToEvents(events), nil
}

func eventPath(base string, eventID int64) string {
	return fmt.Sprintf("%s/%d", base, eventID)
}
