package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

const organizerEventsPath = "/api/organizer/events"

type OrganizerService interface {
	MyEvents(ctx context.Context) ([]model.Event, error)
	Get(ctx context.Context, eventID int64) (*model.Event, error)
	Create(ctx context.Context, input model.EventInput) (*model.Event, error)
	Update(ctx context.Context, eventID int64, input model.EventInput) (*model.Event, error)
	Delete(ctx context.Context, eventID int64) error
}

type OrganizerServiceImpl struct {
	gw gateway.Requester
}

func NewOrganizerService(gw gateway.Requester) *OrganizerServiceImpl {
	return &OrganizerServiceImpl{gw: gw}
}

// MyEvents は主催イベントの一覧を取得します
// 代替画像は設定しません
func (s *OrganizerServiceImpl) MyEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := s.gw.Do(ctx, http.MethodGet, organizerEventsPath+"/my-events", nil, nil, &events); err != nil {
		return nil, fmt.Errorf("failed to list organizer events: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

func (s *OrganizerServiceImpl) Get(ctx context.Context, eventID int64) (*model.Event, error) {
	var event model.Event
	if err := s.gw.Do(ctx, http.MethodGet, eventPath(organizerEventsPath, eventID), nil, nil, &event); err != nil {
		return nil, fmt.Errorf("failed to get organizer event %d: %w", eventID, err)
	}
	return &event, nil
}

func (s *OrganizerServiceImpl) Create(ctx context.Context, input model.EventInput) (*model.Event, error) {
	var event model.Event
	if err := s.gw.Do(ctx, http.MethodPost, organizerEventsPath, nil, input, &event); err != nil {
		return nil, fmt.Errorf("failed to create event %q: %w", input.Title, err)
	}
	return &event, nil
}

func (s *OrganizerServiceImpl) Update(ctx context.Context, eventID int64, input model.EventInput) (*model.Event, error) {
	var event model.Event
	if err := s.gw.Do(ctx, http.MethodPut, eventPath(organizerEventsPath, eventID), nil, input, &event); err != nil {
		return nil, fmt.Errorf("failed to update event %d: %w", eventID, err)
	}
	return &event, nil
}

func (s *OrganizerServiceImpl) Delete(ctx context.Context, eventID int64) error {
	if err := s.gw.Do(ctx, http.MethodDelete, eventPath(organizerEventsPath, eventID), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete event %d: %w", eventID, err)
	}
	return nil
}
