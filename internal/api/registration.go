package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

const registrationsPath = "/api/registrations"

type RegistrationService interface {
	Register(ctx context.Context, eventID int64) (*model.RegistrationResult, error)
	Unregister(ctx context.Context, req model.Unregistration) (string, error)
	Attendees(ctx context.Context, eventID int64) ([]model.Attendee, error)
}

type RegistrationServiceImpl struct {
	gw gateway.Requester
}

func NewRegistrationService(gw gateway.Requester) *RegistrationServiceImpl {
	return &RegistrationServiceImpl{gw: gw}
}

// Register はイベントへの参加登録を行います
func (s *RegistrationServiceImpl) Register(ctx context.Context, eventID int64) (*model.RegistrationResult, error) {
	var result model.RegistrationResult
	body := model.RegistrationRequest{EventID: eventID}
	if err := s.gw.Do(ctx, http.MethodPost, eventPath(registrationsPath+"/register", eventID), nil, body, &result); err != nil {
		return nil, fmt.Errorf("failed to register for event %d: %w", eventID, err)
	}
	return &result, nil
}

// Unregister は参加登録を解除します
// ボディは常に {userId, eventId} です
func (s *RegistrationServiceImpl) Unregister(ctx context.Context, req model.Unregistration) (string, error) {
	var message string
	if err := s.gw.Do(ctx, http.MethodPost, registrationsPath+"/unregister", nil, req, &message); err != nil {
		return "", fmt.Errorf("failed to unregister user %d from event %d: %w", req.UserID, req.EventID, err)
	}
	return message, nil
}

// Attendees はイベントの参加者一覧を取得します
func (s *RegistrationServiceImpl) Attendees(ctx context.Context, eventID int64) ([]model.Attendee, error) {
	var attendees []model.Attendee
	if err := s.gw.Do(ctx, http.MethodGet, eventPath(registrationsPath+"/attendees", eventID), nil, nil, &attendees); err != nil {
		return nil, fmt.Errorf("failed to list attendees of event %d: %w", eventID, err)
	}
	return attendees, nil
}
