package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

type UserService interface {
	Me(ctx context.Context) (*model.UserProfile, error)
	Update(ctx context.Context, profile model.UserProfile) (string, error)
}

type UserServiceImpl struct {
	gw gateway.Requester
}

func NewUserService(gw gateway.Requester) *UserServiceImpl {
	return &UserServiceImpl{gw: gw}
}

// Me はログイン中ユーザーのプロフィールを取得します
func (s *UserServiceImpl) Me(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := s.gw.Do(ctx, http.MethodGet, "/api/user/me", nil, nil, &profile); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// Update はプロフィールを更新し、サーバーのメッセージを返します
func (s *UserServiceImpl) Update(ctx context.Context, profile model.UserProfile) (string, error) {
	var message string
	if err := s.gw.Do(ctx, http.MethodPut, "/api/user/update", nil, profile, &message); err != nil {
		return "", fmt.Errorf("failed to update profile: %w", err)
	}
	return message, nil
}
