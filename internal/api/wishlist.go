package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

const wishlistPath = "/api/attendee/wishlist"

type WishlistService interface {
	List(ctx context.Context) ([]model.WishlistEntry, error)
	Add(ctx context.Context, eventID int64) (string, error)
	Remove(ctx context.Context, eventID int64) (string, error)
}

type WishlistServiceImpl struct {
	gw gateway.Requester
}

func NewWishlistService(gw gateway.Requester) *WishlistServiceImpl {
	return &WishlistServiceImpl{gw: gw}
}

// List はウィッシュリストを取得します
func (s *WishlistServiceImpl) List(ctx context.Context) ([]model.WishlistEntry, error) {
	var entries []model.WishlistEntry
	if err := s.gw.Do(ctx, http.MethodGet, wishlistPath, nil, nil, &entries); err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return model.AddImagesToWishlist(entries), nil
}

// Add はイベントをウィッシュリストに追加し、サーバーのメッセージを返します
func (s *WishlistServiceImpl) Add(ctx context.Context, eventID int64) (string, error) {
	var message string
	if err := s.gw.Do(ctx, http.MethodPost, eventPath(wishlistPath, eventID), nil, nil, &message); err != nil {
		return "", fmt.Errorf("failed to add event %d to wishlist: %w", eventID, err)
	}
	return message, nil
}

// Remove はイベントをウィッシュリストから削除し、サーバーのメッセージを返します
func (s *WishlistServiceImpl) Remove(ctx context.Context, eventID int64) (string, error) {
	var message string
	if err := s.gw.Do(ctx, http.MethodDelete, eventPath(wishlistPath, eventID), nil, nil, &message); err != nil {
		return "", fmt.Errorf("failed to remove event %d from wishlist: %w", eventID, err)
	}
	return message, nil
}
