package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

func TestWishlistService(t *testing.T) {
	srv, _, services := newTestServices(t)
	alice := loginAs(t, srv, services, "alice", model.RoleUser)
	srv.AddEvent(model.Event{EventID: 12, Title: "Film Festival", Location: "Kyoto", DateTime: model.NewLocalDateTime(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC))})
	ctx := context.Background()

	message, err := services.Wishlist.Add(ctx, 12)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if message != "Event added to wishlist" {
		t.Errorf("Add() message = %q", message)
	}
	if !srv.InWishlist(alice.UserID, 12) {
		t.Fatal("event 12 should be in wishlist")
	}

	entries, err := services.Wishlist.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List() len = %d, want 1", len(entries))
	}
	if entries[0].EventTitle != "Film Festival" || entries[0].EventLocation != "Kyoto" {
		t.Errorf("entry = %+v", entries[0])
	}
	if want := model.PlaceholderImage(12); entries[0].ImageURL != want {
		t.Errorf("imageUrl = %q, want %q", entries[0].ImageURL, want)
	}

	if _, err := services.Wishlist.Remove(ctx, 12); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if srv.InWishlist(alice.UserID, 12) {
		t.Error("event 12 should be removed from wishlist")
	}
	if got := srv.LastRequest(); got.Method != http.MethodDelete || got.Path != "/api/attendee/wishlist/12" {
		t.Errorf("last request = %s %s", got.Method, got.Path)
	}

	// 削除済みのイベントはサーバーのエラーをそのまま返す
	_, err = services.Wishlist.Remove(ctx, 12)
	if code, _ := gateway.StatusCode(err); code != http.StatusNotFound {
		t.Errorf("second Remove() status = %d, want 404", code)
	}
}
