package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

func TestReviewService(t *testing.T) {
	srv, _, services := newTestServices(t)
	loginAs(t, srv, services, "olivia", model.RoleOrganizer)
	srv.AddEvent(model.Event{EventID: 21, Title: "Jazz Night"})
	srv.AddReview(model.Review{
		EventID:   21,
		UserName:  "bob",
		Rating:    3,
		Feedback:  "Good",
		CreatedAt: model.NewLocalDateTime(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)),
	})
	ctx := context.Background()

	submitted, err := services.Reviews.Submit(ctx, 21, model.ReviewInput{Rating: 5, Feedback: "Amazing"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if submitted.ReviewID == 0 || submitted.UserName != "olivia" || submitted.Text() != "Amazing" {
		t.Errorf("Submit() = %+v", submitted)
	}

	var body map[string]any
	if err := json.Unmarshal(srv.LastRequest().Body, &body); err != nil {
		t.Fatalf("review body is not JSON: %v", err)
	}
	if body["feedback"] != "Amazing" || body["rating"] != float64(5) {
		t.Errorf("review body = %v", body)
	}

	attendeeView, err := services.Reviews.ForEvent(ctx, 21)
	if err != nil {
		t.Fatalf("ForEvent() error = %v", err)
	}
	organizerView, err := services.Reviews.ForOrganizerEvent(ctx, 21)
	if err != nil {
		t.Fatalf("ForOrganizerEvent() error = %v", err)
	}
	if len(attendeeView) != 2 || len(organizerView) != 2 {
		t.Errorf("reviews = %d / %d, want 2 / 2", len(attendeeView), len(organizerView))
	}
	if got := srv.LastRequest().Path; got != "/api/organizer/events/21/reviews" {
		t.Errorf("organizer reviews path = %q", got)
	}

	summary, err := services.Reviews.Summary(ctx, 21)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.TotalReviews != 2 || summary.AverageRating != 4 {
		t.Errorf("Summary() = %+v", summary)
	}
}

func TestReviewService_EmptyList(t *testing.T) {
	mock := &MockRequester{}
	svc := NewReviewService(mock)

	reviews, err := svc.ForEvent(context.Background(), 1)
	if err != nil {
		t.Fatalf("ForEvent() error = %v", err)
	}
	if reviews == nil || len(reviews) != 0 {
		t.Errorf("ForEvent() = %#v, want empty slice", reviews)
	}
	if mock.Calls[0].Method != http.MethodGet || mock.Calls[0].Path != "/api/attendee/events/1/reviews" {
		t.Errorf("request = %s %s", mock.Calls[0].Method, mock.Calls[0].Path)
	}
}
