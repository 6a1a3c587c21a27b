// Package apitest はテスト用のEventWave APIサーバーを提供します
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

const signingSecret = "apitest-secret"

// Request は受信したリクエストの記録です
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type account struct {
	profile  model.UserProfile
	password string
}

// Server はインメモリのEventWave APIです
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	nextUserID    int64
	nextEventID   int64
	nextReviewID  int64
	accounts      map[string]*account
	events        map[int64]model.Event
	reviews       map[int64][]model.Review
	wishlists     map[int64]map[int64]model.LocalDateTime
	registrations map[int64]map[int64]bool
	requests      []Request

	loginResponse *string
	failReviews   map[int64]bool
}

// NewServer は新しいServerを起動します
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		nextUserID:    1,
		nextEventID:   1,
		nextReviewID:  1,
		accounts:      make(map[string]*account),
		events:        make(map[int64]model.Event),
		reviews:       make(map[int64][]model.Review),
		wishlists:     make(map[int64]map[int64]model.LocalDateTime),
		registrations: make(map[int64]map[int64]bool),
		failReviews:   make(map[int64]bool),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Server.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.handleRegister)
		api.Post("/auth/login", s.handleLogin)

		api.Group(func(authed chi.Router) {
			authed.Use(s.authenticate)

			authed.Route("/attendee/events", func(ev chi.Router) {
				ev.Get("/", s.handleListEvents)
				ev.Get("/my-registrations", s.handleMyRegistrations)
				ev.Get("/search/title/{q}", s.handleSearch(func(e model.Event) string { return e.Title }))
				ev.Get("/search/description/{q}", s.handleSearch(func(e model.Event) string { return e.Description }))
				ev.Get("/filter/location/{q}", s.handleSearch(func(e model.Event) string { return e.Location }))
				ev.Get("/filter/date-range", s.handleDateRange)
				ev.Get("/by-category/{category}", s.handleCategory)
				ev.Get("/{eventID}", s.handleGetEvent)
				ev.Get("/{eventID}/reviews", s.handleListReviews)
				ev.Post("/{eventID}/reviews", s.handleCreateReview)
			})

			authed.Route("/attendee/wishlist", func(wl chi.Router) {
				wl.Get("/", s.handleListWishlist)
				wl.Post("/{eventID}", s.handleAddWishlist)
				wl.Delete("/{eventID}", s.handleRemoveWishlist)
			})

			authed.Route("/registrations", func(rg chi.Router) {
				rg.Post("/register/{eventID}", s.handleRegisterEvent)
				rg.Post("/unregister", s.handleUnregister)
				rg.Get("/attendees/{eventID}", s.handleAttendees)
			})

			authed.Route("/organizer/events", func(org chi.Router) {
				org.Use(s.requireRole(model.RoleOrganizer))
				org.Post("/", s.handleCreateEvent)
				org.Get("/my-events", s.handleMyEvents)
				org.Get("/{eventID}", s.handleGetEvent)
				org.Put("/{eventID}", s.handleUpdateEvent)
				org.Delete("/{eventID}", s.handleDeleteEvent)
				org.Get("/{eventID}/reviews", s.handleListReviews)
				org.Get("/{eventID}/reviews/summary", s.handleReviewSummary)
			})

			authed.Get("/user/me", s.handleMe)
			authed.Put("/user/update", s.handleUpdateUser)
		})
	})
	return r
}

// Requests は受信したリクエストのコピーを返します
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest は最後に受信したリクエストを返します
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

// SetLoginResponse はログインが常に body を返すようにします
func (s *Server) SetLoginResponse(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginResponse = &body
}

// FailReviewsFor は指定イベントのレビュー取得を500にします
func (s *Server) FailReviewsFor(eventID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReviews[eventID] = true
}

// AddUser はアカウントを登録し、そのユーザーのトークンを返します
func (s *Server) AddUser(userName, password string, role model.Role) (model.UserProfile, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile := s.addUserLocked(userName, userName+"@example.com", password, role)
	return profile, issueToken(profile)
}

// AddEvent はイベントを登録します
func (s *Server) AddEvent(event model.Event) model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.EventID == 0 {
		event.EventID = s.nextEventID
	}
	if event.EventID >= s.nextEventID {
		s.nextEventID = event.EventID + 1
	}
	s.events[event.EventID] = event
	return event
}

// AddReview はレビューを登録します
func (s *Server) AddReview(review model.Review) model.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	if review.ReviewID == 0 {
		review.ReviewID = s.nextReviewID
		s.nextReviewID++
	}
	s.reviews[review.EventID] = append(s.reviews[review.EventID], review)
	return review
}

// IsRegistered はユーザーがイベントに登録済みかを返します
func (s *Server) IsRegistered(userID, eventID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registrations[eventID][userID]
}

// InWishlist はイベントがユーザーのウィッシュリストにあるかを返します
func (s *Server) InWishlist(userID, eventID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.wishlists[userID][eventID]
	return ok
}

// Event は登録済みのイベントを返します
func (s *Server) Event(eventID int64) (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	return event, ok
}

func (s *Server) addUserLocked(userName, email, password string, role model.Role) model.UserProfile {
	profile := model.UserProfile{
		UserID:   s.nextUserID,
		UserName: userName,
		Email:    email,
		Role:     role,
	}
	s.nextUserID++
	s.accounts[userName] = &account{profile: profile, password: password}
	return profile
}

func issueToken(profile model.UserProfile) string {
	claims := jwt.MapClaims{
		"sub":  profile.UserName,
		"role": string(profile.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingSecret))
	if err != nil {
		panic(fmt.Sprintf("apitest: failed to sign token: %v", err))
	}
	return token
}

type ctxKey struct{}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(signingSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		sub, _ := token.Claims.GetSubject()

		s.mu.Lock()
		acc, ok := s.accounts[sub]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unknown user")
			return
		}

		r = r.WithContext(contextWithUser(r, acc.profile))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if currentUser(r).Role != role {
				writeError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in model.Signup
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[in.Username]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "Username already exists")
		return
	}
	profile := s.addUserLocked(in.Username, in.Email, in.Password, in.Role)
	s.mu.Unlock()

	writeText(w, http.StatusOK, issueToken(profile))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	override := s.loginResponse
	s.mu.Unlock()
	if override != nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(*override))
		return
	}

	var in model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[in.Username]
	s.mu.Unlock()
	if !ok || acc.password != in.Password {
		writeError(w, http.StatusUnauthorized, "Login failed")
		return
	}

	writeText(w, http.StatusOK, issueToken(acc.profile))
}

func (s *Server) sortedEvents(keep func(model.Event) bool) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, 0, len(s.events))
	for _, event := range s.events {
		if keep(event) {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })
	return out
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sortedEvents(func(model.Event) bool { return true }))
}

func (s *Server) handleMyRegistrations(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	s.mu.Lock()
	registered := make(map[int64]bool)
	for eventID, users := range s.registrations {
		if users[user.UserID] {
			registered[eventID] = true
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedEvents(func(e model.Event) bool { return registered[e.EventID] }))
}

func (s *Server) handleSearch(field func(model.Event) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(chi.URLParam(r, "q"))
		writeJSON(w, http.StatusOK, s.sortedEvents(func(e model.Event) bool {
			return strings.Contains(strings.ToLower(field(e)), q)
		}))
	}
}

func (s *Server) handleDateRange(w http.ResponseWriter, r *http.Request) {
	start, err := model.ParseLocalDateTime(r.URL.Query().Get("startDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	end, err := model.ParseLocalDateTime(r.URL.Query().Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	writeJSON(w, http.StatusOK, s.sortedEvents(func(e model.Event) bool {
		return !e.DateTime.Before(start.Time) && !e.DateTime.After(end.Time)
	}))
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.ToUpper(strings.ReplaceAll(chi.URLParam(r, "category"), " ", "_"))
	events := s.sortedEvents(func(e model.Event) bool { return e.Category == category })
	if len(events) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := s.Event(eventIDParam(r))
	if !ok {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	eventID := eventIDParam(r)
	s.mu.Lock()
	fail := s.failReviews[eventID]
	reviews := append([]model.Review{}, s.reviews[eventID]...)
	s.mu.Unlock()

	if fail {
		writeError(w, http.StatusInternalServerError, "Failed to load reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	eventID := eventIDParam(r)
	if _, ok := s.Event(eventID); !ok {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}

	var in model.ReviewInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user := currentUser(r)
	review := s.AddReview(model.Review{
		EventID:   eventID,
		UserID:    user.UserID,
		UserName:  user.UserName,
		Rating:    in.Rating,
		Feedback:  in.Feedback,
		CreatedAt: model.NewLocalDateTime(time.Now().UTC().Truncate(time.Second)),
	})
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleReviewSummary(w http.ResponseWriter, r *http.Request) {
	eventID := eventIDParam(r)
	s.mu.Lock()
	reviews := append([]model.Review{}, s.reviews[eventID]...)
	s.mu.Unlock()

	summary := model.ReviewSummary{EventID: eventID}
	if summaries := model.SummarizeReviews(reviews); len(summaries) == 1 {
		summary = summaries[0]
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListWishlist(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	s.mu.Lock()
	entries := make([]model.WishlistEntry, 0)
	for eventID, addedAt := range s.wishlists[user.UserID] {
		event := s.events[eventID]
		entries = append(entries, model.WishlistEntry{
			EventID:       eventID,
			EventTitle:    event.Title,
			EventDate:     event.DateTime,
			EventLocation: event.Location,
			AddedAt:       addedAt,
		})
	}
	s.mu.Unlock()
	sort.Slice(entries, func(i, j int) bool { return entries[i].EventID < entries[j].EventID })
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAddWishlist(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	eventID := eventIDParam(r)
	if _, ok := s.Event(eventID); !ok {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}

	s.mu.Lock()
	if s.wishlists[user.UserID] == nil {
		s.wishlists[user.UserID] = make(map[int64]model.LocalDateTime)
	}
	s.wishlists[user.UserID][eventID] = model.NewLocalDateTime(time.Now().UTC().Truncate(time.Second))
	s.mu.Unlock()

	writeText(w, http.StatusOK, "Event added to wishlist")
}

func (s *Server) handleRemoveWishlist(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	eventID := eventIDParam(r)

	s.mu.Lock()
	_, ok := s.wishlists[user.UserID][eventID]
	delete(s.wishlists[user.UserID], eventID)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Event not in wishlist")
		return
	}
	writeText(w, http.StatusOK, "Event removed from wishlist")
}

func (s *Server) handleRegisterEvent(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	eventID := eventIDParam(r)
	event, ok := s.Event(eventID)
	if !ok {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}

	s.mu.Lock()
	if s.registrations[eventID][user.UserID] {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "Already registered for this event")
		return
	}
	if s.registrations[eventID] == nil {
		s.registrations[eventID] = make(map[int64]bool)
	}
	s.registrations[eventID][user.UserID] = true
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, model.RegistrationResult{
		Message: "Registered successfully",
		User:    &user,
		Event:   &event,
	})
}

func (s *Server) handleUnregister(w http.ResponseWriter, r *http.Request) {
	var in model.Unregistration
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s.mu.Lock()
	registered := s.registrations[in.EventID][in.UserID]
	delete(s.registrations[in.EventID], in.UserID)
	s.mu.Unlock()

	if !registered {
		writeError(w, http.StatusNotFound, "Registration not found")
		return
	}
	writeText(w, http.StatusOK, "Unregistered successfully")
}

func (s *Server) handleAttendees(w http.ResponseWriter, r *http.Request) {
	eventID := eventIDParam(r)
	s.mu.Lock()
	attendees := make([]model.Attendee, 0)
	for _, acc := range s.accounts {
		if s.registrations[eventID][acc.profile.UserID] {
			attendees = append(attendees, model.Attendee{
				UserID:   acc.profile.UserID,
				UserName: acc.profile.UserName,
				Email:    acc.profile.Email,
			})
		}
	}
	s.mu.Unlock()
	sort.Slice(attendees, func(i, j int) bool { return attendees[i].UserID < attendees[j].UserID })
	writeJSON(w, http.StatusOK, attendees)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in model.EventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	user := currentUser(r)
	event := s.AddEvent(eventFromInput(0, in, user))
	writeJSON(w, http.StatusCreated, event)
}

func (s *Server) handleMyEvents(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	writeJSON(w, http.StatusOK, s.sortedEvents(func(e model.Event) bool { return e.OrganizerID == user.UserID }))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := eventIDParam(r)
	user := currentUser(r)
	existing, ok := s.Event(eventID)
	if !ok || existing.OrganizerID != user.UserID {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}

	var in model.EventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	event := s.AddEvent(eventFromInput(eventID, in, user))
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := eventIDParam(r)
	user := currentUser(r)

	s.mu.Lock()
	existing, ok := s.events[eventID]
	if ok && existing.OrganizerID == user.UserID {
		delete(s.events, eventID)
	}
	s.mu.Unlock()

	if !ok || existing.OrganizerID != user.UserID {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in model.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	user := currentUser(r)

	s.mu.Lock()
	acc := s.accounts[user.UserName]
	if in.Email != "" {
		acc.profile.Email = in.Email
	}
	s.mu.Unlock()

	writeText(w, http.StatusOK, "Profile updated successfully")
}

func eventFromInput(eventID int64, in model.EventInput, organizer model.UserProfile) model.Event {
	return model.Event{
		EventID:       eventID,
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		Category:      in.Category,
		Price:         in.Price,
		Capacity:      in.Capacity,
		DateTime:      in.DateTime,
		OrganizerID:   organizer.UserID,
		OrganizerName: organizer.UserName,
	}
}

func eventIDParam(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status":  status,
		"error":   http.StatusText(status),
		"message": message,
	})
}
