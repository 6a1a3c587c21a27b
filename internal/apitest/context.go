package apitest

import (
	"context"
	"net/http"

	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

func contextWithUser(r *http.Request, user model.UserProfile) context.Context {
	return context.WithValue(r.Context(), ctxKey{}, user)
}

func currentUser(r *http.Request) model.UserProfile {
	user, _ := r.Context().Value(ctxKey{}).(model.UserProfile)
	return user
}
