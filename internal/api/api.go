package api

import (
	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
)

// Services はリソースごとのアクセサをまとめたものです
type Services struct {
	Auth          AuthService
	Events        EventService
	Wishlist      WishlistService
	Registrations RegistrationService
	Organizer     OrganizerService
	Reviews       ReviewService
	Users         UserService
}

// NewServices は同じゲートウェイを共有するアクセサ一式を作成します
func NewServices(gw gateway.Requester, session SessionWriter) *Services {
	return &Services{
		Auth:          NewAuthService(gw, session),
		Events:        NewEventService(gw),
		Wishlist:      NewWishlistService(gw),
		Registrations: NewRegistrationService(gw),
		Organizer:     NewOrganizerService(gw),
		Reviews:       NewReviewService(gw),
		Users:         NewUserService(gw),
	}
}
