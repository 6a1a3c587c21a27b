package model

// Unregistration は登録解除リクエストのボディです
// どの画面から呼ばれても userId と eventId の2項目だけを送ります
type Unregistration struct {
	UserID  int64 `json:"userId"`
	EventID int64 `json:"eventId"`
}

// NewUnregistration はプロフィールとイベントIDから登録解除リクエストを作成します
func NewUnregistration(profile UserProfile, eventID int64) Unregistration {
	return Unregistration{
		UserID:  profile.UserID,
		EventID: eventID,
	}
}

// RegistrationRequest はイベント登録リクエストのボディです
type RegistrationRequest struct {
	EventID int64 `json:"eventId"`
}

// RegistrationResult はイベント登録APIのレスポンスです
type RegistrationResult struct {
	Message string       `json:"message"`
	User    *UserProfile `json:"user,omitempty"`
	Event   *Event       `json:"event,omitempty"`
}
