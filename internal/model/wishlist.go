package model

// WishlistEntry はウィッシュリストの1件を表します
// イベント情報は非正規化された状態で返されます
type WishlistEntry struct {
	EventID       int64         `json:"eventId"`
	EventTitle    string        `json:"eventTitle"`
	EventDate     LocalDateTime `json:"eventDate"`
	EventLocation string        `json:"eventLocation"`
	AddedAt       LocalDateTime `json:"addedAt"`
	ImageURL      string        `json:"imageUrl,omitempty"`
}
