package model

// Event はイベントの表示用モデルです
// スキーマはサーバーが所有しているため、クライアントでは検証しません
type Event struct {
	EventID       int64         `json:"eventId"`
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	Location      string        `json:"location,omitempty"`
	Category      string        `json:"category,omitempty"`
	Price         float64       `json:"price"`
	Capacity      int           `json:"capacity"`
	DateTime      LocalDateTime `json:"dateTime"`
	OrganizerID   int64         `json:"organizerId,omitempty"`
	OrganizerName string        `json:"organizerName,omitempty"`
	AverageRating *float64      `json:"averageRating,omitempty"`
	ReviewCount   *int          `json:"reviewCount,omitempty"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	InWishlist    *bool         `json:"inWishlist,omitempty"`
}

// EventInput はオーガナイザーがイベントを作成・更新する際のリクエストボディです
type EventInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Category    string        `json:"category"`
	Price       float64       `json:"price"`
	Capacity    int           `json:"capacity"`
	DateTime    LocalDateTime `json:"dateTime"`
}

// Input は既存イベントから更新用の入力を作成します
func (e Event) Input() EventInput {
	return EventInput{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Category:    e.Category,
		Price:       e.Price,
		Capacity:    e.Capacity,
		DateTime:    e.DateTime,
	}
}
