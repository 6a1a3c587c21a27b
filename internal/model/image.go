package model

// placeholderImages は画像が無いイベントに割り当てる代替画像の一覧です
// 順序は割り当て結果に影響するため変更しないこと
var placeholderImages = []string{
	"/assets/event_placeholder_1.JPG",
	"/assets/event_placeholder_2.JPEG",
	"/assets/event_placeholder_3.JPG",
	"/assets/event_placeholder_4.JPG",
	"/assets/event_placeholder_5.JPG",
}

// PlaceholderImages は代替画像一覧のコピーを返します
func PlaceholderImages() []string {
	return append([]string(nil), placeholderImages...)
}

// PlaceholderImage はIDから決定的に代替画像を選びます
func PlaceholderImage(id int64) string {
	n := int64(len(placeholderImages))
	return placeholderImages[((id%n)+n)%n]
}

// AddImagesToEvents は画像が無いイベントに代替画像を設定した新しいスライスを返します
// 画像が既に設定されているイベントはそのまま返します
func AddImagesToEvents(events []Event) []Event {
	out := make([]Event, len(events))
	for i, event := range events {
		out[i] = event.WithImage()
	}
	return out
}

// WithImage は画像が未設定の場合のみ代替画像を設定したコピーを返します
func (e Event) WithImage() Event {
	if e.ImageURL == "" {
		e.ImageURL = PlaceholderImage(e.EventID)
	}
	return e
}

// AddImagesToWishlist はウィッシュリストの各エントリに同じ規則で代替画像を設定します
func AddImagesToWishlist(entries []WishlistEntry) []WishlistEntry {
	out := make([]WishlistEntry, len(entries))
	for i, entry := range entries {
		if entry.ImageURL == "" {
			entry.ImageURL = PlaceholderImage(entry.EventID)
		}
		out[i] = entry
	}
	return out
}
