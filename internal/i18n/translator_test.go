package i18n

import (
	"testing"
)

func TestTranslator_T(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		id     string
		want   string
	}{
		{
			name:   "英語",
			locale: "en",
			id:     LoginFailed,
			want:   "Login failed. Please check your credentials and try again.",
		},
		{
			name:   "日本語",
			locale: "ja",
			id:     UnregisterFailed,
			want:   "登録を解除できませんでした。もう一度お試しください。",
		},
		{
			name:   "地域付きのロケール",
			locale: "ja-JP",
			id:     EventsLoadFailed,
			want:   "イベントを読み込めませんでした。再読み込みしてください。",
		},
		{
			name:   "未対応のロケールは英語",
			locale: "fr",
			id:     WishlistLoadFailed,
			want:   "Could not fetch your wishlist. Please try again.",
		},
		{
			name:   "解析できないロケールは英語",
			locale: "not a locale!",
			id:     ProfileLoadFailed,
			want:   "Failed to load your profile. Please try refreshing the page.",
		},
		{
			name:   "未定義のIDはそのまま",
			locale: "en",
			id:     "NoSuchMessage",
			want:   "NoSuchMessage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranslator(tt.locale)
			if got := tr.T(tt.id); got != tt.want {
				t.Errorf("T(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestTranslator_AllMessagesTranslated(t *testing.T) {
	ids := []string{
		EventsLoadFailed, EventLoadFailed, EventDetailsLoadFailed, RegistrationsLoadFailed,
		WishlistLoadFailed, WishlistUpdateFailed, AttendeesLoadFailed, FeedbackLoadFailed,
		ProfileLoadFailed, ProfileUpdateFailed, LoginFailed, SignupFailed, RegisterFailed,
		UnregisterFailed, ReviewSubmitFailed, EventSaveFailed, EventDeleteFailed,
	}

	en := NewTranslator("en")
	ja := NewTranslator("ja")
	for _, id := range ids {
		if got := en.T(id); got == id {
			t.Errorf("en: %s is not translated", id)
		}
		if got := ja.T(id); got == id || got == en.T(id) {
			t.Errorf("ja: %s is not translated", id)
		}
	}
}

func TestTranslator_Nil(t *testing.T) {
	var tr *Translator
	if got := tr.T(LoginFailed); got != LoginFailed {
		t.Errorf("nil Translator T() = %q, want %q", got, LoginFailed)
	}
}
