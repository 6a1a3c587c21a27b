package gateway

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	// DefaultBypassHeader は開発用トンネルの警告ページを回避するヘッダーです
	DefaultBypassHeader = "ngrok-skip-browser-warning"
	// DefaultBypassValue は DefaultBypassHeader に設定する値です
	DefaultBypassValue = "true"

	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-Id"
)

// TokenSource はリクエストごとに読み取るトークンの供給元です
type TokenSource interface {
	Token() string
}

// authTransport は送信するすべてのリクエストに認証ヘッダーと固定ヘッダーを付与します
type authTransport struct {
	base        http.RoundTripper
	tokens      TokenSource
	bypassName  string
	bypassValue string
	userAgent   string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTripperは元のリクエストを変更してはいけないので複製する
	r := req.Clone(req.Context())

	r.Header.Set(t.bypassName, t.bypassValue)

	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			r.Header.Set(headerAuthorization, "Bearer "+token)
		}
	}

	if r.Header.Get(headerRequestID) == "" {
		r.Header.Set(headerRequestID, uuid.NewString())
	}
	if t.userAgent != "" {
		r.Header.Set("User-Agent", t.userAgent)
	}

	return t.base.RoundTrip(r)
}
