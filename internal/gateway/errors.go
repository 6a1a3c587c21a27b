package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMalformedResponse は成功レスポンスのボディが期待した形でないことを表します
var ErrMalformedResponse = errors.New("malformed response")

// APIError は2xx以外のレスポンスを表します
type APIError struct {
	Method  string
	Path    string
	Status  int
	Body    []byte
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Method:  method,
		Path:    path,
		Status:  status,
		Body:    body,
		Message: serverMessage(body),
	}
}

// serverMessage はサーバーが返したメッセージを取り出します
// message を優先し、無ければ error を使います
func serverMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
			return ""
		}
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}

	var text string
	if err := json.Unmarshal([]byte(trimmed), &text); err == nil {
		return text
	}
	return trimmed
}

// StatusCode はエラーがAPIErrorの場合にHTTPステータスを返します
func StatusCode(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}
