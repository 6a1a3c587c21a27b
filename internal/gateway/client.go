package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Requester はアクセサが利用するゲートウェイの契約です
type Requester interface {
	Do(ctx context.Context, method, path string, query url.Values, body, out any) error
}

var _ Requester = (*Client)(nil)

// Client は一度だけ構成して共有するHTTPクライアントです
// リトライ、タイムアウト、バックオフは行わず、キャンセルは呼び出し側のcontextに任せます
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokens      TokenSource
	bypassName  string
	bypassValue string
	userAgent   string
	tracing     bool
}

// Option はClientの設定を変更します
type Option func(*Client)

// WithHTTPClient は下位のhttp.Clientを差し替えます
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBypassHeader は固定の診断ヘッダーを変更します
func WithBypassHeader(name, value string) Option {
	return func(c *Client) {
		if name != "" {
			c.bypassName = name
			c.bypassValue = value
		}
	}
}

// WithUserAgent はUser-Agentを設定します
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTracing はX-Rayでリクエストをトレースします
func WithTracing() Option {
	return func(c *Client) {
		c.tracing = true
	}
}

// New は新しいClientを作成します
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme or host missing", baseURL)
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{},
		tokens:      tokens,
		bypassName:  DefaultBypassHeader,
		bypassValue: DefaultBypassValue,
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	decorated := &http.Client{
		Transport: &authTransport{
			base:        base,
			tokens:      c.tokens,
			bypassName:  c.bypassName,
			bypassValue: c.bypassValue,
			userAgent:   c.userAgent,
		},
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
		Timeout:       c.httpClient.Timeout,
	}
	if c.tracing {
		decorated = xray.Client(decorated)
	}
	c.httpClient = decorated

	return c, nil
}

// Do はリクエストを1回送信し、成功した場合はレスポンスを out にデコードします
// 2xx以外は *APIError として返します
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp.StatusCode, respBody)
	}

	if err := decode(respBody, out); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// decode はレスポンスボディを out に設定します
// 空ボディ(204など)の場合は out を変更しません
func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	// 文字列を返すエンドポイントはJSONではないテキストを返すことがある
	if s, ok := out.(*string); ok {
		if err := json.Unmarshal(body, s); err != nil {
			*s = string(body)
		}
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
