// Package api はEventWave REST APIのリソースごとのアクセサを提供します
// 各メソッドはネットワーク呼び出しを1回だけ行います
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

// ErrNoToken は成功レスポンスにトークンが含まれていない場合のエラーです
var ErrNoToken = errors.New("no token in auth response")

// SessionWriter はログイン・ログアウト時にトークンを保存・破棄します
type SessionWriter interface {
	Begin(token string) error
	End() error
}

type AuthService interface {
	Register(ctx context.Context, signup model.Signup) (string, error)
	Login(ctx context.Context, credentials model.Credentials) (string, error)
	Logout(ctx context.Context) error
}

type AuthServiceImpl struct {
	gw      gateway.Requester
	session SessionWriter
}

func NewAuthService(gw gateway.Requester, session SessionWriter) *AuthServiceImpl {
	return &AuthServiceImpl{gw: gw, session: session}
}

// Register はアカウントを作成し、発行されたトークンを返します
// セッションは開始しません
func (s *AuthServiceImpl) Register(ctx context.Context, signup model.Signup) (string, error) {
	var raw string
	if err := s.gw.Do(ctx, http.MethodPost, "/api/auth/register", nil, signup, &raw); err != nil {
		return "", fmt.Errorf("failed to register %s: %w", signup.Username, err)
	}
	return extractToken(raw)
}

// Login は認証してトークンを返し、セッションを開始します
func (s *AuthServiceImpl) Login(ctx context.Context, credentials model.Credentials) (string, error) {
	var raw string
	if err := s.gw.Do(ctx, http.MethodPost, "/api/auth/login", nil, credentials, &raw); err != nil {
		return "", fmt.Errorf("failed to login as %s: %w", credentials.Username, err)
	}

	token, err := extractToken(raw)
	if err != nil {
		return "", fmt.Errorf("failed to login as %s: %w", credentials.Username, err)
	}

	if s.session != nil {
		if err := s.session.Begin(token); err != nil {
			return "", fmt.Errorf("failed to begin session: %w", err)
		}
	}
	return token, nil
}

// Logout はセッションを破棄します
// サーバーにはリクエストを送りません
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	if s.session == nil {
		return nil
	}
	if err := s.session.End(); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// extractToken はレスポンスボディからトークンを取り出します
// サーバーはトークン文字列そのもの、または {"token": "..."} を返す
func extractToken(raw string) (string, error) {
	body := strings.TrimSpace(raw)
	switch {
	case body == "":
		return "", ErrNoToken
	case strings.HasPrefix(body, "{"):
		var resp model.TokenResponse
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			return "", fmt.Errorf("%w: %v", gateway.ErrMalformedResponse, err)
		}
		if resp.Token == nil || strings.TrimSpace(*resp.Token) == "" {
			return "", ErrNoToken
		}
		return strings.TrimSpace(*resp.Token), nil
	case strings.HasPrefix(body, "["):
		return "", fmt.Errorf("%w: unexpected array in auth response", gateway.ErrMalformedResponse)
	default:
		return body, nil
	}
}
