package session

import (
	"errors"
	"fmt"
	"log"

	"github.com/golang-jwt/jwt/v5"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

// ErrNoSession はトークンが保存されていないことを表します
var ErrNoSession = errors.New("no active session")

// Session はゲートウェイに渡す明示的なセッションです
// トークンはログイン時に書き込まれ、リクエストごとに読み取られ、ログアウト時に破棄されます
type Session struct {
	store Store
}

// New は新しいSessionを作成します
func New(store Store) *Session {
	return &Session{store: store}
}

// Token は現在のトークンを返します
// 読み取りに失敗した場合はログを出して未ログインとして扱います
func (s *Session) Token() string {
	if s == nil || s.store == nil {
		return ""
	}
	token, err := s.store.Load()
	if err != nil {
		log.Printf("Failed to load session token: %v", err)
		return ""
	}
	return token
}

// Begin はログインで得たトークンを保存します
func (s *Session) Begin(token string) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}
	return s.store.Save(token)
}

// End はトークンを破棄します
func (s *Session) End() error {
	return s.store.Clear()
}

// Claims はトークンに埋め込まれたクレームです
type Claims struct {
	Subject string
	Role    model.Role
}

// Claims はトークンからクレームを取り出します
// 署名の検証はサーバー側の責務なのでここでは行いません
func (s *Session) Claims() (*Claims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNoSession
	}
	return ParseClaims(token)
}

// Role はトークンに含まれるロールを返します
func (s *Session) Role() (model.Role, error) {
	claims, err := s.Claims()
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

// ParseClaims はJWTの sub と role クレームを取り出します
func ParseClaims(token string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	sub, _ := mapClaims["sub"].(string)
	rawRole, ok := mapClaims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("token has no role claim")
	}
	role, err := model.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}

	return &Claims{Subject: sub, Role: role}, nil
}
