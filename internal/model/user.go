package model

import (
	"fmt"
	"strings"
)

// Role はセッションがどのダッシュボードを見るかを決めるロールです
type Role string

const (
	// RoleUser は参加者を表します
	RoleUser Role = "USER"
	// RoleOrganizer は主催者を表します
	RoleOrganizer Role = "ORGANIZER"
)

// ParseRole は文字列をロールに変換します
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(value), "ROLE_")))
	switch role {
	case RoleUser, RoleOrganizer:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role: %q", value)
	}
}

// Dashboard はロールごとのダッシュボードのパスを返します
func (r Role) Dashboard() string {
	if r == RoleOrganizer {
		return "/organizer-dashboard"
	}
	return "/dashboard"
}

// UserProfile はログイン中ユーザーのプロフィールです
type UserProfile struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     Role   `json:"role,omitempty"`
}

// Attendee はイベント参加者一覧の1件です
type Attendee struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}
