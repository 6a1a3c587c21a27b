package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestSession_Lifecycle(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(""),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "nested", "token")),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			s := New(store)
			if s.Token() != "" {
				t.Fatalf("Token() before login = %q, want empty", s.Token())
			}

			if err := s.Begin("abc.def.ghi"); err != nil {
				t.Fatalf("Begin() error = %v", err)
			}
			if s.Token() != "abc.def.ghi" {
				t.Errorf("Token() = %q, want %q", s.Token(), "abc.def.ghi")
			}

			if err := s.End(); err != nil {
				t.Fatalf("End() error = %v", err)
			}
			if s.Token() != "" {
				t.Errorf("Token() after logout = %q, want empty", s.Token())
			}

			if err := s.End(); err != nil {
				t.Errorf("End() twice error = %v", err)
			}
		})
	}
}

func TestSession_BeginRejectsEmptyToken(t *testing.T) {
	s := New(NewMemoryStore(""))
	if err := s.Begin(""); err == nil {
		t.Error("Begin(\"\") should return an error")
	}
}

func TestSession_Role(t *testing.T) {
	tests := []struct {
		name     string
		token    func(t *testing.T) string
		expected model.Role
		wantErr  error
	}{
		{
			name: "主催者",
			token: func(t *testing.T) string {
				return signedToken(t, jwt.MapClaims{"sub": "org1", "role": "ORGANIZER"})
			},
			expected: model.RoleOrganizer,
		},
		{
			name: "参加者",
			token: func(t *testing.T) string {
				return signedToken(t, jwt.MapClaims{"sub": "user1", "role": "USER"})
			},
			expected: model.RoleUser,
		},
		{
			name:    "未ログイン",
			token:   func(t *testing.T) string { return "" },
			wantErr: ErrNoSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(NewMemoryStore(tt.token(t)))
			got, err := s.Role()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Role() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Role() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Role() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseClaims_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "JWTではない", token: "not-a-jwt"},
		{name: "roleクレームが無い", token: signedToken(t, jwt.MapClaims{"sub": "user1"})},
		{name: "未知のロール", token: signedToken(t, jwt.MapClaims{"sub": "user1", "role": "ADMIN"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseClaims(tt.token); err == nil {
				t.Error("ParseClaims() should return an error")
			}
		})
	}
}
