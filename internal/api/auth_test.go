package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{
			name: "トークン文字列そのもの",
			raw:  "eyJhbGciOiJIUzI1NiJ9.e30.sig",
			want: "eyJhbGciOiJIUzI1NiJ9.e30.sig",
		},
		{
			name: "前後の空白を除去",
			raw:  "  abc.def.ghi\n",
			want: "abc.def.ghi",
		},
		{
			name: "tokenフィールドを持つオブジェクト",
			raw:  `{"token":"abc.def.ghi"}`,
			want: "abc.def.ghi",
		},
		{
			name:    "空のオブジェクト",
			raw:     `{}`,
			wantErr: ErrNoToken,
		},
		{
			name:    "tokenがnull",
			raw:     `{"token":null}`,
			wantErr: ErrNoToken,
		},
		{
			name:    "tokenが空文字",
			raw:     `{"token":""}`,
			wantErr: ErrNoToken,
		},
		{
			name:    "空ボディ",
			raw:     "",
			wantErr: ErrNoToken,
		},
		{
			name:    "壊れたJSON",
			raw:     `{"token":`,
			wantErr: gateway.ErrMalformedResponse,
		},
		{
			name:    "配列",
			raw:     `["abc"]`,
			wantErr: gateway.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractToken(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("extractToken() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractToken() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("extractToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthService_LoginBeginsSession(t *testing.T) {
	srv, sess, services := newTestServices(t)
	srv.AddUser("alice", "secret", model.RoleOrganizer)

	token, err := services.Auth.Login(context.Background(), model.Credentials{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned empty token")
	}
	if sess.Token() != token {
		t.Errorf("session token = %q, want %q", sess.Token(), token)
	}

	role, err := sess.Role()
	if err != nil {
		t.Fatalf("Role() error = %v", err)
	}
	if role != model.RoleOrganizer {
		t.Errorf("Role() = %q, want %q", role, model.RoleOrganizer)
	}

	// ログイン以降のリクエストにはAuthorizationヘッダーが付く
	if _, err := services.Users.Me(context.Background()); err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if got := srv.LastRequest().Header.Get("Authorization"); got != "Bearer "+token {
		t.Errorf("Authorization = %q, want %q", got, "Bearer "+token)
	}
}

func TestAuthService_LoginWithoutToken(t *testing.T) {
	srv, sess, services := newTestServices(t)
	srv.SetLoginResponse(`{}`)

	token, err := services.Auth.Login(context.Background(), model.Credentials{Username: "alice", Password: "secret"})
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("Login() error = %v, want ErrNoToken", err)
	}
	if token != "" {
		t.Errorf("Login() token = %q, want empty", token)
	}
	if sess.Token() != "" {
		t.Errorf("session token = %q, want empty", sess.Token())
	}
}

func TestAuthService_LoginWrappedToken(t *testing.T) {
	srv, sess, services := newTestServices(t)
	srv.SetLoginResponse(`{"token":"abc.def.ghi"}`)

	token, err := services.Auth.Login(context.Background(), model.Credentials{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token != "abc.def.ghi" || sess.Token() != "abc.def.ghi" {
		t.Errorf("token = %q, session = %q", token, sess.Token())
	}
}

func TestAuthService_LoginRejected(t *testing.T) {
	srv, sess, services := newTestServices(t)
	srv.AddUser("alice", "secret", model.RoleUser)

	_, err := services.Auth.Login(context.Background(), model.Credentials{Username: "alice", Password: "wrong"})
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want *gateway.APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Login failed" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if sess.Token() != "" {
		t.Errorf("session token = %q, want empty", sess.Token())
	}
}

func TestAuthService_RegisterDoesNotBeginSession(t *testing.T) {
	srv, sess, services := newTestServices(t)

	token, err := services.Auth.Register(context.Background(), model.Signup{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret",
		Role:     model.RoleUser,
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("Register() token = %q, want JWT", token)
	}
	if sess.Token() != "" {
		t.Errorf("session token = %q, want empty", sess.Token())
	}

	_, err = services.Auth.Register(context.Background(), model.Signup{Username: "bob", Password: "x", Role: model.RoleUser})
	if code, ok := gateway.StatusCode(err); !ok || code != http.StatusConflict {
		t.Errorf("duplicate Register() status = %d, %v", code, ok)
	}
	if got := srv.LastRequest().Header.Get("Authorization"); got != "" {
		t.Errorf("Authorization = %q, want empty", got)
	}
}

func TestAuthService_Logout(t *testing.T) {
	srv, sess, services := newTestServices(t)
	loginAs(t, srv, services, "alice", model.RoleUser)
	before := len(srv.Requests())

	if err := services.Auth.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if sess.Token() != "" {
		t.Errorf("session token = %q, want empty", sess.Token())
	}
	if after := len(srv.Requests()); after != before {
		t.Errorf("Logout() sent %d requests, want 0", after-before)
	}

	_, err := services.Users.Me(context.Background())
	if code, _ := gateway.StatusCode(err); code != http.StatusUnauthorized {
		t.Errorf("Me() after logout status = %d, want 401", code)
	}
	if got := srv.LastRequest().Header.Get("Authorization"); got != "" {
		t.Errorf("Authorization after logout = %q, want empty", got)
	}
}
