package api

import (
	"context"
	"testing"

	"github.com/uma-arai/sbcntr-eventwave/internal/apitest"
	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
	"github.com/uma-arai/sbcntr-eventwave/internal/session"
)

func newTestServices(t *testing.T) (*apitest.Server, *session.Session, *Services) {
	t.Helper()

	srv := apitest.NewServer(t)
	sess := session.New(session.NewMemoryStore(""))
	gw, err := gateway.New(srv.URL, sess)
	if err != nil {
		t.Fatalf("gateway.New() error = %v", err)
	}
	return srv, sess, NewServices(gw, sess)
}

// loginAs はアカウントを作成してログイン済みの状態にします
func loginAs(t *testing.T, srv *apitest.Server, services *Services, userName string, role model.Role) model.UserProfile {
	t.Helper()

	profile, _ := srv.AddUser(userName, "secret", role)
	creds := model.Credentials{Username: userName, Password: "secret"}
	if _, err := services.Auth.Login(context.Background(), creds); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return profile
}
