package view

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/i18n"
)

func TestLoad(t *testing.T) {
	tr := i18n.NewTranslator("en")
	fallback := tr.T(i18n.EventsLoadFailed)

	tests := []struct {
		name        string
		fetch       func(context.Context) (int, error)
		wantStates  []State
		wantData    int
		wantMessage string
	}{
		{
			name:       "成功",
			fetch:      func(context.Context) (int, error) { return 42, nil },
			wantStates: []State{Loading, Success},
			wantData:   42,
		},
		{
			name: "サーバーのメッセージ",
			fetch: func(context.Context) (int, error) {
				return 0, fmt.Errorf("failed to list events: %w", &gateway.APIError{Status: http.StatusConflict, Message: "Event is full"})
			},
			wantStates:  []State{Loading, Error},
			wantMessage: "Event is full",
		},
		{
			name: "メッセージなしのAPIエラー",
			fetch: func(context.Context) (int, error) {
				return 0, &gateway.APIError{Status: http.StatusInternalServerError}
			},
			wantStates:  []State{Loading, Error},
			wantMessage: fallback,
		},
		{
			name: "通信エラー",
			fetch: func(context.Context) (int, error) {
				return 7, errors.New("dial tcp: connection refused")
			},
			wantStates:  []State{Loading, Error},
			wantMessage: fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var states []State
			page := &Page[int]{OnChange: func(s State) { states = append(states, s) }}
			if page.State != Idle {
				t.Fatalf("initial state = %v, want idle", page.State)
			}

			Load(context.Background(), page, tr, i18n.EventsLoadFailed, tt.fetch)

			if len(states) != len(tt.wantStates) {
				t.Fatalf("states = %v, want %v", states, tt.wantStates)
			}
			for i := range states {
				if states[i] != tt.wantStates[i] {
					t.Errorf("states[%d] = %v, want %v", i, states[i], tt.wantStates[i])
				}
			}
			if page.Data != tt.wantData {
				t.Errorf("Data = %d, want %d", page.Data, tt.wantData)
			}
			if page.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", page.Message, tt.wantMessage)
			}
			if (page.State == Error) != (page.Err != nil) {
				t.Errorf("State = %v, Err = %v", page.State, page.Err)
			}
		})
	}
}

func TestLoad_NilPage(t *testing.T) {
	page := Load(context.Background(), nil, nil, i18n.ProfileLoadFailed, func(context.Context) (string, error) {
		return "", errors.New("boom")
	})
	if page.State != Error {
		t.Fatalf("State = %v, want error", page.State)
	}
	// Translatorが無い場合はメッセージIDを返す
	if page.Message != i18n.ProfileLoadFailed {
		t.Errorf("Message = %q, want %q", page.Message, i18n.ProfileLoadFailed)
	}
}

func TestState_String(t *testing.T) {
	want := map[State]string{Idle: "idle", Loading: "loading", Success: "success", Error: "error", State(9): "unknown"}
	for s, w := range want {
		if s.String() != w {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), w)
		}
	}
}
