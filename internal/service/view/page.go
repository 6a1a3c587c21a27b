// Package view は画面単位の処理フローを提供します
// どのフローも呼び出しのたびにデータを取得し直し、結果をキャッシュしません
package view

import (
	"context"
	"errors"

	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/i18n"
)

// State は画面の読み込み状態です
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Page は1画面分の状態です
// 状態は idle → loading → success / error の順にだけ遷移します
type Page[T any] struct {
	State   State
	Data    T
	Err     error
	Message string

	// OnChange は状態が変わるたびに呼ばれます
	OnChange func(State)
}

func (p *Page[T]) set(state State) {
	p.State = state
	if p.OnChange != nil {
		p.OnChange(state)
	}
}

// Load は fetch を1回だけ実行し、結果を画面の状態に反映します
// 失敗時の Message はサーバーのメッセージ、無ければ fallback の翻訳です
func Load[T any](ctx context.Context, page *Page[T], tr *i18n.Translator, fallback string, fetch func(context.Context) (T, error)) *Page[T] {
	if page == nil {
		page = &Page[T]{}
	}
	page.set(Loading)

	data, err := fetch(ctx)
	if err != nil {
		var zero T
		page.Data = zero
		page.Err = err
		page.Message = Message(err, tr.T(fallback))
		page.set(Error)
		return page
	}

	page.Data = data
	page.Err = nil
	page.Message = ""
	page.set(Success)
	return page
}

// Message は利用者に表示するエラーメッセージを返します
// サーバーがメッセージを返していればそれを使い、無ければ fallback を返します
func Message(err error, fallback string) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
