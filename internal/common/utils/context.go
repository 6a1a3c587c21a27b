package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout はバッチ処理がタイムアウトしたことを表します
var ErrTimeout = errors.New("batch process timed out")

// 指定されたタイムアウト時間内でバッチ処理を実行する
// タイムアウトを超えた場合は、コンテキストをキャンセルしてエラーを返す
// 呼び出し元のコンテキストがキャンセルされた場合はその理由を返す
func RunWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	parent := ctx

	// タイムアウト付きのコンテキストを作成
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// エラーチャネルを作成
	errChan := make(chan error, 1)

	// バッチ処理を実行
	go func() {
		errChan <- fn(ctx)
	}()

	// バッチ処理の完了またはタイムアウトを待機
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		if parent.Err() != nil {
			return fmt.Errorf("batch process cancelled: %w", context.Cause(parent))
		}
		return fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}
}
