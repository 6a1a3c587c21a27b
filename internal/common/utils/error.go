package utils

import (
	"fmt"
	"runtime/debug"
	"strings"
)

const stackMarker = "\nStack trace:\n"

// GetStackWithError は、エラーとスタックトレースを組み合わせて返します
// 既にスタックトレースを含むエラーはそのまま返します
func GetStackWithError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), stackMarker) {
		return err
	}
	return fmt.Errorf("%w%s%s", err, stackMarker, debug.Stack())
}
