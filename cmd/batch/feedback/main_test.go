package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "上限以下はそのまま", input: "failed", limit: 10, want: "failed"},
		{name: "ASCIIはバイト単位で切る", input: "failed to store", limit: 6, want: "failed"},
		{name: "マルチバイト文字の途中で切らない", input: "失敗しました", limit: 7, want: "失敗"},
		{name: "文字の境界ちょうど", input: "失敗しました", limit: 6, want: "失敗"},
		{name: "先頭の文字も収まらない", input: "失敗", limit: 2, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.limit)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) = %q is not valid UTF-8", tt.input, tt.limit, got)
			}
			if len(got) > tt.limit {
				t.Errorf("len = %d, want <= %d", len(got), tt.limit)
			}
		})
	}
}

func TestTruncate_StepFunctionsLimit(t *testing.T) {
	cause := strings.Repeat("a", 32767) + "あ"

	got := truncate(cause, 32768)
	if len(got) != 32767 || !utf8.ValidString(got) {
		t.Errorf("len = %d, valid = %v", len(got), utf8.ValidString(got))
	}
}
