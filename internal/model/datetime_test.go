package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLocalDateTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "ゾーンなし",
			input:    `"2025-03-01T18:30:00"`,
			expected: time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC),
		},
		{
			name:     "小数秒つき",
			input:    `"2025-03-01T18:30:00.123"`,
			expected: time.Date(2025, 3, 1, 18, 30, 0, 123000000, time.UTC),
		},
		{
			name:     "RFC3339",
			input:    `"2025-01-01T12:00:00Z"`,
			expected: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
		},
		{
			name:    "不正なフォーマット",
			input:   `"01/03/2025"`,
			wantErr: true,
		},
		{
			name:    "数値",
			input:   `12345`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got LocalDateTime
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Equal(tt.expected) {
				t.Errorf("UnmarshalJSON() = %v, want %v", got.Time, tt.expected)
			}
		})
	}
}

func TestLocalDateTime_MarshalJSON(t *testing.T) {
	d := NewLocalDateTime(time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC))

	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(got) != `"2025-03-01T18:30:00"` {
		t.Errorf("MarshalJSON() = %s, want %s", got, `"2025-03-01T18:30:00"`)
	}

	zero, err := json.Marshal(LocalDateTime{})
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(zero) != "null" {
		t.Errorf("MarshalJSON() zero = %s, want null", zero)
	}
}
