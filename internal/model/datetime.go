package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalDateTimeLayout はサーバーが返すタイムゾーンなしの日時フォーマットです
const LocalDateTimeLayout = "2006-01-02T15:04:05"

var localDateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	LocalDateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// LocalDateTime はAPIの日時フィールドを表します
// サーバーはゾーン情報を付けずにシリアライズするため、受信時はUTCとして扱います
type LocalDateTime struct {
	time.Time
}

// NewLocalDateTime は time.Time から LocalDateTime を作成します
func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: t}
}

// ParseLocalDateTime は対応しているいずれかのフォーマットで日時を解析します
func ParseLocalDateTime(value string) (LocalDateTime, error) {
	for _, layout := range localDateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return LocalDateTime{Time: t}, nil
		}
	}
	return LocalDateTime{}, fmt.Errorf("invalid date_time format: %q", value)
}

// String はサーバーが受け付けるフォーマットで日時を返します
func (d LocalDateTime) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(LocalDateTimeLayout)
}

func (d LocalDateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *LocalDateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unexpected type for date_time: %s", string(data))
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}

	parsed, err := ParseLocalDateTime(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
