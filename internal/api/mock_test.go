package api

import (
	"context"
	"encoding/json"
	"net/url"
)

type requesterCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// MockRequester は呼び出しを記録し、Response をデコードして返します
type MockRequester struct {
	Calls    []requesterCall
	Response string
	Err      error
}

func (m *MockRequester) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	m.Calls = append(m.Calls, requesterCall{Method: method, Path: path, Query: query, Body: body})
	if m.Err != nil {
		return m.Err
	}
	if m.Response == "" || out == nil {
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = m.Response
		return nil
	}
	return json.Unmarshal([]byte(m.Response), out)
}
