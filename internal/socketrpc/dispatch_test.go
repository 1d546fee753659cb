package socketrpc

import (
	"encoding/json"
	"testing"

	"github.com/tinytelemetry/flipbook/internal/model"
)

// stubReader returns fixed values for dispatch unit testing.
type stubReader struct{}

func (q *stubReader) TotalEntryCount() (int64, error) { return 100, nil }
func (q *stubReader) AllEntries() ([]model.DictionaryEntry, error) {
	return []model.DictionaryEntry{{ID: "1", Word: "apple"}}, nil
}
func (q *stubReader) SearchEntries(query string, limit int) ([]model.DictionaryEntry, error) {
	return []model.DictionaryEntry{{ID: "1", Word: query}}, nil
}
func (q *stubReader) GetEntry(id string) (model.DictionaryEntry, error) {
	if id != "1" {
		return model.DictionaryEntry{}, model.ErrEntryNotFound
	}
	return model.DictionaryEntry{ID: "1", Word: "apple"}, nil
}
func (q *stubReader) CategoryCounts() ([]model.CategoryCount, error) {
	return []model.CategoryCount{{Category: "food", Count: 1}}, nil
}

func newTestDispatcher() *Server {
	return &Server{store: &stubReader{}}
}

func TestDispatch_AllMethods(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	tests := []struct {
		method string
		params string
	}{
		{"TotalEntryCount", `{}`},
		{"AllEntries", `{}`},
		{"SearchEntries", `{"Query":"apple","Limit":10}`},
		{"GetEntry", `{"ID":"1"}`},
		{"CategoryCounts", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			req := Request{
				JSONRPC: "2.0",
				ID:      1,
				Method:  tt.method,
				Params:  json.RawMessage(tt.params),
			}
			resp := srv.dispatch(req)
			if resp.Error != nil {
				t.Fatalf("dispatch(%s) error: %s", tt.method, resp.Error.Message)
			}
			if resp.Result == nil {
				t.Fatalf("dispatch(%s) returned nil result", tt.method)
			}
			if resp.JSONRPC != "2.0" {
				t.Errorf("JSONRPC = %q, want 2.0", resp.JSONRPC)
			}
			if resp.ID != 1 {
				t.Errorf("ID = %d, want 1", resp.ID)
			}
		})
	}
}

func TestDispatch_MethodNotFound(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "NonExistentMethod",
		Params:  json.RawMessage(`{}`),
	})
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("error code = %d, want -32601", resp.Error.Code)
	}
}

func TestDispatch_InvalidParams(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	tests := []struct {
		method string
		params string
	}{
		{"SearchEntries", `not json`},
		{"GetEntry", `not json`},
		{"GetEntry", `{}`},
	}
	for _, tt := range tests {
		resp := srv.dispatch(Request{
			JSONRPC: "2.0",
			ID:      2,
			Method:  tt.method,
			Params:  json.RawMessage(tt.params),
		})
		if resp.Error == nil {
			t.Fatalf("%s(%s): expected error", tt.method, tt.params)
		}
		if resp.Error.Code != -32602 {
			t.Errorf("%s(%s): error code = %d, want -32602 (invalid params)", tt.method, tt.params, resp.Error.Code)
		}
	}
}

func TestDispatch_EmptyParamsOnOptionalMethods(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	methods := []string{"TotalEntryCount", "AllEntries", "SearchEntries", "CategoryCounts"}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			t.Parallel()
			resp := srv.dispatch(Request{
				JSONRPC: "2.0",
				ID:      1,
				Method:  method,
				Params:  nil,
			})
			if resp.Error != nil {
				t.Fatalf("dispatch(%s) with nil params: %s", method, resp.Error.Message)
			}
		})
	}
}

func TestDispatch_EntryNotFound(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{
		JSONRPC: "2.0",
		ID:      3,
		Method:  "GetEntry",
		Params:  json.RawMessage(`{"ID":"missing"}`),
	})
	if resp.Error == nil || resp.Error.Code != codeNotFound {
		t.Fatalf("error = %+v, want code %d", resp.Error, codeNotFound)
	}
}

func TestDispatch_PreservesRequestID(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	for _, id := range []int{0, 1, 42, 9999} {
		resp := srv.dispatch(Request{
			JSONRPC: "2.0",
			ID:      id,
			Method:  "TotalEntryCount",
			Params:  json.RawMessage(`{}`),
		})
		if resp.ID != id {
			t.Errorf("request ID %d: response ID = %d", id, resp.ID)
		}
	}
}
