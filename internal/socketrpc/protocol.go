package socketrpc

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes model.DictionaryReader over a Unix domain
// socket. Each method maps 1:1 to the DictionaryReader interface.
//
//   Method            Params                        Result
//   ───────────────   ───────────────────────────   ─────────────────
//   TotalEntryCount   (none)                        int64
//   AllEntries        (none)                        []DictionaryEntry
//   SearchEntries     {Query: string, Limit: int}   []DictionaryEntry
//   GetEntry          {ID: string}                  DictionaryEntry
//   CategoryCounts    (none)                        []CategoryCount
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params
//   -32603  Internal error (marshal failure)
//   -32000  Application error (query failure)
//   -32004  Entry not found

const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
	codeAppError       = -32000
	codeNotFound       = -32004
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/flipbook/flipbook.sock, falling back to
// ~/.local/state/flipbook/flipbook.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "flipbook", "flipbook.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/flipbook.sock"
	}
	return filepath.Join(home, ".local", "state", "flipbook", "flipbook.sock")
}
