package socketrpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tinytelemetry/flipbook/internal/model"
)

// Client implements model.DictionaryReader over a Unix domain socket using JSON-RPC 2.0.
type Client struct {
	conn    net.Conn
	mu      sync.Mutex
	nextID  int
	scanner *bufio.Scanner
	encoder *json.Encoder
}

// Dial connects to the socket RPC server at the given path.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("socketrpc: dial: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)
	return &Client{
		conn:    conn,
		scanner: scanner,
		encoder: json.NewEncoder(conn),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs a JSON-RPC call and unmarshals the result into dest.
func (c *Client) call(method string, params interface{}, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("socketrpc: marshal params: %w", err)
	}

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	c.conn.SetDeadline(time.Now().Add(30 * time.Second))
	defer c.conn.SetDeadline(time.Time{})

	if err := c.encoder.Encode(req); err != nil {
		return fmt.Errorf("socketrpc: send: %w", err)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return fmt.Errorf("socketrpc: read: %w", err)
		}
		return fmt.Errorf("socketrpc: connection closed")
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return fmt.Errorf("socketrpc: unmarshal response: %w", err)
	}

	if resp.Error != nil {
		if resp.Error.Code == codeNotFound {
			return fmt.Errorf("socketrpc: %s: %w", method, model.ErrEntryNotFound)
		}
		return resp.Error
	}

	if dest != nil {
		if err := json.Unmarshal(resp.Result, dest); err != nil {
			return fmt.Errorf("socketrpc: unmarshal result: %w", err)
		}
	}
	return nil
}

var _ model.DictionaryReader = (*Client)(nil)

func (c *Client) TotalEntryCount() (int64, error) {
	var result int64
	err := c.call("TotalEntryCount", nil, &result)
	return result, err
}

func (c *Client) AllEntries() ([]model.DictionaryEntry, error) {
	var result []model.DictionaryEntry
	err := c.call("AllEntries", nil, &result)
	return result, err
}

func (c *Client) SearchEntries(query string, limit int) ([]model.DictionaryEntry, error) {
	var result []model.DictionaryEntry
	err := c.call("SearchEntries", map[string]interface{}{"Query": query, "Limit": limit}, &result)
	return result, err
}

func (c *Client) GetEntry(id string) (model.DictionaryEntry, error) {
	var result model.DictionaryEntry
	err := c.call("GetEntry", map[string]interface{}{"ID": id}, &result)
	return result, err
}

func (c *Client) CategoryCounts() ([]model.CategoryCount, error) {
	var result []model.CategoryCount
	err := c.call("CategoryCounts", nil, &result)
	return result, err
}
