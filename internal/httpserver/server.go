package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/flipbook/internal/book"
	"github.com/tinytelemetry/flipbook/internal/content"
	"github.com/tinytelemetry/flipbook/internal/duckdb"
	"github.com/tinytelemetry/flipbook/internal/model"
)

// Server provides an HTTP API for browsing the dictionary.
type Server struct {
	addr      string
	store     model.ReadAPI
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, store model.ReadAPI) *Server {
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		store:  store,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/entries", s.handleEntries)
	r.GET("/api/entries/:id", s.handleEntry)
	r.GET("/api/categories", s.handleCategories)
	r.GET("/api/spreads/:index", s.handleSpread)
	r.GET("/api/schema", s.handleSchema)
	r.POST("/api/query", s.handleQuery)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	count, err := s.store.TotalEntryCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read health metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      time.Since(s.startTime).String(),
		"entry_count": count,
	})
}

func (s *Server) handleEntries(c *gin.Context) {
	limit := model.DefaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	query := c.Query("q")
	entries, err := s.store.SearchEntries(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   strings.TrimSpace(query),
		"entries": entries,
		"count":   len(entries),
	})
}

func (s *Server) handleEntry(c *gin.Context) {
	entry, err := s.store.GetEntry(c.Param("id"))
	if errors.Is(err, duckdb.ErrEntryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read entry"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleCategories(c *gin.Context) {
	counts, err := s.store.CategoryCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": counts})
}

// spreadPage is the JSON shape of one side of a spread.
type spreadPage struct {
	Entry       *model.DictionaryEntry `json:"entry,omitempty"`
	Placeholder string                 `json:"placeholder,omitempty"`
}

func toSpreadPage(p book.Entry, ok bool) *spreadPage {
	if !ok {
		return nil
	}
	if kind, isPlaceholder := book.IsPlaceholder(p); isPlaceholder {
		return &spreadPage{Placeholder: kind.String()}
	}
	if e, isEntry := content.EntryOf(p); isEntry {
		return &spreadPage{Entry: &e}
	}
	return nil
}

func (s *Server) handleSpread(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "spread index must be an integer"})
		return
	}

	query := c.Query("q")
	entries, err := s.store.SearchEntries(query, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search entries"})
		return
	}

	kind := book.PlaceholderEmpty
	if strings.TrimSpace(query) != "" {
		kind = book.PlaceholderNoResults
	}
	deck := book.NewDeck(content.DictionaryPages(entries), kind)
	if index < 0 || index >= deck.SpreadCount() {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("spread %d out of range (0..%d)", index, deck.SpreadCount()-1),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"index":         index,
		"total_spreads": deck.SpreadCount(),
		"left":          toSpreadPage(deck.At(index, book.SideLeft)),
		"right":         toSpreadPage(deck.At(index, book.SideRight)),
	})
}

func (s *Server) handleSchema(c *gin.Context) {
	description := s.store.GetSchemaDescription()

	tables, err := s.store.ExecuteQuery(
		"SELECT table_name, column_name, data_type FROM information_schema.columns WHERE table_schema = 'main' ORDER BY table_name, ordinal_position",
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read schema metadata"})
		return
	}

	schema := make(map[string][]map[string]string)
	for _, row := range tables {
		tableName := fmt.Sprintf("%v", row["table_name"])
		schema[tableName] = append(schema[tableName], map[string]string{
			"column": fmt.Sprintf("%v", row["column_name"]),
			"type":   fmt.Sprintf("%v", row["data_type"]),
		})
	}

	counts, err := s.store.TableRowCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read table row counts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"description": description,
		"tables":      schema,
		"row_counts":  counts,
	})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req struct {
		SQL string `json:"sql" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing sql field"})
		return
	}

	results, err := s.store.ExecuteQuery(req.SQL)
	if err != nil {
		if !errors.Is(err, model.ErrQueryRejected) {
			log.Printf("httpserver: query failed: %v", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var columns []string
	if len(results) > 0 {
		for col := range results[0] {
			columns = append(columns, col)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"columns":   columns,
		"rows":      results,
		"row_count": len(results),
	})
}
