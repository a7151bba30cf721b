package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ironsheep/dicekey-reader/internal/config"
	"github.com/ironsheep/dicekey-reader/internal/detection"
	"github.com/ironsheep/dicekey-reader/internal/imaging"
	"github.com/ironsheep/dicekey-reader/internal/ocr"
	"github.com/ironsheep/dicekey-reader/internal/reader"
	"github.com/ironsheep/dicekey-reader/internal/scan"
)

// Config selects the server's collaborators. Zero fields get defaults: the
// built-in calibration, the pure-Go contour finder and the template OCR.
type Config struct {
	Calibration *config.Calibration
	Finder      detection.Finder
	Recognizer  ocr.Recognizer
	Debug       bool
	Version     string
}

// Server handles MCP protocol communication
type Server struct {
	cache   *imaging.ImageCache
	cal     config.Calibration
	finder  detection.Finder
	reader  *reader.Reader
	debug   bool
	version string

	// now stamps frames fed to scan sessions without an explicit time.
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*scan.Session
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance
func New(cfg Config) *Server {
	cal := config.Default()
	if cfg.Calibration != nil {
		cal = *cfg.Calibration
	}
	finder := cfg.Finder
	if finder == nil {
		finder = detection.NewContourFinder(detection.DefaultOptions())
	}
	recognizer := cfg.Recognizer
	if recognizer == nil {
		recognizer = ocr.NewTemplateMatcher()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		cache:    imaging.NewImageCache(),
		cal:      cal,
		finder:   finder,
		reader:   reader.NewReader(cal, recognizer),
		debug:    cfg.Debug,
		version:  version,
		now:      time.Now,
		sessions: make(map[string]*scan.Session),
	}
	if s.debug {
		s.reader.Logf = log.Printf
	}
	return s
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve answers newline-delimited JSON-RPC requests from in on out until in
// is exhausted.
func (s *Server) Serve(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "dicekey-reader-mcp",
				"version": s.version,
			},
		},
	}
}

// sessionLocked returns the named scan session, creating it on first use.
// s.mu must be held.
func (s *Server) sessionLocked(name string) *scan.Session {
	sess, ok := s.sessions[name]
	if !ok {
		sess = scan.NewSession(s.cal)
		if s.debug {
			sess.Logf = log.Printf
		}
		s.sessions[name] = sess
	}
	return sess
}

// resetSession drops the named session. It reports whether one existed.
func (s *Server) resetSession(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[name]
	delete(s.sessions, name)
	return ok
}
