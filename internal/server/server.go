package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/shotmetrics/target-score/internal/detection"
	"github.com/shotmetrics/target-score/internal/imaging"
	"github.com/shotmetrics/target-score/internal/logger"
	"github.com/shotmetrics/target-score/internal/scoring"
	"github.com/shotmetrics/target-score/internal/target"
)

// Server handles MCP protocol communication.
type Server struct {
	cache   *imaging.ImageCache
	targets map[string]*target.Config

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// sessionState is one live shot string plus the calibration it scores
// against. The calibration is fixed by the first frame (or a manual
// calibration at start) so every frame measures against the same center.
type sessionState struct {
	targetName string
	cfg        *target.Config
	session    *scoring.Session
	calib      *detection.TargetCalibration
}

// MCPRequest represents an incoming JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance with every built-in target
// definition registered.
func New() *Server {
	targets := make(map[string]*target.Config)
	for _, name := range target.BuiltinNames() {
		if cfg, err := target.Builtin(name); err == nil {
			targets[name] = cfg
		}
	}
	return &Server{
		cache:    imaging.NewImageCache(),
		targets:  targets,
		sessions: make(map[string]*sessionState),
	}
}

// RegisterTarget adds or replaces a target definition, e.g. one loaded
// from a user-supplied directory.
func (s *Server) RegisterTarget(name string, cfg *target.Config) {
	s.targets[name] = cfg
}

// Run starts the MCP server, reading from stdin and writing to stdout.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			logger.WithError(err).Warn("Failed to parse request")
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				logger.WithError(err).Error("Failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers.
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

// handleInitialize responds to the initialize request.
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
				"name":    "target-score-mcp",
				"version": "0.1.0",
			},
		},
	}
}
