package server

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/shotmetrics/target-score/internal/detection"
	"github.com/shotmetrics/target-score/internal/imaging"
	"github.com/shotmetrics/target-score/internal/overlay"
	"github.com/shotmetrics/target-score/internal/pipeline"
	"github.com/shotmetrics/target-score/internal/scoring"
	"github.com/shotmetrics/target-score/internal/target"
)

// defaultTargetName is used when a tool call does not name a target.
const defaultTargetName = "issf_50m_rifle"

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "target_score", "session_update").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Target Definitions
	case "target_list":
		return s.handleTargetList(args)

	// Single-Photo Analysis
	case "target_calibrate":
		return s.handleTargetCalibrate(args)
	case "target_score":
		return s.handleTargetScore(args)
	case "target_overlay":
		return s.handleTargetOverlay(args)

	// Live Session
	case "session_start":
		return s.handleSessionStart(args)
	case "session_update":
		return s.handleSessionUpdate(args)
	case "session_summary":
		return s.handleSessionSummary(args)
	case "session_reset":
		return s.handleSessionReset(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// resolveTarget maps a tool argument to a registered target definition,
// defaulting when the argument is empty.
func (s *Server) resolveTarget(name string) (string, *target.Config, error) {
	if name == "" {
		name = defaultTargetName
	}
	cfg, ok := s.targets[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown target: %s", name)
	}
	return name, cfg, nil
}

// calibrationArgs carries the two manually picked calibration points.
type calibrationArgs struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	EdgeX   float64 `json:"edge_x"`
	EdgeY   float64 `json:"edge_y"`
}

func (a *calibrationArgs) toCalibration(cfg *target.Config) detection.TargetCalibration {
	return detection.CalibrationFromPoints(a.CenterX, a.CenterY, a.EdgeX, a.EdgeY, cfg)
}

// === Target Definition Handlers ===

// targetListEntry describes one registered target definition.
type targetListEntry struct {
	Name                string        `json:"name"`
	DisplayName         string        `json:"display_name"`
	BulletDiameterMm    float64       `json:"bullet_diameter_mm"`
	BlackAreaDiameterMm float64       `json:"black_area_diameter_mm"`
	TotalDiameterMm     float64       `json:"total_diameter_mm"`
	Rings               []target.Ring `json:"rings"`
}

func (s *Server) handleTargetList(_ json.RawMessage) (interface{}, error) {
	entries := make([]targetListEntry, 0, len(s.targets))
	for _, name := range target.BuiltinNames() {
		cfg, ok := s.targets[name]
		if !ok {
			continue
		}
		entries = append(entries, targetListEntry{
			Name:                name,
			DisplayName:         cfg.Name,
			BulletDiameterMm:    cfg.BulletDiameterMm,
			BlackAreaDiameterMm: cfg.BlackAreaDiameterMm,
			TotalDiameterMm:     cfg.TotalDiameterMm,
			Rings:               cfg.Rings,
		})
	}
	return map[string]interface{}{"targets": entries}, nil
}

// === Single-Photo Analysis Handlers ===

type targetCalibrateArgs struct {
	Path             string `json:"path"`
	Target           string `json:"target"`
	ApplyPerspective bool   `json:"apply_perspective"`
}

func (s *Server) handleTargetCalibrate(args json.RawMessage) (interface{}, error) {
	var a targetCalibrateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	targetName, cfg, err := s.resolveTarget(a.Target)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	gray, _ := imaging.Preprocess(img, a.ApplyPerspective)
	calib := detection.DetectTarget(gray, cfg)

	return map[string]interface{}{
		"target":      targetName,
		"calibration": calib,
	}, nil
}

type targetScoreArgs struct {
	Path             string           `json:"path"`
	Target           string           `json:"target"`
	ApplyPerspective bool             `json:"apply_perspective"`
	Calibration      *calibrationArgs `json:"calibration"`
	IncludeOverlay   bool             `json:"include_overlay"`
}

// targetScoreResult is the full analysis of one photo.
type targetScoreResult struct {
	Target      string                      `json:"target"`
	Calibration detection.TargetCalibration `json:"calibration"`
	Shots       []scoring.ScoredHole        `json:"shots"`
	Summary     scoring.Summary             `json:"summary"`
	Overlay     *overlay.Result             `json:"overlay,omitempty"`
}

func (s *Server) handleTargetScore(args json.RawMessage) (interface{}, error) {
	var a targetScoreArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	targetName, cfg, err := s.resolveTarget(a.Target)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{ApplyPerspective: a.ApplyPerspective}
	if a.Calibration != nil {
		manual := a.Calibration.toCalibration(cfg)
		opts.Manual = &manual
	}
	result := pipeline.Process(img, cfg, opts)

	out := &targetScoreResult{
		Target:      targetName,
		Calibration: result.Calibration,
		Shots:       result.Scored,
		Summary:     result.Summary,
	}
	if a.IncludeOverlay {
		rendered, err := overlay.Render(result.ColorRef, result.Calibration, cfg, result.Scored)
		if err != nil {
			return nil, err
		}
		out.Overlay = rendered
	}
	return out, nil
}

func (s *Server) handleTargetOverlay(args json.RawMessage) (interface{}, error) {
	var a targetScoreArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, cfg, err := s.resolveTarget(a.Target)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{ApplyPerspective: a.ApplyPerspective}
	if a.Calibration != nil {
		manual := a.Calibration.toCalibration(cfg)
		opts.Manual = &manual
	}
	result := pipeline.Process(img, cfg, opts)

	return overlay.Render(result.ColorRef, result.Calibration, cfg, result.Scored)
}

// === Live Session Handlers ===

type sessionStartArgs struct {
	Target      string           `json:"target"`
	Calibration *calibrationArgs `json:"calibration"`
}

func (s *Server) handleSessionStart(args json.RawMessage) (interface{}, error) {
	var a sessionStartArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	targetName, cfg, err := s.resolveTarget(a.Target)
	if err != nil {
		return nil, err
	}

	state := &sessionState{
		targetName: targetName,
		cfg:        cfg,
		session:    scoring.NewSession(cfg),
	}
	if a.Calibration != nil {
		calib := a.Calibration.toCalibration(cfg)
		state.calib = &calib
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = state
	s.mu.Unlock()

	return map[string]interface{}{
		"session_id": id,
		"target":     targetName,
	}, nil
}

type sessionUpdateArgs struct {
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
}

// sessionUpdateResult reports the shots that appeared in this frame and
// the running totals.
type sessionUpdateResult struct {
	SessionID   string                      `json:"session_id"`
	Calibration detection.TargetCalibration `json:"calibration"`
	NewShots    []scoring.ScoredHole        `json:"new_shots"`
	Summary     scoring.Summary             `json:"summary"`
}

func (s *Server) handleSessionUpdate(args json.RawMessage) (interface{}, error) {
	var a sessionUpdateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	state, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	// Frames are one-shot; don't let them pile up in the cache.
	defer s.cache.Evict(a.Path)

	gray, _ := imaging.Preprocess(img, false)

	// The first frame fixes the calibration for the whole session so all
	// frames measure against the same center.
	if state.calib == nil {
		calib := detection.DetectTarget(gray, state.cfg)
		state.calib = &calib
	}

	holes := detection.FindHoles(gray, *state.calib, state.cfg)
	fresh := state.session.Update(holes, *state.calib)
	if fresh == nil {
		fresh = []scoring.ScoredHole{}
	}

	return &sessionUpdateResult{
		SessionID:   a.SessionID,
		Calibration: *state.calib,
		NewShots:    fresh,
		Summary:     state.session.Summary(),
	}, nil
}

type sessionIDArgs struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleSessionSummary(args json.RawMessage) (interface{}, error) {
	var a sessionIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	state, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"session_id": a.SessionID,
		"target":     state.targetName,
		"shots":      state.session.Scored(),
		"summary":    state.session.Summary(),
	}, nil
}

func (s *Server) handleSessionReset(args json.RawMessage) (interface{}, error) {
	var a sessionIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	s.mu.Lock()
	_, ok := s.sessions[a.SessionID]
	delete(s.sessions, a.SessionID)
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unknown session: %s", a.SessionID)
	}
	return map[string]interface{}{"session_id": a.SessionID, "reset": true}, nil
}

func (s *Server) lookupSession(id string) (*sessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown session: %s", id)
	}
	return state, nil
}
