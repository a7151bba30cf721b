package server

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"time"

	"github.com/ironsheep/dicekey-reader/internal/dicekey"
	"github.com/ironsheep/dicekey-reader/internal/imaging"
	"github.com/ironsheep/dicekey-reader/internal/reader"
	"github.com/ironsheep/dicekey-reader/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "dicekey_read_image").
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
// A photograph in which no key could be read is not an error: the result
// carries the problem instead.
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
	// Reading
	case "dicekey_read_image":
		return s.handleReadImage(args)
	case "dicekey_scan_frame":
		return s.handleScanFrame(args)
	case "dicekey_session_reset":
		return s.handleSessionReset(args)

	// Key forms
	case "dicekey_parse":
		return s.handleParse(args)
	case "dicekey_render":
		return s.handleRender(args)

	// Diagnostics
	case "dicekey_overlay":
		return s.handleOverlay(args)
	case "dicekey_crop_cell":
		return s.handleCropCell(args)

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

// === Shared Results ===

// KeyResult summarizes a credential.
type KeyResult struct {
	Initialized   bool               `json:"initialized"`
	HumanReadable string             `json:"human_readable,omitempty"`
	Canonical     string             `json:"canonical,omitempty"`
	Faces         dicekey.Credential `json:"faces"`
	TotalError    int                `json:"total_error"`
	MaxFaceError  int                `json:"max_face_error"`
	LettersUnique bool               `json:"letters_unique"`
}

func newKeyResult(c dicekey.Credential) KeyResult {
	if !c.Initialized {
		return KeyResult{Faces: c, TotalError: dicekey.WorstTotalError, MaxFaceError: dicekey.MaxErrorMagnitude}
	}
	return KeyResult{
		Initialized:   true,
		HumanReadable: c.HumanReadableForm(true),
		Canonical:     c.CanonicalHumanReadableForm(true),
		Faces:         c,
		TotalError:    c.TotalError(),
		MaxFaceError:  c.MaxFaceError(),
		LettersUnique: c.LettersUnique(),
	}
}

// frame is one decoded photograph.
type frame struct {
	gray   *image.Gray
	cred   dicekey.Credential
	report *reader.FrameReport
	// problem is why no key was read, if none was.
	problem error
}

// readFrame decodes the photograph at path. Only failures to load or search
// the image are returned as errors.
func (s *Server) readFrame(path string) (*frame, error) {
	gray, err := s.cache.LoadGray(path)
	if err != nil {
		return nil, err
	}
	rects, err := s.finder.FindCandidates(gray)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	cred, report, err := s.reader.ReadFrame(gray, rects)
	return &frame{gray: gray, cred: cred, report: report, problem: err}, nil
}

func problemString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// === Reading Handlers ===

type readImageArgs struct {
	Path          string `json:"path"`
	IncludeReport bool   `json:"include_report"`
}

// ReadImageResult is the result of dicekey_read_image.
type ReadImageResult struct {
	KeyResult
	Problem string              `json:"problem,omitempty"`
	Report  *reader.FrameReport `json:"report,omitempty"`
}

func (s *Server) handleReadImage(args json.RawMessage) (interface{}, error) {
	var a readImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	f, err := s.readFrame(a.Path)
	if err != nil {
		return nil, err
	}
	result := &ReadImageResult{KeyResult: newKeyResult(f.cred), Problem: problemString(f.problem)}
	if a.IncludeReport {
		result.Report = f.report
	}
	return result, nil
}

type scanFrameArgs struct {
	Session     string `json:"session"`
	Path        string `json:"path"`
	TimestampMs int64  `json:"timestamp_ms"`
}

// ScanFrameResult is the result of dicekey_scan_frame.
type ScanFrameResult struct {
	Session           string    `json:"session"`
	Decision          string    `json:"decision"`
	Frames            int       `json:"frames"`
	Problem           string    `json:"problem,omitempty"`
	Best              KeyResult `json:"best"`
	FirstReadMs       int64     `json:"first_read_ms"`
	LastImprovementMs int64     `json:"last_improvement_ms,omitempty"`
	LastReadMs        int64     `json:"last_read_ms"`
}

func (s *Server) handleScanFrame(args json.RawMessage) (interface{}, error) {
	var a scanFrameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Session == "" {
		return nil, fmt.Errorf("session name is required")
	}
	at := s.now()
	if a.TimestampMs != 0 {
		at = time.UnixMilli(a.TimestampMs)
	}

	f, err := s.readFrame(a.Path)
	// Frames are transient; keep the cache from growing with every one.
	s.cache.Evict(a.Path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked(a.Session)
	decision := sess.Step(f.cred, at)

	result := &ScanFrameResult{
		Session:     a.Session,
		Decision:    decision.String(),
		Frames:      sess.Frames(),
		Problem:     problemString(f.problem),
		Best:        newKeyResult(sess.Best()),
		FirstReadMs: sess.FirstRead().UnixMilli(),
		LastReadMs:  sess.LastRead().UnixMilli(),
	}
	if t := sess.LastImprovement(); !t.IsZero() {
		result.LastImprovementMs = t.UnixMilli()
	}
	return result, nil
}

type sessionArgs struct {
	Session string `json:"session"`
}

func (s *Server) handleSessionReset(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	existed := s.resetSession(a.Session)
	return map[string]interface{}{
		"session": a.Session,
		"existed": existed,
	}, nil
}

// === Key Form Handlers ===

type parseArgs struct {
	Form string `json:"form"`
}

func (s *Server) handleParse(args json.RawMessage) (interface{}, error) {
	var a parseArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cred, err := dicekey.ParseHumanReadableForm(a.Form)
	if err != nil {
		return nil, err
	}
	return newKeyResult(cred), nil
}

type renderArgs struct {
	Form         string  `json:"form"`
	Path         string  `json:"path"`
	AngleDegrees float64 `json:"angle_degrees"`
	PixelsPerMM  float64 `json:"pixels_per_mm"`
}

func (s *Server) handleRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("output path is required")
	}
	cred, err := dicekey.ParseHumanReadableForm(a.Form)
	if err != nil {
		return nil, err
	}
	key, err := render.Render(cred, s.cal, render.Options{
		PixelsPerMM: a.PixelsPerMM,
		Angle:       a.AngleDegrees * math.Pi / 180,
	})
	if err != nil {
		return nil, err
	}

	out, err := os.Create(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	if err := png.Encode(out, key.Image); err != nil {
		out.Close()
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	s.cache.Evict(a.Path)

	b := key.Image.Bounds()
	return map[string]interface{}{
		"path":   a.Path,
		"width":  b.Dx(),
		"height": b.Dy(),
		"bars":   len(key.Bars),
	}, nil
}

// === Diagnostic Handlers ===

type overlayArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleOverlay(args json.RawMessage) (interface{}, error) {
	var a overlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	f, err := s.readFrame(a.Path)
	if err != nil {
		return nil, err
	}
	if f.report.Grid == nil {
		return nil, f.problem
	}

	half := s.cellHalfSize(f.report)
	cells := make([]imaging.OverlayCell, len(f.report.Cells))
	for i, c := range f.report.Cells {
		cells[i] = imaging.OverlayCell{
			Index:     c.Index,
			Center:    c.Center,
			HalfSize:  half,
			Read:      c.Read,
			Magnitude: f.cred.Faces[i].Error.Magnitude,
		}
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.RenderOverlay(img, cells)
}

type cropCellArgs struct {
	Path  string  `json:"path"`
	Index int     `json:"index"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleCropCell(args json.RawMessage) (interface{}, error) {
	var a cropCellArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Index < 0 || a.Index >= dicekey.NumFaces {
		return nil, fmt.Errorf("cell index %d out of range 0..%d", a.Index, dicekey.NumFaces-1)
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	f, err := s.readFrame(a.Path)
	if err != nil {
		return nil, err
	}
	if f.report.Grid == nil {
		return nil, f.problem
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropCell(img, f.report.Cells[a.Index].Center, s.cellHalfSize(f.report), a.Scale)
}

// cellHalfSize is half the printed die size in pixels.
func (s *Server) cellHalfSize(report *reader.FrameReport) float64 {
	return report.Grid.ColumnSpacing() * s.cal.DieSizeMM / s.cal.DieSpacingMM / 2
}
