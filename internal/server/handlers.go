package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/ssodetect/internal/evaluation"
	"github.com/ironsheep/ssodetect/internal/imaging"
	"github.com/ironsheep/ssodetect/internal/labels"
	"github.com/ironsheep/ssodetect/internal/matcher"
	"github.com/ironsheep/ssodetect/internal/report"
	"github.com/ironsheep/ssodetect/internal/template"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sso_match").
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
	case "sso_providers":
		return s.handleProviders()
	case "sso_match":
		return s.handleMatch(args)
	case "sso_annotate":
		return s.handleAnnotate(args)
	case "sso_evaluate":
		return s.handleEvaluate(args)
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Detection Handlers ===

type providerInfo struct {
	template.Summary
	Threshold float64 `json:"threshold"`
}

type providersResult struct {
	Policy    string         `json:"policy"`
	Providers []providerInfo `json:"providers"`
	Templates int            `json:"templates"`
}

func (s *Server) handleProviders() (interface{}, error) {
	store := s.matcher.Store()
	var infos []providerInfo
	for _, sum := range store.Summaries() {
		infos = append(infos, providerInfo{Summary: sum, Threshold: s.matcher.Threshold(sum.Provider)})
	}
	return &providersResult{
		Policy:    s.matcher.Policy().String(),
		Providers: infos,
		Templates: store.VariantCount(),
	}, nil
}

type pathArgs struct {
	Path string `json:"path"`
}

type matchResult struct {
	Path      string           `json:"path"`
	Providers []string         `json:"providers"`
	Results   []matcher.Result `json:"results"`
}

func (s *Server) match(path string) ([]matcher.Result, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	img, err := s.cache.LoadGray(path)
	if err != nil {
		return nil, err
	}
	return s.matcher.Match(img)
}

func (s *Server) handleMatch(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	defer s.cache.Evict(a.Path)
	results, err := s.match(a.Path)
	if err != nil {
		return nil, err
	}
	return &matchResult{
		Path:      a.Path,
		Providers: matcher.Providers(results),
		Results:   results,
	}, nil
}

type annotateArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
}

type annotateFileResult struct {
	Output  string           `json:"output"`
	Results []matcher.Result `json:"results"`
}

type annotateInlineResult struct {
	*imaging.AnnotateResult
	Results []matcher.Result `json:"results"`
}

func (s *Server) handleAnnotate(args json.RawMessage) (interface{}, error) {
	var a annotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	// The decoded screenshot is shared by matching and drawing, then dropped
	// so a long-running server does not accumulate every page it has seen.
	defer s.cache.Evict(a.Path)
	results, err := s.match(a.Path)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	boxes, legend := report.Overlay(results)

	if a.Output != "" {
		if err := imaging.Save(a.Output, imaging.Annotate(img, boxes, legend)); err != nil {
			return nil, err
		}
		return &annotateFileResult{Output: a.Output, Results: results}, nil
	}

	enc, err := imaging.EncodeAnnotation(img, boxes, legend)
	if err != nil {
		return nil, err
	}
	return &annotateInlineResult{AnnotateResult: enc, Results: results}, nil
}

// === Evaluation Handlers ===

type evaluateArgs struct {
	ActualPath    string `json:"actual_path"`
	PredictedPath string `json:"predicted_path"`
	Format        string `json:"format"`
	Keys          string `json:"keys"`
	Markdown      bool   `json:"markdown"`
}

type evaluateResult struct {
	*evaluation.Result
	GroundTruth labels.GroundTruthStats `json:"ground_truth"`
	Anomalies   []labels.Anomaly        `json:"anomalies,omitempty"`
	Markdown    string                  `json:"markdown,omitempty"`
}

func (s *Server) handleEvaluate(args json.RawMessage) (interface{}, error) {
	var a evaluateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ActualPath == "" || a.PredictedPath == "" {
		return nil, errors.New("actual_path and predicted_path are required")
	}
	if a.Format == "" {
		a.Format = string(labels.FormatTemplateMatch)
	}
	if a.Keys == "" {
		a.Keys = "sso"
	}

	format, err := labels.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}
	keys, err := evaluation.KeysByName(a.Keys)
	if err != nil {
		return nil, err
	}

	actual, stats, unsupported, err := labels.ReadGroundTruthFile(a.ActualPath)
	if err != nil {
		return nil, err
	}
	predicted, anomalies, err := labels.ReadPredictionsFile(a.PredictedPath, format)
	if err != nil {
		return nil, err
	}
	anomalies = append(unsupported, anomalies...)

	res, err := evaluation.Evaluate(actual, predicted, keys, evaluation.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	out := &evaluateResult{Result: res, GroundTruth: stats, Anomalies: anomalies}
	if a.Markdown {
		var b strings.Builder
		_, err := report.NewMarkdownWriter(&b).Write(&report.Evaluation{
			Title:       fmt.Sprintf("Evaluation of %s predictions", format),
			Result:      res,
			Anomalies:   anomalies,
			GroundTruth: &stats,
		})
		if err != nil {
			return nil, err
		}
		out.Markdown = b.String()
	}
	return out, nil
}
