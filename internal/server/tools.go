package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "sso_providers",
			Description: "List the SSO providers with loaded logo templates, the number of template variants per provider and the acceptance threshold applied to each.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "sso_match",
			Description: "Detect SSO provider logos on a login page screenshot. Returns at most one match per provider with its confidence, template and location.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the screenshot"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sso_annotate",
			Description: "Detect SSO provider logos and outline each match on the screenshot. Writes the annotated image to output when given, otherwise returns it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty("Absolute path to the screenshot"),
					"output": pathProperty("Optional path for the annotated image (.png or .jpg)"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sso_evaluate",
			Description: "Evaluate SSO predictions against labeled ground truth. Reports per-site confusion tallies summarised as percent correct, TPR, FNR, FPR and TNR, plus sites without a prediction.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"actual_path":    pathProperty("Absolute path to the labeled ground truth JSON"),
					"predicted_path": pathProperty("Absolute path to the predictions"),
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"dom", "templatematch"},
						"description": "Prediction format: DOM inference CSV or detector output lines. Default templatematch",
						"default":     "templatematch",
					},
					"keys": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"sso", "first", "all"},
						"description": "Label keys to check. Default sso",
						"default":     "sso",
					},
					"markdown": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the report as Markdown",
						"default":     false,
					},
				},
				"required": []string{"actual_path", "predicted_path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
