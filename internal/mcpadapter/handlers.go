package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/povarna/generative-ai-agents/support-agent/internal/assistant"
	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
	"github.com/povarna/generative-ai-agents/support-agent/internal/safety"
)

// ProcessQueryInput is the MCP tool input schema (matches HTTP API field names).
type ProcessQueryInput struct {
	RequestID string `json:"request_id,omitempty" jsonschema:"optional request identifier"`
	Question  string `json:"question" jsonschema:"customer support question to answer"`
}

// AssessSafetyInput is the MCP tool input schema for standalone assessment.
type AssessSafetyInput struct {
	Input string `json:"input" jsonschema:"raw user input to classify"`
}

// NewProcessQueryHandler returns a tool handler that runs a query through
// the full pipeline. Pass the returned function to mcp.AddTool.
func NewProcessQueryHandler(a *assistant.Assistant) func(context.Context, *mcp.CallToolRequest, ProcessQueryInput) (*mcp.CallToolResult, models.QueryResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ProcessQueryInput) (*mcp.CallToolResult, models.QueryResult, error) {
		result := a.ProcessQuery(ctx, input.Question)
		return nil, result, nil
	}
}

// NewAssessSafetyHandler returns a tool handler that classifies input
// without calling the model. Pass the returned function to mcp.AddTool.
func NewAssessSafetyHandler(checker *safety.Checker) func(context.Context, *mcp.CallToolRequest, AssessSafetyInput) (*mcp.CallToolResult, models.SafetyResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AssessSafetyInput) (*mcp.CallToolResult, models.SafetyResult, error) {
		result := checker.Assess(input.Input)
		return nil, result, nil
	}
}
