package mcp

import (
	"context"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// ValidateInput is the input schema for the validate_roles tool.
type ValidateInput struct {
	RolesPath    string `json:"roles_path" jsonschema:"path to the XML role definitions file"`
	DocumentPath string `json:"document_path" jsonschema:"path to the document to validate (PDF or plain text)"`
	DocumentID   string `json:"document_id,omitempty" jsonschema:"identity to index the document under (default: document filename)"`
}

// ValidateOutput is the output schema for the validate_roles tool.
type ValidateOutput struct {
	DocumentID    string   `json:"document_id"`
	RequiredRoles []string `json:"required_roles"`
	FoundRoles    []string `json:"found_roles"`
	MissingRoles  []string `json:"missing_roles"`
	IsIncomplete  bool     `json:"is_incomplete"`
	IndexedChunks int      `json:"indexed_chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about the indexed documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_roles",
		Description: "Validate that a document mentions every role a definitions file declares",
	}, s.handleValidate)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Answer(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{Answer: answer}, nil
}

// handleValidate handles the validate_roles tool invocation.
func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	documentID := input.DocumentID
	if documentID == "" {
		documentID = filepath.Base(input.DocumentPath)
	}

	report, err := s.ports.Validator.Validate(ctx, input.RolesPath, input.DocumentPath, documentID)
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	output := ValidateOutput{
		DocumentID:    report.DocumentID,
		RequiredRoles: report.RequiredRoles,
		FoundRoles:    report.FoundRoles,
		MissingRoles:  report.Comparison.MissingRoles,
		IsIncomplete:  report.Comparison.IsIncomplete,
		IndexedChunks: report.Indexing.IndexedCount,
	}

	return nil, output, nil
}
