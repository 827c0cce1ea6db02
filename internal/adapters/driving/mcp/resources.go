package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for valigence resources.
	uriScheme = "valigence://"

	// validationHistoryLimit caps how many runs the resource returns.
	validationHistoryLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "validations",
		Name:        "validations",
		Description: "Recent role validation runs, newest first",
		MIMEType:    "application/json",
	}, s.handleValidationsResource)
}

// handleValidationsResource returns recent validation runs as JSON.
func (s *Server) handleValidationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	reports, err := s.ports.History.RecentValidations(ctx, validationHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("listing validation runs: %w", err)
	}

	// Build simplified run list.
	type runInfo struct {
		DocumentID   string   `json:"document_id"`
		RanAt        string   `json:"ran_at"`
		IsIncomplete bool     `json:"is_incomplete"`
		MissingRoles []string `json:"missing_roles,omitempty"`
	}

	runs := make([]runInfo, len(reports))
	for i, r := range reports {
		runs[i] = runInfo{
			DocumentID:   r.DocumentID,
			RanAt:        r.RanAt.Format("2006-01-02T15:04:05Z07:00"),
			IsIncomplete: r.Comparison.IsIncomplete,
			MissingRoles: r.Comparison.MissingRoles,
		}
	}

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding validation runs: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
