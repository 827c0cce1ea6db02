// Package mcp provides an MCP (Model Context Protocol) server adapter for
// valigence. It lets AI assistants like Claude ask questions about indexed
// documents and run role validations.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")

// ErrMissingValidationService is returned when the validation service is not provided.
var ErrMissingValidationService = errors.New("mcp: validation service is required")
