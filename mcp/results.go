package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: fmt.Sprintf(format, args...),
			},
		},
		IsError: true,
	}
}

func argumentError(err error) *mcp.CallToolResult {
	return errorResult("Error parsing arguments: %v", err)
}

// structuredResult returns text alongside the structured payload.
func structuredResult(text string, structured map[string]interface{}) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
		StructuredContent: structured,
	}
}

// jsonResult renders structured as indented JSON text.
func jsonResult(structured map[string]interface{}) *mcp.CallToolResult {
	resultJSON, _ := json.MarshalIndent(structured, "", "  ")
	return structuredResult(string(resultJSON), structured)
}
