package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/complytime/prompt-generator-mcp-server/chat"
)

func (s *Server) registerChatTools() {
	// Tool: chat_send - Post a message to the assistant chat
	s.server.AddTool(mcp.Tool{
		Name:        "chat_send",
		Description: "Sends a message to the chat assistant and returns its reply. The exchange is kept in the chat history.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Message text",
				},
			},
			Required: []string{"message"},
		},
	}, s.handleChatSend)

	// Tool: chat_history - Read the transcript
	s.server.AddTool(mcp.Tool{
		Name:        "chat_history",
		Description: "Returns every chat message in order, starting with the assistant greeting",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleChatHistory)
}

func (s *Server) handleChatSend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Message string `json:"message"`
	}
	if err := request.BindArguments(&params); err != nil {
		return argumentError(err), nil
	}

	reply, err := s.deps.Conversation.Send(ctx, params.Message)
	if errors.Is(err, chat.ErrEmptyMessage) {
		return errorResult("Message is empty"), nil
	}
	if err != nil {
		return errorResult("Sorry, I encountered an error: %v", err), nil
	}
	return structuredResult(reply.Text, map[string]interface{}{
		"reply": reply,
	}), nil
}

func (s *Server) handleChatHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	transcript := s.deps.Conversation.Transcript()
	return jsonResult(map[string]interface{}{
		"messages": transcript.Messages(),
		"loading":  transcript.Loading(),
	}), nil
}
