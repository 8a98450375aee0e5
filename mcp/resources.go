package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/complytime/prompt-generator-mcp-server/account"
)

const (
	optionsURI = "promptgen://options"
	plansURI   = "promptgen://plans"
	draftURI   = "promptgen://draft"
)

func (s *Server) registerResources() {
	s.server.AddResource(mcp.NewResource(optionsURI, "Prompt options",
		mcp.WithResourceDescription("Every purpose, format, tone, length and audience option with its label and phrase, plus the target models"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(optionsURI, optionsListing())
	})

	s.server.AddResource(mcp.NewResource(plansURI, "Subscription plans",
		mcp.WithResourceDescription("Premium plans and their prices"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(plansURI, account.Plans())
	})

	s.server.AddResource(mcp.NewResource(draftURI, "Prompt draft",
		mcp.WithResourceDescription("This session's prompt draft and its live preview"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		d := s.drafts.get(sessionKey(ctx))
		return jsonContents(draftURI, map[string]interface{}{
			"prompt":        d.Prompt,
			"selection":     d.Selection,
			"ready_to_send": d.ReadyToSend(),
		})
	})
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
