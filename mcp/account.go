package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/complytime/prompt-generator-mcp-server/account"
)

func credentialsSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"email": map[string]interface{}{
				"type":        "string",
				"description": "Account email address",
			},
			"password": map[string]interface{}{
				"type":        "string",
				"description": "Account password (at least 6 characters)",
			},
		},
		Required: []string{"email", "password"},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) registerAccountTools() {
	// Tool: account_signup - Create a free account
	s.server.AddTool(mcp.Tool{
		Name:        "account_signup",
		Description: "Creates a free account with a daily prompt allowance and logs it in, replacing any stored account",
		InputSchema: credentialsSchema(),
	}, s.handleSignup)

	// Tool: account_login - Log in (or create) an account
	s.server.AddTool(mcp.Tool{
		Name:        "account_login",
		Description: "Logs in with email and password. An unknown email gets a fresh free account.",
		InputSchema: credentialsSchema(),
	}, s.handleLogin)

	// Tool: account_logout
	s.server.AddTool(mcp.Tool{
		Name:        "account_logout",
		Description: "Logs out and forgets the stored account",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleLogout)

	// Tool: account_status - Current user and allowance
	s.server.AddTool(mcp.Tool{
		Name:        "account_status",
		Description: "Shows the logged-in user, tier and remaining prompts for today. Expired subscriptions are downgraded first.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleAccountStatus)

	// Tool: account_subscribe - Upgrade to premium
	s.server.AddTool(mcp.Tool{
		Name:        "account_subscribe",
		Description: "Upgrades the logged-in user to premium for a month or a year. No payment is taken.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"plan": map[string]interface{}{
					"type":        "string",
					"description": "Subscription plan",
					"enum":        []string{string(account.PlanMonthly), string(account.PlanYearly)},
				},
			},
			Required: []string{"plan"},
		},
	}, s.handleSubscribe)
}

func (s *Server) handleSignup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params credentials
	if err := request.BindArguments(&params); err != nil {
		return argumentError(err), nil
	}
	user, err := s.deps.Accounts.Signup(ctx, params.Email, params.Password)
	if err != nil {
		return authError("Signup failed", err), nil
	}
	return userResult(fmt.Sprintf("Account created! Welcome to Prompt Generator, %s.", user.Email), user), nil
}

func (s *Server) handleLogin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params credentials
	if err := request.BindArguments(&params); err != nil {
		return argumentError(err), nil
	}
	user, err := s.deps.Accounts.Login(ctx, params.Email, params.Password)
	if err != nil {
		return authError("Login failed", err), nil
	}
	return userResult(fmt.Sprintf("Welcome back, %s!", user.Email), user), nil
}

func (s *Server) handleLogout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.deps.Accounts.Logout(ctx); err != nil {
		return errorResult("Logout failed: %v", err), nil
	}
	return structuredResult("You have been logged out.", map[string]interface{}{
		"logged_in": false,
	}), nil
}

func (s *Server) handleAccountStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := s.deps.Subscriptions.Check(ctx); err != nil {
		return errorResult("Failed to check subscription: %v", err), nil
	}
	user, err := s.deps.Accounts.Current(ctx)
	if errors.Is(err, account.ErrNotLoggedIn) {
		return structuredResult("Not logged in.", map[string]interface{}{
			"logged_in": false,
		}), nil
	}
	if err != nil {
		return errorResult("Failed to load account: %v", err), nil
	}
	return userResult(statusLine(user), user), nil
}

func (s *Server) handleSubscribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Plan string `json:"plan"`
	}
	if err := request.BindArguments(&params); err != nil {
		return argumentError(err), nil
	}
	plan, err := account.ParsePlan(params.Plan)
	if err != nil {
		return errorResult("Invalid plan: %v", err), nil
	}
	user, err := s.deps.Subscriptions.Subscribe(ctx, plan)
	if errors.Is(err, account.ErrNotLoggedIn) {
		return errorResult("Please log in to subscribe."), nil
	}
	if err != nil {
		return errorResult("Payment Failed: There was an error processing your subscription. %v", err), nil
	}
	return userResult(fmt.Sprintf("Subscription Successful! You are now a Premium user until %s.",
		user.SubscriptionEnd.Format("January 2, 2006")), user), nil
}

func authError(prefix string, err error) *mcp.CallToolResult {
	if errors.Is(err, account.ErrInvalidCredentials) {
		return errorResult("%s: Please check your email and password and try again.", prefix)
	}
	return errorResult("%s: %v", prefix, err)
}

func statusLine(u account.User) string {
	if u.IsPremium() {
		return fmt.Sprintf("%s (Premium): unlimited prompts", u.Email)
	}
	return fmt.Sprintf("%s (Free): %d of %d prompts left today", u.Email, u.PromptsRemaining(), u.PromptsLimit)
}

func userResult(text string, u account.User) *mcp.CallToolResult {
	return structuredResult(text, map[string]interface{}{
		"logged_in":         true,
		"user":              u,
		"prompts_remaining": u.PromptsRemaining(),
	})
}
