package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/complytime/prompt-generator-mcp-server/account"
	"github.com/complytime/prompt-generator-mcp-server/chat"
	"github.com/complytime/prompt-generator-mcp-server/prompt"
)

const defaultSession = "default"

// draftRegistry keeps one prompt.Draft per client session.
type draftRegistry struct {
	mu     sync.RWMutex
	drafts map[string]prompt.Draft
}

func newDraftRegistry() *draftRegistry {
	return &draftRegistry{drafts: make(map[string]prompt.Draft)}
}

func (r *draftRegistry) get(session string) prompt.Draft {
	r.mu.RLock()
	d, ok := r.drafts[session]
	r.mu.RUnlock()
	if !ok {
		return prompt.NewDraft()
	}
	return d
}

// apply reduces updates into the session's draft as one change. A failed
// update leaves the stored draft untouched.
func (r *draftRegistry) apply(session string, updates ...prompt.Update) (prompt.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[session]
	if !ok {
		d = prompt.NewDraft()
	}
	next, err := prompt.ReduceAll(d, updates...)
	if err != nil {
		return d, err
	}
	r.drafts[session] = next
	return next, nil
}

func (r *draftRegistry) forget(session string) {
	r.mu.Lock()
	delete(r.drafts, session)
	r.mu.Unlock()
}

func (r *draftRegistry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drafts)
}

func (r *draftRegistry) reset(session string) prompt.Draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := prompt.NewDraft()
	r.drafts[session] = d
	return d
}

func sessionKey(ctx context.Context) string {
	if cs := server.ClientSessionFromContext(ctx); cs != nil && cs.SessionID() != "" {
		return cs.SessionID()
	}
	return defaultSession
}

// selectionParams mirrors prompt.Selection for argument binding.
type selectionParams struct {
	Purpose      string `json:"purpose,omitempty"`
	Topic        string `json:"topic,omitempty"`
	Format       string `json:"format,omitempty"`
	Tone         string `json:"tone,omitempty"`
	Length       string `json:"length,omitempty"`
	Audience     string `json:"audience,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

func (p selectionParams) selection() (prompt.Selection, error) {
	return prompt.ParseSelection(map[string]string{
		string(prompt.FieldPurpose):      p.Purpose,
		string(prompt.FieldTopic):        p.Topic,
		string(prompt.FieldFormat):       p.Format,
		string(prompt.FieldTone):         p.Tone,
		string(prompt.FieldLength):       p.Length,
		string(prompt.FieldAudience):     p.Audience,
		string(prompt.FieldInstructions): p.Instructions,
	})
}

// selectionProperties builds the input schema shared by the generator tools.
func selectionProperties() map[string]interface{} {
	props := map[string]interface{}{
		"topic": map[string]interface{}{
			"type":        "string",
			"description": "Main topic or subject of the prompt",
		},
		"instructions": map[string]interface{}{
			"type":        "string",
			"description": "Additional instructions or context, appended verbatim",
		},
	}
	for _, v := range prompt.Catalog() {
		props[string(v.Field)] = map[string]interface{}{
			"type":        "string",
			"description": fmt.Sprintf("%s of the request (default: '%s')", fieldTitle(v.Field), v.Default),
			"enum":        v.Values(),
			"default":     v.Default,
		}
	}
	return props
}

func fieldTitle(f prompt.Field) string {
	s := string(f)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *Server) registerGeneratorTools() {
	// Tool: generate_prompt - Assemble a prompt from the selection fields
	s.server.AddTool(mcp.Tool{
		Name:        "generate_prompt",
		Description: "Assembles a natural-language LLM prompt from purpose, topic, format, tone, length, audience and additional instructions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: selectionProperties(),
		},
	}, s.handleGeneratePrompt)

	// Tool: send_prompt - Assemble and send to a (simulated) model
	sendProps := selectionProperties()
	sendProps["model"] = map[string]interface{}{
		"type":        "string",
		"description": fmt.Sprintf("Target AI model (default: '%s')", s.config.DefaultModel),
		"enum":        chat.Models(),
	}
	s.server.AddTool(mcp.Tool{
		Name:        "send_prompt",
		Description: "Assembles a prompt and sends it to the selected AI model. Refused while no topic is set. Counts against the daily allowance of a logged-in free user.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sendProps,
			Required:   []string{"topic"},
		},
	}, s.handleSendPrompt)

	// Tool: list_prompt_options - Enumerate the vocabularies
	s.server.AddTool(mcp.Tool{
		Name:        "list_prompt_options",
		Description: "Lists every option for purpose, format, tone, length and audience with its label and phrase",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListPromptOptions)

	// Tool: update_prompt_draft - Change one field of the session's draft
	s.server.AddTool(mcp.Tool{
		Name:        "update_prompt_draft",
		Description: "Changes fields of this session's prompt draft and returns the regenerated preview. " +
			"Pass field and value for one change, or fields for several applied together; nothing changes if any value is invalid.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"field": map[string]interface{}{
					"type":        "string",
					"description": "Field to change",
					"enum":        fieldNames(),
				},
				"value": map[string]interface{}{
					"type":        "string",
					"description": "New value for the field",
				},
				"fields": map[string]interface{}{
					"type":        "object",
					"description": "Several field/value pairs to change at once",
					"additionalProperties": map[string]interface{}{
						"type": "string",
					},
				},
			},
		},
	}, s.handleUpdatePromptDraft)

	// Tool: reset_prompt_draft - Restore the default draft
	s.server.AddTool(mcp.Tool{
		Name:        "reset_prompt_draft",
		Description: "Resets this session's prompt draft to the default selection",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleResetPromptDraft)
}

func fieldNames() []string {
	var names []string
	for _, f := range prompt.Fields() {
		names = append(names, string(f))
	}
	return names
}

func (s *Server) handleGeneratePrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params selectionParams
	if err := request.BindArguments(&params); err != nil {
		return argumentError(err), nil
	}

	sel, err := params.selection()
	if err != nil {
		return errorResult("Invalid selection: %v", err), nil
	}
	text, err := prompt.Assemble(sel)
	if err != nil {
		return errorResult("Invalid selection: %v", err), nil
	}

	return structuredResult(text, map[string]interface{}{
		"prompt":        text,
		"selection":     sel,
		"ready_to_send": prompt.CheckSendable(sel, text) == nil,
	}), nil
}

func (s *Server) handleSendPrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		selectionParams
		Model string `json:"model,omitempty"`
	}
	if err := request.BindArguments(&params); err != nil {
		return argumentError(err), nil
	}

	sel, err := params.selection()
	if err != nil {
		return errorResult("Invalid selection: %v", err), nil
	}
	text, err := prompt.Assemble(sel)
	if err != nil {
		return errorResult("Invalid selection: %v", err), nil
	}
	if err := prompt.CheckSendable(sel, text); err != nil {
		return errorResult("%s", prompt.MissingTopicMessage), nil
	}

	model := params.Model
	if model == "" {
		model = s.config.DefaultModel
	}
	if err := chat.ValidModel(model); err != nil {
		return errorResult("Invalid model: %v", err), nil
	}

	var metered *account.User
	user, err := s.deps.Accounts.IncrementUsage(ctx)
	switch {
	case err == nil:
		metered = &user
	case errors.Is(err, account.ErrNotLoggedIn):
		// Anonymous sends are not metered.
	case errors.Is(err, account.ErrDailyLimitReached):
		return errorResult("Daily Limit Reached: You've reached your daily limit of %d prompts. Upgrade to Premium for unlimited access!", user.PromptsLimit), nil
	default:
		return errorResult("Failed to check prompt allowance: %v", err), nil
	}

	response, err := s.deps.Completer.Complete(ctx, model, sel.Topic, text)
	if err != nil {
		if metered != nil {
			if _, refundErr := s.deps.Accounts.RefundUsage(context.WithoutCancel(ctx)); refundErr != nil {
				s.log.Error("failed to refund prompt", "error", refundErr)
			}
		}
		return errorResult("Failed to get a response: %v", err), nil
	}

	structured := map[string]interface{}{
		"model":    model,
		"prompt":   text,
		"response": response,
	}
	if metered != nil && !metered.IsPremium() {
		structured["prompts_remaining"] = metered.PromptsRemaining()
	}
	return structuredResult(response, structured), nil
}

func (s *Server) handleListPromptOptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(optionsListing()), nil
}

func optionsListing() map[string]interface{} {
	return map[string]interface{}{
		"vocabularies": prompt.Catalog(),
		"models":       chat.Models(),
	}
}

func (s *Server) handleUpdatePromptDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Field  string            `json:"field"`
		Value  string            `json:"value"`
		Fields map[string]string `json:"fields"`
	}
	if err := request.BindArguments(&params); err != nil {
		return argumentError(err), nil
	}

	updates, err := draftUpdates(params.Field, params.Value, params.Fields)
	if err != nil {
		return errorResult("Invalid field: %v", err), nil
	}
	draft, err := s.drafts.apply(sessionKey(ctx), updates...)
	if err != nil {
		return errorResult("Invalid value: %v", err), nil
	}
	return draftResult(draft), nil
}

// draftUpdates orders the requested changes by form field order, with the
// single field/value pair applied last.
func draftUpdates(field, value string, fields map[string]string) ([]prompt.Update, error) {
	byField := make(map[prompt.Field]string, len(fields))
	for name, v := range fields {
		f, err := prompt.ParseField(name)
		if err != nil {
			return nil, err
		}
		byField[f] = v
	}

	var updates []prompt.Update
	for _, f := range prompt.Fields() {
		if v, ok := byField[f]; ok {
			updates = append(updates, prompt.Update{Field: f, Value: v})
		}
	}
	if field != "" {
		f, err := prompt.ParseField(field)
		if err != nil {
			return nil, err
		}
		updates = append(updates, prompt.Update{Field: f, Value: value})
	}
	if len(updates) == 0 {
		return nil, errors.New("no field given")
	}
	return updates, nil
}

func (s *Server) handleResetPromptDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return draftResult(s.drafts.reset(sessionKey(ctx))), nil
}

func draftResult(d prompt.Draft) *mcp.CallToolResult {
	return structuredResult(d.Prompt, map[string]interface{}{
		"prompt":        d.Prompt,
		"selection":     d.Selection,
		"ready_to_send": d.ReadyToSend(),
	})
}

func (s *Server) registerPrompts() {
	opts := []mcp.PromptOption{
		mcp.WithPromptDescription("Generates a well-structured instruction for an AI model from categorical choices"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("Main topic or subject"),
			mcp.RequiredArgument(),
		),
	}
	for _, v := range prompt.Catalog() {
		opts = append(opts, mcp.WithArgument(string(v.Field),
			mcp.ArgumentDescription(fmt.Sprintf("One of: %s (default: %s)", strings.Join(v.Values(), ", "), v.Default)),
		))
	}
	opts = append(opts, mcp.WithArgument("instructions",
		mcp.ArgumentDescription("Additional requirements, appended verbatim"),
	))

	s.server.AddPrompt(mcp.NewPrompt("prompt_generator", opts...), s.handlePromptGenerator)
}

func (s *Server) handlePromptGenerator(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sel, err := prompt.ParseSelection(request.Params.Arguments)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt arguments: %w", err)
	}
	text, err := prompt.Assemble(sel)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt arguments: %w", err)
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("%s prompt", sel.Purpose.Label()),
		Messages: []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	}, nil
}
