package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/complytime/prompt-generator-mcp-server/account"
	"github.com/complytime/prompt-generator-mcp-server/chat"
	"github.com/complytime/prompt-generator-mcp-server/prompt"
)

const blackHolesPrompt = "You are an expert providing high-quality information.\n\n" +
	"Explain black holes in paragraph format using a neutral, objective tone. " +
	"Provide moderate detail (3-5 paragraphs)."

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func newTestServer(t *testing.T) (*Server, *fixedClock) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := account.OpenSQLStore(filepath.Join(t.TempDir(), "promptgen.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clk := &fixedClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	accounts := account.NewService(store, logger, account.Options{
		DailyLimit: 2,
		HashCost:   bcrypt.MinCost,
		Now:        clk.Now,
	})
	conv := chat.NewConversation(chat.NewTranscript("Hello! How can I assist you today?"),
		chat.KeywordResponder{Model: "open-mistral-8x7b"}, logger)

	s, err := NewServer(Config{Version: "test", DefaultModel: chat.ModelGPT4o}, Dependencies{
		Accounts:      accounts,
		Subscriptions: account.NewSubscriptions(accounts, 0, logger),
		Conversation:  conv,
		Completer:     chat.Completer{},
		Logger:        logger,
		LogOutput:     io.Discard,
	})
	require.NoError(t, err)
	return s, clk
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.server.GetTool(name)
	require.NotNil(t, tool, "tool %s not registered", name)

	var request mcp.CallToolRequest
	request.Params.Name = name
	request.Params.Arguments = args
	result, err := tool.Handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func structured(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	m, ok := result.StructuredContent.(map[string]interface{})
	require.True(t, ok, "structured content is %T", result.StructuredContent)
	return m
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(Config{}, Dependencies{})
	assert.Error(t, err)
}

func TestNewServer_RejectsUnknownDefaultModel(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := NewServer(Config{DefaultModel: "gpt-2"}, s.deps)
	assert.ErrorIs(t, err, chat.ErrUnknownModel)
}

func TestServer_RegistersTools(t *testing.T) {
	s, _ := newTestServer(t)

	var names []string
	for name := range s.MCPServer().ListTools() {
		names = append(names, name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"account_login",
		"account_logout",
		"account_signup",
		"account_status",
		"account_subscribe",
		"chat_history",
		"chat_send",
		"generate_prompt",
		"list_prompt_options",
		"reset_prompt_draft",
		"send_prompt",
		"update_prompt_draft",
	}, names)
}

func TestGeneratePrompt(t *testing.T) {
	s, _ := newTestServer(t)

	result := callTool(t, s, "generate_prompt", map[string]any{"topic": "black holes"})
	assert.False(t, result.IsError)
	assert.Equal(t, blackHolesPrompt, resultText(t, result))
	assert.Equal(t, true, structured(t, result)["ready_to_send"])
}

func TestGeneratePrompt_NoTopic(t *testing.T) {
	s, _ := newTestServer(t)

	result := callTool(t, s, "generate_prompt", map[string]any{"purpose": "summarize"})
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Summarize [topic]")
	assert.Equal(t, false, structured(t, result)["ready_to_send"])
}

func TestGeneratePrompt_UnknownOption(t *testing.T) {
	s, _ := newTestServer(t)

	result := callTool(t, s, "generate_prompt", map[string]any{"topic": "x", "tone": "sarcastic"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "sarcastic")
}

func TestSendPrompt_MissingTopic(t *testing.T) {
	s, _ := newTestServer(t)

	result := callTool(t, s, "send_prompt", map[string]any{"topic": "  "})
	assert.True(t, result.IsError)
	assert.Equal(t, prompt.MissingTopicMessage, resultText(t, result))
}

func TestSendPrompt_Anonymous(t *testing.T) {
	s, _ := newTestServer(t)

	result := callTool(t, s, "send_prompt", map[string]any{"topic": "black holes"})
	require.False(t, result.IsError, resultText(t, result))
	text := resultText(t, result)
	assert.Contains(t, text, "connected to the GPT-4o API")
	assert.Contains(t, text, blackHolesPrompt)
	assert.NotContains(t, structured(t, result), "prompts_remaining")
}

func TestSendPrompt_UnknownModel(t *testing.T) {
	s, _ := newTestServer(t)

	result := callTool(t, s, "send_prompt", map[string]any{"topic": "x", "model": "gpt-2"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Invalid model")
}

func TestSendPrompt_DailyLimit(t *testing.T) {
	s, _ := newTestServer(t)

	login := callTool(t, s, "account_login", map[string]any{"email": "ada@example.com", "password": "secret1"})
	require.False(t, login.IsError, resultText(t, login))

	for want := 1; want >= 0; want-- {
		result := callTool(t, s, "send_prompt", map[string]any{"topic": "black holes", "model": chat.ModelClaudeSonnet})
		require.False(t, result.IsError, resultText(t, result))
		assert.Equal(t, want, structured(t, result)["prompts_remaining"])
	}

	result := callTool(t, s, "send_prompt", map[string]any{"topic": "black holes"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "daily limit of 2 prompts")
}

func TestSendPrompt_PremiumIsUnlimited(t *testing.T) {
	s, _ := newTestServer(t)

	callTool(t, s, "account_signup", map[string]any{"email": "ada@example.com", "password": "secret1"})
	sub := callTool(t, s, "account_subscribe", map[string]any{"plan": "yearly"})
	require.False(t, sub.IsError, resultText(t, sub))
	assert.Contains(t, resultText(t, sub), "October 18, 2027")

	for i := 0; i < 5; i++ {
		result := callTool(t, s, "send_prompt", map[string]any{"topic": "black holes"})
		require.False(t, result.IsError, resultText(t, result))
	}
}

func TestDraftTools(t *testing.T) {
	s, _ := newTestServer(t)

	result := callTool(t, s, "update_prompt_draft", map[string]any{"field": "topic", "value": "black holes"})
	require.False(t, result.IsError, resultText(t, result))
	assert.Equal(t, blackHolesPrompt, resultText(t, result))
	assert.Equal(t, true, structured(t, result)["ready_to_send"])

	result = callTool(t, s, "update_prompt_draft", map[string]any{"field": "audience", "value": "children"})
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "information for children.")

	rejected := callTool(t, s, "update_prompt_draft", map[string]any{"field": "length", "value": "epic"})
	assert.True(t, rejected.IsError)
	assert.Contains(t, s.drafts.get(defaultSession).Prompt, "information for children.")

	badField := callTool(t, s, "update_prompt_draft", map[string]any{"field": "colour", "value": "red"})
	assert.True(t, badField.IsError)

	reset := callTool(t, s, "reset_prompt_draft", nil)
	assert.Contains(t, resultText(t, reset), "[topic]")
	assert.Equal(t, false, structured(t, reset)["ready_to_send"])
}

func TestListPromptOptions(t *testing.T) {
	s, _ := newTestServer(t)

	result := callTool(t, s, "list_prompt_options", nil)
	require.False(t, result.IsError)

	var listing struct {
		Vocabularies []prompt.Vocabulary `json:"vocabularies"`
		Models       []string            `json:"models"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &listing))
	assert.Len(t, listing.Vocabularies, 5)
	assert.Equal(t, chat.Models(), listing.Models)
}

func TestChatTools(t *testing.T) {
	s, _ := newTestServer(t)

	result := callTool(t, s, "chat_send", map[string]any{"message": "hello"})
	require.False(t, result.IsError, resultText(t, result))
	assert.Contains(t, resultText(t, result), "Hello there!")

	empty := callTool(t, s, "chat_send", map[string]any{"message": ""})
	assert.True(t, empty.IsError)

	history := callTool(t, s, "chat_history", nil)
	var payload struct {
		Messages []chat.Message `json:"messages"`
		Loading  bool           `json:"loading"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, history)), &payload))
	require.Len(t, payload.Messages, 3)
	assert.True(t, payload.Messages[1].FromUser)
	assert.False(t, payload.Loading)
}

func TestAccountTools(t *testing.T) {
	s, clk := newTestServer(t)

	status := callTool(t, s, "account_status", nil)
	assert.False(t, status.IsError)
	assert.Equal(t, "Not logged in.", resultText(t, status))

	bad := callTool(t, s, "account_login", map[string]any{"email": "nope", "password": "123"})
	assert.True(t, bad.IsError)
	assert.Contains(t, resultText(t, bad), "check your email and password")

	noUser := callTool(t, s, "account_subscribe", map[string]any{"plan": "monthly"})
	assert.True(t, noUser.IsError)

	signup := callTool(t, s, "account_signup", map[string]any{"email": "ada@example.com", "password": "secret1"})
	require.False(t, signup.IsError, resultText(t, signup))

	wrong := callTool(t, s, "account_login", map[string]any{"email": "ada@example.com", "password": "secret2"})
	assert.True(t, wrong.IsError)

	badPlan := callTool(t, s, "account_subscribe", map[string]any{"plan": "weekly"})
	assert.True(t, badPlan.IsError)

	sub := callTool(t, s, "account_subscribe", map[string]any{"plan": "monthly"})
	require.False(t, sub.IsError, resultText(t, sub))
	status = callTool(t, s, "account_status", nil)
	assert.Contains(t, resultText(t, status), "(Premium)")

	clk.t = clk.t.AddDate(0, 2, 0)
	status = callTool(t, s, "account_status", nil)
	assert.Contains(t, resultText(t, status), "(Free): 2 of 2 prompts left today")

	logout := callTool(t, s, "account_logout", nil)
	assert.False(t, logout.IsError)
	status = callTool(t, s, "account_status", nil)
	assert.Equal(t, "Not logged in.", resultText(t, status))
}

func TestPromptGenerator(t *testing.T) {
	s, _ := newTestServer(t)

	var request mcp.GetPromptRequest
	request.Params.Name = "prompt_generator"
	request.Params.Arguments = map[string]string{"topic": "black holes"}
	result, err := s.handlePromptGenerator(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, mcp.RoleUser, result.Messages[0].Role)
	text, ok := mcp.AsTextContent(result.Messages[0].Content)
	require.True(t, ok)
	assert.Equal(t, blackHolesPrompt, text.Text)

	request.Params.Arguments = map[string]string{"topic": "x", "format": "haiku"}
	_, err = s.handlePromptGenerator(context.Background(), request)
	assert.ErrorIs(t, err, prompt.ErrUnknownOption)
}

func TestResources(t *testing.T) {
	s, _ := newTestServer(t)

	contents, err := jsonContents(plansURI, account.Plans())
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Save $10")

	callTool(t, s, "update_prompt_draft", map[string]any{"field": "topic", "value": "tides"})
	msg := s.server.HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"promptgen://draft"}}`))
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Explain tides in paragraph format")
}

func TestHandleMessage_ToolsCall(t *testing.T) {
	s, _ := newTestServer(t)

	msg := s.server.HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"generate_prompt","arguments":{"topic":"black holes","format":"bullet"}}}`))
	response, ok := msg.(mcp.JSONRPCResponse)
	require.True(t, ok, "unexpected response %T", msg)
	raw, err := json.Marshal(response.Result)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Explain black holes as a bullet point list")
}

func TestUpdatePromptDraft_SeveralFieldsAtOnce(t *testing.T) {
	s, _ := newTestServer(t)

	result := callTool(t, s, "update_prompt_draft", map[string]any{
		"fields": map[string]any{"topic": "black holes", "audience": "expert"},
	})
	require.False(t, result.IsError, resultText(t, result))
	before := s.drafts.get(defaultSession)
	assert.Contains(t, before.Prompt, "for experts and professionals.\n\nExplain black holes")

	rejected := callTool(t, s, "update_prompt_draft", map[string]any{
		"fields": map[string]any{"topic": "tides", "tone": "grumpy"},
	})
	assert.True(t, rejected.IsError)
	assert.Equal(t, before, s.drafts.get(defaultSession))

	mixed := callTool(t, s, "update_prompt_draft", map[string]any{
		"fields": map[string]any{"topic": "tides"},
		"field":  "topic",
		"value":  "comets",
	})
	require.False(t, mixed.IsError)
	assert.Contains(t, resultText(t, mixed), "Explain comets")

	empty := callTool(t, s, "update_prompt_draft", map[string]any{})
	assert.True(t, empty.IsError)
}

func TestSendPrompt_FailedCompletionIsNotCharged(t *testing.T) {
	s, _ := newTestServer(t)
	callTool(t, s, "account_login", map[string]any{"email": "ada@example.com", "password": "secret1"})
	s.deps.Completer = chat.Completer{Delay: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var request mcp.CallToolRequest
	request.Params.Name = "send_prompt"
	request.Params.Arguments = map[string]any{"topic": "black holes"}
	result, err := s.handleSendPrompt(ctx, request)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to get a response")

	status := callTool(t, s, "account_status", nil)
	assert.Contains(t, resultText(t, status), "2 of 2 prompts left today")
}

type testSession struct {
	id            string
	notifications chan mcp.JSONRPCNotification
}

func (s *testSession) Initialize()       {}
func (s *testSession) Initialized() bool { return true }
func (s *testSession) SessionID() string { return s.id }
func (s *testSession) NotificationChannel() chan<- mcp.JSONRPCNotification {
	return s.notifications
}

func TestDrafts_ForgottenWhenSessionEnds(t *testing.T) {
	s, _ := newTestServer(t)
	session := &testSession{id: "session-1", notifications: make(chan mcp.JSONRPCNotification, 1)}
	ctx := s.server.WithContext(context.Background(), session)
	require.NoError(t, s.server.RegisterSession(ctx, session))

	var request mcp.CallToolRequest
	request.Params.Name = "update_prompt_draft"
	request.Params.Arguments = map[string]any{"field": "topic", "value": "tides"}
	result, err := s.handleUpdatePromptDraft(ctx, request)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, 1, s.drafts.size())
	assert.Contains(t, s.drafts.get("session-1").Prompt, "Explain tides")
	assert.NotContains(t, s.drafts.get(defaultSession).Prompt, "tides")

	s.server.UnregisterSession(ctx, "session-1")
	assert.Equal(t, 0, s.drafts.size())
}
