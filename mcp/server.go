package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/complytime/prompt-generator-mcp-server/account"
	"github.com/complytime/prompt-generator-mcp-server/chat"
	"github.com/complytime/prompt-generator-mcp-server/config"
)

const (
	serverName      = "prompt-generator-mcp-server"
	shutdownTimeout = 5 * time.Second
)

type Config struct {
	Version      string
	Transport    string
	Address      string
	DefaultModel string
}

// Dependencies are the collaborators the tools drive.
type Dependencies struct {
	Accounts      *account.Service
	Subscriptions *account.Subscriptions
	Conversation  *chat.Conversation
	Completer     chat.Completer

	Logger *slog.Logger
	// LogOutput receives the transport's own error log.
	LogOutput io.Writer
}

type Server struct {
	server *server.MCPServer
	config Config
	deps   Dependencies
	log    *slog.Logger
	drafts *draftRegistry
}

func NewServer(cfg Config, deps Dependencies) (*Server, error) {
	if deps.Accounts == nil || deps.Subscriptions == nil || deps.Conversation == nil {
		return nil, errors.New("accounts, subscriptions and conversation are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.LogOutput == nil {
		deps.LogOutput = os.Stderr
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = chat.ModelGPT4o
	}
	if err := chat.ValidModel(cfg.DefaultModel); err != nil {
		return nil, fmt.Errorf("invalid default model: %w", err)
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		log:    deps.Logger.With("component", "mcp"),
		drafts: newDraftRegistry(),
	}

	hooks := &server.Hooks{}
	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		s.drafts.forget(session.SessionID())
	})

	s.server = server.NewMCPServer(serverName, cfg.Version,
		server.WithHooks(hooks),
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithToolHandlerMiddleware(s.logToolCall),
		server.WithRecovery(),
		server.WithInstructions("Build well-formed LLM prompts from purpose, format, tone, length and audience choices. "+
			"Use generate_prompt or the prompt_generator prompt to assemble text, and send_prompt to get a simulated answer."),
	)

	s.registerTools()
	s.registerPrompts()
	s.registerResources()

	return s, nil
}

// MCPServer exposes the underlying protocol server, mainly for tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.server
}

func (s *Server) registerTools() {
	s.registerGeneratorTools()
	s.registerChatTools()
	s.registerAccountTools()
}

func (s *Server) logToolCall(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := next(ctx, request)
		attrs := []any{"tool", request.Params.Name, "duration", time.Since(start)}
		switch {
		case err != nil:
			s.log.Error("tool call failed", append(attrs, "error", err)...)
		case result != nil && result.IsError:
			s.log.Info("tool call rejected", attrs...)
		default:
			s.log.Debug("tool call", attrs...)
		}
		return result, err
	}
}

type httpTransport interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}

func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.log.Info("starting prompt generator MCP server", "version", s.config.Version, "transport", s.config.Transport)

	switch s.config.Transport {
	case "", config.TransportStdio:
		return s.serveStdio(ctx)
	case config.TransportSSE:
		return s.serveHTTP(ctx, server.NewSSEServer(s.server))
	case config.TransportHTTP:
		return s.serveHTTP(ctx, server.NewStreamableHTTPServer(s.server))
	}
	return fmt.Errorf("unsupported transport %q", s.config.Transport)
}

func (s *Server) serveStdio(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.server)
	stdLogger := log.New(s.deps.LogOutput, serverName+": ", 0)
	stdioServer.SetErrorLogger(stdLogger)

	errC := make(chan error, 1)
	go func() {
		errC <- stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	}()

	_, _ = fmt.Fprintf(os.Stderr, "Prompt Generator MCP Server running on stdio\n")

	select {
	case <-ctx.Done():
		s.log.Info("shutting down server", "signal", "context done")
	case err := <-errC:
		if err != nil {
			s.log.Error("error running server", "error", err)
			return fmt.Errorf("error running server: %w", err)
		}
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context, transport httpTransport) error {
	errC := make(chan error, 1)
	go func() {
		errC <- transport.Start(s.config.Address)
	}()

	_, _ = fmt.Fprintf(os.Stderr, "Prompt Generator MCP Server listening on %s (%s)\n", s.config.Address, s.config.Transport)

	select {
	case <-ctx.Done():
		s.log.Info("shutting down server", "signal", "context done")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := transport.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down server: %w", err)
		}
	case err := <-errC:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("error running server", "error", err)
			return fmt.Errorf("error running server: %w", err)
		}
	}

	return nil
}
