package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/complytime/prompt-generator-mcp-server/account"
	"github.com/complytime/prompt-generator-mcp-server/chat"
	"github.com/complytime/prompt-generator-mcp-server/config"
	"github.com/complytime/prompt-generator-mcp-server/mcp"
	"github.com/complytime/prompt-generator-mcp-server/version"
)

var (
	configFile  string
	transport   string
	address     string
	logFilePath string
	dbPath      string
)

var rootCmd = &cobra.Command{
	Use:   "prompt-generator-mcp-server",
	Short: "Prompt Generator MCP Server",
	Long:  "A Model Context Protocol server that assembles well-structured LLM prompts from categorical choices, with a mock assistant chat and account layer",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		return run(cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Prompt Generator MCP Server %s\n", version.GetVersion())
	},
}

// applyFlags lets explicitly set flags win over file and environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("transport") {
		cfg.Server.Transport = transport
	}
	if flags.Changed("address") {
		cfg.Server.Address = address
	}
	if flags.Changed("log-file") {
		cfg.Server.LogFile = logFilePath
	}
	if flags.Changed("db") {
		cfg.Storage.Path = dbPath
	}
}

func run(cfg config.Config) error {
	logger, logOutput, closeLog, err := mcp.NewLogger(cfg.Server.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	store, err := account.OpenSQLStore(cfg.Storage.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = store.Close() }()
	glog.V(1).Infof("using store %s", cfg.Storage.Path)

	accounts := account.NewService(store, logger, account.Options{
		DailyLimit: cfg.Account.DailyLimit,
		AuthDelay:  cfg.Account.AuthDelay,
	})
	conversation := chat.NewConversation(
		chat.NewTranscript(cfg.Chat.Greeting),
		chat.KeywordResponder{Model: cfg.Chat.Model, Delay: cfg.Chat.ReplyDelay},
		logger,
	)

	server, err := mcp.NewServer(mcp.Config{
		Version:      version.GetVersion(),
		Transport:    cfg.Server.Transport,
		Address:      cfg.Server.Address,
		DefaultModel: cfg.Generator.DefaultModel,
	}, mcp.Dependencies{
		Accounts:      accounts,
		Subscriptions: account.NewSubscriptions(accounts, cfg.Account.SubscribeDelay, logger),
		Conversation:  conversation,
		Completer:     chat.Completer{Delay: cfg.Generator.ResponseDelay},
		Logger:        logger,
		LogOutput:     logOutput,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return server.Start()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newAssembleCmd())
	rootCmd.AddCommand(newOptionsCmd())

	rootCmd.Flags().StringVar(&configFile, "config", "", "path to YAML configuration file")
	rootCmd.Flags().StringVar(&transport, "transport", config.TransportStdio, "transport mode (stdio/sse/http)")
	rootCmd.Flags().StringVar(&address, "address", ":8080", "listen address for the sse and http transports")
	rootCmd.Flags().StringVar(&logFilePath, "log-file", "", "path to log file (default: stderr)")
	rootCmd.Flags().StringVar(&dbPath, "db", "promptgen.db", "path to the SQLite account store")

	// Bridge glog flags with pflag for cobra compatibility
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
}

func main() {
	defer glog.Flush()

	if err := rootCmd.Execute(); err != nil {
		glog.Errorf("Command execution failed: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
