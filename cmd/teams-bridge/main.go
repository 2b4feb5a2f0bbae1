// ABOUTME: Entry point for the teams-bridge CLI
// ABOUTME: Resolves send contexts and delivers messages into Teams conversations

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/teams-bridge/internal/config"
	"github.com/2389/teams-bridge/internal/sendctx"
	"github.com/2389/teams-bridge/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const starterConfig = `channels:
  msteams:
    enabled: true
    app_id: "${TEAMS_APP_ID}"
    app_password: "${TEAMS_APP_PASSWORD}"
    tenant_id: "${TEAMS_TENANT_ID}"

database:
  path: "~/.local/share/teams-bridge/bridge.db"

logging:
  level: "info"
  format: "text"
`

// getConfigPath returns the path to the bridge config file.
// Priority: TEAMS_BRIDGE_CONFIG env var > XDG_CONFIG_HOME/teams-bridge/config.yaml > ~/.config/teams-bridge/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("TEAMS_BRIDGE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "teams-bridge", "config.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("teams-bridge %s\n\n", version)
		fmt.Println("Usage: teams-bridge <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  send --to TARGET --message TEXT  Resolve a send context and deliver a message")
		fmt.Println("  conversations                    List stored conversation references")
		fmt.Println("  init                             Create a starter config file")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "send":
		err = runSend(ctx, os.Args[2:])
	case "conversations":
		err = runConversations(ctx)
	case "init":
		err = runInit()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore loads the config, installs the logger, and opens the store.
func openStore() (*config.Config, *store.SQLiteStore, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(setupLogger(cfg.Logging))

	dbPath := cfg.Database.Path
	if envPath := os.Getenv("TEAMS_BRIDGE_DB_PATH"); envPath != "" {
		dbPath = envPath
	}

	s, err := store.NewSQLiteStore(expandHome(dbPath))
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	return cfg, s, nil
}

func runSend(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	to := fs.String("to", "", "target: user:<aad-id>, conversation:<id>, or a bare conversation id")
	message := fs.String("message", "", "message text to deliver")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *to == "" || *message == "" {
		return fmt.Errorf("--to and --message are required")
	}

	cfg, s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	resolver := sendctx.New(sendctx.Collaborators{Store: s}, slog.Default())

	sc, err := resolver.Resolve(ctx, cfg, *to)
	if err != nil {
		return fmt.Errorf("resolving send context: %w", err)
	}

	ref := &store.ConversationReference{
		ConversationID:   sc.ConversationID,
		ChannelID:        sendctx.ChannelID,
		ServiceURL:       sc.ServiceURL,
		ConversationType: sc.ConversationType,
	}
	if err := sc.Adapter.ContinueConversation(ctx, ref, *message); err != nil {
		return fmt.Errorf("delivering message: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("sent to %s (%s)\n", sc.ConversationID, sc.ConversationType)
	return nil
}

func runConversations(ctx context.Context) error {
	_, s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	refs, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}

	if len(refs) == 0 {
		fmt.Println("No stored conversations.")
		return nil
	}

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	for _, ref := range refs {
		cyan.Printf("%s", ref.ConversationID)
		fmt.Printf("  %s", ref.ConversationType)
		if ref.UserID != "" {
			fmt.Printf("  user=%s", ref.UserID)
		}
		gray.Printf("  updated %s\n", ref.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runInit() error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Wrote starter config to %s\n", configPath)
	fmt.Println("Set TEAMS_APP_ID, TEAMS_APP_PASSWORD, and TEAMS_TENANT_ID before running send.")
	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[2:])
}

// setupLogger creates a logger from the logging configuration.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
