package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/connectly-app/connectly-tui/internal/api"
	"github.com/connectly-app/connectly-tui/internal/chat"
	"github.com/connectly-app/connectly-tui/internal/config"
	"github.com/connectly-app/connectly-tui/internal/domain"
	"github.com/connectly-app/connectly-tui/internal/session"
	"github.com/connectly-app/connectly-tui/internal/state"
	"github.com/connectly-app/connectly-tui/internal/ui"
)

func main() {
	cfgDir := config.Dir()
	cfgPath := filepath.Join(cfgDir, "config.yaml")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config from %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	// Setup logging to file; stdout belongs to the TUI.
	logPath := filepath.Join(cfgDir, "connectly-tui.log")
	os.MkdirAll(cfgDir, 0700)
	logCfg := zap.NewDevelopmentConfig()
	logCfg.OutputPaths = []string{logPath}
	logCfg.ErrorOutputPaths = []string{logPath}
	if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		logCfg.Level = lvl
	}
	logger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "login":
			if err := runLogin(cfg, cfgDir, logger); err != nil {
				fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
				os.Exit(1)
			}
			return
		case "logout":
			session.Clear(cfgDir)
			fmt.Println("Logged out.")
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command %q. Commands: login, logout\n", os.Args[1])
			os.Exit(1)
		}
	}

	sess := session.Load(cfgDir)
	if sess == nil {
		fmt.Fprintln(os.Stderr, "Not logged in. Run:")
		fmt.Fprintln(os.Stderr, "  connectly-tui login")
		os.Exit(1)
	}
	logger.Info("session loaded", zap.Int64("user", sess.UserID), zap.String("email", sess.Email))

	client := api.New(cfg.Server.APIURL, sess, logger.Named("api"))

	// Store and trackers; the draw callback is wired once the app exists.
	store := state.New(nil)
	presence := state.NewPresenceTracker(nil)
	typing := state.NewTypingTracker(state.DefaultTypingTTL, nil)

	chatLogger := logger.Named("chat")
	router := chat.NewRouter(store, presence, typing, sess, chatLogger)
	manager := chat.NewManager(cfg.Server.WSURL, sess, router.HandleFrame, chatLogger)
	defer manager.Close()

	pipeline := chat.NewSendPipeline(manager, store, sess, chatLogger, chat.DefaultTypingWindow)

	app := ui.NewApp(store, presence, typing, client, manager, pipeline, sess)

	draw := app.DrawFunc()
	store.SetNotify(draw)
	presence.SetNotify(draw)
	typing.SetNotify(draw)
	manager.SetOnState(func(s domain.ConnState) {
		app.Send(ui.ConnStateMsg{State: s})
	})

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runLogin prompts for credentials, authenticates and saves the session.
func runLogin(cfg *config.Config, cfgDir string, logger *zap.Logger) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	pwBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return err
	}
	password := string(pwBytes)

	client := api.New(cfg.Server.APIURL, nil, logger.Named("api"))
	sess, err := client.Login(context.Background(), email, password)
	if err != nil {
		return err
	}

	if err := session.Save(cfgDir, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	fmt.Printf("Logged in as %s (%s)\n", sess.FullName, sess.Email)
	return nil
}
