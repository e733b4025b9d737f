package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/roombook/internal/api"
	"github.com/example/roombook/internal/config"
	"github.com/example/roombook/internal/persistence"
	"github.com/example/roombook/internal/persistence/sqlite"
	"github.com/example/roombook/internal/session"
	"github.com/example/roombook/internal/state"
	"github.com/example/roombook/internal/telemetry"
)

func main() {
	// Logs go to stderr; stdout is reserved for rendered output.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	shutdown := telemetry.Setup("roombook")
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shut down telemetry", "error", err)
		}
	}()

	profile, err := sqlite.Open(cfg.ProfileDSN)
	if err != nil {
		logger.Error("failed to open profile store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := profile.Close(); cerr != nil {
			logger.Error("failed to close profile store", "error", cerr)
		}
	}()
	if err := profile.Migrate(ctx); err != nil {
		logger.Error("failed to migrate profile store", "error", err)
		os.Exit(1)
	}

	terminal := newTerminal(os.Stdout)
	client := api.NewClientWithLogger(cfg.APIBaseURL, newTokenSourceAdapter(profile, logger), cfg.HTTPTimeout, logger)
	sessions := session.NewStoreWithLogger(client, profile, terminal, terminal, logger)

	app := &app{
		client:        client,
		sessions:      sessions,
		rooms:         state.NewRoomsStoreWithLogger(client, terminal, logger),
		myOrders:      state.NewOrdersStoreWithLogger(client, state.ScopeMine, terminal, logger),
		allOrders:     state.NewOrdersStoreWithLogger(client, state.ScopeAll, terminal, logger),
		notifications: state.NewNotificationsStoreWithLogger(client, terminal, logger),
		terminal:      terminal,
		stdin:         os.Stdin,
	}

	os.Exit(app.run(ctx, os.Args[1:]))
}

// tokenSourceAdapter reads the persisted bearer token on every outgoing
// request, so a token rotated mid-process is picked up immediately.
type tokenSourceAdapter struct {
	kv     persistence.KV
	logger *slog.Logger
}

func newTokenSourceAdapter(kv persistence.KV, logger *slog.Logger) *tokenSourceAdapter {
	return &tokenSourceAdapter{kv: kv, logger: logger}
}

func (a *tokenSourceAdapter) Token(ctx context.Context) string {
	token, err := a.kv.Get(ctx, persistence.TokenKey)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to read persisted token", "error", err)
		return ""
	}
	return token
}

// terminal is the presentation sink: transient notifications, action progress
// indicators, and navigation announcements all render as plain lines.
type terminal struct {
	out io.Writer
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{out: out}
}

// Success implements session.Notifier.
func (t *terminal) Success(message string) {
	fmt.Fprintf(t.out, "✔ %s\n", message)
}

// Error implements session.Notifier.
func (t *terminal) Error(message string) {
	fmt.Fprintf(t.out, "✘ %s\n", message)
}

// Begin implements state.Notifier.
func (t *terminal) Begin(actionID, message string) {
	fmt.Fprintf(t.out, "… %s\n", message)
}

// Succeed implements state.Notifier.
func (t *terminal) Succeed(actionID, message string) {
	fmt.Fprintf(t.out, "✔ %s\n", message)
}

// Fail implements state.Notifier.
func (t *terminal) Fail(actionID, message string) {
	fmt.Fprintf(t.out, "✘ %s\n", message)
}

// NavigateTo implements session.Navigator. A CLI has no router; the announced
// route tells the user which surface the action landed on.
func (t *terminal) NavigateTo(route string) {
	fmt.Fprintf(t.out, "→ %s\n", route)
}
