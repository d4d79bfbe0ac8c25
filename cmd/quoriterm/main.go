package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/qnkhuat/quoriterm/pkg/api"
	"github.com/qnkhuat/quoriterm/pkg/config"
	"github.com/qnkhuat/quoriterm/pkg/gui"
	"github.com/qnkhuat/quoriterm/pkg/logger"
	"github.com/qnkhuat/quoriterm/pkg/session"
	"github.com/qnkhuat/quoriterm/pkg/state"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	gameID := flag.String("game", "", "id of the game to play")
	token := flag.String("token", "", "CSRF token sent with every action")
	serverURL := flag.String("server", "", "base url of the game server")
	watch := flag.Bool("watch", false, "print the board as text instead of drawing the UI")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *gameID != "" {
		cfg.Game.ID = *gameID
	}
	if *token != "" {
		cfg.Server.CSRFToken = *token
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if err := cfg.ValidateClient(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, closer, err := logger.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Info("New client", "game", cfg.Game.ID, "server", cfg.Server.URL)
	err = run(cfg, log, *watch || !term.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		log.Error("Client stopped", "error", err)
	}
	closer.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger, plain bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := api.NewClient(api.Options{
		BaseURL:          cfg.Server.URL,
		CSRFToken:        cfg.Server.CSRFToken,
		Cookie:           cfg.Server.Cookie,
		ShortOrientation: cfg.Server.ShortOrientation,
		HTTPClient:       &http.Client{Timeout: cfg.Server.RequestTimeout},
		Logger:           log,
	})
	if err != nil {
		return err
	}

	initial, err := initialState(ctx, cfg, client)
	if err != nil {
		return err
	}

	opts := session.Options{
		Initial:               initial,
		Transport:             client,
		PollInterval:          cfg.Sync.PollInterval,
		StopPollingOnTerminal: cfg.Sync.StopOnTerminal,
		Logger:                log,
	}

	if plain {
		return watchGame(ctx, opts)
	}

	theme, err := cfg.ResolveTheme()
	if err != nil {
		return err
	}
	ui := gui.NewClient(theme, cfg.Sync.MessageTTL)
	opts.Projector = ui
	opts.Notifier = ui
	opts.Executor = ui.Executor()

	sess, err := session.New(opts)
	if err != nil {
		return err
	}
	ui.Bind(ctx, sess)
	sess.Start()
	go sess.Run(ctx)

	go func() {
		<-ctx.Done()
		ui.Stop()
	}()
	return ui.Run()
}

// watchGame prints every state change to stdout until ctx is done.
func watchGame(ctx context.Context, opts session.Options) error {
	printer := gui.NewPrinter(os.Stdout, !term.IsTerminal(int(os.Stdout.Fd())))
	opts.Projector = printer
	opts.Notifier = printer

	var mu sync.Mutex
	opts.Executor = func(f func()) {
		mu.Lock()
		defer mu.Unlock()
		f()
	}

	sess, err := session.New(opts)
	if err != nil {
		return err
	}
	sess.Start()
	sess.Run(ctx)
	return nil
}

func initialState(ctx context.Context, cfg *config.Config, client *api.Client) (*state.GameState, error) {
	id := state.GameID(cfg.Game.ID)
	if cfg.Game.InitialState == "" {
		return client.FetchState(ctx, id)
	}

	b, err := os.ReadFile(cfg.Game.InitialState)
	if err != nil {
		return nil, fmt.Errorf("unable to read initial state: %w", err)
	}
	return state.DecodeInitial(b, id)
}
