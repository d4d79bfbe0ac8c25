package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qnkhuat/quoriterm/pkg/api"
	"github.com/qnkhuat/quoriterm/pkg/state"
)

const DefaultPollInterval = 3 * time.Second

// Transport is the game server as seen by a session.
type Transport interface {
	FetchState(ctx context.Context, gameID state.GameID) (*state.GameState, error)
	Move(ctx context.Context, gameID state.GameID, x, y int) (*api.ActionResult, error)
	PlaceFence(ctx context.Context, gameID state.GameID, x, y int, o state.Orientation) (*api.ActionResult, error)
}

// Projector renders a state. It is only ever called from the executor.
type Projector interface {
	Project(s *state.GameState)
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(text string, severity Severity)
}

// Executor runs f on the goroutine that owns the UI. Every store update and
// projection goes through it.
type Executor func(f func())

type Options struct {
	Initial   *state.GameState
	Transport Transport
	Projector Projector
	Notifier  Notifier
	// Executor defaults to running f inline.
	Executor     Executor
	PollInterval time.Duration
	// StopPollingOnTerminal ends Run once a winner is known.
	StopPollingOnTerminal bool
	Logger                *slog.Logger
}

// Session owns the state of one game for the lifetime of the client.
type Session struct {
	gameID         state.GameID
	store          *state.Store
	transport      Transport
	projector      Projector
	notifier       Notifier
	exec           Executor
	pollInterval   time.Duration
	stopOnTerminal bool
	log            *slog.Logger

	terminal atomic.Bool

	mu          sync.Mutex
	mode        Mode
	orientation state.Orientation
}

func New(opts Options) (*Session, error) {
	if opts.Initial == nil {
		return nil, errors.New("initial state is required")
	}
	if opts.Initial.ID == "" {
		return nil, errors.New("initial state has no game id")
	}
	if opts.Transport == nil || opts.Projector == nil || opts.Notifier == nil {
		return nil, errors.New("transport, projector and notifier are required")
	}

	exec := opts.Executor
	if exec == nil {
		exec = func(f func()) { f() }
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Session{
		gameID:         opts.Initial.ID,
		store:          state.NewStore(opts.Initial),
		transport:      opts.Transport,
		projector:      opts.Projector,
		notifier:       opts.Notifier,
		exec:           exec,
		pollInterval:   interval,
		stopOnTerminal: opts.StopPollingOnTerminal,
		log:            logger.With("component", "session", "game", string(opts.Initial.ID)),
		mode:           ModeMove,
		orientation:    state.Horizontal,
	}
	if opts.Initial.Terminal() {
		s.terminal.Store(true)
	}
	return s, nil
}

// Start renders the initial state.
func (s *Session) Start() {
	s.exec(func() {
		s.projector.Project(s.store.Current())
	})
}

// Current returns a copy of the held state.
func (s *Session) Current() *state.GameState {
	return s.store.Current()
}

func (s *Session) Phase() Phase {
	if s.terminal.Load() {
		return PhaseTerminal
	}
	return PhaseActive
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

func (s *Session) Orientation() state.Orientation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orientation
}

func (s *Session) SetOrientation(o state.Orientation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orientation = o
}

// ToggleOrientation flips the fence orientation and returns the new one.
func (s *Session) ToggleOrientation() state.Orientation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orientation = s.orientation.Toggle()
	return s.orientation
}

// ActionAt resolves a selection of cell (x, y) against the current mode.
func (s *Session) ActionAt(x, y int) Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := Action{Kind: s.mode, X: x, Y: y}
	if a.Kind == ModeFence {
		a.Orientation = s.orientation
	}
	return a
}

// Submit sends one action to the server and applies the outcome. It blocks
// until the request settles; callers on the UI goroutine run it with go.
func (s *Session) Submit(ctx context.Context, a Action) {
	var (
		res *api.ActionResult
		err error
	)
	switch a.Kind {
	case ModeFence:
		res, err = s.transport.PlaceFence(ctx, s.gameID, a.X, a.Y, a.Orientation)
	default:
		res, err = s.transport.Move(ctx, s.gameID, a.X, a.Y)
	}

	s.exec(func() {
		s.applyAction(a, res, err)
	})
}

func (s *Session) applyAction(a Action, res *api.ActionResult, err error) {
	if err != nil {
		s.log.Error("Action failed", "kind", a.Kind, "x", a.X, "y", a.Y, "error", err)
		s.notifier.Notify(fmt.Sprintf("Error: %v", err), SeverityError)
		return
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Action rejected by server"
		}
		s.log.Info("Action rejected", "kind", a.Kind, "x", a.X, "y", a.Y, "reason", res.Message)
		s.notifier.Notify(msg, SeverityError)
		return
	}

	s.log.Debug("Action accepted", "kind", a.Kind, "x", a.X, "y", a.Y)
	s.replace(res.State)
}

// Poll fetches the state once and applies it if it differs from the held
// one. Failures are logged and otherwise ignored.
func (s *Session) Poll(ctx context.Context) {
	next, err := s.transport.FetchState(ctx, s.gameID)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Warn("Failed to fetch game state", "error", err)
		}
		return
	}

	s.exec(func() {
		if s.store.Current().Equal(next) {
			return
		}
		s.log.Debug("Game state changed on server")
		s.replace(next)
	})
}

// Run polls on a fixed interval until ctx is done. Each poll runs on its own
// goroutine so a hung request never delays the next tick.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.log.Info("Polling started", "interval", s.pollInterval.String())
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Polling stopped")
			return
		case <-ticker.C:
			if s.stopOnTerminal && s.terminal.Load() {
				s.log.Info("Game over, polling stopped")
				return
			}
			go s.Poll(ctx)
		}
	}
}

func (s *Session) replace(next *state.GameState) {
	s.store.Replace(next)
	if next.Terminal() && !s.terminal.Swap(true) {
		s.log.Info("Game over", "winner", next.Winner.Name())
	}
	s.projector.Project(s.store.Current())
}
