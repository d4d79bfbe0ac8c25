// Package gateway serves the game client to remote terminals over SSH.
package gateway

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gliderlabs/ssh"
	gossh "golang.org/x/crypto/ssh"
)

const (
	DefaultAddr        = ":2222"
	DefaultIdleTimeout = 5 * time.Minute
)

// ErrServerClosed is returned by ListenAndServe after Shutdown or Close.
var ErrServerClosed = ssh.ErrServerClosed

type Options struct {
	Addr        string
	IdleTimeout time.Duration
	// HostKey is a path to a PEM private key. When empty an ed25519 key is
	// generated at startup.
	HostKey string
	// ClientPath is the client binary started for every session.
	ClientPath   string
	ClientConfig string
	Logger       *slog.Logger
}

type Server struct {
	*ssh.Server
	clientPath   string
	clientConfig string
	log          *slog.Logger
}

func New(opts Options) (*Server, error) {
	if opts.ClientPath == "" {
		return nil, errors.New("client path is required")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		clientPath:   opts.ClientPath,
		clientConfig: opts.ClientConfig,
		log:          logger.With("component", "gateway"),
	}
	s.Server = &ssh.Server{
		Addr:        opts.Addr,
		IdleTimeout: opts.IdleTimeout,
		Handler:     s.handle,
		PtyCallback: func(ctx ssh.Context, pty ssh.Pty) bool {
			return true
		},
	}

	if opts.HostKey != "" {
		if err := s.SetOption(ssh.HostKeyFile(opts.HostKey)); err != nil {
			return nil, fmt.Errorf("unable to load host key: %w", err)
		}
	} else {
		signer, err := hostSigner()
		if err != nil {
			return nil, err
		}
		s.AddHostKey(signer)
		s.log.Info("Using ephemeral host key", "fingerprint", gossh.FingerprintSHA256(signer.PublicKey()))
	}
	return s, nil
}

func hostSigner() (ssh.Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("unable to generate host key: %w", err)
	}
	signer, err := gossh.NewSignerFromKey(priv)
	if err != nil {
		return nil, fmt.Errorf("unable to create host signer: %w", err)
	}
	return signer, nil
}

// clientArgs builds the client command line. The first word of the ssh
// command, if any, selects the game.
func (s *Server) clientArgs(command []string) []string {
	var args []string
	if s.clientConfig != "" {
		args = append(args, "-config", s.clientConfig)
	}
	if len(command) > 0 && command[0] != "" {
		args = append(args, "-game", command[0])
	}
	return args
}

func (s *Server) handle(sess ssh.Session) {
	nick := petname.Generate(2, "-")
	log := s.log.With("nick", nick, "user", sess.User(), "remote", sess.RemoteAddr().String())

	ptyReq, winCh, isPty := sess.Pty()
	if !isPty {
		io.WriteString(sess, "non-interactive terminals are not supported\n")
		sess.Exit(1)
		return
	}

	cmdCtx, cancelCmd := context.WithCancel(sess.Context())
	defer cancelCmd()

	cmd := exec.CommandContext(cmdCtx, s.clientPath, s.clientArgs(sess.Command())...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("TERM=%s", ptyReq.Term))

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(ptyReq.Window.Height), Cols: uint16(ptyReq.Window.Width)})
	if err != nil {
		log.Error("Failed to start client", "error", err)
		io.WriteString(sess, fmt.Sprintf("failed to initialize pseudo-terminal: %s\n", err))
		sess.Exit(1)
		return
	}
	defer f.Close()
	log.Info("Session started", "command", sess.Command())

	go func() {
		for win := range winCh {
			pty.Setsize(f, &pty.Winsize{Rows: uint16(win.Height), Cols: uint16(win.Width)})
		}
	}()

	go func() {
		io.Copy(f, sess)
	}()
	io.Copy(sess, f)

	cancelCmd()
	if err := cmd.Wait(); err != nil && cmdCtx.Err() == nil {
		log.Warn("Client exited", "error", err)
	}
	log.Info("Session ended")
}
