package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/qnkhuat/quoriterm/pkg/state"
)

const (
	CSRFHeader      = "X-CSRFToken"
	RequestIDHeader = "X-Request-ID"
)

type Options struct {
	// BaseURL is the game server root, e.g. http://localhost:8000.
	BaseURL string
	// CSRFToken is sent verbatim on every write request.
	CSRFToken string
	// Cookie is an optional raw Cookie header identifying the player.
	Cookie string
	// ShortOrientation sends fence orientations as "h"/"v".
	ShortOrientation bool
	HTTPClient       *http.Client
	Logger           *slog.Logger
}

// Client talks to the game server's JSON API.
type Client struct {
	baseURL          *url.URL
	token            string
	cookie           string
	shortOrientation bool
	httpClient       *http.Client
	log              *slog.Logger
}

func NewClient(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url: %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:          u,
		token:            opts.CSRFToken,
		cookie:           opts.Cookie,
		shortOrientation: opts.ShortOrientation,
		httpClient:       httpClient,
		log:              logger.With("component", "api"),
	}, nil
}

func (c *Client) endpoint(gameID state.GameID, action string) string {
	p := fmt.Sprintf("/api/game/%s/", url.PathEscape(string(gameID)))
	if action != "" {
		p += action + "/"
	}
	return c.baseURL.String() + p
}

// FetchState reads the current state document of a game.
func (c *Client) FetchState(ctx context.Context, gameID state.GameID) (*state.GameState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(gameID, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read game state: %w", err)
	}
	s, err := state.Decode(body)
	if err != nil {
		return nil, &MalformedResponseError{Status: resp.StatusCode, Err: err}
	}
	return s, nil
}

// Move asks the server to move the caller's pawn to (x, y).
func (c *Client) Move(ctx context.Context, gameID state.GameID, x, y int) (*ActionResult, error) {
	return c.post(ctx, c.endpoint(gameID, "move"), MoveRequest{X: x, Y: y})
}

// PlaceFence asks the server to place a fence at (x, y).
func (c *Client) PlaceFence(ctx context.Context, gameID state.GameID, x, y int, o state.Orientation) (*ActionResult, error) {
	orientation := string(o)
	if c.shortOrientation {
		orientation = o.Short()
	}
	return c.post(ctx, c.endpoint(gameID, "fence"), FenceRequest{X: x, Y: y, Orientation: orientation})
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}) (*ActionResult, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(CSRFHeader, c.token)
	req.Header.Set(RequestIDHeader, requestID)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	c.log.Debug("Sending action", "url", endpoint, "request_id", requestID, "body", string(b))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var ar ActionResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, &MalformedResponseError{Status: resp.StatusCode, Err: err}
	}
	c.log.Debug("Received action response", "request_id", requestID, "status", resp.StatusCode, "success", ar.Success)

	result := &ActionResult{Success: ar.Success, Message: ar.Message}
	if !ar.Success {
		return result, nil
	}
	if len(ar.GameState) == 0 || bytes.Equal(ar.GameState, []byte("null")) {
		return nil, &MalformedResponseError{Status: resp.StatusCode, Err: errors.New("missing game_state")}
	}
	result.State, err = state.Decode(ar.GameState)
	if err != nil {
		return nil, &MalformedResponseError{Status: resp.StatusCode, Err: err}
	}
	return result, nil
}
