package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qnkhuat/quoriterm/pkg/state"
)

const stateDocument = `{
	"id": 1,
	"player1": {"username": "alice", "pawn": {"x": 4, "y": 1}, "fences": 10},
	"player2": {"username": "bob", "pawn": {"x": 4, "y": 8}, "fences": 10},
	"current_player": {"id": 2, "username": "bob"},
	"fences_placed": [],
	"winner": {"id": null, "username": null}
}`

type recorded struct {
	method  string
	token   string
	cookie  string
	reqID   string
	payload map[string]interface{}
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

func newServer(t *testing.T, actionStatus int, actionBody string) (*httptest.Server, *recorder) {
	t.Helper()
	calls := &recorder{}

	record := func(r *http.Request) {
		rec := recorded{
			method: r.Method,
			token:  r.Header.Get(CSRFHeader),
			cookie: r.Header.Get("Cookie"),
			reqID:  r.Header.Get(RequestIDHeader),
		}
		if r.Method == http.MethodPost {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&rec.payload))
		}
		calls.mu.Lock()
		calls.calls = append(calls.calls, rec)
		calls.mu.Unlock()
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/game/{id}/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if mux.Vars(r)["id"] != "1" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, stateDocument)
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/game/{id}/{action:move|fence}/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(actionStatus)
		fmt.Fprint(w, actionBody)
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, calls
}

func newClient(t *testing.T, srv *httptest.Server, short bool) *Client {
	t.Helper()
	c, err := NewClient(Options{
		BaseURL:          srv.URL,
		CSRFToken:        "token-123",
		Cookie:           "sessionid=abc",
		ShortOrientation: short,
	})
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "localhost"})
	require.Error(t, err)
}

func TestFetchState(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv, false)

	s, err := c.FetchState(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, state.Position{X: 4, Y: 1}, s.Player1.Pawn)
	assert.Equal(t, "bob", s.CurrentPlayer.Name())

	require.Len(t, calls.all(), 1)
	assert.Equal(t, "sessionid=abc", calls.all()[0].cookie)
}

func TestFetchState_StatusError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv, false)

	_, err := c.FetchState(context.Background(), "2")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
}

func TestMove_Success(t *testing.T) {
	body := fmt.Sprintf(`{"success": true, "game_state": %s}`, stateDocument)
	srv, calls := newServer(t, http.StatusOK, body)
	c := newClient(t, srv, false)

	res, err := c.Move(context.Background(), "1", 4, 1)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.State)
	assert.Equal(t, state.Position{X: 4, Y: 1}, res.State.Player1.Pawn)

	require.Len(t, calls.all(), 1)
	call := calls.all()[0]
	assert.Equal(t, "token-123", call.token)
	assert.NotEmpty(t, call.reqID)
	assert.Equal(t, map[string]interface{}{"x": float64(4), "y": float64(1)}, call.payload)
}

func TestPlaceFence_Rejected(t *testing.T) {
	srv, calls := newServer(t, http.StatusBadRequest, `{"success": false, "message": "Fence would block all paths"}`)
	c := newClient(t, srv, false)

	res, err := c.PlaceFence(context.Background(), "1", 3, 3, state.Horizontal)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Nil(t, res.State)
	assert.Equal(t, "Fence would block all paths", res.Message)

	require.Len(t, calls.all(), 1)
	assert.Equal(t, "horizontal", calls.all()[0].payload["orientation"])
}

func TestPlaceFence_ShortOrientation(t *testing.T) {
	srv, calls := newServer(t, http.StatusBadRequest, `{"success": false, "message": "nope"}`)
	c := newClient(t, srv, true)

	_, err := c.PlaceFence(context.Background(), "1", 3, 3, state.Vertical)
	require.NoError(t, err)
	assert.Equal(t, "v", calls.all()[0].payload["orientation"])
}

func TestAction_Malformed(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusInternalServerError, `<html>oops</html>`)
		c := newClient(t, srv, false)

		_, err := c.Move(context.Background(), "1", 0, 0)
		var malformed *MalformedResponseError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, http.StatusInternalServerError, malformed.Status)
	})

	t.Run("success without state", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusOK, `{"success": true}`)
		c := newClient(t, srv, false)

		_, err := c.Move(context.Background(), "1", 0, 0)
		var malformed *MalformedResponseError
		require.True(t, errors.As(err, &malformed))
	})
}

func TestAction_TransportFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv, false)
	srv.Close()

	_, err := c.Move(context.Background(), "1", 0, 0)
	require.Error(t, err)
}

func serveDocument(t *testing.T, body string) *httptest.Server {
	t.Helper()
	router := mux.NewRouter()
	router.HandleFunc("/api/game/{id}/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchState_UnknownOrientationStillDecodes(t *testing.T) {
	srv := serveDocument(t, `{
		"id": 1,
		"player1": {"username": "alice", "pawn": {"x": 4, "y": 1}, "fences": 9},
		"player2": {"username": "bob", "pawn": {"x": 4, "y": 8}, "fences": 10},
		"current_player": {"id": 2, "username": "bob"},
		"fences_placed": [{"x": 2, "y": 2, "orientation": "diagonal"}],
		"winner": {"id": null, "username": null}
	}`)
	c := newClient(t, srv, false)

	s, err := c.FetchState(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, state.Position{X: 4, Y: 1}, s.Player1.Pawn)
	require.Len(t, s.FencesPlaced, 1)
	assert.Equal(t, state.Orientation("diagonal"), s.FencesPlaced[0].Orientation)
}

func TestFetchState_NotAnObject(t *testing.T) {
	for _, body := range []string{`null`, `[]`, `"1"`} {
		t.Run(body, func(t *testing.T) {
			c := newClient(t, serveDocument(t, body), false)

			_, err := c.FetchState(context.Background(), "1")
			var malformed *MalformedResponseError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, http.StatusOK, malformed.Status)
		})
	}
}
