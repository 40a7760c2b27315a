package executor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.polyglot/pkg/example"
)

// newRemoteRuntime starts a websocket runtime that answers every
// request with handle's response.
func newRemoteRuntime(
	t *testing.T,
	handle func(req map[string]any) RemoteResponse,
) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer conn.Close()

			var req map[string]any
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			_ = conn.WriteJSON(handle(req))
		},
	))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketExecutor_Execute(t *testing.T) {
	var seen map[string]any
	url := newRemoteRuntime(t, func(req map[string]any) RemoteResponse {
		seen = req
		ctx := req["context"].(map[string]any)
		return RemoteResponse{Result: ctx["a"].(float64) + ctx["b"].(float64)}
	})

	e := NewWebSocketExecutor()
	inv := &Invocation{Runtime: "remote", URL: url, EntryPoint: "add"}
	require.NoError(t, e.CheckInvocation(context.Background(), inv))

	got, err := e.Execute(
		context.Background(), inv,
		Target{Runtime: "remote", Example: 0},
		SequentialContext(example.New(example.OpAdd, 2, 3)),
	)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)

	assert.Equal(t, "remote", seen["runtime"])
	assert.Equal(t, "add", seen["entry_point"])
	assert.Equal(t,
		map[string]any{"runtime": "remote", "example": 0.0},
		seen["target"],
	)
}

func TestWebSocketExecutor_RemoteError(t *testing.T) {
	url := newRemoteRuntime(t, func(map[string]any) RemoteResponse {
		return RemoteResponse{Error: "Error: division by zero"}
	})

	_, err := NewWebSocketExecutor().Execute(
		context.Background(), &Invocation{Runtime: "remote", URL: url},
		Target{}, SequentialContext(example.New(example.OpDiv, 1, 0)),
	)
	assert.EqualError(t, err, "Error: division by zero")
}

func TestWebSocketExecutor_Batch(t *testing.T) {
	url := newRemoteRuntime(t, func(req map[string]any) RemoteResponse {
		ctx := req["context"].(map[string]any)
		return RemoteResponse{Result: len(ctx["examples"].([]any))}
	})

	got, err := NewWebSocketExecutor().Execute(
		context.Background(), &Invocation{Runtime: "remote", URL: url},
		BatchTarget("remote"),
		BatchContext([]example.Example{
			example.New(example.OpAdd, 1, 2),
			example.New(example.OpAdd, 3, 4),
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestWebSocketExecutor_CheckInvocation_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	e := NewWebSocketExecutor()
	assert.Error(t, e.CheckInvocation(context.Background(),
		&Invocation{Runtime: "remote", URL: url}))
	assert.Error(t, e.CheckInvocation(context.Background(),
		&Invocation{Runtime: "remote"}))
}
