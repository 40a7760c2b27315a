package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// RemoteRequest is the message sent to a websocket runtime.
type RemoteRequest struct {
	Runtime    string     `json:"runtime"`
	EntryPoint string     `json:"entry_point,omitempty"`
	Target     Target     `json:"target"`
	Context    RunContext `json:"context"`
}

// RemoteResponse is the message a websocket runtime answers with.
// Exactly one of Result or Error is expected.
type RemoteResponse struct {
	Result any    `json:"result"`
	Error  string `json:"error,omitempty"`
}

// WebSocketExecutor sends each invocation to a remote runtime over
// a websocket connection and waits for one response message.
type WebSocketExecutor struct {
	dialer      *websocket.Dialer
	dialTimeout time.Duration
}

// NewWebSocketExecutor creates a WebSocketExecutor.
func NewWebSocketExecutor() *WebSocketExecutor {
	return &WebSocketExecutor{
		dialer:      websocket.DefaultDialer,
		dialTimeout: 5 * time.Second,
	}
}

// Name returns "websocket".
func (e *WebSocketExecutor) Name() string { return "websocket" }

// ValidateEnvironment always succeeds; endpoints are checked per
// invocation.
func (e *WebSocketExecutor) ValidateEnvironment(_ context.Context) bool {
	return true
}

// CheckInvocation dials the endpoint.
func (e *WebSocketExecutor) CheckInvocation(
	ctx context.Context, inv *Invocation,
) error {
	conn, err := e.dial(ctx, inv)
	if err != nil {
		return err
	}
	return conn.Close()
}

func (e *WebSocketExecutor) dial(
	ctx context.Context, inv *Invocation,
) (*websocket.Conn, error) {
	if inv.URL == "" {
		return nil, fmt.Errorf(
			"runtime %s has no endpoint url", inv.Runtime,
		)
	}
	dialCtx, cancel := context.WithTimeout(ctx, e.dialTimeout)
	defer cancel()

	conn, resp, err := e.dialer.DialContext(dialCtx, inv.URL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", inv.URL, err)
	}
	return conn, nil
}

// Execute sends one request and reads one response.
func (e *WebSocketExecutor) Execute(
	ctx context.Context,
	inv *Invocation,
	target Target,
	rc RunContext,
) (any, error) {
	conn, err := e.dial(ctx, inv)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
		conn.SetReadDeadline(deadline)
	}

	req := RemoteRequest{
		Runtime:    inv.Runtime,
		EntryPoint: inv.EntryPoint,
		Target:     target,
		Context:    rc,
	}
	if err := conn.WriteJSON(req); err != nil {
		return nil, e.wrap(ctx, "send request", err)
	}

	var resp RemoteResponse
	if err := conn.ReadJSON(&resp); err != nil {
		return nil, e.wrap(ctx, "read response", err)
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}

	conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	return resp.Result, nil
}

func (e *WebSocketExecutor) wrap(
	ctx context.Context, op string, err error,
) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%s: %w", op, err)
}
