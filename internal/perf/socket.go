package perf

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/hashicorp/go-hclog"
)

const (
	dialTimeout     = 500 * time.Millisecond
	responseTimeout = time.Second
	maxResponseSize = 64 * 1024
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("perf: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("perf: CBOR decoder initialization failed: " + err.Error())
	}
}

// wireRequest is the CBOR message written to the perf service socket.
type wireRequest struct {
	Action     string  `cbor:"action"`
	DurationMs int64   `cbor:"duration_ms,omitempty"`
	Handle     int32   `cbor:"handle,omitempty"`
	HintID     int32   `cbor:"hint_id,omitempty"`
	Resources  []int32 `cbor:"resources,omitempty"`
}

// wireResponse is the service's reply to a single wireRequest.
type wireResponse struct {
	OK     bool   `cbor:"ok"`
	Error  string `cbor:"error,omitempty"`
	Handle int32  `cbor:"handle,omitempty"`
}

// ServiceError is returned when the perf service answers ok=false.
type ServiceError struct {
	Action  string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("perf service rejected %q: %s", e.Action, e.Message)
}

// SocketClient sends CBOR requests to the perf-lock service over a unix
// socket. Every call opens a fresh connection, writes one request and
// reads one response.
type SocketClient struct {
	socketPath string
	logger     hclog.Logger
}

// NewSocketClient returns a client for the service listening on socketPath.
func NewSocketClient(socketPath string, logger hclog.Logger) *SocketClient {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SocketClient{socketPath: socketPath, logger: logger}
}

func (c *SocketClient) Acquire(duration time.Duration, req Request) (Handle, error) {
	resp, err := c.call(wireRequest{
		Action:     "acquire",
		DurationMs: duration.Milliseconds(),
		Resources:  req.Packed(),
	})
	if err != nil {
		return NoHandle, err
	}
	return Handle(resp.Handle), nil
}

func (c *SocketClient) Release(h Handle) error {
	_, err := c.call(wireRequest{Action: "release", Handle: int32(h)})
	return err
}

func (c *SocketClient) PerformHint(hintID int32, req Request) error {
	_, err := c.call(wireRequest{Action: "perform_hint", HintID: hintID, Resources: req.Pairs()})
	return err
}

func (c *SocketClient) UndoHint(hintID int32) error {
	_, err := c.call(wireRequest{Action: "undo_hint", HintID: hintID})
	return err
}

func (c *SocketClient) call(request wireRequest) (*wireResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	if err := encMode.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("writing %s request: %w", request.Action, err)
	}
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	conn.SetReadDeadline(time.Now().Add(responseTimeout))
	var response wireResponse
	if err := decMode.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&response); err != nil {
		return nil, fmt.Errorf("reading %s response: %w", request.Action, err)
	}
	if !response.OK {
		return &response, &ServiceError{Action: request.Action, Message: response.Error}
	}

	c.logger.Trace("perf call", "action", request.Action, "handle", response.Handle)
	return &response, nil
}
