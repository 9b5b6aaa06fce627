// Package client connects the daemon to the hint broker over a
// websocket. Hints are read and applied one at a time on the read loop,
// which is what serializes delivery into the arbiter.
package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/scienceol/hintd/internal/clock"
	"github.com/scienceol/hintd/internal/config"
	"github.com/scienceol/hintd/internal/hint"
	"github.com/scienceol/hintd/internal/protocol"
	"github.com/scienceol/hintd/internal/ui"
)

const (
	pingInterval  = 20 * time.Second
	writeTimeout  = 10 * time.Second
	writeChanSize = 64
)

// Dispatcher applies hints. *hint.Arbiter implements it.
type Dispatcher interface {
	Dispatch(hint.Event) bool
	State() hint.State
}

// Client manages the websocket connection to the hint broker.
type Client struct {
	cfg        *config.Config
	dispatcher Dispatcher
	logger     hclog.Logger
	clock      clock.Clock

	mu          sync.Mutex
	conn        *websocket.Conn
	writeCh     chan any
	reconnector *Reconnector

	stopCh chan struct{}
	once   sync.Once
}

// New creates a Client that feeds hints from the broker in cfg to d.
func New(cfg *config.Config, d Dispatcher, logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := clock.Real()
	return &Client{
		cfg:         cfg,
		dispatcher:  d,
		logger:      logger,
		clock:       c,
		reconnector: NewReconnector(c),
		stopCh:      make(chan struct{}),
	}
}

// Stop signals the client to shut down and closes the live connection.
func (c *Client) Stop() {
	c.once.Do(func() {
		close(c.stopCh)
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		c.mu.Unlock()
	})
}

func (c *Client) stopped() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

// send enqueues a message for the write goroutine. Non-blocking: the
// message is dropped if the buffer is full or no connection is active.
func (c *Client) send(v any) {
	c.mu.Lock()
	ch := c.writeCh
	c.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
		c.logger.Warn("write buffer full, dropping message")
	}
}

// writeLoop is the single goroutine that writes to the websocket.
func (c *Client) writeLoop(conn *websocket.Conn, ch <-chan any, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				c.logger.Error("write failed", "error", err)
				return
			}
		}
	}
}

// Run connects to the broker and serves hints, reconnecting with backoff
// until Stop is called.
func (c *Client) Run() error {
	for {
		if c.stopped() {
			return nil
		}

		err := c.connectAndServe()
		if c.stopped() {
			return nil
		}
		if err != nil {
			c.logger.Error("connection lost", "error", err)
			ui.Error("Connection lost: %v", err)
		}

		ui.Info("Reconnecting...")
		if !c.reconnector.Wait(c.stopCh) {
			return nil
		}
	}
}

func (c *Client) connectAndServe() error {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	q := u.Query()
	q.Set("token", c.cfg.Token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	writeCh := make(chan any, writeChanSize)
	writeDone := make(chan struct{})

	c.mu.Lock()
	c.conn = conn
	c.writeCh = writeCh
	c.mu.Unlock()

	go c.writeLoop(conn, writeCh, writeDone)

	defer func() {
		close(writeDone)
		conn.Close()
		c.mu.Lock()
		c.conn = nil
		c.writeCh = nil
		c.mu.Unlock()
	}()

	// A Stop that raced the dial never saw this connection.
	if c.stopped() {
		return nil
	}

	var connected protocol.ConnectedMessage
	if err := conn.ReadJSON(&connected); err != nil {
		return fmt.Errorf("failed to read connected message: %w", err)
	}
	if connected.Type != protocol.TypeConnected {
		return fmt.Errorf("unexpected first message type: %s", connected.Type)
	}
	c.logger.Info("connected to hint broker", "device_id", connected.DeviceID)
	ui.Success("Connected %s", ui.Dim("(device "+connected.DeviceID+")"))

	c.reconnector.Reset()

	c.send(protocol.InfoMessage{
		Type: protocol.TypeInfo,
		Payload: protocol.InfoPayload{
			OS:       fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
			Governor: c.cfg.Tuning.Governor,
			Cores:    c.cfg.Tuning.Cores,
			State:    c.dispatcher.State(),
		},
	})

	pingDone := make(chan struct{})
	defer close(pingDone)
	go c.heartbeatLoop(pingDone)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if c.stopped() {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		var req protocol.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			c.logger.Warn("invalid message", "error", err)
			continue
		}

		switch req.Type {
		case protocol.TypePing:
			c.send(map[string]string{"type": protocol.TypePong})
		case protocol.TypePong:
		default:
			// Applied inline: the next hint is not read until this
			// one has been arbitrated.
			c.send(c.handleRequest(req))
		}
	}
}

func (c *Client) handleRequest(req protocol.Request) protocol.Response {
	resp := protocol.Response{ID: req.ID, Type: req.Type + protocol.ResultSuffix}

	event, err := decodeEvent(req)
	if err != nil {
		c.logger.Warn("malformed hint", "id", req.ID, "type", req.Type, "error", err)
		resp.Error = err.Error()
		return resp
	}
	resp.Handled = c.dispatcher.Dispatch(event)
	c.logger.Debug("hint dispatched", "id", req.ID, "type", req.Type, "handled", resp.Handled)
	return resp
}

// decodeEvent turns a broker request into a hint event. Unknown types
// decode to an event the arbiter reports as not handled.
func decodeEvent(req protocol.Request) (hint.Event, error) {
	event := hint.Event{Kind: hint.Kind(req.Type)}

	switch event.Kind {
	case hint.KindInteraction:
		var p protocol.InteractionPayload
		if err := unmarshalPayload(req.Payload, &p); err != nil {
			return event, err
		}
		event.DurationMs = p.DurationMs
	case hint.KindSustainedPerformance, hint.KindVRMode, hint.KindInteractive:
		var p protocol.TogglePayload
		if err := unmarshalPayload(req.Payload, &p); err != nil {
			return event, err
		}
		event.Enable = p.Enable
	case hint.KindVideoEncode:
		var p protocol.VideoEncodePayload
		if err := unmarshalPayload(req.Payload, &p); err != nil {
			return event, err
		}
		event.Metadata = p.Metadata
	case hint.KindFeature:
		var p protocol.FeaturePayload
		if err := unmarshalPayload(req.Payload, &p); err != nil {
			return event, err
		}
		event.Feature = hint.Feature(p.Feature)
		event.Enable = p.Enable
	}
	return event, nil
}

func unmarshalPayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func (c *Client) heartbeatLoop(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-c.stopCh:
			return
		case <-c.clock.After(pingInterval):
			c.send(map[string]string{"type": protocol.TypePing})
		}
	}
}
