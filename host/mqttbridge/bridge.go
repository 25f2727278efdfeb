// Package mqttbridge exposes a motor driver board on an MQTT broker.
//
// Commands are accepted on <prefix>/<id>/command, either as a plain name
// ("left", "faster", "s", ...) or as JSON {"command": "left"}. Every line
// the board reports is published as JSON on <prefix>/<id>/status, and a
// retained "online"/"offline" marker is kept on <prefix>/<id>/online.
package mqttbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"vnhdrive/core"
	"vnhdrive/host/board"
	"vnhdrive/host/config"
)

// Topic suffixes
const (
	CommandTopic = "command"
	StatusTopic  = "status"
	OnlineTopic  = "online"
)

// Availability payloads
const (
	Online  = "online"
	Offline = "offline"
)

// DefaultTimeout bounds connect and subscribe
const DefaultTimeout = 5 * time.Second

// ErrEmptyPayload is returned for command messages without content
var ErrEmptyPayload = errors.New("empty command payload")

// Board is the part of board.Board the bridge uses
type Board interface {
	Send(cmd core.Command) error
	Lines() <-chan board.Line
}

// Request is the JSON form of a command message
type Request struct {
	Command string `json:"command"`
}

// Status is published for every line the board sends
type Status struct {
	Line    string `json:"line"`
	Command string `json:"command,omitempty"`
	Status  bool   `json:"status"`
	Time    int64  `json:"time"` // unix milliseconds
}

// Bridge forwards MQTT commands to a board and board lines to MQTT.
type Bridge struct {
	Client  paho.Client
	Board   Board
	Prefix  string
	ID      string
	Timeout time.Duration

	now func() time.Time
}

// New creates a bridge for b. The client should be built with Options so
// that the availability will is registered.
func New(client paho.Client, b Board, prefix, id string) *Bridge {
	return &Bridge{
		Client:  client,
		Board:   b,
		Prefix:  strings.Trim(prefix, "/"),
		ID:      id,
		Timeout: DefaultTimeout,
		now:     time.Now,
	}
}

// Options builds paho client options from cfg for the bridge id
func Options(cfg config.MQTTConfig, id string) *paho.ClientOptions {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker).
		SetClientID("vnhdrive-" + id).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectTimeout(DefaultTimeout).
		SetWill(Topic(cfg.Prefix, id, OnlineTopic), Offline, 1, true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	return opts
}

// NewClient creates an unconnected paho client for the bridge id
func NewClient(cfg config.MQTTConfig, id string) paho.Client {
	return paho.NewClient(Options(cfg, id))
}

// Topic joins prefix, id and suffix into a topic name
func Topic(prefix, id, suffix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return id + "/" + suffix
	}
	return prefix + "/" + id + "/" + suffix
}

// ParseRequest decodes a command message payload
func ParseRequest(payload []byte) (core.Command, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return core.Idle, ErrEmptyPayload
	}

	name := string(payload)
	if payload[0] == '{' {
		var req Request
		if err := json.Unmarshal(payload, &req); err != nil {
			return core.Idle, fmt.Errorf("invalid command payload: %w", err)
		}
		name = strings.TrimSpace(req.Command)
	}

	cmd, err := core.ParseCommand(strings.ToLower(name))
	if err != nil {
		return core.Idle, fmt.Errorf("%q: %w", name, err)
	}
	return cmd, nil
}

// NewStatus builds the status message for a received line
func NewStatus(line board.Line, at time.Time) Status {
	st := Status{
		Line:   line.Text,
		Status: line.Status,
		Time:   at.UnixNano() / int64(time.Millisecond),
	}
	if cmd, ok := commandFor(line.Text); ok {
		st.Command = cmd.String()
	}
	return st
}

func commandFor(text string) (core.Command, bool) {
	for _, cmd := range []core.Command{core.Left, core.Right, core.IncreaseSpeed, core.DecreaseSpeed, core.Stop} {
		if line, _ := cmd.StatusLine(); line == text {
			return cmd, true
		}
	}
	return core.Idle, false
}

// Run connects, subscribes and forwards until ctx is done or the board
// connection ends.
func (b *Bridge) Run(ctx context.Context) error {
	if !b.Client.IsConnected() {
		if err := b.wait(b.Client.Connect()); err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
	}
	defer b.Client.Disconnect(250)

	topic := b.topic(CommandTopic)
	if glog.V(2) {
		glog.Infof("SUB %q", topic)
	}
	if err := b.wait(b.Client.Subscribe(topic, 1, b.handleCommand)); err != nil {
		return fmt.Errorf("failed to subscribe %s: %w", topic, err)
	}
	b.Client.Publish(b.topic(OnlineTopic), 1, true, Online)
	defer b.Client.Publish(b.topic(OnlineTopic), 1, true, Offline)

	lines := b.Board.Lines()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return board.ErrClosed
			}
			b.publish(line)
		}
	}
}

func (b *Bridge) handleCommand(_ paho.Client, msg paho.Message) {
	cmd, err := ParseRequest(msg.Payload())
	if err != nil {
		glog.Warningf("mqtt: %s: %v", msg.Topic(), err)
		return
	}
	if glog.V(2) {
		glog.Infof("mqtt: %s -> %s", msg.Topic(), cmd)
	}
	if err := b.Board.Send(cmd); err != nil {
		glog.Errorf("mqtt: send %s: %v", cmd, err)
	}
}

func (b *Bridge) publish(line board.Line) {
	payload, err := json.Marshal(NewStatus(line, b.now()))
	if err != nil {
		glog.Errorf("mqtt: encode status: %v", err)
		return
	}
	b.Client.Publish(b.topic(StatusTopic), 0, false, payload)
}

func (b *Bridge) topic(suffix string) string {
	return Topic(b.Prefix, b.ID, suffix)
}

func (b *Bridge) wait(token paho.Token) error {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if !token.WaitTimeout(timeout) {
		return context.DeadlineExceeded
	}
	return token.Error()
}
