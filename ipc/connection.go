package ipc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nstehr/ironbot/model"
)

var (
	// ErrSessionEnded means the server closed the stream.
	ErrSessionEnded = errors.New("session ended")
	// ErrMalformed means a line could not be decoded.
	ErrMalformed = errors.New("malformed message")
)

// Connection is the bot's side of one game session.
type Connection struct {
	t Transport
}

func NewConnection(t Transport) *Connection {
	return &Connection{t: t}
}

// Recv reads the next non-blank line into v.
func (c *Connection) Recv(v any) error {
	for {
		line, err := c.t.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrSessionEnded
			}
			return fmt.Errorf("read: %w", err)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if err := json.Unmarshal(line, v); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return nil
	}
}

// Send writes v as one JSON line.
func (c *Connection) Send(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return c.t.WriteLine(payload)
}

func (c *Connection) RecvInit() (InitMessage, error) {
	var m InitMessage
	if err := c.Recv(&m); err != nil {
		return m, err
	}
	return m, m.Validate()
}

func (c *Connection) RecvState() (StateMessage, error) {
	var m StateMessage
	err := c.Recv(&m)
	return m, err
}

func (c *Connection) RecvResult() (ResultMessage, error) {
	var m ResultMessage
	err := c.Recv(&m)
	return m, err
}

func (c *Connection) SendHello(name string) error {
	return c.Send(HelloMessage{Name: name})
}

// SendAction encodes and writes a as the turn's command.
func (c *Connection) SendAction(a model.Action) error {
	cmd, err := FromAction(a)
	if err != nil {
		return err
	}
	slog.Debug("sending action", "action", a.String())
	return c.Send(cmd)
}

func (c *Connection) Close() error {
	return c.t.Close()
}
