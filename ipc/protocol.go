package ipc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/gorilla/websocket"
)

// maxLineLength bounds a single message. Init lines carry the full map,
// so this is generous.
const maxLineLength = 16 << 20

// Transport moves whole JSON documents. ReadLine returns io.EOF once the
// peer is gone.
type Transport interface {
	ReadLine() ([]byte, error)
	WriteLine(line []byte) error
	Close() error
}

// LineTransport frames messages with a trailing newline over any byte
// stream.
type LineTransport struct {
	r *bufio.Reader
	w io.Writer
	c io.Closer
}

// NewLineTransport wraps a reader and writer. c, when non-nil, is closed
// by Close.
func NewLineTransport(r io.Reader, w io.Writer, c io.Closer) *LineTransport {
	return &LineTransport{r: bufio.NewReaderSize(r, 64<<10), w: w, c: c}
}

func (t *LineTransport) ReadLine() ([]byte, error) {
	var line []byte
	for {
		chunk, isPrefix, err := t.r.ReadLine()
		if err != nil {
			if len(line) > 0 && errors.Is(err, io.EOF) {
				return line, nil
			}
			return nil, err
		}
		line = append(line, chunk...)
		if len(line) > maxLineLength {
			return nil, fmt.Errorf("%w: line exceeds %d bytes", ErrMalformed, maxLineLength)
		}
		if !isPrefix {
			return line, nil
		}
	}
}

// WriteLine writes line and its terminator in one call so a peer never
// sees a partial message.
func (t *LineTransport) WriteLine(line []byte) error {
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, bytes.TrimRight(line, "\n")...)
	buf = append(buf, '\n')
	if _, err := t.w.Write(buf); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}

func (t *LineTransport) Close() error {
	if t.c == nil {
		return nil
	}
	return t.c.Close()
}

// WebSocketTransport carries one JSON document per text frame.
type WebSocketTransport struct {
	conn *websocket.Conn
}

func NewWebSocketTransport(conn *websocket.Conn) *WebSocketTransport {
	return &WebSocketTransport{conn: conn}
}

func (t *WebSocketTransport) ReadLine() ([]byte, error) {
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return bytes.TrimRight(data, "\n"), nil
}

func (t *WebSocketTransport) WriteLine(line []byte) error {
	if err := t.conn.WriteMessage(websocket.TextMessage, line); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (t *WebSocketTransport) Close() error {
	return t.conn.Close()
}

// Open dials the transport named by addr: "stdio" (or empty), "unix:<path>", or a
// ws:// or wss:// URL.
func Open(ctx context.Context, addr string) (Transport, error) {
	switch {
	case addr == "" || addr == "stdio":
		return NewLineTransport(os.Stdin, os.Stdout, os.Stdin), nil
	case strings.HasPrefix(addr, "unix:"):
		path := strings.TrimPrefix(addr, "unix:")
		var d net.Dialer
		conn, err := d.DialContext(ctx, "unix", path)
		if err != nil {
			return nil, fmt.Errorf("dial unix socket %s: %w", path, err)
		}
		return NewLineTransport(conn, conn, conn), nil
	case strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://"):
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
		if err != nil {
			return nil, fmt.Errorf("dial websocket %s: %w", addr, err)
		}
		return NewWebSocketTransport(conn), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", addr)
	}
}
