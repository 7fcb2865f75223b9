// Package transport maintains the raw TCP connection to the chat server
// and delivers its byte stream, chunk by chunk, to a handler. Chunk
// boundaries are arbitrary and may fall mid-line; framing is the
// handler's concern.
package transport

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/idflores/twitch-irc/internal/logger"
)

const dialTimeout = 10 * time.Second

// Handler receives transport signals.
type Handler interface {
	HandleConnect()
	HandleChunk(chunk []byte)
	HandleDisconnect(err error)
}

// Conn is a single persistent connection to the chat server.
type Conn struct {
	addr   string
	useTLS bool

	mu        sync.Mutex
	conn      net.Conn
	connected bool
	closing   bool
}

// New creates an unconnected transport for the given address.
func New(addr string, useTLS bool) *Conn {
	return &Conn{addr: addr, useTLS: useTLS}
}

// Connect dials the server, signals the handler, and starts the read
// loop. The read loop runs until the connection drops or Close is called.
func (c *Conn) Connect(handler Handler) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return fmt.Errorf("already connected to %s", c.addr)
	}
	c.mu.Unlock()

	var conn net.Conn
	var err error
	if c.useTLS {
		dialer := &net.Dialer{Timeout: dialTimeout}
		conn, err = tls.DialWithDialer(dialer, "tcp", c.addr, nil)
	} else {
		conn, err = net.DialTimeout("tcp", c.addr, dialTimeout)
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.addr, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.closing = false
	c.mu.Unlock()

	logger.Log.Info().Str("addr", c.addr).Bool("tls", c.useTLS).Msg("Transport connected")
	handler.HandleConnect()
	go c.readLoop(handler)
	return nil
}

func (c *Conn) readLoop(handler Handler) {
	buf := make([]byte, 4096)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			handler.HandleChunk(buf[:n])
		}
		if err != nil {
			c.mu.Lock()
			c.connected = false
			closing := c.closing
			c.mu.Unlock()

			if closing || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				handler.HandleDisconnect(nil)
			} else {
				handler.HandleDisconnect(err)
			}
			return
		}
	}
}

// Write transmits raw bytes on the connection.
func (c *Conn) Write(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return fmt.Errorf("not connected")
	}
	if _, err := c.conn.Write(p); err != nil {
		return fmt.Errorf("write to %s: %w", c.addr, err)
	}
	return nil
}

// Connected reports whether the connection is established.
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close shuts the connection down. The read loop signals the handler with
// a clean disconnect.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	c.closing = true
	c.connected = false
	return c.conn.Close()
}
