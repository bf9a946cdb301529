package client

import (
	"fmt"
	"net"

	"github.com/caskdb/caskdb/internal"
	"github.com/caskdb/caskdb/internal/protocol"
)

// Client is a connection to a caskdb server. Each method sends one command
// and returns the server's textual reply.
type Client struct {
	conn net.Conn
}

// Connect dials a caskdb server using the default host and port unless
// overridden by options.
func Connect(opts ...Option) (*Client, error) {
	cfg := internal.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn}, nil
}

func (c *Client) Ping() (string, error) {
	return c.sendCommand("ping", "", "")
}

func (c *Client) Set(key, value string) (string, error) {
	return c.sendCommand("set", key, value)
}

func (c *Client) Get(key string) (string, error) {
	return c.sendCommand("get", key, "")
}

func (c *Client) Delete(key string) (string, error) {
	return c.sendCommand("delete", key, "")
}

func (c *Client) Exists(key string) (string, error) {
	return c.sendCommand("exists", key, "")
}

func (c *Client) Count() (string, error) {
	return c.sendCommand("count", "", "")
}

func (c *Client) Keys() (string, error) {
	return c.sendCommand("keys", "", "")
}

func (c *Client) Sync() (string, error) {
	return c.sendCommand("sync", "", "")
}

func (c *Client) Merge() (string, error) {
	return c.sendCommand("merge", "", "")
}

// Execute sends an arbitrary command, for callers that assemble commands at
// runtime such as the interactive CLI.
func (c *Client) Execute(cmd, key, value string) (string, error) {
	return c.sendCommand(cmd, key, value)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) sendCommand(cmd, key, value string) (string, error) {
	payload, err := protocol.EncodeCommand(cmd, key, value)
	if err != nil {
		return "", err
	}

	if _, err := c.conn.Write(payload); err != nil {
		return "", err
	}

	return protocol.DecodeResponse(c.conn)
}
