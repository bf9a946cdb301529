package client

import "github.com/caskdb/caskdb/internal"

// Option adjusts the connection settings used by Connect.
type Option func(*internal.Config)

func WithHost(host string) Option {
	return func(c *internal.Config) {
		c.Host = host
	}
}

func WithPort(port int) Option {
	return func(c *internal.Config) {
		c.Port = port
	}
}
