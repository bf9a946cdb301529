// Package client provides a client for a caskdb server over TCP.
//
// Example:
//
//	c, err := client.Connect(client.WithPort(6969))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	_, err = c.Set("foo", "bar")
//	val, err := c.Get("foo")
package client
