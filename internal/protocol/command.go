package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Command is one decoded client request: a command name plus optional key
// and value arguments. Which arguments are meaningful depends on the command
// (GET uses Key, SET uses Key and Val, COUNT uses neither).
type Command struct {
	Cmd string
	Key string
	Val string
}

// EncodeCommand serializes a request into its wire form:
//
//	<cmd_len:uint8><key_len:uint32><val_len:uint32><cmd><key><val>
//
// Integer fields are big-endian. The command name is limited to 255 bytes.
// The returned slice is ready to be written to a connection in one call.
func EncodeCommand(cmd, key, val string) ([]byte, error) {
	if len(cmd) > 255 {
		return nil, fmt.Errorf("command name is %d bytes, limit is 255", len(cmd))
	}

	buf := &bytes.Buffer{}

	buf.WriteByte(uint8(len(cmd)))
	if err := binary.Write(buf, binary.BigEndian, uint32(len(key))); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.BigEndian, uint32(len(val))); err != nil {
		return nil, err
	}

	buf.WriteString(cmd)
	buf.WriteString(key)
	buf.WriteString(val)

	return buf.Bytes(), nil
}

// DecodeCommand reads one request off the wire, blocking until the full
// frame has arrived or the connection fails.
func DecodeCommand(r io.Reader) (*Command, error) {
	var cmdLen uint8
	var keyLen, valLen uint32

	if err := binary.Read(r, binary.BigEndian, &cmdLen); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &keyLen); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &valLen); err != nil {
		return nil, err
	}

	payload := make([]byte, int(cmdLen)+int(keyLen)+int(valLen))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	return &Command{
		Cmd: string(payload[:cmdLen]),
		Key: string(payload[cmdLen : uint32(cmdLen)+keyLen]),
		Val: string(payload[uint32(cmdLen)+keyLen:]),
	}, nil
}
