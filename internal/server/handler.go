package server

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/phuslu/log"

	"github.com/caskdb/caskdb/cask"
	"github.com/caskdb/caskdb/internal/protocol"
)

// Handler serves the caskdb command set over framed TCP connections.
//
// The engine itself is single-writer with no internal locking, so Handler
// owns the mutex that serializes all store access across client
// connections.
type Handler struct {
	mu  sync.Mutex
	db  *cask.DB
	log log.Logger
}

// NewHandler wraps db for serving. All store access from connections handled
// by the returned Handler is serialized.
func NewHandler(db *cask.DB, logger log.Logger) *Handler {
	return &Handler{db: db, log: logger}
}

// HandleConn decodes and executes commands from one client connection until
// it disconnects.
func (h *Handler) HandleConn(conn net.Conn) {
	defer conn.Close()

	for {
		command, err := protocol.DecodeCommand(conn)
		if err != nil {
			h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client disconnected")
			return
		}

		h.handleCommand(command, conn)
	}
}

func (h *Handler) handleCommand(command *protocol.Command, conn net.Conn) {
	switch strings.ToLower(command.Cmd) {
	case "ping":
		h.reply(conn, "PONG!")
	case "set":
		h.handleSet(conn, command.Key, command.Val)
	case "get":
		h.handleGet(conn, command.Key)
	case "delete":
		h.handleDelete(conn, command.Key)
	case "exists":
		h.handleExists(conn, command.Key)
	case "count":
		h.handleCount(conn)
	case "keys":
		h.handleKeys(conn)
	case "sync":
		h.handleSync(conn)
	case "merge":
		h.handleMerge(conn)
	case "help":
		h.reply(conn, helpText)
	default:
		h.reply(conn, "Invalid Command")
	}
}

func (h *Handler) handleSet(conn net.Conn, key, value string) {
	h.mu.Lock()
	err := h.db.Set(key, value)
	h.mu.Unlock()

	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("set failed")
		h.reply(conn, "Error while setting value")
		return
	}
	h.reply(conn, "ok")
}

func (h *Handler) handleGet(conn net.Conn, key string) {
	h.mu.Lock()
	value, err := h.db.Get(key)
	h.mu.Unlock()

	if errors.Is(err, cask.ErrKeyNotFound) {
		h.reply(conn, "nil")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("get failed")
		h.reply(conn, "Error while reading value")
		return
	}
	h.reply(conn, value)
}

func (h *Handler) handleDelete(conn net.Conn, key string) {
	h.mu.Lock()
	err := h.db.Delete(key)
	h.mu.Unlock()

	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("delete failed")
		h.reply(conn, "Error while deleting value")
		return
	}
	h.reply(conn, "ok")
}

func (h *Handler) handleExists(conn net.Conn, key string) {
	h.mu.Lock()
	ok := h.db.Has(key)
	h.mu.Unlock()

	h.reply(conn, strconv.FormatBool(ok))
}

func (h *Handler) handleCount(conn net.Conn) {
	h.mu.Lock()
	count := h.db.Count()
	h.mu.Unlock()

	h.reply(conn, strconv.Itoa(count))
}

func (h *Handler) handleKeys(conn net.Conn) {
	h.mu.Lock()
	keys := h.db.ListKeys()
	h.mu.Unlock()

	if len(keys) == 0 {
		h.reply(conn, "nil")
		return
	}
	h.reply(conn, strings.Join(keys, "\n"))
}

func (h *Handler) handleSync(conn net.Conn) {
	h.mu.Lock()
	err := h.db.Sync()
	h.mu.Unlock()

	if err != nil {
		h.log.Error().Err(err).Msg("sync failed")
		h.reply(conn, "Error while syncing")
		return
	}
	h.reply(conn, "ok")
}

func (h *Handler) handleMerge(conn net.Conn) {
	h.mu.Lock()
	err := h.db.Merge()
	h.mu.Unlock()

	if err != nil {
		h.log.Error().Err(err).Msg("merge failed")
		h.reply(conn, "Error while merging")
		return
	}
	h.reply(conn, "ok")
}

func (h *Handler) reply(conn net.Conn, msg string) {
	encoded, err := protocol.EncodeResponse(msg)
	if err != nil {
		h.log.Error().Err(err).Msg("encode response failed")
		return
	}

	if _, err := conn.Write(encoded); err != nil {
		h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client disconnected")
	}
}

const helpText = `Available Commands:

PING
  Check if the server is alive.
  Response: PONG!

SET <key> <value>
  Store a value for the given key.
  Overwrites the value if the key already exists.
  Response: ok

GET <key>
  Retrieve the value associated with the key.
  Response: value | nil

DELETE <key>
  Delete the key and its value.
  Response: ok

EXISTS <key>
  Check if a key exists.
  Response: true | false

COUNT
  Return the total number of keys stored.
  Response: integer

KEYS
  List all stored keys in insertion order.
  Response: list of keys | nil

SYNC
  Flush the active segment to disk.
  Response: ok

MERGE
  Compact the store down to live records only.
  Response: ok

HELP
  Show this help message.

EXIT (cli only)
  Close the client connection.`
