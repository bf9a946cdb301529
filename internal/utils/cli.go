package utils

import (
	"errors"
	"flag"
	"fmt"

	"github.com/kballard/go-shellquote"

	"github.com/caskdb/caskdb/cask"
	"github.com/caskdb/caskdb/internal"
)

const DefaultDirectoryPath = "./caskdb-data"

// HandleCLIInputs parses the server flags: database directory, segment
// rollover threshold, and TCP listen port.
func HandleCLIInputs() (dir *string, maxLogSize *int, port *int) {
	dir = flag.String("dir", DefaultDirectoryPath, "Database directory")
	maxLogSize = flag.Int("maxlogsize", cask.DefaultMaxLogSize,
		fmt.Sprintf("Segment rollover threshold in bytes (%d-%d)", cask.MinLogSize, cask.MaxLogSize))
	port = flag.Int("port", internal.DefaultPort, "Port to use for the TCP server")
	flag.Parse()

	return dir, maxLogSize, port
}

// SplitCommandLine splits one REPL line into command, key, and value using
// shell quoting rules, so values containing spaces can be passed quoted.
func SplitCommandLine(line string) (cmd, key, value string, err error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return "", "", "", err
	}

	switch len(words) {
	case 0:
		return "", "", "", errors.New("empty command")
	case 1:
		return words[0], "", "", nil
	case 2:
		return words[0], words[1], "", nil
	case 3:
		return words[0], words[1], words[2], nil
	default:
		return "", "", "", fmt.Errorf("too many arguments: got %d, want at most 3", len(words))
	}
}
