package utils

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/phuslu/log"
)

// ListenForProcessInterruptOrKill blocks until the process receives an
// interrupt (Ctrl+C) or SIGTERM, then returns. Used to keep the daemon
// running until the user requests shutdown.
func ListenForProcessInterruptOrKill() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Info().Msg("press Ctrl+C to exit")

	<-sigChan
}
