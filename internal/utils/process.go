package utils

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/datatrails/go-datatrails-common/logger"
)

// ListenForProcessInterruptOrKill blocks until it receives an interrupt (Ctrl+C)
// or termination signal (SIGTERM), then returns.
func ListenForProcessInterruptOrKill(log logger.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Infof("press Ctrl+C to exit")

	sig := <-sigChan
	log.Infof("received %s, shutting down", sig)
}
