package common

import (
	"os"
	"os/signal"
	"syscall"
)

// Interrupted returns a channel delivering when the process is asked
// to stop. Buffered so a second ctrl-c during a slow shutdown is
// remembered rather than dropped.
func Interrupted() <-chan os.Signal {
	interrupt := make(chan os.Signal, 2)
	signal.Notify(interrupt,
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGQUIT,
	)
	return interrupt
}
