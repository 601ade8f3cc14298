package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	// Cancelled on Ctrl-C so running ffmpeg/ffprobe children are killed with us.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	if err != nil {
		if a.log != nil {
			a.log.Error("vidwebp failed", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
