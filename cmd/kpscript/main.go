package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/carved4/go-kpscript/internal/log"
	"github.com/carved4/go-kpscript/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	log.Sync()

	if err != nil {
		ui.PrintError("x", fmt.Sprintf("error: %v", err))
		os.Exit(1)
	}
}
