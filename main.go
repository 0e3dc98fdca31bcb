package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/bleemesser/docsort/util"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := util.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nRun 'docsort help' for usage.\n", err)
		stop()
		os.Exit(1)
	}
}
