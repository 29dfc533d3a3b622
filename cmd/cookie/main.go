package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	cli.Close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", describeError(err))
		os.Exit(1)
	}
}
