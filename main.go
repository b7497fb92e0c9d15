// ./main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/formpilot-cli/cmd"
)

// main is the entry point for the formpilot CLI application.
func main() {
	// A signal-aware context lets Ctrl-C abort browser work mid-run instead
	// of leaving an orphaned chrome process behind.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
