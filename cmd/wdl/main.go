// Command wdl checks WDL documents and resolves the inputs for running their
// tasks and workflows.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, newApp(), os.Args[1:])
	stop()
	os.Exit(code)
}
