package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudposse/artifactor/cmd"
	errUtils "github.com/cloudposse/artifactor/errors"
	log "github.com/cloudposse/artifactor/pkg/logger"
)

func main() {
	errUtils.OsExit(run())
}

// run executes the CLI and returns the process exit code.
// SIGINT and SIGTERM cancel the context so running commands are stopped.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	if err == nil {
		return 0
	}

	formatted := errUtils.Format(err, errUtils.DefaultFormatterConfig())
	os.Stderr.WriteString(formatted + "\n")

	exitCode := errUtils.GetExitCode(err)
	log.Debug("Exiting with exit code", "code", exitCode)
	return exitCode
}
