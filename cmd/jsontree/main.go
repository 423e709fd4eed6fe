// Command jsontree draws JSON documents as layered node trees.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/jsontree/internal/cli"
	apperrors "github.com/matzehuels/jsontree/pkg/errors"
)

// Exit codes: 1 for failures, 2 for input the user can fix, 130 after Ctrl+C.
const (
	exitFailure   = 1
	exitBadInput  = 2
	exitInterrupt = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupt
	}

	code := apperrors.GetCode(err)
	if code == "" {
		c.Logger.Error(err.Error())
		return exitFailure
	}
	c.Logger.Error(apperrors.UserMessage(err), "code", code)
	if code.UserFixable() {
		return exitBadInput
	}
	return exitFailure
}
