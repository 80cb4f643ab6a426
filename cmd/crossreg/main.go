// Package main provides the entry point for the crossreg CLI tool.
package main

import (
	"context"
	"os"

	"crossreg/cmd/crossreg/app"
)

// Version information populated at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		application.Logger().Debug().Err(err).Msg("Run failed")
		app.ExitOnError(err)
	}
}
