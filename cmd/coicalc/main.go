package main

import (
	"context"
	"fmt"
	"os"

	"github.com/breedbook/coicalc/internal/app"
	apperrors "github.com/breedbook/coicalc/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args[1:], os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(apperrors.ExitErrorConfig)
	}

	exitCode := application.Run(context.Background(), os.Stdout)
	os.Exit(exitCode)
}
