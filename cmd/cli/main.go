package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/dispatchgrid/internal/app"
	"github.com/specialistvlad/dispatchgrid/internal/cli"
	"github.com/specialistvlad/dispatchgrid/internal/config"
	"github.com/specialistvlad/dispatchgrid/internal/hcl_adapter"
	"github.com/specialistvlad/dispatchgrid/internal/yaml_adapter"
)

// main is the entrypoint for the dispatchgrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, logW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on manifests it cannot load or apply; report those as
	// ordinary errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	loader := config.NewMultiLoader(hcl_adapter.NewLoader(), yaml_adapter.NewLoader())
	dispatchApp := app.NewApp(outW, logW, appConfig, loader)

	return dispatchApp.Run(context.Background())
}
